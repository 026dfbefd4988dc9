package config

import (
	"fmt"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"openhours/pkg/hours"
)

// decodeDefinition walks the "schedule" mapping in source order.
//
// Reserved keys: timezone, overflow, exceptions. Every other key is a
// weekday key. A day value is one of:
//
//	monday: ["09:00-12:00", "13:00-18:00"]
//	tuesday: "09:00-17:00"
//	wednesday: [{hours: "09:00-12:00", data: {staff: 2}}]
//	thursday: {hours: ["09:00-12:00"], data: "short day"}
//	sunday: ~
func decodeDefinition(n *yaml.Node) (hours.Definition, error) {
	var def hours.Definition
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return def, nil
	}
	if n.Kind != yaml.MappingNode {
		return def, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch strings.ToLower(strings.TrimSpace(k.Value)) {
		case "timezone":
			z, err := decodeZone(v)
			if err != nil {
				return def, err
			}
			def.Timezone = z
		case "overflow":
			if err := v.Decode(&def.Overflow); err != nil {
				return def, fmt.Errorf("overflow: %w", err)
			}
		case "exceptions":
			ex, err := decodeEntries(v)
			if err != nil {
				return def, fmt.Errorf("exceptions: %w", err)
			}
			def.Exceptions = ex
		default:
			dd, err := decodeDay(v)
			if err != nil {
				return def, fmt.Errorf("%s: %w", k.Value, err)
			}
			def.Days = append(def.Days, hours.DayEntry{Key: k.Value, Hours: dd})
		}
	}
	return def, nil
}

func decodeZone(n *yaml.Node) (hours.ZoneDefinition, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return hours.ZoneDefinition{}, nil
		}
		return hours.ZoneDefinition{Input: n.Value}, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if v := n.Content[i+1]; v.Kind != yaml.ScalarNode {
				return hours.ZoneDefinition{}, fmt.Errorf("timezone.%s: %w", n.Content[i].Value, hours.ErrInvalidTimezone)
			}
		}
		var z hours.ZoneDefinition
		if err := n.Decode(&z); err != nil {
			return z, fmt.Errorf("timezone: %w", err)
		}
		return z, nil
	default:
		return hours.ZoneDefinition{}, fmt.Errorf("timezone: %w", hours.ErrInvalidTimezone)
	}
}

func decodeEntries(n *yaml.Node) ([]hours.DayEntry, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	out := make([]hours.DayEntry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		dd, err := decodeDay(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k.Value, err)
		}
		out = append(out, hours.DayEntry{Key: k.Value, Hours: dd})
	}
	return out, nil
}

func decodeDay(n *yaml.Node) (hours.DayDefinition, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" || strings.TrimSpace(n.Value) == "" {
			return hours.DayDefinition{}, nil
		}
		return hours.Hours(n.Value), nil
	case yaml.SequenceNode:
		ranges, err := decodeRanges(n)
		return hours.DayDefinition{Ranges: ranges}, err
	case yaml.MappingNode:
		var dd hours.DayDefinition
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			switch k.Value {
			case "hours":
				switch v.Kind {
				case yaml.SequenceNode:
					ranges, err := decodeRanges(v)
					if err != nil {
						return dd, err
					}
					dd.Ranges = ranges
				case yaml.ScalarNode:
					if v.Tag != "!!null" && strings.TrimSpace(v.Value) != "" {
						dd.Ranges = []hours.RangeDefinition{{Hours: v.Value}}
					}
				default:
					return dd, fmt.Errorf("line %d: hours must be a string or a list", v.Line)
				}
			case "data":
				data, err := decodeData(v)
				if err != nil {
					return dd, err
				}
				dd.Data = data
			default:
				return dd, fmt.Errorf("line %d: unknown field %q", k.Line, k.Value)
			}
		}
		return dd, nil
	default:
		return hours.DayDefinition{}, fmt.Errorf("line %d: unsupported value", n.Line)
	}
}

func decodeRanges(n *yaml.Node) ([]hours.RangeDefinition, error) {
	out := make([]hours.RangeDefinition, 0, len(n.Content))
	for _, item := range n.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, hours.RangeDefinition{Hours: item.Value})
		case yaml.MappingNode:
			var rd hours.RangeDefinition
			for i := 0; i+1 < len(item.Content); i += 2 {
				k, v := item.Content[i], item.Content[i+1]
				switch k.Value {
				case "hours":
					if v.Kind != yaml.ScalarNode {
						return nil, fmt.Errorf("line %d: range hours must be a string", v.Line)
					}
					rd.Hours = v.Value
				case "data":
					data, err := decodeData(v)
					if err != nil {
						return nil, err
					}
					rd.Data = data
				default:
					return nil, fmt.Errorf("line %d: unknown field %q", k.Line, k.Value)
				}
			}
			out = append(out, rd)
		default:
			return nil, fmt.Errorf("line %d: unsupported range", item.Line)
		}
	}
	return out, nil
}

func decodeData(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	return normalizeYAML(v), nil
}
