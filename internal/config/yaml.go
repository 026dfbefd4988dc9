package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	yaml "go.yaml.in/yaml/v3"

	logx "openhours/pkg/logx"
)

// parseConfigBytes decodes a config file. JSON and JSONC are stripped of
// comments first; JSON is valid YAML, so both formats then share the
// yaml.Node path, which keeps the key order of the schedule section.
//
// Every section except "schedule" goes through the strict JSON decoder
// (DisallowUnknownFields).
func parseConfigBytes(path string, data []byte) (*Config, error) {
	src, _ := normalizeSource(path, data)

	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	var cfg Config
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &cfg, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: top level must be a mapping", filepath.Base(path))
	}

	rest := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var schedule *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Value == "schedule" {
			schedule = v
			continue
		}
		rest.Content = append(rest.Content, k, v)
	}

	jb, err := nodeToJSON(rest)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if lvl := strings.TrimSpace(cfg.Logging.Level); lvl != "" {
		if _, err := logx.ParseLevel(lvl); err != nil {
			return nil, fmt.Errorf("logging.level: %w", err)
		}
	}

	if schedule != nil {
		def, err := decodeDefinition(schedule)
		if err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
		cfg.Schedule = def
	}
	return &cfg, nil
}

// normalizeSource returns YAML-parseable bytes and the detected format.
func normalizeSource(path string, data []byte) ([]byte, string) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return data, "yaml"
	default:
		return jsonc.ToJSON(data), "json"
	}
}

func nodeToJSON(n *yaml.Node) ([]byte, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	j, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return nil, fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, nil
}

// normalizeYAML ensures all map keys are strings so the result can be JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = normalizeYAML(v)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}
