package hours

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LocationLoader resolves a timezone name, like time.LoadLocation.
type LocationLoader func(name string) (*time.Location, error)

// Zone anchors a schedule in time.
//
// Input is the location schedule hours are read in; instants are projected
// into it before any lookup. Output, when set, is the location results are
// returned in. A nil Input reads each instant in its own location.
type Zone struct {
	Input  *time.Location
	Output *time.Location
}

var reOffset = regexp.MustCompile(`^([+-])(\d{2}):(\d{2})$`)

// ParseZone resolves a zone name or a "+HH:MM" / "-HH:MM" offset. An empty
// name yields a nil location.
func ParseZone(name string, load LocationLoader) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	if m := reOffset.FindStringSubmatch(name); m != nil {
		hh, _ := strconv.Atoi(m[2])
		mm, _ := strconv.Atoi(m[3])
		if hh > 14 || mm > 59 {
			return nil, fmt.Errorf("%w: offset %q out of range", ErrInvalidTimezone, name)
		}
		secs := (hh*60 + mm) * 60
		if m[1] == "-" {
			secs = -secs
		}
		return time.FixedZone(name, secs), nil
	}
	if load == nil {
		load = time.LoadLocation
	}
	loc, err := load(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

func newZone(def ZoneDefinition, load LocationLoader) (Zone, error) {
	in, err := ParseZone(def.Input, load)
	if err != nil {
		return Zone{}, err
	}
	out, err := ParseZone(def.Output, load)
	if err != nil {
		return Zone{}, err
	}
	return Zone{Input: in, Output: out}, nil
}

// project converts t into the input location.
func (z Zone) project(t time.Time) time.Time {
	if z.Input == nil {
		return t
	}
	return t.In(z.Input)
}

// result converts a found instant into the output location, falling back to
// the location of the instant the caller passed in.
func (z Zone) result(t time.Time, callerLoc *time.Location) time.Time {
	if z.Output != nil {
		return t.In(z.Output)
	}
	if callerLoc != nil {
		return t.In(callerLoc)
	}
	return t
}

func (z Zone) String() string {
	switch {
	case z.Input == nil && z.Output == nil:
		return "local"
	case z.Output == nil:
		return z.Input.String()
	case z.Input == nil:
		return "local>" + z.Output.String()
	default:
		return z.Input.String() + ">" + z.Output.String()
	}
}
