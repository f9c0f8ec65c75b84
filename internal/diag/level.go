package diag

import (
	"fmt"
	"strings"
)

// Level is the severity of a Message, Annotation or footer.
type Level uint8

const (
	Error Level = iota
	Warning
	Info
	Note
	Help
)

var levelNames = [...]string{
	Error:   "error",
	Warning: "warning",
	Info:    "info",
	Note:    "note",
	Help:    "help",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a lowercase level name back into a Level.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(name, s) {
			return Level(i), nil
		}
	}
	return Error, fmt.Errorf("invalid annotation level: %q (expected: error|warning|info|note|help)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if int(l) >= len(levelNames) {
		return nil, fmt.Errorf("invalid annotation level %d", l)
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
