package diagfmt

import (
	"fmt"
	"strings"
)

// Format selects how diagnostics are written.
type Format uint8

const (
	// FormatText renders annotated snippets for humans.
	FormatText Format = iota
	// FormatShort prints one `origin:line: level[id]: title` line per message.
	FormatShort
	// FormatJSON writes a JSON array of messages once the run is over.
	FormatJSON
	// FormatMsgpack streams msgpack-encoded messages.
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatShort:
		return "short"
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "short":
		return FormatShort, nil
	case "json":
		return FormatJSON, nil
	case "msgpack":
		return FormatMsgpack, nil
	default:
		return FormatText, fmt.Errorf("invalid format %q (expected: text|short|json|msgpack)", s)
	}
}

// PathMode specifies how snippet origins are displayed.
type PathMode uint8

const (
	// PathModeAsIs prints origins unchanged.
	PathModeAsIs PathMode = iota
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string // used by PathModeRelative
	TabWidth int    // 0 means 4
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Indent    string // empty for compact output
	Formatted bool   // include the plain-text rendering of each message
	Pretty    PrettyOpts
}
