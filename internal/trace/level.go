package trace

import (
	"fmt"
	"strings"
)

// Level controls how much of a run is traced.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // phases kept in memory, shown only when a run fails
	LevelPhase               // run, document and pipeline phases
	LevelDetail              // plus individual fetches
	LevelDebug               // plus every rule invocation
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a level name. The empty string means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(s)
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("unknown level %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// finest is the finest scope each level records.
var finest = [...]Scope{LevelPhase: ScopePhase, LevelDetail: ScopeFetch, LevelDebug: ScopeRule}

// Records reports whether events of scope are kept at level l. LevelError
// records nothing on its own; callers run a ring at LevelPhase instead.
func (l Level) Records(scope Scope) bool {
	return int(l) < len(finest) && scope <= finest[l]
}
