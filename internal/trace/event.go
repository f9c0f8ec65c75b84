package trace

import "time"

// Kind says whether an event opens or closes a span.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeRun      Scope = iota + 1 // one Linter.Run invocation
	ScopeDocument                  // one source document
	ScopePhase                     // parse, discover, fetch, modify, lint
	ScopeFetch                     // a single fetched resource
	ScopeRule                      // a single rule invocation
)

var scopeNames = [...]string{ScopeRun: "run", ScopeDocument: "document", ScopePhase: "phase", ScopeFetch: "fetch", ScopeRule: "rule"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one end of a span.
type Event struct {
	Time     time.Time
	Seq      uint64 // order of emission across all tracers
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Name     string // such as "discover" or "rule:preamble-trim"
	Detail   string
	Extra    map[string]string
}
