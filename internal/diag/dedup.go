package diag

import "sync"

type dedupKey struct {
	id     string
	level  Level
	title  string
	origin string
	line   int
}

// Dedup wraps another Reporter and drops repeated messages with the same id,
// level, title and first snippet position. Messages without a snippet have
// no position and are always forwarded.
type Dedup struct {
	next Reporter

	mu   sync.Mutex
	seen map[dedupKey]struct{}
}

// NewDedup returns a Reporter forwarding unique messages to next.
func NewDedup(next Reporter) *Dedup {
	return &Dedup{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *Dedup) Report(msg Message) error {
	if len(msg.Snippets) == 0 {
		return r.next.Report(msg)
	}
	origin, line := position(msg)
	key := dedupKey{id: msg.ID, level: msg.Level, title: msg.Title, origin: origin, line: line}

	r.mu.Lock()
	_, dup := r.seen[key]
	r.seen[key] = struct{}{}
	r.mu.Unlock()

	if dup {
		return nil
	}
	return r.next.Report(msg)
}
