package diag

import (
	"fmt"
	"sync"
)

// HelpFunc produces the help text shown for a message id.
type HelpFunc func(id string) (string, error)

// AdditionalHelp appends a Help footer to the first message seen for each id.
// Messages without an id pass through untouched.
type AdditionalHelp struct {
	inner Reporter
	help  HelpFunc

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewAdditionalHelp wraps inner.
func NewAdditionalHelp(inner Reporter, help HelpFunc) *AdditionalHelp {
	return &AdditionalHelp{
		inner: inner,
		help:  help,
		seen:  make(map[string]struct{}),
	}
}

// Report forwards msg, adding a footer on the first occurrence of its id.
func (r *AdditionalHelp) Report(msg Message) error {
	if msg.ID != "" && r.firstTime(msg.ID) {
		text, err := r.help(msg.ID)
		if err != nil {
			return &ReportError{Err: fmt.Errorf("help for `%s`: %w", msg.ID, err)}
		}
		msg = msg.Clone().WithFooter(Help.Title(text))
	}
	return r.inner.Report(msg)
}

func (r *AdditionalHelp) firstTime(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[id]; ok {
		return false
	}
	r.seen[id] = struct{}{}
	return true
}
