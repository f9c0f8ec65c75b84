package diag

import "sync"

// Counts is a tally of reported messages per level.
type Counts struct {
	Error   int `json:"error"`
	Warning int `json:"warning"`
	Info    int `json:"info"`
	Note    int `json:"note"`
	Help    int `json:"help"`
}

// Total returns the sum of all levels.
func (c Counts) Total() int {
	return c.Error + c.Warning + c.Info + c.Note + c.Help
}

// Count forwards messages to Inner and tallies them by level.
type Count struct {
	Inner Reporter

	mu     sync.Mutex
	counts Counts
}

// NewCount wraps inner.
func NewCount(inner Reporter) *Count {
	return &Count{Inner: inner}
}

// Report counts msg, then forwards it.
func (c *Count) Report(msg Message) error {
	c.mu.Lock()
	switch msg.Level {
	case Error:
		c.counts.Error++
	case Warning:
		c.counts.Warning++
	case Info:
		c.counts.Info++
	case Note:
		c.counts.Note++
	case Help:
		c.counts.Help++
	}
	c.mu.Unlock()

	if c.Inner == nil {
		return nil
	}
	return c.Inner.Report(msg)
}

// Counts returns a snapshot of the tally.
func (c *Count) Counts() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}
