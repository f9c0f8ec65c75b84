package diag

import (
	"sort"
	"sync"
)

// Bag collects messages in memory. The zero value is ready to use.
type Bag struct {
	mu    sync.Mutex
	items []Message
}

// Report appends msg.
func (b *Bag) Report(msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, msg)
	return nil
}

// Len returns the number of collected messages.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the collected messages.
func (b *Bag) Items() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.items...)
}

// IDs returns the id of every collected message in order.
func (b *Bag) IDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.items))
	for i, m := range b.items {
		out[i] = m.ID
	}
	return out
}

// HasErrors reports whether any collected message is at Error level.
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].Level == Error {
			return true
		}
	}
	return false
}

// Reset drops all collected messages.
func (b *Bag) Reset() {
	b.mu.Lock()
	b.items = nil
	b.mu.Unlock()
}

// Sort orders messages by origin, line, level and id for stable output.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		oi, li := position(b.items[i])
		oj, lj := position(b.items[j])
		if oi != oj {
			return oi < oj
		}
		if li != lj {
			return li < lj
		}
		if b.items[i].Level != b.items[j].Level {
			return b.items[i].Level < b.items[j].Level
		}
		return b.items[i].ID < b.items[j].ID
	})
}

func position(m Message) (string, int) {
	if len(m.Snippets) == 0 {
		return "", 0
	}
	return m.Snippets[0].Origin, m.Snippets[0].LineStart
}
