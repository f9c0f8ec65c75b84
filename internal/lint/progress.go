package lint

import "time"

// Status captures progress of one document.
type Status string

const (
	// StatusQueued indicates the document is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the document is in Event.Phase.
	StatusWorking Status = "working"
	// StatusDone indicates the document finished.
	StatusDone Status = "done"
	// StatusError indicates the document could not be parsed or a rule failed.
	StatusError Status = "error"
)

// Event reports progress for a document (or for the whole run when Origin is
// empty).
type Event struct {
	Origin  string
	Phase   Phase
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent is called from the goroutine
// running Linter.Run.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
