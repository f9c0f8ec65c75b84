package diag

import (
	"errors"
	"fmt"
)

// Reporter receives finished messages in emission order.
type Reporter interface {
	Report(msg Message) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Message) error

func (f ReporterFunc) Report(msg Message) error { return f(msg) }

// Null discards every message.
type Null struct{}

func (Null) Report(Message) error { return nil }

// ReportError wraps a failure of the diagnostic sink itself.
// It is fatal for a whole lint run.
type ReportError struct {
	Err error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("unable to report diagnostic: %v", e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }

// Wrap returns err as a *ReportError unless it already is one.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var re *ReportError
	if errors.As(err, &re) {
		return err
	}
	return &ReportError{Err: err}
}
