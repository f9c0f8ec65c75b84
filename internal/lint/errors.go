package lint

import (
	"errors"
	"fmt"

	"eipw/internal/diag"
)

var (
	// ErrDuplicateSlug is returned when a slug is registered twice.
	ErrDuplicateSlug = errors.New("lint: duplicate slug")
	// ErrUnknownSlug is returned when allowing a slug that is not registered.
	ErrUnknownSlug = errors.New("lint: unknown slug")
	// ErrNoLints is returned by Run when no rule is active.
	ErrNoLints = errors.New("lint: no lints activated")
	// ErrNoSources is returned by Run when nothing was queued for checking.
	ErrNoSources = errors.New("lint: no sources given")
	// ErrNotRequested is returned by Context lookups for documents no rule
	// asked for during discovery.
	ErrNotRequested = errors.New("lint: document was not requested during discovery")
	// ErrAmbiguousProposal means both layouts of a proposal exist.
	ErrAmbiguousProposal = errors.New("ambiguous proposal")
	// ErrOriginlessFetch is the error of a rule that requested another
	// document while checking a source with no origin.
	ErrOriginlessFetch = errors.New("lint: sources without an origin cannot fetch other documents")
)

// RuleError is an internal failure of one rule on one document, such as an
// invalid pattern in its configuration. It never stops other rules.
type RuleError struct {
	Slug   string
	Origin string
	Phase  Phase
	Err    error
}

func (e *RuleError) Error() string {
	origin := e.Origin
	if origin == "" {
		origin = "<string>"
	}
	return fmt.Sprintf("lint `%s` failed during %s of `%s`: %v", e.Slug, e.Phase, origin, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// ParseError means a document could not be split or its preamble parsed.
// Messages holds the diagnostics describing the failure.
type ParseError struct {
	Origin   string
	Messages []diag.Message
}

func (e *ParseError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("unable to parse `%s`", e.Origin)
	}
	return fmt.Sprintf("unable to parse `%s`: %s", e.Origin, e.Messages[0].Title)
}

// SourceError means a queued source could not be read.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("unable to read source `%s`: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// isFatal reports whether err must abort the whole run.
func isFatal(err error) bool {
	var re *diag.ReportError
	return errors.As(err, &re)
}
