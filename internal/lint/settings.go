package lint

import "eipw/internal/diag"

// Settings is per-document state that modifiers may change before rules run.
type Settings struct {
	DefaultAnnotationLevel diag.Level
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{DefaultAnnotationLevel: diag.Error}
}

// Modifier mutates a document's Settings based on its content. ctx reports
// the annotation level as left by earlier modifiers.
type Modifier interface {
	Modify(ctx *Context, settings *Settings) error
}

// ModifierFunc adapts a function to Modifier.
type ModifierFunc func(ctx *Context, settings *Settings) error

func (f ModifierFunc) Modify(ctx *Context, settings *Settings) error { return f(ctx, settings) }

// Severity is the per-slug override applied at registration.
type Severity uint8

const (
	// SeverityDefault uses the document's DefaultAnnotationLevel.
	SeverityDefault Severity = iota
	// SeverityDeny reports at Error level.
	SeverityDeny
	// SeverityWarn reports at Warning level.
	SeverityWarn
)

func (s Severity) String() string {
	switch s {
	case SeverityDeny:
		return "deny"
	case SeverityWarn:
		return "warn"
	default:
		return "default"
	}
}

// level resolves the annotation level for a rule with this severity.
func (s Severity) level(settings Settings) diag.Level {
	switch s {
	case SeverityDeny:
		return diag.Error
	case SeverityWarn:
		return diag.Warning
	default:
		return settings.DefaultAnnotationLevel
	}
}
