// Package diag defines the diagnostic model produced by lint rules.
//
// # Data model
//
// Message is the central record. It contains:
//
//   - Level: Error, Warning, Info, Note or Help (Help is reserved for footers).
//   - ID: the rule slug that produced the message, empty for parse errors.
//   - Title: a one-line summary; keep it short and actionable.
//   - Snippets: zero or more excerpts of source text with Annotations.
//   - Footer: trailing messages such as "help: ..." hints.
//
// An Annotation carries a byte Range relative to its Snippet's Source, never
// to the whole document. Use Level.SpanChars when the offsets at hand are
// character counts; byte offsets inside a multi-byte character are rounded up
// by Level.SpanUTF8 to the next character boundary.
//
// All builder methods use value receivers and return the updated copy:
//
//	msg := diag.Error.Title("preamble is missing header(s): `title`").
//		WithID(slug).
//		WithFooter(diag.Help.Title("see the template"))
//
// # Emitting diagnostics
//
// Rules hand messages to a Reporter. The wrappers in this package (Bag, Count,
// AdditionalHelp, Dedup) compose around any Reporter and are safe for
// concurrent use. Rendering lives in internal/diagfmt.
package diag
