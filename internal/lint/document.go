package lint

import (
	"errors"
	"strings"

	"eipw/internal/diag"
	"eipw/internal/mdtree"
	"eipw/internal/preamble"
	"eipw/internal/source"
)

// Document is a successfully parsed proposal.
type Document struct {
	origin    string
	source    string
	preamble  *preamble.Preamble
	body      *mdtree.Tree
	bodyStart int
	lines     *source.LineIndex
}

// ParseDocument splits and parses text. On failure the returned
// *ParseError carries the diagnostics to report.
func ParseDocument(origin, text string) (*Document, error) {
	pre, body, err := preamble.Split(text)
	if err != nil {
		return nil, &ParseError{Origin: origin, Messages: []diag.Message{splitMessage(origin, text, err)}}
	}

	fields, err := preamble.Parse(origin, pre)
	if err != nil {
		var perr *preamble.ParseErrors
		if errors.As(err, &perr) {
			return nil, &ParseError{Origin: origin, Messages: perr.Messages}
		}
		return nil, err
	}

	return &Document{
		origin:    origin,
		source:    text,
		preamble:  fields,
		body:      mdtree.Parse(body),
		bodyStart: len(text) - len(body),
		lines:     source.NewLineIndex(text),
	}, nil
}

func splitMessage(origin, text string, err error) diag.Message {
	if errors.Is(err, preamble.ErrMissingEnd) {
		return diag.Error.Title("preamble must be followed by a line containing `---` exactly")
	}

	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSuffix(first, "\r")
	msg := diag.Error.Title("first line must be `---` exactly").
		WithSnippet(diag.NewSnippet(first).
			WithOrigin(origin).
			WithLineStart(1).
			WithFold(false))
	if len(text) > 3 && text[3] == '\r' {
		msg = msg.WithFooter(diag.Help.Title("found a carriage return (CR), use Unix-style line endings (LF) instead"))
	}
	return msg
}

// Origin returns the path or label the document was read from.
func (d *Document) Origin() string { return d.origin }

// Source returns the full document text.
func (d *Document) Source() string { return d.source }

// Preamble returns the parsed preamble.
func (d *Document) Preamble() *preamble.Preamble { return d.preamble }

// Body returns the parsed Markdown body.
func (d *Document) Body() *mdtree.Tree { return d.body }

// BodySource returns the text after the closing `---` line.
func (d *Document) BodySource() string { return d.source[d.bodyStart:] }

// BodyStart returns the byte offset of the body within Source.
func (d *Document) BodyStart() int { return d.bodyStart }

// LineIndex returns the line index over the full document text.
func (d *Document) LineIndex() *source.LineIndex { return d.lines }
