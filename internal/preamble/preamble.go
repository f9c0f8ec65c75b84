package preamble

import (
	"fmt"
	"strings"

	"eipw/internal/diag"
)

// Field is one `name: value` line of a preamble.
type Field struct {
	text  string // whole preamble text
	line  int
	start int // line start
	colon int // offset of ':'
	end   int // line end, exclusive
}

// LineStart returns the 1-based line of the field in the full document.
func (f Field) LineStart() int { return f.line }

// Name returns the text before the first colon.
func (f Field) Name() string { return f.text[f.start:f.colon] }

// Value returns the text after the first colon, untrimmed.
func (f Field) Value() string { return f.text[f.colon+1 : f.end] }

// Source returns the whole line the field was defined on.
func (f Field) Source() string { return f.text[f.start:f.end] }

// ValueOffset returns the byte offset of Value within Source.
func (f Field) ValueOffset() int { return f.colon + 1 - f.start }

// Preamble is an ordered list of fields.
type Preamble struct {
	text   string
	fields []Field
	byName map[string]int
}

// Parse parses preamble text, usually obtained from Split. origin is used
// for diagnostic snippets and may be empty. Every malformed line is
// reported; when any exist the result is a *ParseErrors.
func Parse(origin, text string) (*Preamble, error) {
	p := &Preamble{text: text, byName: make(map[string]int)}
	var errs []diag.Message

	start := 0
	for index := 0; start <= len(text); index++ {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		// lines start at one, plus the opening `---`
		lineNo := index + 2

		colon := strings.IndexByte(text[start:end], ':')
		if colon < 0 {
			errs = append(errs, missingDelimiter(origin, lineNo, text[start:end]))
		} else if len(errs) == 0 {
			p.push(Field{text: text, line: lineNo, start: start, colon: start + colon, end: end})
		}
		start = end + 1
	}

	if len(errs) > 0 {
		return nil, &ParseErrors{Messages: errs}
	}
	return p, nil
}

func missingDelimiter(origin string, line int, src string) diag.Message {
	return diag.Error.Title("missing delimiter `:` in preamble field").
		WithSnippet(diag.NewSnippet(src).
			WithOrigin(origin).
			WithLineStart(line).
			WithFold(false))
}

func (p *Preamble) push(f Field) {
	p.byName[f.Name()] = len(p.fields)
	p.fields = append(p.fields, f)
}

// Text returns the preamble text the fields point into.
func (p *Preamble) Text() string { return p.text }

// Len returns the number of fields, duplicates included.
func (p *Preamble) Len() int { return len(p.fields) }

// Fields returns every field in source order, duplicates included.
func (p *Preamble) Fields() []Field {
	return append([]Field(nil), p.fields...)
}

// ByName returns the last field defined with name.
func (p *Preamble) ByName(name string) (Field, bool) {
	idx, ok := p.byName[name]
	if !ok {
		return Field{}, false
	}
	return p.fields[idx], true
}

// ByIndex returns the field at zero-based position i.
func (p *Preamble) ByIndex(i int) (Field, bool) {
	if i < 0 || i >= len(p.fields) {
		return Field{}, false
	}
	return p.fields[i], true
}

// ParseErrors holds the diagnostics for every malformed preamble line.
type ParseErrors struct {
	Messages []diag.Message
}

func (e *ParseErrors) Error() string {
	if len(e.Messages) == 1 {
		return fmt.Sprintf("preamble: %s", e.Messages[0].Title)
	}
	return fmt.Sprintf("preamble: %d malformed fields", len(e.Messages))
}
