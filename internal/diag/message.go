package diag

import "eipw/internal/source"

// Range is a half-open byte range relative to a Snippet's Source.
type Range struct {
	Start int `json:"start" msgpack:"start"`
	End   int `json:"end" msgpack:"end"`
}

// Annotation marks a Range of a snippet.
type Annotation struct {
	Range Range  `json:"range" msgpack:"range"`
	Level Level  `json:"level" msgpack:"level"`
	Label string `json:"label,omitempty" msgpack:"label,omitempty"`
}

// Snippet is an excerpt of source text with annotations.
type Snippet struct {
	Source      string       `json:"source" msgpack:"source"`
	LineStart   int          `json:"line_start" msgpack:"line_start"`
	Origin      string       `json:"origin,omitempty" msgpack:"origin,omitempty"`
	Fold        bool         `json:"fold" msgpack:"fold"`
	Annotations []Annotation `json:"annotations" msgpack:"annotations"`
}

// Message is a single diagnostic.
type Message struct {
	Level    Level     `json:"level" msgpack:"level"`
	ID       string    `json:"id,omitempty" msgpack:"id,omitempty"`
	Title    string    `json:"title" msgpack:"title"`
	Snippets []Snippet `json:"snippets" msgpack:"snippets"`
	Footer   []Message `json:"footer" msgpack:"footer"`
}

// Title starts a Message at level l.
func (l Level) Title(title string) Message {
	return Message{Level: l, Title: title}
}

// Span builds an annotation over the byte range [start, end).
func (l Level) Span(start, end int) Annotation {
	return Annotation{Level: l, Range: Range{Start: start, End: end}}
}

// SpanChars builds an annotation from a character offset and length within
// line. The result is a byte range into line.
func (l Level) SpanChars(line string, charStart, charLen int) Annotation {
	sp := source.CharSpan(line, charStart, charLen)
	return l.Span(int(sp.Start), int(sp.End))
}

// SpanUTF8 builds an annotation starting at byte start of text and covering
// at least minLen bytes, extended to the next character boundary.
func (l Level) SpanUTF8(text string, start, minLen int) Annotation {
	end := source.CeilCharBoundary(text, start+minLen)
	return l.Span(start, max(end, start))
}

// WithLabel sets the annotation label.
func (a Annotation) WithLabel(label string) Annotation {
	a.Label = label
	return a
}

// WithID sets the message id.
func (m Message) WithID(id string) Message {
	m.ID = id
	return m
}

// WithSnippet appends a snippet.
func (m Message) WithSnippet(s Snippet) Message {
	m.Snippets = append(m.Snippets[:len(m.Snippets):len(m.Snippets)], s)
	return m
}

// WithFooter appends a footer message, usually a Help or Note title.
func (m Message) WithFooter(f Message) Message {
	m.Footer = append(m.Footer[:len(m.Footer):len(m.Footer)], f)
	return m
}

// Clone returns a deep copy, so the result can be extended without touching m.
func (m Message) Clone() Message {
	out := m
	out.Footer = make([]Message, len(m.Footer))
	for i, f := range m.Footer {
		out.Footer[i] = f.Clone()
	}
	out.Snippets = make([]Snippet, len(m.Snippets))
	for i, s := range m.Snippets {
		s.Annotations = append([]Annotation(nil), s.Annotations...)
		out.Snippets[i] = s
	}
	return out
}

// NewSnippet starts a snippet over source text. LineStart defaults to 1.
func NewSnippet(src string) Snippet {
	return Snippet{Source: src, LineStart: 1}
}

// WithOrigin sets the snippet origin, usually a file path.
func (s Snippet) WithOrigin(origin string) Snippet {
	s.Origin = origin
	return s
}

// WithLineStart sets the 1-based line number of the first line of Source.
func (s Snippet) WithLineStart(line int) Snippet {
	s.LineStart = line
	return s
}

// WithFold sets whether unannotated lines may be elided.
func (s Snippet) WithFold(fold bool) Snippet {
	s.Fold = fold
	return s
}

// WithAnnotation appends an annotation.
func (s Snippet) WithAnnotation(a Annotation) Snippet {
	s.Annotations = append(s.Annotations[:len(s.Annotations):len(s.Annotations)], a)
	return s
}
