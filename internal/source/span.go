package source

import "fmt"

// Span is a half-open byte range [Start, End) into some text.
type Span struct {
	Start uint32 // inclusive, bytes
	End   uint32 // exclusive, bytes
}

// NewSpan builds a Span from int offsets, panicking on overflow.
func NewSpan(start, end int) Span {
	return Span{Start: mustU32(start), End: mustU32(end)}
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// ShiftRight moves the span n bytes forward.
func (s Span) ShiftRight(n uint32) Span {
	return Span{Start: s.Start + n, End: s.End + n}
}

// ShiftLeft moves the span n bytes back.
func (s Span) ShiftLeft(n uint32) Span {
	return Span{Start: s.Start - n, End: s.End - n}
}

// Slice returns the text covered by s, clamped to text.
func (s Span) Slice(text string) string {
	n := uint32(len(text)) //nolint:gosec // clamped below
	start, end := min(s.Start, n), min(s.End, n)
	if start > end {
		return ""
	}
	return text[start:end]
}
