package source

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// LineCol represents a human-readable position in a text.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// LineIndex maps byte offsets to line numbers for one text.
type LineIndex struct {
	text     string
	newlines []uint32 // offsets of every '\n'
}

// NewLineIndex indexes the line breaks of text.
func NewLineIndex(text string) *LineIndex {
	out := make([]uint32, 0, strings.Count(text, "\n"))
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, mustU32(i))
		}
	}
	return &LineIndex{text: text, newlines: out}
}

// Text returns the indexed text.
func (idx *LineIndex) Text() string { return idx.text }

// LineCount returns the number of lines (a trailing newline opens an empty line).
func (idx *LineIndex) LineCount() int { return len(idx.newlines) + 1 }

// LineCol converts a byte offset to a 1-based line and column.
func (idx *LineIndex) LineCol(off uint32) LineCol {
	// largest newline index strictly before off
	lo, hi := 0, len(idx.newlines)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if idx.newlines[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if hi < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	start := idx.newlines[hi] + 1
	return LineCol{Line: mustU32(hi + 2), Col: off - start + 1}
}

// LineStart returns the byte offset where the 1-based line begins.
func (idx *LineIndex) LineStart(line uint32) (uint32, error) {
	switch {
	case line == 0:
		return 0, fmt.Errorf("line numbers start at 1")
	case line == 1:
		return 0, nil
	case int(line-2) < len(idx.newlines):
		return idx.newlines[line-2] + 1, nil
	default:
		return 0, fmt.Errorf("line %d out of range (%d lines)", line, idx.LineCount())
	}
}

// LineSpan returns the byte range of the 1-based line, excluding its newline.
func (idx *LineIndex) LineSpan(line uint32) (Span, error) {
	start, err := idx.LineStart(line)
	if err != nil {
		return Span{}, err
	}
	end := mustU32(len(idx.text))
	if int(line-1) < len(idx.newlines) {
		end = idx.newlines[line-1]
	}
	return Span{Start: start, End: end}, nil
}

// Line returns the text of the 1-based line without its newline.
func (idx *LineIndex) Line(line uint32) string {
	sp, err := idx.LineSpan(line)
	if err != nil {
		return ""
	}
	return idx.text[sp.Start:sp.End]
}

// Lines returns the lines from first to last (1-based, inclusive) joined with
// newlines, plus the byte offset of first within the text.
func (idx *LineIndex) Lines(first, last uint32) (string, uint32, error) {
	from, err := idx.LineSpan(first)
	if err != nil {
		return "", 0, err
	}
	to, err := idx.LineSpan(last)
	if err != nil {
		return "", 0, err
	}
	if to.End < from.Start {
		return "", 0, fmt.Errorf("invalid line range %d..%d", first, last)
	}
	return idx.text[from.Start:to.End], from.Start, nil
}

func mustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}
