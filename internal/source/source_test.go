package source

import "testing"

func TestLineIndexLineCol(t *testing.T) {
	idx := NewLineIndex("ab\ncde\n\nf")
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the newline itself
		{3, LineCol{2, 1}},
		{6, LineCol{2, 4}},
		{7, LineCol{3, 1}},
		{8, LineCol{4, 1}},
	}
	for _, tt := range tests {
		if got := idx.LineCol(tt.off); got != tt.want {
			t.Errorf("LineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
	if idx.LineCount() != 4 {
		t.Fatalf("LineCount = %d, want 4", idx.LineCount())
	}
}

func TestLineIndexLines(t *testing.T) {
	idx := NewLineIndex("one\ntwo\nthree\n")
	if got := idx.Line(2); got != "two" {
		t.Fatalf("Line(2) = %q", got)
	}
	if got := idx.Line(4); got != "" {
		t.Fatalf("Line(4) = %q, want empty trailing line", got)
	}
	if got := idx.Line(9); got != "" {
		t.Fatalf("Line(9) = %q, want empty", got)
	}
	text, off, err := idx.Lines(2, 3)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if text != "two\nthree" || off != 4 {
		t.Fatalf("Lines(2,3) = %q@%d", text, off)
	}
	if _, err := idx.LineStart(0); err == nil {
		t.Fatalf("expected error for line 0")
	}
}

func TestCharBoundaries(t *testing.T) {
	s := "aé€b" // 1 + 2 + 3 + 1 bytes
	tests := []struct {
		name string
		in   int
		ceil int
	}{
		{"start", 0, 0},
		{"ascii", 1, 1},
		{"inside e-acute", 2, 3},
		{"inside euro", 4, 6},
		{"end", 7, 7},
		{"past end", 99, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CeilCharBoundary(s, tt.in); got != tt.ceil {
				t.Errorf("CeilCharBoundary(%d) = %d, want %d", tt.in, got, tt.ceil)
			}
		})
	}
}

func TestCharSpanRoundTrip(t *testing.T) {
	line := "título: ñandú €"
	sp := CharSpan(line, 8, 5)
	if got := sp.Slice(line); got != "ñandú" {
		t.Fatalf("CharSpan slice = %q", got)
	}
	if col := CharCol(line, int(sp.Start)); col != 8 {
		t.Fatalf("CharCol = %d, want 8", col)
	}
	if col := CharCol(line, int(sp.Start)+1); col != 9 {
		t.Fatalf("CharCol inside a character = %d, want 9", col)
	}
}

func TestCharSpanClamps(t *testing.T) {
	sp := CharSpan("abc", 2, 10)
	if sp != (Span{Start: 2, End: 3}) {
		t.Fatalf("got %v", sp)
	}
	sp = CharSpan("abc", 7, 1)
	if !sp.Empty() || sp.Start != 3 {
		t.Fatalf("got %v", sp)
	}
}

func TestSpanShift(t *testing.T) {
	a := Span{Start: 4, End: 6}
	if got := a.ShiftRight(3).ShiftLeft(1); got != (Span{Start: 6, End: 8}) {
		t.Fatalf("shift = %v", got)
	}
}
