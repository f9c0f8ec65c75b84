package source

import "unicode/utf8"

// CeilCharBoundary returns the smallest index >= i that starts a UTF-8
// sequence in s, or len(s).
func CeilCharBoundary(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

// CharSpan converts a character offset and length within line into a byte
// span. Offsets past the end of line are clamped to len(line).
func CharSpan(line string, charStart, charLen int) Span {
	start := byteOffsetOfChar(line, charStart)
	end := start + byteOffsetOfChar(line[start:], charLen)
	return NewSpan(start, end)
}

// CharCol returns the 0-based character column of the byte offset off in s.
// off is rounded up to a character boundary first.
func CharCol(s string, off int) int {
	off = CeilCharBoundary(s, off)
	return utf8.RuneCountInString(s[:off])
}

func byteOffsetOfChar(s string, n int) int {
	if n <= 0 {
		return 0
	}
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}
