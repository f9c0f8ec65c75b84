package preamble

import (
	"errors"
	"regexp"
)

var (
	// ErrLeadingGarbage means bytes appeared before the first delimiter.
	ErrLeadingGarbage = errors.New("preamble: text before the opening `---`")
	// ErrMissingStart means the opening delimiter was not found.
	ErrMissingStart = errors.New("preamble: missing opening `---`")
	// ErrMissingEnd means the closing delimiter was not found.
	ErrMissingEnd = errors.New("preamble: missing closing `---`")
)

var reMarker = regexp.MustCompile(`(^|\n)---(\n|$)`)

// Split divides text into the preamble and the body. The preamble excludes
// both delimiter lines; the body starts right after the closing delimiter's
// newline.
func Split(text string) (preamble, body string, err error) {
	marks := reMarker.FindAllStringIndex(text, 2)
	switch {
	case len(marks) == 0:
		return "", "", ErrMissingStart
	case len(marks) == 1:
		return "", "", ErrMissingEnd
	case marks[0][0] != 0:
		return "", "", ErrLeadingGarbage
	}
	return text[marks[0][1]:marks[1][0]], text[marks[1][1]:], nil
}
