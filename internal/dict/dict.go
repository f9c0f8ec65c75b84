// Package dict provides the word lists used for spell checking.
//
// A Dictionary is built from plain word lists, one word per line. Lines in
// Hunspell .dic form ("word/FLAGS") are accepted and their flags ignored, and
// a leading line holding only the entry count is skipped. Lookups are
// case-insensitive and independent of Unicode normalization form.
package dict

import (
	"bufio"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Dictionary is an immutable set of accepted words.
type Dictionary struct {
	words map[string]struct{}
}

// Parse builds a Dictionary from one or more word lists.
func Parse(lists ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{})}
	for _, list := range lists {
		d.add(list)
	}
	return d
}

func (d *Dictionary) add(list string) {
	sc := bufio.NewScanner(strings.NewReader(list))
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			if _, err := strconv.Atoi(line); err == nil {
				continue
			}
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, _, _ := strings.Cut(line, "/")
		if word = strings.TrimSpace(word); word != "" {
			d.words[fold(word)] = struct{}{}
		}
	}
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.words) }

// Contains reports whether word is known. Possessive "'s" suffixes are
// accepted when the stem is known.
func (d *Dictionary) Contains(word string) bool {
	w := fold(word)
	if _, ok := d.words[w]; ok {
		return true
	}
	for _, suffix := range []string{"'s", "’s"} {
		if stem, ok := strings.CutSuffix(w, suffix); ok {
			if _, ok := d.words[stem]; ok {
				return true
			}
		}
	}
	return false
}

func fold(word string) string {
	return cases.Fold().String(norm.NFC.String(word))
}

// Word is a candidate word and its byte offset in the scanned text.
type Word struct {
	Text   string
	Offset int
}

// Words splits text into candidate words. A word is a run of letters, digits
// and inner apostrophes.
func Words(text string) []Word {
	var out []Word
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		w := strings.TrimRight(text[start:end], "'’")
		if w != "" {
			out = append(out, Word{Text: w, Offset: start})
		}
		start = -1
	}
	for i, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			if start < 0 {
				start = i
			}
		case (r == '\'' || r == '’') && start >= 0:
		default:
			flush(i)
		}
	}
	flush(len(text))
	return out
}

// Ignorable reports whether word should never be checked: numbers, hex
// literals and words without letters.
func Ignorable(word string) bool {
	hex := strings.TrimPrefix(strings.TrimPrefix(word, "0x"), "0X")
	if hex != "" && strings.IndexFunc(hex, func(r rune) bool { return !isHexDigit(r) }) < 0 {
		return true
	}
	return strings.IndexFunc(word, unicode.IsLetter) < 0 ||
		strings.IndexFunc(word, unicode.IsDigit) >= 0
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
