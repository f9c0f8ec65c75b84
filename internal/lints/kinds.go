package lints

import (
	"maps"
	"reflect"
	"slices"

	"eipw/internal/lint"
)

// kinds maps configuration kind names to constructors of empty rules. The
// constructors return pointers so configuration can be decoded into them.
var kinds = map[string]func() lint.Lint{
	"preamble-no-duplicates":    func() lint.Lint { return &NoDuplicates{} },
	"preamble-trim":             func() lint.Lint { return &Trim{} },
	"preamble-required":         func() lint.Lint { return &Required{} },
	"preamble-required-if-eq":   func() lint.Lint { return &RequiredIfEq{} },
	"preamble-order":            func() lint.Lint { return &Order{} },
	"preamble-one-of":           func() lint.Lint { return &OneOf{} },
	"preamble-regex":            func() lint.Lint { return &Regex{} },
	"preamble-uint":             func() lint.Lint { return &Uint{} },
	"preamble-uint-list":        func() lint.Lint { return &UintList{} },
	"preamble-list":             func() lint.Lint { return &List{} },
	"preamble-length":           func() lint.Lint { return &Length{} },
	"preamble-date":             func() lint.Lint { return &Date{} },
	"preamble-file-name":        func() lint.Lint { return &FileName{} },
	"preamble-requires-status":  func() lint.Lint { return &RequiresStatus{} },
	"markdown-html-comments":    func() lint.Lint { return &HTMLComments{} },
	"markdown-section-required": func() lint.Lint { return &SectionRequired{} },
	"markdown-section-order":    func() lint.Lint { return &SectionOrder{} },
	"markdown-heading-first":    func() lint.Lint { return &HeadingFirst{} },
	"markdown-regex":            func() lint.Lint { return &BodyRegex{} },
	"markdown-link-status":      func() lint.Lint { return &LinkStatus{} },
	"markdown-spell":            func() lint.Lint { return &Spell{} },
}

// New returns an empty rule of the given kind, ready to be decoded into.
func New(kind string) (lint.Lint, bool) {
	mk, ok := kinds[kind]
	if !ok {
		return nil, false
	}
	return mk(), true
}

// Kinds returns every configuration kind name, sorted.
func Kinds() []string {
	return slices.Sorted(maps.Keys(kinds))
}

// KindOf returns the configuration kind of a built-in rule, or "" for rules
// defined elsewhere.
func KindOf(l lint.Lint) string {
	t := reflect.TypeOf(l)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for name, mk := range kinds {
		if reflect.TypeOf(mk()).Elem() == t {
			return name
		}
	}
	return ""
}
