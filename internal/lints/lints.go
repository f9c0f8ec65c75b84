// Package lints holds the built-in rules and the default rule set.
//
// Preamble rules look at `name: value` fields; markdown rules walk the body
// tree. Every rule reports at ctx.AnnotationLevel() so that severity
// overrides and modifiers apply uniformly.
package lints

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"eipw/internal/diag"
	"eipw/internal/lint"
	"eipw/internal/preamble"
)

// Entry pairs a slug with the rule registered under it.
type Entry struct {
	Slug string
	Lint lint.Lint
}

// Register adds every entry to l with the default severity.
func Register(l *lint.Linter, entries []Entry) error {
	for _, e := range entries {
		if err := l.Register(e.Slug, lint.SeverityDefault, e.Lint); err != nil {
			return err
		}
	}
	return nil
}

// DefaultFlow orders status values from least to most advanced.
func DefaultFlow() [][]string {
	return [][]string{
		{"Draft", "Stagnant"},
		{"Review"},
		{"Last Call"},
		{"Final", "Withdrawn", "Living"},
	}
}

// Defaults returns the rule set used when no configuration replaces it.
func Defaults() []Entry {
	return []Entry{
		// preamble
		{"preamble-no-dup", NoDuplicates{}},
		{"preamble-trim", Trim{}},
		{"preamble-eip", Uint{Name: "eip"}},
		{"preamble-re-title", Regex{
			Name:    "title",
			Mode:    ModeExcludes,
			Pattern: `(?i)standar\w*\b`,
			Message: "preamble header `title` should not contain `standard` (or similar words.)",
		}},
		{"preamble-re-title-colon", Regex{
			Name:    "title",
			Mode:    ModeExcludes,
			Pattern: `:`,
			Message: "preamble header `title` should not contain `:`",
		}},
		{"preamble-re-description", Regex{
			Name:    "description",
			Mode:    ModeExcludes,
			Pattern: `(?i)standar\w*\b`,
			Message: "preamble header `description` should not contain `standard` (or similar words.)",
		}},
		{"preamble-re-description-colon", Regex{
			Name:    "description",
			Mode:    ModeExcludes,
			Pattern: `:`,
			Message: "preamble header `description` should not contain `:`",
		}},
		{"preamble-re-discussions-to", Regex{
			Name:    "discussions-to",
			Mode:    ModeIncludes,
			Pattern: `^https://ethereum-magicians.org/t/[^/]+/[0-9]+$`,
			Message: "preamble header `discussions-to` should point to a thread on ethereum-magicians.org",
		}},
		{"preamble-list-author", List{Name: "author"}},
		{"preamble-list-requires", List{Name: "requires"}},
		{"preamble-len-requires", Length{Name: "requires", Min: 1}},
		{"preamble-uint-requires", UintList{Name: "requires"}},
		{"preamble-len-title", Length{Name: "title", Min: 2, Max: 44}},
		{"preamble-len-description", Length{Name: "description", Min: 2, Max: 140}},
		{"preamble-req", Required{Names: []string{
			"eip", "title", "description", "author", "discussions-to", "status", "type", "created",
		}}},
		{"preamble-order", Order{Names: []string{
			"eip", "title", "description", "author", "discussions-to", "status",
			"last-call-deadline", "type", "category", "created", "requires", "withdrawal-reason",
		}}},
		{"preamble-date-created", Date{Name: "created"}},
		{"preamble-req-last-call-deadline", RequiredIfEq{When: "status", Equals: "Last Call", Then: "last-call-deadline"}},
		{"preamble-date-last-call-deadline", Date{Name: "last-call-deadline"}},
		{"preamble-req-category", RequiredIfEq{When: "type", Equals: "Standards Track", Then: "category"}},
		{"preamble-req-withdrawal-reason", RequiredIfEq{When: "status", Equals: "Withdrawn", Then: "withdrawal-reason"}},
		{"preamble-enum-status", OneOf{Name: "status", Values: []string{
			"Draft", "Review", "Last Call", "Final", "Stagnant", "Withdrawn", "Living",
		}}},
		{"preamble-enum-type", OneOf{Name: "type", Values: []string{"Standards Track", "Meta", "Informational"}}},
		{"preamble-enum-category", OneOf{Name: "category", Values: []string{"Core", "Networking", "Interface", "ERC"}}},
		{"preamble-requires-status", RequiresStatus{Requires: "requires", Status: "status", Flow: DefaultFlow()}},
		{"preamble-file-name", FileName{Name: "eip", Prefix: "eip-", Suffix: ".md"}},

		// markdown
		{"markdown-html-comments", HTMLComments{Name: "status", WarnFor: []string{"Draft", "Withdrawn"}}},
		{"markdown-req-section", SectionRequired{Sections: []string{
			"Abstract", "Specification", "Rationale", "Security Considerations", "Copyright",
		}}},
		{"markdown-order-section", SectionOrder{Sections: []string{
			"Abstract", "Motivation", "Specification", "Rationale", "Backwards Compatibility",
			"Test Cases", "Reference Implementation", "Security Considerations", "Copyright",
		}}},
		{"markdown-re-erc-dash", BodyRegex{
			Pattern: `(?i)erc[\s]*[0-9]+`,
			Message: "proposals must be referenced with the form `ERC-N` (not `ERCN` or `ERC N`)",
		}},
		{"markdown-re-eip-dash", BodyRegex{
			Pattern: `(?i)eip[\s]*[0-9]+`,
			Message: "proposals must be referenced with the form `EIP-N` (not `EIPN` or `EIP N`)",
		}},
		{"markdown-link-status", LinkStatus{
			Pattern: `(?i)(?:eip|erc)-([0-9]+)\.md$`,
			Status:  "status",
			Flow:    DefaultFlow(),
		}},
		{"markdown-heading-first", HeadingFirst{}},
	}
}

// patterns memoizes compiled expressions by their source text. Entries are
// immutable and safe for concurrent use, so they are shared across runs.
var patterns = newPatternCache(128)

func newPatternCache(size int) *lru.Cache[string, *regexp.Regexp] {
	c, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		panic(fmt.Sprintf("lints: pattern cache: %v", err))
	}
	return c
}

// compile returns the compiled pattern, shared between rules and documents.
func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern `%s`: %w", pattern, err)
	}
	patterns.Add(pattern, re)
	return re, nil
}

// valueSpan annotates the whole value of f, colon excluded.
func valueSpan(level diag.Level, f preamble.Field, label string) diag.Annotation {
	return level.SpanUTF8(f.Source(), f.ValueOffset(), len(f.Value())).WithLabel(label)
}

// itemSpan annotates one comma-separated item of f's value. offset is the
// item's byte offset within the value.
func itemSpan(level diag.Level, f preamble.Field, offset int, item, label string) diag.Annotation {
	return level.SpanUTF8(f.Source(), f.ValueOffset()+offset, len(item)).WithLabel(label)
}

// tiers maps each status value to its 1-based position in flow.
func tiers(flow [][]string) map[string]int {
	m := make(map[string]int)
	for i, values := range flow {
		for _, v := range values {
			m[v] = i + 1
		}
	}
	return m
}

// tier returns the position of ctx's status in m, or 0 when missing or
// unknown.
func tier(m map[string]int, ctx *lint.Context, status string) int {
	f, ok := ctx.Preamble().ByName(status)
	if !ok {
		return 0
	}
	return m[strings.TrimSpace(f.Value())]
}

// choices lists, sorted, the status values at or below tier floor.
func choices(m map[string]int, floor int) []string {
	var out []string
	for v, t := range m {
		if t <= floor {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func fieldValue(ctx *lint.Context, name string) string {
	f, ok := ctx.Preamble().ByName(name)
	if !ok {
		return "<missing>"
	}
	return strings.TrimSpace(f.Value())
}

func backtickList(items []string) string {
	return "`" + strings.Join(items, "`, `") + "`"
}
