package lints

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"eipw/internal/diag"
	"eipw/internal/lint"
)

// OneOf requires a field's trimmed value to be one of Values.
type OneOf struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Name   string   `toml:"name" yaml:"name" validate:"required"`
	Values []string `toml:"values" yaml:"values" validate:"required,min=1"`
}

func (o OneOf) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(o.Name)
	if !ok {
		return nil
	}
	for _, v := range o.Values {
		if strings.TrimSpace(f.Value()) == v {
			return nil
		}
	}
	level := ctx.AnnotationLevel()
	return ctx.Report(level.Title(fmt.Sprintf("preamble header `%s` has an unrecognized value", o.Name)).
		WithID(slug).
		WithSnippet(ctx.FieldSnippet(f).WithAnnotation(valueSpan(level, f, "must be one of: "+backtickList(o.Values)))))
}

// Mode selects whether a Regex must or must not match.
type Mode string

const (
	ModeIncludes Mode = "includes"
	ModeExcludes Mode = "excludes"
)

// Regex matches a field's trimmed value against Pattern. Message is used as
// the diagnostic title.
type Regex struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Name    string `toml:"name" yaml:"name" validate:"required"`
	Mode    Mode   `toml:"mode" yaml:"mode" validate:"oneof=includes excludes"`
	Pattern string `toml:"pattern" yaml:"pattern" validate:"required"`
	Message string `toml:"message" yaml:"message" validate:"required"`
}

func (r Regex) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(r.Name)
	if !ok {
		return nil
	}
	re, err := compile(r.Pattern)
	if err != nil {
		return err
	}

	matched := re.MatchString(strings.TrimSpace(f.Value()))
	var label string
	switch r.Mode {
	case ModeIncludes:
		if matched {
			return nil
		}
		label = "required pattern was not matched"
	case ModeExcludes:
		if !matched {
			return nil
		}
		label = "prohibited pattern was matched"
	default:
		return fmt.Errorf("unknown regex mode `%s`", r.Mode)
	}

	level := ctx.AnnotationLevel()
	return ctx.Report(level.Title(r.Message).
		WithID(slug).
		WithSnippet(ctx.FieldSnippet(f).WithAnnotation(valueSpan(level, f, label))).
		WithFooter(diag.Info.Title(fmt.Sprintf("the pattern in question: `%s`", r.Pattern))))
}

// Uint requires a field to hold a non-negative integer.
type Uint struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Name string `toml:"name" yaml:"name" validate:"required"`
}

func (u Uint) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(u.Name)
	if !ok {
		return nil
	}
	if _, err := strconv.ParseUint(strings.TrimSpace(f.Value()), 10, 64); err == nil {
		return nil
	}
	level := ctx.AnnotationLevel()
	return ctx.Report(level.Title(fmt.Sprintf("preamble header `%s` must be an unsigned integer", u.Name)).
		WithID(slug).
		WithSnippet(ctx.FieldSnippet(f).WithAnnotation(valueSpan(level, f, "not a non-negative integer"))))
}

// UintList requires a field to hold a comma-separated, ascending list of
// non-negative integers.
type UintList struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Name string `toml:"name" yaml:"name" validate:"required"`
}

func (u UintList) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(u.Name)
	if !ok {
		return nil
	}
	level := ctx.AnnotationLevel()

	var (
		values  []uint64
		notUint []diag.Annotation
		offset  int
	)
	for item := range strings.SplitSeq(f.Value(), ",") {
		current := offset
		offset += len(item) + 1
		v, err := strconv.ParseUint(strings.TrimSpace(item), 10, 64)
		if err != nil {
			notUint = append(notUint, itemSpan(level, f, current, item, "not a non-negative integer"))
			continue
		}
		values = append(values, v)
	}

	title := fmt.Sprintf("preamble header `%s` items must be unsigned integers", u.Name)
	if err := reportAnnotations(ctx, slug, title, ctx.FieldSnippet(f), notUint); err != nil {
		return err
	}

	if slices.IsSorted(values) {
		return nil
	}
	return ctx.Report(level.
		Title(fmt.Sprintf("preamble header `%s` items must be sorted in ascending order", u.Name)).
		WithID(slug).
		WithSnippet(ctx.FieldSnippet(f)))
}

// List checks the spacing of a comma-separated field.
type List struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Name string `toml:"name" yaml:"name" validate:"required"`
}

func (l List) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(l.Name)
	if !ok {
		return nil
	}
	level := ctx.AnnotationLevel()

	// offsets below are relative to the trimmed value
	value := strings.TrimSpace(f.Value())
	lead := strings.Index(f.Value(), value)

	var missingSpace, extraSpace []diag.Annotation
	offset := 0
	for item := range strings.SplitSeq(value, ",") {
		current := lead + offset
		offset += len(item) + 1

		if strings.TrimSpace(item) == "" {
			msg := level.Title(fmt.Sprintf("preamble header `%s` cannot have empty items", l.Name)).
				WithID(slug).
				WithSnippet(ctx.FieldSnippet(f).WithAnnotation(itemSpan(level, f, current, " ", "this item is empty")))
			if err := ctx.Report(msg); err != nil {
				return err
			}
			continue
		}

		rest, ok := strings.CutPrefix(item, " ")
		switch {
		case ok:
		case current == lead:
			rest = item
		default:
			missingSpace = append(missingSpace, itemSpan(level, f, current, " ", "missing space"))
			continue
		}
		if strings.TrimSpace(rest) != rest {
			extraSpace = append(extraSpace, itemSpan(level, f, current, item, "extra space"))
		}
	}

	if err := reportAnnotations(ctx, slug, "preamble header list items must begin with a space", ctx.FieldSnippet(f), missingSpace); err != nil {
		return err
	}
	return reportAnnotations(ctx, slug, "preamble header list items have extra whitespace", ctx.FieldSnippet(f), extraSpace)
}

// reportAnnotations reports one message with every annotation on snippet,
// or nothing when anns is empty.
func reportAnnotations(ctx *lint.Context, slug, title string, snippet diag.Snippet, anns []diag.Annotation) error {
	if len(anns) == 0 {
		return nil
	}
	for _, a := range anns {
		snippet = snippet.WithAnnotation(a)
	}
	return ctx.Report(ctx.AnnotationLevel().Title(title).WithID(slug).WithSnippet(snippet))
}

// Length bounds the character count of a field's trimmed value. A zero
// bound is not checked.
type Length struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Name string `toml:"name" yaml:"name" validate:"required"`
	Min  int    `toml:"min" yaml:"min" validate:"gte=0"`
	Max  int    `toml:"max" yaml:"max" validate:"gte=0"`
}

func (l Length) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(l.Name)
	if !ok {
		return nil
	}
	level := ctx.AnnotationLevel()
	n := utf8.RuneCountInString(strings.TrimSpace(f.Value()))

	if l.Max > 0 && n > l.Max {
		msg := level.Title(fmt.Sprintf("preamble header `%s` value is too long (max %d)", l.Name, l.Max)).
			WithID(slug).
			WithSnippet(ctx.FieldSnippet(f).WithAnnotation(valueSpan(level, f, "too long")))
		if err := ctx.Report(msg); err != nil {
			return err
		}
	}
	if l.Min > 0 && n < l.Min {
		return ctx.Report(level.Title(fmt.Sprintf("preamble header `%s` value is too short (min %d)", l.Name, l.Min)).
			WithID(slug).
			WithSnippet(ctx.FieldSnippet(f).WithAnnotation(valueSpan(level, f, "too short"))))
	}
	return nil
}

// Date requires a field to hold a calendar date in YYYY-MM-DD form.
type Date struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Name string `toml:"name" yaml:"name" validate:"required"`
}

func (d Date) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(d.Name)
	if !ok {
		return nil
	}
	problem := dateProblem(strings.TrimSpace(f.Value()))
	if problem == "" {
		return nil
	}
	level := ctx.AnnotationLevel()
	return ctx.Report(level.Title(fmt.Sprintf("preamble header `%s` is not a date in the `YYYY-MM-DD` format", d.Name)).
		WithID(slug).
		WithSnippet(ctx.FieldSnippet(f).WithAnnotation(valueSpan(level, f, problem))))
}

func dateProblem(value string) string {
	parts := strings.Split(value, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return "invalid length"
	}
	if _, err := time.Parse(time.DateOnly, value); err != nil {
		var perr *time.ParseError
		if errors.As(err, &perr) && perr.Message != "" {
			return strings.TrimPrefix(perr.Message, ": ")
		}
		return "invalid date"
	}
	return ""
}

// FileName requires the document's file name to be Prefix, the field's
// value, then Suffix. Documents stored as `<dir>/index.md` are checked by
// directory name instead.
type FileName struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Name   string `toml:"name" yaml:"name" validate:"required"`
	Prefix string `toml:"prefix" yaml:"prefix"`
	Suffix string `toml:"suffix" yaml:"suffix"`
}

func (n FileName) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(n.Name)
	if !ok || ctx.Origin() == "" {
		return nil
	}

	value := strings.TrimSpace(f.Value())
	actual := filepath.Base(ctx.Origin())
	expected := n.Prefix + value + n.Suffix
	if actual == "index.md" {
		actual = filepath.Base(filepath.Dir(ctx.Origin()))
		expected = n.Prefix + value
	}
	if actual == expected {
		return nil
	}

	level := ctx.AnnotationLevel()
	return ctx.Report(level.Title(fmt.Sprintf("file name must reflect the preamble header `%s`", n.Name)).
		WithID(slug).
		WithSnippet(ctx.FieldSnippet(f).WithAnnotation(valueSpan(level, f, "this value"))).
		WithFooter(diag.Help.Title(fmt.Sprintf("this file's name should be `%s`", expected))))
}
