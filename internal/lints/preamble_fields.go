package lints

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"eipw/internal/diag"
	"eipw/internal/lint"
	"eipw/internal/preamble"
)

// NoDuplicates reports fields defined more than once.
type NoDuplicates struct {
	lint.NoResources `toml:"-" yaml:"-"`
}

func (NoDuplicates) Lint(slug string, ctx *lint.Context) error {
	level := ctx.AnnotationLevel()
	first := make(map[string]preamble.Field)
	for _, f := range ctx.Preamble().Fields() {
		orig, ok := first[f.Name()]
		if !ok {
			first[f.Name()] = f
			continue
		}
		msg := level.Title(fmt.Sprintf("preamble header `%s` defined multiple times", f.Name())).
			WithID(slug).
			WithSnippet(ctx.FieldSnippet(orig).
				WithAnnotation(diag.Info.Span(0, len(orig.Name())).WithLabel("first defined here"))).
			WithSnippet(ctx.FieldSnippet(f).
				WithAnnotation(level.Span(0, len(f.Name())).WithLabel("redefined here")))
		if err := ctx.Report(msg); err != nil {
			return err
		}
	}
	return nil
}

// Trim reports values that do not start with exactly one space or that
// carry extra surrounding whitespace.
type Trim struct {
	lint.NoResources `toml:"-" yaml:"-"`
}

func (Trim) Lint(slug string, ctx *lint.Context) error {
	level := ctx.AnnotationLevel()
	var noSpace []diag.Snippet
	for _, f := range ctx.Preamble().Fields() {
		value := f.Value()
		if value == "" {
			continue
		}
		if v, ok := strings.CutPrefix(value, " "); ok {
			value = v
		} else {
			noSpace = append(noSpace, ctx.FieldSnippet(f).
				WithAnnotation(level.SpanUTF8(f.Source(), f.ValueOffset(), 1).WithLabel("space required here")))
		}
		if strings.TrimSpace(value) == value {
			continue
		}
		msg := level.Title(fmt.Sprintf("preamble header `%s` has extra whitespace", f.Name())).
			WithID(slug).
			WithSnippet(ctx.FieldSnippet(f).WithAnnotation(valueSpan(level, f, "value has extra whitespace")))
		if err := ctx.Report(msg); err != nil {
			return err
		}
	}
	if len(noSpace) == 0 {
		return nil
	}
	msg := level.Title("preamble header values must begin with a space").WithID(slug)
	for _, s := range noSpace {
		msg = msg.WithSnippet(s)
	}
	return ctx.Report(msg)
}

// Required reports missing fields.
type Required struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Names []string `toml:"names" yaml:"names" validate:"required,min=1,dive,required"`
}

func (r Required) Lint(slug string, ctx *lint.Context) error {
	var missing []string
	for _, name := range r.Names {
		if _, ok := ctx.Preamble().ByName(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return ctx.Report(ctx.AnnotationLevel().
		Title("preamble is missing header(s): " + backtickList(missing)).
		WithID(slug).
		WithSnippet(diag.NewSnippet(ctx.Line(1)).WithOrigin(ctx.Origin()).WithFold(true)))
}

// RequiredIfEq requires Then exactly when When equals Equals.
type RequiredIfEq struct {
	lint.NoResources `toml:"-" yaml:"-"`

	When   string `toml:"when" yaml:"when" validate:"required"`
	Equals string `toml:"equals" yaml:"equals" validate:"required"`
	Then   string `toml:"then" yaml:"then" validate:"required"`
}

func (r RequiredIfEq) Lint(slug string, ctx *lint.Context) error {
	level := ctx.AnnotationLevel()
	when, hasWhen := ctx.Preamble().ByName(r.When)
	then, hasThen := ctx.Preamble().ByName(r.Then)
	matches := hasWhen && strings.TrimSpace(when.Value()) == r.Equals

	switch {
	case matches == hasThen:
		return nil
	case matches:
		return ctx.Report(level.
			Title(fmt.Sprintf("preamble header `%s` is required when `%s` is `%s`", r.Then, r.When, r.Equals)).
			WithID(slug).
			WithSnippet(ctx.FieldSnippet(when).WithAnnotation(wholeLine(diag.Info, when, "defined here"))))
	case !hasWhen:
		return ctx.Report(level.
			Title(fmt.Sprintf("preamble header `%s` is only allowed when `%s` is `%s`", r.Then, r.When, r.Equals)).
			WithID(slug).
			WithSnippet(ctx.FieldSnippet(then).WithAnnotation(wholeLine(level, then, "defined here"))))
	default:
		snippets := []diag.Snippet{
			ctx.FieldSnippet(when).WithAnnotation(wholeLine(diag.Info, when, fmt.Sprintf("unless equal to `%s`", r.Equals))),
			ctx.FieldSnippet(then).WithAnnotation(wholeLine(level, then, "remove this")),
		}
		slices.SortStableFunc(snippets, func(a, b diag.Snippet) int { return cmp.Compare(a.LineStart, b.LineStart) })
		msg := level.
			Title(fmt.Sprintf("preamble header `%s` is only allowed when `%s` is `%s`", r.Then, r.When, r.Equals)).
			WithID(slug)
		for _, s := range snippets {
			msg = msg.WithSnippet(s)
		}
		return ctx.Report(msg)
	}
}

// Order reports unknown fields and fields out of the listed order.
type Order struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Names []string `toml:"names" yaml:"names" validate:"required,min=1,dive,required"`
}

func (o Order) Lint(slug string, ctx *lint.Context) error {
	level := ctx.AnnotationLevel()

	var unknown []diag.Snippet
	for _, f := range ctx.Preamble().Fields() {
		if slices.Contains(o.Names, f.Name()) {
			continue
		}
		unknown = append(unknown, ctx.FieldSnippet(f).
			WithAnnotation(level.Span(0, len(f.Name())).WithLabel("unrecognized header")))
	}
	if len(unknown) > 0 {
		msg := level.Title("preamble has extra header(s)").WithID(slug)
		for _, s := range unknown {
			msg = msg.WithSnippet(s)
		}
		if err := ctx.Report(msg); err != nil {
			return err
		}
	}

	maxLine, maxName := 0, ""
	for _, name := range o.Names {
		f, ok := ctx.Preamble().ByName(name)
		if !ok {
			continue
		}
		if f.LineStart() >= maxLine {
			maxLine, maxName = f.LineStart(), name
			continue
		}
		msg := level.Title(fmt.Sprintf("preamble header `%s` must come after `%s`", name, maxName)).
			WithID(slug).
			WithSnippet(ctx.FieldSnippet(f))
		if err := ctx.Report(msg); err != nil {
			return err
		}
	}
	return nil
}

func wholeLine(level diag.Level, f preamble.Field, label string) diag.Annotation {
	return level.Span(0, len(f.Source())).WithLabel(label)
}
