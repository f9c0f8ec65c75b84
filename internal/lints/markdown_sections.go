package lints

import (
	"fmt"
	"slices"

	"github.com/yuin/goldmark/ast"

	"eipw/internal/diag"
	"eipw/internal/lint"
	"eipw/internal/mdtree"
)

type section struct {
	line int
	name string
}

// sectionFinder collects level-two headings.
type sectionFinder struct {
	mdtree.BaseVisitor
	ctx      *lint.Context
	sections []section
}

func (v *sectionFinder) EnterHeading(n *ast.Heading) (mdtree.Next, error) {
	if n.Level == 2 {
		v.sections = append(v.sections, section{
			line: v.ctx.NodeLine(n),
			name: v.ctx.Body().Text(n),
		})
	}
	return mdtree.SkipChildren, nil
}

func findSections(ctx *lint.Context) ([]section, error) {
	v := &sectionFinder{ctx: ctx}
	if err := ctx.Body().Walk(v); err != nil {
		return nil, err
	}
	return v.sections, nil
}

// SectionRequired reports missing level-two sections.
type SectionRequired struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Sections []string `toml:"sections" yaml:"sections" validate:"required,min=1,dive,required"`
}

func (r SectionRequired) Lint(slug string, ctx *lint.Context) error {
	present, err := findSections(ctx)
	if err != nil {
		return err
	}
	var missing []string
	for _, want := range r.Sections {
		if !slices.ContainsFunc(present, func(s section) bool { return s.name == want }) {
			missing = append(missing, want)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return ctx.Report(ctx.AnnotationLevel().
		Title("body is missing section(s): " + backtickList(missing)).
		WithID(slug).
		WithSnippet(diag.NewSnippet(ctx.BodySource()).
			WithOrigin(ctx.Origin()).
			WithLineStart(ctx.BodyLine()).
			WithFold(true)))
}

// SectionOrder reports unknown level-two sections and sections out of the
// listed order.
type SectionOrder struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Sections []string `toml:"sections" yaml:"sections" validate:"required,min=1,dive,required"`
}

func (o SectionOrder) Lint(slug string, ctx *lint.Context) error {
	level := ctx.AnnotationLevel()
	present, err := findSections(ctx)
	if err != nil {
		return err
	}

	var extra []diag.Snippet
	lines := make(map[string]int, len(present))
	for _, s := range present {
		lines[s.name] = s.line
		if !slices.Contains(o.Sections, s.name) {
			extra = append(extra, ctx.LineSnippet(s.line))
		}
	}
	if len(extra) > 0 {
		msg := level.Title("body has extra section(s)").WithID(slug)
		for _, s := range extra {
			msg = msg.WithSnippet(s)
		}
		if err := ctx.Report(msg); err != nil {
			return err
		}
	}

	maxLine := 0
	for i, name := range o.Sections {
		line, ok := lines[name]
		if !ok {
			continue
		}
		if line >= maxLine {
			maxLine = line
			continue
		}
		msg := level.Title(fmt.Sprintf("section `%s` is out of order", name)).
			WithID(slug).
			WithSnippet(ctx.LineSnippet(line))
		if prev := o.preceding(lines, i); prev != "" {
			msg = msg.WithFooter(diag.Help.Title(fmt.Sprintf("`%s` should come after `%s`", name, prev)))
		}
		if err := ctx.Report(msg); err != nil {
			return err
		}
	}
	return nil
}

// preceding returns the closest section listed before index i that is
// present in the document.
func (o SectionOrder) preceding(present map[string]int, i int) string {
	for j := i - 1; j >= 0; j-- {
		if _, ok := present[o.Sections[j]]; ok {
			return o.Sections[j]
		}
	}
	return ""
}

// HeadingFirst requires the body to open with a heading.
type HeadingFirst struct {
	lint.NoResources `toml:"-" yaml:"-"`
}

func (HeadingFirst) Lint(slug string, ctx *lint.Context) error {
	level := ctx.AnnotationLevel()
	first := ctx.Body().Root.FirstChild()
	if first == nil {
		return ctx.Report(level.Title("Cannot submit an empty proposal").WithID(slug))
	}
	if _, ok := first.(*ast.Heading); ok {
		return nil
	}
	return ctx.Report(level.Title("Nothing is permitted between the preamble and the first heading").
		WithID(slug).
		WithSnippet(ctx.NodeSnippet(first, "")))
}
