package lints

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"eipw/internal/diag"
	"eipw/internal/dict"
	"eipw/internal/lint"
	"eipw/internal/mdtree"
)

// proseVisitor calls onText for every text node outside code and raw HTML,
// and outside footnote definitions when skipFootnotes is set.
type proseVisitor struct {
	mdtree.BaseVisitor
	source        []byte
	skipFootnotes bool
	onText        func(text string, off int) error
}

func (v *proseVisitor) EnterText(n *ast.Text) (mdtree.Next, error) {
	return mdtree.TraverseChildren, v.onText(string(n.Segment.Value(v.source)), n.Segment.Start)
}

func (*proseVisitor) EnterCodeSpan(*ast.CodeSpan) (mdtree.Next, error) {
	return mdtree.SkipChildren, nil
}

func (*proseVisitor) EnterCodeBlock(*ast.CodeBlock) (mdtree.Next, error) {
	return mdtree.SkipChildren, nil
}

func (*proseVisitor) EnterFencedCodeBlock(*ast.FencedCodeBlock) (mdtree.Next, error) {
	return mdtree.SkipChildren, nil
}

func (*proseVisitor) EnterHTMLBlock(*ast.HTMLBlock) (mdtree.Next, error) {
	return mdtree.SkipChildren, nil
}

func (*proseVisitor) EnterRawHTML(*ast.RawHTML) (mdtree.Next, error) {
	return mdtree.SkipChildren, nil
}

func (*proseVisitor) EnterAutoLink(*ast.AutoLink) (mdtree.Next, error) {
	return mdtree.SkipChildren, nil
}

func (*proseVisitor) EnterFootnoteLink(*east.FootnoteLink) (mdtree.Next, error) {
	return mdtree.SkipChildren, nil
}

func (v *proseVisitor) EnterFootnote(*east.Footnote) (mdtree.Next, error) {
	if v.skipFootnotes {
		return mdtree.SkipChildren, nil
	}
	return mdtree.TraverseChildren, nil
}

func walkProse(ctx *lint.Context, footnotes bool, onText func(text string, off int) error) error {
	return ctx.Body().Walk(&proseVisitor{source: ctx.Body().Source, skipFootnotes: !footnotes, onText: onText})
}

// BodyRegex reports prose in the body that matches Pattern. Code and raw
// HTML are not checked.
type BodyRegex struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Pattern string `toml:"pattern" yaml:"pattern" validate:"required"`
	Message string `toml:"message" yaml:"message" validate:"required"`
}

func (r BodyRegex) Lint(slug string, ctx *lint.Context) error {
	re, err := compile(r.Pattern)
	if err != nil {
		return err
	}
	level := ctx.AnnotationLevel()
	footer := diag.Info.Title(fmt.Sprintf("the pattern in question: `%s`", r.Pattern))

	return walkProse(ctx, true, func(text string, off int) error {
		loc := re.FindStringIndex(text)
		if loc == nil {
			return nil
		}
		return ctx.Report(level.Title(r.Message).
			WithID(slug).
			WithSnippet(ctx.BodySnippet(off+loc[0], loc[1]-loc[0], level, "prohibited pattern was matched")).
			WithFooter(footer))
	})
}

// Spell reports words missing from the configured word lists. Each
// misspelling is reported once, at its first occurrence. Footnote
// definitions are not checked.
type Spell struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Dictionary string `toml:"dictionary" yaml:"dictionary"`
	Personal   string `toml:"personal-dictionary" yaml:"personal-dictionary"`

	// Dict is the parsed word list. When nil, Lint parses Dictionary and
	// Personal on every call.
	Dict *dict.Dictionary `toml:"-" yaml:"-"`
}

// WithDictionaries returns rule with its word lists resolved through c, so
// rules sharing a list share one Dictionary. Other rules are returned as is.
func WithDictionaries(rule lint.Lint, c *dict.Cache) lint.Lint {
	switch s := rule.(type) {
	case *Spell:
		bound := *s
		bound.Dict = c.Get(s.Dictionary, s.Personal)
		return &bound
	case Spell:
		s.Dict = c.Get(s.Dictionary, s.Personal)
		return s
	default:
		return rule
	}
}

func (s Spell) Lint(slug string, ctx *lint.Context) error {
	d := s.Dict
	if d == nil {
		d = dict.Parse(s.Dictionary, s.Personal)
	}
	level := ctx.AnnotationLevel()
	reported := make(map[string]struct{})

	// footnote definitions hold citations and names
	return walkProse(ctx, false, func(text string, off int) error {
		for _, w := range dict.Words(text) {
			if dict.Ignorable(w.Text) || d.Contains(w.Text) {
				continue
			}
			if _, ok := reported[w.Text]; ok {
				continue
			}
			reported[w.Text] = struct{}{}
			msg := level.Title(fmt.Sprintf("the word `%s` is misspelled", w.Text)).
				WithID(slug).
				WithSnippet(ctx.BodySnippet(off+w.Offset, len(w.Text), level, "incorrectly spelled"))
			if err := ctx.Report(msg); err != nil {
				return err
			}
		}
		return nil
	})
}
