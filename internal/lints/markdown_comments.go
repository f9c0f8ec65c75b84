package lints

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark/ast"

	"eipw/internal/diag"
	"eipw/internal/lint"
	"eipw/internal/mdtree"
)

// HTMLComments forbids HTML comments in the body. They are tolerated, as
// warnings, while the field Name holds one of WarnFor.
type HTMLComments struct {
	lint.NoResources `toml:"-" yaml:"-"`

	Name    string   `toml:"name" yaml:"name" validate:"required"`
	WarnFor []string `toml:"warn-for" yaml:"warn-for"`
}

type commentFinder struct {
	mdtree.BaseVisitor
	ctx   *lint.Context
	lines []int
}

func (v *commentFinder) EnterHTMLBlock(n *ast.HTMLBlock) (mdtree.Next, error) {
	if strings.Contains(v.ctx.Body().Lines(n), "<!--") {
		v.lines = append(v.lines, v.ctx.NodeLine(n))
	}
	return mdtree.SkipChildren, nil
}

func (v *commentFinder) EnterRawHTML(n *ast.RawHTML) (mdtree.Next, error) {
	if strings.HasPrefix(v.ctx.NodeSource(n), "<!--") {
		v.lines = append(v.lines, v.ctx.NodeLine(n))
	}
	return mdtree.SkipChildren, nil
}

func (h HTMLComments) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(h.Name)
	if !ok {
		return nil
	}
	value := strings.TrimSpace(f.Value())
	warn := slices.Contains(h.WarnFor, value)

	level := ctx.AnnotationLevel()
	if warn && level == diag.Error {
		level = diag.Warning
	}

	v := &commentFinder{ctx: ctx}
	if err := ctx.Body().Walk(v); err != nil {
		return err
	}
	if len(v.lines) == 0 {
		return nil
	}

	title := fmt.Sprintf("HTML comments are not allowed when `%s` is `%s`", h.Name, value)
	if warn {
		title = fmt.Sprintf("HTML comments are only allowed while `%s` is one of: %s", h.Name, backtickList(h.WarnFor))
	}
	msg := level.Title(title).WithID(slug)
	for _, line := range v.lines {
		msg = msg.WithSnippet(ctx.LineSnippet(line))
	}
	return ctx.Report(msg)
}
