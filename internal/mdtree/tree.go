package mdtree

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"eipw/internal/source"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
		extension.Footnote,
	),
)

// Tree is a parsed Markdown body together with its source bytes.
type Tree struct {
	Root   ast.Node
	Source []byte
}

// Parse parses a Markdown body. Node positions are byte offsets into body.
func Parse(body string) *Tree {
	src := []byte(body)
	return &Tree{
		Root:   markdown.Parser().Parse(text.NewReader(src)),
		Source: src,
	}
}

// Walk visits the whole tree with v.
func (t *Tree) Walk(v Visitor) error {
	return Walk(t.Root, v)
}

// Walk performs a preorder depth-first traversal of n. A SkipChildren result
// suppresses both descent and the node's Depart call. The first error stops
// the walk and is returned.
func Walk(n ast.Node, v Visitor) error {
	next, err := enter(v, n)
	if err != nil {
		return err
	}
	if next == SkipChildren {
		return nil
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if err := Walk(c, v); err != nil {
			return err
		}
	}
	return depart(v, n)
}

// Span returns the byte range of n within the body. Nodes that carry no
// position of their own (auto links, thematic breaks) borrow the range of
// their closest positioned ancestor.
func (t *Tree) Span(n ast.Node) (source.Span, bool) {
	for ; n != nil; n = n.Parent() {
		if sp, ok := t.ownSpan(n); ok {
			return sp, true
		}
	}
	return source.Span{}, false
}

func (t *Tree) ownSpan(n ast.Node) (source.Span, bool) {
	start, stop := -1, -1
	extend := func(seg text.Segment) {
		if seg.Stop <= seg.Start {
			return
		}
		if start < 0 || seg.Start < start {
			start = seg.Start
		}
		if seg.Stop > stop {
			stop = seg.Stop
		}
	}

	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			extend(c.Segment)
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				extend(c.Segments.At(i))
			}
		}
		if c.Type() != ast.TypeInline {
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				extend(lines.At(i))
			}
		}
		return ast.WalkContinue, nil
	})

	if start < 0 || stop < start {
		return source.Span{}, false
	}
	stop = min(stop, len(t.Source))
	for stop > start && (t.Source[stop-1] == '\n' || t.Source[stop-1] == '\r') {
		stop--
	}
	return source.NewSpan(start, stop), true
}

// Text returns the literal text content of n and its descendants.
func (t *Tree) Text(n ast.Node) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(t.Source))
			if c.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.AutoLink:
			sb.Write(c.URL(t.Source))
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(t.Source))
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// Lines returns the raw source lines of a block node joined together.
func (t *Tree) Lines(n ast.Node) string {
	if n.Type() == ast.TypeInline {
		return ""
	}
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(t.Source))
	}
	return buf.String()
}

// Destination returns the link target of a Link, Image or AutoLink node.
func (t *Tree) Destination(n ast.Node) (string, bool) {
	switch n := n.(type) {
	case *ast.Link:
		return string(n.Destination), true
	case *ast.Image:
		return string(n.Destination), true
	case *ast.AutoLink:
		return string(n.URL(t.Source)), true
	default:
		return "", false
	}
}
