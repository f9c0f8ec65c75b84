package lint

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/yuin/goldmark/ast"

	"eipw/internal/diag"
	"eipw/internal/fetch"
	"eipw/internal/mdtree"
	"eipw/internal/preamble"
	"eipw/internal/source"
)

// FetchContext is the view of a document given to rules during discovery.
// Fetch and FetchProposal only record requests; no I/O happens here.
// Documents without an origin have nothing to resolve against, so their
// requests are refused and counted instead.
type FetchContext struct {
	doc *Document

	mu        sync.Mutex
	paths     map[string]struct{}
	proposals map[uint64]struct{}
	refused   int
}

func newFetchContext(doc *Document) *FetchContext {
	return &FetchContext{
		doc:       doc,
		paths:     make(map[string]struct{}),
		proposals: make(map[uint64]struct{}),
	}
}

func (c *FetchContext) Preamble() *preamble.Preamble { return c.doc.preamble }
func (c *FetchContext) Body() *mdtree.Tree           { return c.doc.body }
func (c *FetchContext) Origin() string               { return c.doc.origin }

// Fetch requests a document by path, relative to the current document.
func (c *FetchContext) Fetch(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc.origin == "" {
		c.refused++
		return
	}
	c.paths[resolvePath(c.doc.origin, path)] = struct{}{}
}

// FetchProposal requests a proposal by number.
func (c *FetchContext) FetchProposal(number uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc.origin == "" {
		c.refused++
		return
	}
	c.proposals[number] = struct{}{}
}

func (c *FetchContext) refusals() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refused
}

// Context is the resolved, read-only view of a document given to modifiers
// and rules.
type Context struct {
	doc      *Document
	level    diag.Level
	reporter diag.Reporter
	cache    *cache
}

// Document returns the underlying parsed document.
func (c *Context) Document() *Document { return c.doc }

func (c *Context) Preamble() *preamble.Preamble { return c.doc.preamble }
func (c *Context) Body() *mdtree.Tree           { return c.doc.body }
func (c *Context) Source() string               { return c.doc.source }
func (c *Context) BodySource() string           { return c.doc.BodySource() }
func (c *Context) Origin() string               { return c.doc.origin }

// AnnotationLevel is the level rules should use for their findings.
func (c *Context) AnnotationLevel() diag.Level { return c.level }

// Report hands msg to the run's reporter. A failure is a *diag.ReportError,
// which rules should return unchanged.
func (c *Context) Report(msg diag.Message) error {
	return diag.Wrap(c.reporter.Report(msg))
}

// EIP returns the document fetched for path during discovery, or the error
// the fetch produced.
func (c *Context) EIP(path string) (*Context, error) {
	key := resolvePath(c.doc.origin, path)
	e, ok := c.cache.get(key)
	if !ok {
		return nil, fmt.Errorf("`%s`: %w", path, ErrNotRequested)
	}
	return c.derive(e)
}

// Proposal returns the proposal fetched by number during discovery.
func (c *Context) Proposal(number uint64) (*Context, error) {
	e, ok := c.cache.proposal(c.doc.origin, number)
	if !ok {
		return nil, fmt.Errorf("proposal %d: %w", number, ErrNotRequested)
	}
	return c.derive(e)
}

// ProposalFile returns the file name proposal number maps to, such as
// "eip-1.md".
func (c *Context) ProposalFile(number uint64) string {
	return c.cache.proposalName(number) + ".md"
}

func (c *Context) derive(e entry) (*Context, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &Context{doc: e.doc, level: c.level, reporter: c.reporter, cache: c.cache}, nil
}

// LineIndex returns the line index over the full document.
func (c *Context) LineIndex() *source.LineIndex { return c.doc.lines }

// BodyLine returns the 1-based line the body starts on.
func (c *Context) BodyLine() int {
	return int(c.doc.lines.LineCol(uint32(c.doc.bodyStart)).Line) //nolint:gosec // bounded by len(source)
}

// Line returns the text of a 1-based line of the document, without its
// newline.
func (c *Context) Line(n int) string {
	if n < 1 {
		return ""
	}
	return c.doc.lines.Line(uint32(n)) //nolint:gosec // checked above
}

// NodeSpan returns the byte range of a body node within the full document.
func (c *Context) NodeSpan(n ast.Node) (source.Span, bool) {
	sp, ok := c.doc.body.Span(n)
	if !ok {
		return source.Span{}, false
	}
	return sp.ShiftRight(uint32(c.doc.bodyStart)), true //nolint:gosec // bounded by len(source)
}

// NodeLine returns the 1-based line a body node starts on, or 0.
func (c *Context) NodeLine(n ast.Node) int {
	sp, ok := c.NodeSpan(n)
	if !ok {
		return 0
	}
	return int(c.doc.lines.LineCol(sp.Start).Line)
}

// NodeSource returns the exact text of a body node.
func (c *Context) NodeSource(n ast.Node) string {
	sp, ok := c.NodeSpan(n)
	if !ok {
		return ""
	}
	return sp.Slice(c.doc.source)
}

// NodeLines returns the full lines spanned by a body node.
func (c *Context) NodeLines(n ast.Node) string {
	text, _, _ := c.nodeLines(n)
	return text
}

func (c *Context) nodeLines(n ast.Node) (string, uint32, source.Span) {
	sp, ok := c.NodeSpan(n)
	if !ok {
		return "", 0, source.Span{}
	}
	first := c.doc.lines.LineCol(sp.Start).Line
	last := c.doc.lines.LineCol(sp.End).Line
	text, off, err := c.doc.lines.Lines(first, last)
	if err != nil {
		return "", 0, source.Span{}
	}
	return text, first, sp.ShiftLeft(off)
}

// NodeSnippet builds a folded snippet over the lines of n with one
// annotation at the context's level covering the node.
func (c *Context) NodeSnippet(n ast.Node, label string) diag.Snippet {
	return c.NodeSnippetAt(n, c.level, label)
}

// NodeSnippetAt is NodeSnippet with an explicit annotation level.
func (c *Context) NodeSnippetAt(n ast.Node, level diag.Level, label string) diag.Snippet {
	text, line, rel := c.nodeLines(n)
	if line == 0 {
		return diag.NewSnippet("").WithOrigin(c.doc.origin)
	}
	ann := level.SpanUTF8(text, int(rel.Start), max(int(rel.Len()), 1)).WithLabel(label)
	return diag.NewSnippet(text).
		WithOrigin(c.doc.origin).
		WithLineStart(int(line)).
		WithFold(true).
		WithAnnotation(ann)
}

// BodySnippet builds an unfolded snippet over the line holding byte off of
// the body, annotating length bytes from off.
func (c *Context) BodySnippet(off, length int, level diag.Level, label string) diag.Snippet {
	lc := c.doc.lines.LineCol(uint32(c.doc.bodyStart + off)) //nolint:gosec // bounded by len(source)
	line := c.doc.lines.Line(lc.Line)
	return diag.NewSnippet(line).
		WithOrigin(c.doc.origin).
		WithLineStart(int(lc.Line)).
		WithFold(false).
		WithAnnotation(level.SpanUTF8(line, int(lc.Col)-1, length).WithLabel(label))
}

// LineSnippet builds an unfolded, unannotated snippet over one line.
func (c *Context) LineSnippet(line int) diag.Snippet {
	return diag.NewSnippet(c.Line(line)).
		WithOrigin(c.doc.origin).
		WithLineStart(line).
		WithFold(false)
}

// FieldSnippet builds an unfolded snippet over a preamble field's line.
func (c *Context) FieldSnippet(f preamble.Field) diag.Snippet {
	return diag.NewSnippet(f.Source()).
		WithOrigin(c.doc.origin).
		WithLineStart(f.LineStart()).
		WithFold(false)
}

// resolvePath turns path into a cache key relative to the directory of origin.
func resolvePath(origin, path string) string {
	if filepath.IsAbs(path) {
		return fetch.Clean(path)
	}
	return fetch.Clean(filepath.Join(filepath.Dir(origin), path))
}
