package mdtree

import (
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Next tells Walk whether to descend into a node's children.
type Next uint8

const (
	// TraverseChildren visits the children, then calls the Depart method.
	TraverseChildren Next = iota
	// SkipChildren skips the subtree and the matching Depart call.
	SkipChildren
)

// Visitor receives a callback per node kind. Embed BaseVisitor and override
// only the kinds of interest.
type Visitor interface {
	EnterDocument(n *ast.Document) (Next, error)
	DepartDocument(n *ast.Document) error
	EnterParagraph(n *ast.Paragraph) (Next, error)
	DepartParagraph(n *ast.Paragraph) error
	EnterHeading(n *ast.Heading) (Next, error)
	DepartHeading(n *ast.Heading) error
	EnterThematicBreak(n *ast.ThematicBreak) (Next, error)
	DepartThematicBreak(n *ast.ThematicBreak) error
	EnterCodeBlock(n *ast.CodeBlock) (Next, error)
	DepartCodeBlock(n *ast.CodeBlock) error
	EnterFencedCodeBlock(n *ast.FencedCodeBlock) (Next, error)
	DepartFencedCodeBlock(n *ast.FencedCodeBlock) error
	EnterBlockquote(n *ast.Blockquote) (Next, error)
	DepartBlockquote(n *ast.Blockquote) error
	EnterList(n *ast.List) (Next, error)
	DepartList(n *ast.List) error
	EnterListItem(n *ast.ListItem) (Next, error)
	DepartListItem(n *ast.ListItem) error
	EnterHTMLBlock(n *ast.HTMLBlock) (Next, error)
	DepartHTMLBlock(n *ast.HTMLBlock) error
	EnterTextBlock(n *ast.TextBlock) (Next, error)
	DepartTextBlock(n *ast.TextBlock) error
	EnterText(n *ast.Text) (Next, error)
	DepartText(n *ast.Text) error
	EnterString(n *ast.String) (Next, error)
	DepartString(n *ast.String) error
	EnterCodeSpan(n *ast.CodeSpan) (Next, error)
	DepartCodeSpan(n *ast.CodeSpan) error
	EnterEmphasis(n *ast.Emphasis) (Next, error)
	DepartEmphasis(n *ast.Emphasis) error
	EnterLink(n *ast.Link) (Next, error)
	DepartLink(n *ast.Link) error
	EnterImage(n *ast.Image) (Next, error)
	DepartImage(n *ast.Image) error
	EnterAutoLink(n *ast.AutoLink) (Next, error)
	DepartAutoLink(n *ast.AutoLink) error
	EnterRawHTML(n *ast.RawHTML) (Next, error)
	DepartRawHTML(n *ast.RawHTML) error
	EnterTable(n *east.Table) (Next, error)
	DepartTable(n *east.Table) error
	EnterTableHeader(n *east.TableHeader) (Next, error)
	DepartTableHeader(n *east.TableHeader) error
	EnterTableRow(n *east.TableRow) (Next, error)
	DepartTableRow(n *east.TableRow) error
	EnterTableCell(n *east.TableCell) (Next, error)
	DepartTableCell(n *east.TableCell) error
	EnterStrikethrough(n *east.Strikethrough) (Next, error)
	DepartStrikethrough(n *east.Strikethrough) error
	EnterTaskCheckBox(n *east.TaskCheckBox) (Next, error)
	DepartTaskCheckBox(n *east.TaskCheckBox) error
	EnterFootnoteList(n *east.FootnoteList) (Next, error)
	DepartFootnoteList(n *east.FootnoteList) error
	EnterFootnote(n *east.Footnote) (Next, error)
	DepartFootnote(n *east.Footnote) error
	EnterFootnoteLink(n *east.FootnoteLink) (Next, error)
	DepartFootnoteLink(n *east.FootnoteLink) error
	EnterFootnoteBacklink(n *east.FootnoteBacklink) (Next, error)
	DepartFootnoteBacklink(n *east.FootnoteBacklink) error

	// EnterOther handles node kinds not listed above.
	EnterOther(n ast.Node) (Next, error)
	DepartOther(n ast.Node) error
}

// BaseVisitor implements every Visitor method as a no-op that traverses
// children.
type BaseVisitor struct{}

var _ Visitor = BaseVisitor{}

func (BaseVisitor) EnterDocument(*ast.Document) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartDocument(*ast.Document) error { return nil }
func (BaseVisitor) EnterParagraph(*ast.Paragraph) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartParagraph(*ast.Paragraph) error { return nil }
func (BaseVisitor) EnterHeading(*ast.Heading) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartHeading(*ast.Heading) error { return nil }
func (BaseVisitor) EnterThematicBreak(*ast.ThematicBreak) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartThematicBreak(*ast.ThematicBreak) error { return nil }
func (BaseVisitor) EnterCodeBlock(*ast.CodeBlock) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartCodeBlock(*ast.CodeBlock) error { return nil }
func (BaseVisitor) EnterFencedCodeBlock(*ast.FencedCodeBlock) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartFencedCodeBlock(*ast.FencedCodeBlock) error { return nil }
func (BaseVisitor) EnterBlockquote(*ast.Blockquote) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartBlockquote(*ast.Blockquote) error { return nil }
func (BaseVisitor) EnterList(*ast.List) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartList(*ast.List) error { return nil }
func (BaseVisitor) EnterListItem(*ast.ListItem) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartListItem(*ast.ListItem) error { return nil }
func (BaseVisitor) EnterHTMLBlock(*ast.HTMLBlock) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartHTMLBlock(*ast.HTMLBlock) error { return nil }
func (BaseVisitor) EnterTextBlock(*ast.TextBlock) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartTextBlock(*ast.TextBlock) error { return nil }
func (BaseVisitor) EnterText(*ast.Text) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartText(*ast.Text) error { return nil }
func (BaseVisitor) EnterString(*ast.String) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartString(*ast.String) error { return nil }
func (BaseVisitor) EnterCodeSpan(*ast.CodeSpan) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartCodeSpan(*ast.CodeSpan) error { return nil }
func (BaseVisitor) EnterEmphasis(*ast.Emphasis) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartEmphasis(*ast.Emphasis) error { return nil }
func (BaseVisitor) EnterLink(*ast.Link) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartLink(*ast.Link) error { return nil }
func (BaseVisitor) EnterImage(*ast.Image) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartImage(*ast.Image) error { return nil }
func (BaseVisitor) EnterAutoLink(*ast.AutoLink) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartAutoLink(*ast.AutoLink) error { return nil }
func (BaseVisitor) EnterRawHTML(*ast.RawHTML) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartRawHTML(*ast.RawHTML) error { return nil }
func (BaseVisitor) EnterTable(*east.Table) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartTable(*east.Table) error { return nil }
func (BaseVisitor) EnterTableHeader(*east.TableHeader) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartTableHeader(*east.TableHeader) error { return nil }
func (BaseVisitor) EnterTableRow(*east.TableRow) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartTableRow(*east.TableRow) error { return nil }
func (BaseVisitor) EnterTableCell(*east.TableCell) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartTableCell(*east.TableCell) error { return nil }
func (BaseVisitor) EnterStrikethrough(*east.Strikethrough) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartStrikethrough(*east.Strikethrough) error { return nil }
func (BaseVisitor) EnterTaskCheckBox(*east.TaskCheckBox) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartTaskCheckBox(*east.TaskCheckBox) error { return nil }
func (BaseVisitor) EnterFootnoteList(*east.FootnoteList) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartFootnoteList(*east.FootnoteList) error { return nil }
func (BaseVisitor) EnterFootnote(*east.Footnote) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartFootnote(*east.Footnote) error { return nil }
func (BaseVisitor) EnterFootnoteLink(*east.FootnoteLink) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartFootnoteLink(*east.FootnoteLink) error { return nil }
func (BaseVisitor) EnterFootnoteBacklink(*east.FootnoteBacklink) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartFootnoteBacklink(*east.FootnoteBacklink) error { return nil }
func (BaseVisitor) EnterOther(ast.Node) (Next, error) { return TraverseChildren, nil }
func (BaseVisitor) DepartOther(ast.Node) error { return nil }

func enter(v Visitor, n ast.Node) (Next, error) {
	switch n := n.(type) {
	case *ast.Document:
		return v.EnterDocument(n)
	case *ast.Paragraph:
		return v.EnterParagraph(n)
	case *ast.Heading:
		return v.EnterHeading(n)
	case *ast.ThematicBreak:
		return v.EnterThematicBreak(n)
	case *ast.CodeBlock:
		return v.EnterCodeBlock(n)
	case *ast.FencedCodeBlock:
		return v.EnterFencedCodeBlock(n)
	case *ast.Blockquote:
		return v.EnterBlockquote(n)
	case *ast.List:
		return v.EnterList(n)
	case *ast.ListItem:
		return v.EnterListItem(n)
	case *ast.HTMLBlock:
		return v.EnterHTMLBlock(n)
	case *ast.TextBlock:
		return v.EnterTextBlock(n)
	case *ast.Text:
		return v.EnterText(n)
	case *ast.String:
		return v.EnterString(n)
	case *ast.CodeSpan:
		return v.EnterCodeSpan(n)
	case *ast.Emphasis:
		return v.EnterEmphasis(n)
	case *ast.Link:
		return v.EnterLink(n)
	case *ast.Image:
		return v.EnterImage(n)
	case *ast.AutoLink:
		return v.EnterAutoLink(n)
	case *ast.RawHTML:
		return v.EnterRawHTML(n)
	case *east.Table:
		return v.EnterTable(n)
	case *east.TableHeader:
		return v.EnterTableHeader(n)
	case *east.TableRow:
		return v.EnterTableRow(n)
	case *east.TableCell:
		return v.EnterTableCell(n)
	case *east.Strikethrough:
		return v.EnterStrikethrough(n)
	case *east.TaskCheckBox:
		return v.EnterTaskCheckBox(n)
	case *east.FootnoteList:
		return v.EnterFootnoteList(n)
	case *east.Footnote:
		return v.EnterFootnote(n)
	case *east.FootnoteLink:
		return v.EnterFootnoteLink(n)
	case *east.FootnoteBacklink:
		return v.EnterFootnoteBacklink(n)
	default:
		return v.EnterOther(n)
	}
}

func depart(v Visitor, n ast.Node) error {
	switch n := n.(type) {
	case *ast.Document:
		return v.DepartDocument(n)
	case *ast.Paragraph:
		return v.DepartParagraph(n)
	case *ast.Heading:
		return v.DepartHeading(n)
	case *ast.ThematicBreak:
		return v.DepartThematicBreak(n)
	case *ast.CodeBlock:
		return v.DepartCodeBlock(n)
	case *ast.FencedCodeBlock:
		return v.DepartFencedCodeBlock(n)
	case *ast.Blockquote:
		return v.DepartBlockquote(n)
	case *ast.List:
		return v.DepartList(n)
	case *ast.ListItem:
		return v.DepartListItem(n)
	case *ast.HTMLBlock:
		return v.DepartHTMLBlock(n)
	case *ast.TextBlock:
		return v.DepartTextBlock(n)
	case *ast.Text:
		return v.DepartText(n)
	case *ast.String:
		return v.DepartString(n)
	case *ast.CodeSpan:
		return v.DepartCodeSpan(n)
	case *ast.Emphasis:
		return v.DepartEmphasis(n)
	case *ast.Link:
		return v.DepartLink(n)
	case *ast.Image:
		return v.DepartImage(n)
	case *ast.AutoLink:
		return v.DepartAutoLink(n)
	case *ast.RawHTML:
		return v.DepartRawHTML(n)
	case *east.Table:
		return v.DepartTable(n)
	case *east.TableHeader:
		return v.DepartTableHeader(n)
	case *east.TableRow:
		return v.DepartTableRow(n)
	case *east.TableCell:
		return v.DepartTableCell(n)
	case *east.Strikethrough:
		return v.DepartStrikethrough(n)
	case *east.TaskCheckBox:
		return v.DepartTaskCheckBox(n)
	case *east.FootnoteList:
		return v.DepartFootnoteList(n)
	case *east.Footnote:
		return v.DepartFootnote(n)
	case *east.FootnoteLink:
		return v.DepartFootnoteLink(n)
	case *east.FootnoteBacklink:
		return v.DepartFootnoteBacklink(n)
	default:
		return v.DepartOther(n)
	}
}
