package diagfmt

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"eipw/internal/diag"
	"eipw/internal/source"
)

// Pretty renders msg as a header, annotated source excerpts and footers.
// The result has no trailing newline.
func Pretty(msg diag.Message, opts PrettyOpts) string {
	p := newPrinter(opts)
	p.message(msg)
	return strings.TrimRight(p.b.String(), "\n")
}

type palette struct {
	levels [diag.Help + 1]*color.Color
	gutter *color.Color
	title  *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	var p palette
	p.levels[diag.Error] = mk(color.FgRed, color.Bold)
	p.levels[diag.Warning] = mk(color.FgYellow, color.Bold)
	p.levels[diag.Info] = mk(color.FgBlue, color.Bold)
	p.levels[diag.Note] = mk(color.FgGreen, color.Bold)
	p.levels[diag.Help] = mk(color.FgCyan, color.Bold)
	p.gutter = mk(color.FgBlue, color.Bold)
	p.title = mk(color.Bold)
	return p
}

func (p palette) level(l diag.Level) *color.Color {
	if int(l) < len(p.levels) {
		return p.levels[l]
	}
	return p.title
}

type printer struct {
	b     strings.Builder
	opts  PrettyOpts
	paint palette
	width int // gutter width in digits
}

func newPrinter(opts PrettyOpts) *printer {
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	return &printer{opts: opts, paint: newPalette(opts.Color)}
}

// srcLine is one line of a snippet; end excludes the line break.
type srcLine struct {
	start int
	end   int
	text  string
}

type mark struct {
	from  int // byte offsets within the line text
	to    int
	level diag.Level
	label string
}

type layout struct {
	snippet diag.Snippet
	lines   []srcLine
	marks   map[int][]mark
}

func (p *printer) message(msg diag.Message) {
	layouts := make([]layout, len(msg.Snippets))
	for i, s := range msg.Snippets {
		layouts[i] = layoutSnippet(s)
		last := s.LineStart + len(layouts[i].lines) - 1
		p.width = max(p.width, len(strconv.Itoa(last)))
	}

	p.header(msg)
	for _, l := range layouts {
		p.snippet(l)
	}
	if len(msg.Footer) == 0 {
		return
	}
	if len(layouts) > 0 {
		p.emptyGutter()
	}
	for _, f := range msg.Footer {
		p.footer(f)
	}
}

func (p *printer) header(msg diag.Message) {
	c := p.paint.level(msg.Level)
	if msg.ID != "" {
		p.b.WriteString(c.Sprintf("%s[%s]", msg.Level, msg.ID))
	} else {
		p.b.WriteString(c.Sprint(msg.Level.String()))
	}
	p.b.WriteString(p.paint.title.Sprint(": " + msg.Title))
	p.b.WriteByte('\n')
}

func (p *printer) snippet(l layout) {
	s := l.snippet
	if s.Origin != "" {
		loc := p.origin(s.Origin)
		if line, col, ok := l.location(); ok {
			loc = fmt.Sprintf("%s:%d:%d", loc, line, col)
		}
		p.b.WriteString(strings.Repeat(" ", p.width))
		p.b.WriteString(p.paint.gutter.Sprint("--> "))
		p.b.WriteString(loc)
		p.b.WriteByte('\n')
	}
	p.emptyGutter()

	prev := -1
	for i, line := range l.lines {
		if !l.visible(i) {
			continue
		}
		if prev >= 0 && i > prev+1 {
			p.b.WriteString(p.paint.gutter.Sprint("..."))
			p.b.WriteByte('\n')
		}
		prev = i

		num := strconv.Itoa(s.LineStart + i)
		p.b.WriteString(p.paint.gutter.Sprintf("%*s |", p.width, num))
		if text := p.expand(line.text); text != "" {
			p.b.WriteByte(' ')
			p.b.WriteString(text)
		}
		p.b.WriteByte('\n')

		for _, m := range l.marks[i] {
			p.underline(line.text, m)
		}
	}
}

func (p *printer) underline(text string, m mark) {
	from := min(m.from, len(text))
	to := min(max(m.to, from), len(text))
	pad := runewidth.StringWidth(p.expand(text[:from]))
	n := max(1, runewidth.StringWidth(p.expand(text[from:to])))

	ch := "-"
	if m.level == diag.Error {
		ch = "^"
	}
	c := p.paint.level(m.level)

	p.b.WriteString(strings.Repeat(" ", p.width+1))
	p.b.WriteString(p.paint.gutter.Sprint("|"))
	p.b.WriteByte(' ')
	p.b.WriteString(strings.Repeat(" ", pad))
	p.b.WriteString(c.Sprint(strings.Repeat(ch, n)))
	if m.label != "" {
		p.b.WriteByte(' ')
		p.b.WriteString(c.Sprint(m.label))
	}
	p.b.WriteByte('\n')
}

func (p *printer) footer(f diag.Message) {
	indent := strings.Repeat(" ", p.width+1)
	prefix := f.Level.String() + ": "
	p.b.WriteString(indent)
	p.b.WriteString(p.paint.gutter.Sprint("= "))
	p.b.WriteString(p.paint.title.Sprint(prefix))
	for i, line := range strings.Split(f.Title, "\n") {
		if i > 0 {
			p.b.WriteString(indent)
			p.b.WriteString(strings.Repeat(" ", 2+len(prefix)))
		}
		p.b.WriteString(line)
		p.b.WriteByte('\n')
	}
}

func (p *printer) emptyGutter() {
	p.b.WriteString(strings.Repeat(" ", p.width+1))
	p.b.WriteString(p.paint.gutter.Sprint("|"))
	p.b.WriteByte('\n')
}

func (p *printer) expand(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", p.opts.TabWidth))
}

func (p *printer) origin(origin string) string {
	return displayPath(origin, p.opts)
}

func displayPath(origin string, opts PrettyOpts) string {
	switch opts.PathMode {
	case PathModeBasename:
		return filepath.Base(origin)
	case PathModeRelative:
		if opts.BaseDir == "" {
			return origin
		}
		rel, err := filepath.Rel(opts.BaseDir, origin)
		if err != nil || strings.HasPrefix(rel, "..") {
			return origin
		}
		return rel
	default:
		return origin
	}
}

func layoutSnippet(s diag.Snippet) layout {
	if s.LineStart < 1 {
		s.LineStart = 1
	}
	l := layout{snippet: s, lines: splitLines(s.Source), marks: make(map[int][]mark)}

	for _, a := range s.Annotations {
		start := clamp(a.Range.Start, 0, len(s.Source))
		end := clamp(a.Range.End, start, len(s.Source))
		first := l.lineOf(start)
		last := first
		if end > start {
			last = l.lineOf(end - 1)
		}
		for i := first; i <= last; i++ {
			line := l.lines[i]
			m := mark{
				from:  max(start, line.start) - line.start,
				to:    max(min(end, line.end), line.start) - line.start,
				level: a.Level,
			}
			if i == last {
				m.label = a.Label
			}
			l.marks[i] = append(l.marks[i], m)
		}
	}
	for i := range l.marks {
		sort.SliceStable(l.marks[i], func(a, b int) bool {
			return l.marks[i][a].from < l.marks[i][b].from
		})
	}
	return l
}

func splitLines(src string) []srcLine {
	var out []srcLine
	start := 0
	for start <= len(src) {
		nl := strings.IndexByte(src[start:], '\n')
		if nl < 0 {
			if start < len(src) || len(out) == 0 {
				out = append(out, newSrcLine(src, start, len(src)))
			}
			break
		}
		out = append(out, newSrcLine(src, start, start+nl))
		start += nl + 1
	}
	return out
}

func newSrcLine(src string, start, end int) srcLine {
	text := strings.TrimSuffix(src[start:end], "\r")
	return srcLine{start: start, end: start + len(text), text: text}
}

// lineOf returns the index of the line holding byte off. Offsets past the
// last line break land on the last line.
func (l layout) lineOf(off int) int {
	i := sort.Search(len(l.lines), func(i int) bool { return l.lines[i].start > off })
	return max(i-1, 0)
}

func (l layout) visible(i int) bool {
	if !l.snippet.Fold || len(l.marks) == 0 {
		return true
	}
	_, ok := l.marks[i]
	return ok
}

// location is the 1-based line and character column of the first annotation.
func (l layout) location() (int, int, bool) {
	if len(l.snippet.Annotations) == 0 {
		return 0, 0, false
	}
	start := clamp(l.snippet.Annotations[0].Range.Start, 0, len(l.snippet.Source))
	i := l.lineOf(start)
	line := l.lines[i]
	off := min(max(start-line.start, 0), len(line.text))
	return l.snippet.LineStart + i, source.CharCol(line.text, off) + 1, true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
