package lints

import (
	"fmt"
	"math"
	"strings"

	"github.com/yuin/goldmark/ast"

	"eipw/internal/diag"
	"eipw/internal/lint"
	"eipw/internal/mdtree"
)

// LinkStatus checks that relative links to other proposals, selected by
// Pattern, point at documents at least as far along Flow as this one.
type LinkStatus struct {
	Pattern string     `toml:"pattern" yaml:"pattern" validate:"required"`
	Status  string     `toml:"status" yaml:"status" validate:"required"`
	Flow    [][]string `toml:"flow" yaml:"flow" validate:"required,min=1"`
}

type proposalLink struct {
	node ast.Node
	path string
}

type linkFinder struct {
	mdtree.BaseVisitor
	tree  *mdtree.Tree
	match func(string) bool
	links []proposalLink
}

func (v *linkFinder) EnterLink(n *ast.Link) (mdtree.Next, error) {
	dest, _ := v.tree.Destination(n)
	if path, ok := localPath(dest); ok && v.match(path) {
		v.links = append(v.links, proposalLink{node: n, path: path})
	}
	return mdtree.TraverseChildren, nil
}

// localPath strips the fragment and query of a relative link target.
// Absolute URLs are rejected.
func localPath(dest string) (string, bool) {
	if dest == "" || strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return "", false
	}
	dest, _, _ = strings.Cut(dest, "#")
	dest, _, _ = strings.Cut(dest, "?")
	return dest, dest != ""
}

func (l LinkStatus) find(tree *mdtree.Tree) ([]proposalLink, error) {
	re, err := compile(l.Pattern)
	if err != nil {
		return nil, err
	}
	v := &linkFinder{tree: tree, match: re.MatchString}
	if err := tree.Walk(v); err != nil {
		return nil, err
	}
	return v.links, nil
}

func (l LinkStatus) FindResources(ctx *lint.FetchContext) error {
	links, err := l.find(ctx.Body())
	if err != nil {
		return err
	}
	for _, link := range links {
		ctx.Fetch(link.path)
	}
	return nil
}

func (l LinkStatus) Lint(slug string, ctx *lint.Context) error {
	links, err := l.find(ctx.Body())
	if err != nil {
		return err
	}
	level := ctx.AnnotationLevel()
	m := tiers(l.Flow)
	mine := tier(m, ctx, l.Status)
	floor := math.MaxInt

	for _, link := range links {
		line := ctx.NodeLine(link.node)
		other, err := ctx.EIP(link.path)
		if err != nil {
			msg := level.Title(fmt.Sprintf("unable to read file `%s`: %v", link.path, err)).
				WithID(slug).
				WithSnippet(ctx.LineSnippet(line))
			if err := ctx.Report(msg); err != nil {
				return err
			}
			continue
		}

		theirs := tier(m, other, l.Status)
		floor = min(floor, theirs)
		if theirs >= mine {
			continue
		}

		msg := level.Title(fmt.Sprintf("proposal `%s` is not stable enough for a `%s` of `%s`",
			link.path, l.Status, fieldValue(ctx, l.Status))).
			WithID(slug).
			WithSnippet(ctx.LineSnippet(line))
		if valid := choices(m, floor); len(valid) > 0 {
			msg = msg.WithFooter(diag.Help.Title(fmt.Sprintf("because of this link, this proposal's `%s` must be one of: %s",
				l.Status, backtickList(valid))))
		}
		if err := ctx.Report(msg); err != nil {
			return err
		}
	}
	return nil
}
