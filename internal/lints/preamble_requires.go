package lints

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"eipw/internal/diag"
	"eipw/internal/lint"
)

// RequiresStatus checks that every proposal listed in Requires is at least
// as far along Flow as the current one.
type RequiresStatus struct {
	Requires string     `toml:"requires" yaml:"requires" validate:"required"`
	Status   string     `toml:"status" yaml:"status" validate:"required"`
	Flow     [][]string `toml:"flow" yaml:"flow" validate:"required,min=1"`
}

type requiredItem struct {
	number uint64
	offset int // within the field value
	text   string
}

// parseRequires returns the numeric items of a requires value. Items that
// are not numbers are left to other rules.
func parseRequires(value string) []requiredItem {
	var out []requiredItem
	offset := 0
	for item := range strings.SplitSeq(value, ",") {
		current := offset
		offset += len(item) + 1
		n, err := strconv.ParseUint(strings.TrimSpace(item), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, requiredItem{number: n, offset: current, text: item})
	}
	return out
}

func (r RequiresStatus) FindResources(ctx *lint.FetchContext) error {
	f, ok := ctx.Preamble().ByName(r.Requires)
	if !ok {
		return nil
	}
	for _, item := range parseRequires(f.Value()) {
		ctx.FetchProposal(item.number)
	}
	return nil
}

func (r RequiresStatus) Lint(slug string, ctx *lint.Context) error {
	f, ok := ctx.Preamble().ByName(r.Requires)
	if !ok {
		return nil
	}
	level := ctx.AnnotationLevel()
	m := tiers(r.Flow)
	mine := tier(m, ctx, r.Status)

	var tooUnstable []diag.Annotation
	floor := math.MaxInt
	for _, item := range parseRequires(f.Value()) {
		other, err := ctx.Proposal(item.number)
		if err != nil {
			msg := level.Title(fmt.Sprintf("unable to read file `%s`: %v", ctx.ProposalFile(item.number), err)).
				WithID(slug).
				WithSnippet(ctx.FieldSnippet(f).
					WithAnnotation(itemSpan(level, f, item.offset, item.text, "required from here")))
			if err := ctx.Report(msg); err != nil {
				return err
			}
			continue
		}

		theirs := tier(m, other, r.Status)
		floor = min(floor, theirs)
		if theirs >= mine {
			continue
		}
		tooUnstable = append(tooUnstable, itemSpan(level, f, item.offset, item.text, "has a less advanced status"))
	}

	if len(tooUnstable) == 0 {
		return nil
	}

	snippet := ctx.FieldSnippet(f)
	for _, a := range tooUnstable {
		snippet = snippet.WithAnnotation(a)
	}
	msg := level.Title(fmt.Sprintf("preamble header `%s` contains items not stable enough for a `%s` of `%s`",
		r.Requires, r.Status, fieldValue(ctx, r.Status))).
		WithID(slug).
		WithSnippet(snippet)
	if valid := choices(m, floor); len(valid) > 0 {
		msg = msg.WithFooter(diag.Help.Title(fmt.Sprintf("valid `%s` values for this proposal are: %s", r.Status, backtickList(valid))))
	}
	return ctx.Report(msg)
}
