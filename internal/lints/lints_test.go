package lints_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eipw/internal/diag"
	"eipw/internal/dict"
	"eipw/internal/fetch"
	"eipw/internal/lint"
	"eipw/internal/lints"
)

func document(preamble, body string) string {
	return "---\n" + preamble + "---\n" + body
}

type result struct {
	messages []diag.Message
	summary  *lint.Summary
}

func runRule(t *testing.T, slug string, rule lint.Lint, origin, text string, files map[string]string) result {
	t.Helper()
	var bag diag.Bag
	l := lint.New(&bag)
	require.NoError(t, l.Register(slug, lint.SeverityDefault, rule))
	l.SetFetch(fetch.NewMemory(files))
	l.CheckSlice(origin, text)
	summary, err := l.Run(context.Background())
	require.NoError(t, err)
	return result{messages: bag.Items(), summary: summary}
}

func titles(msgs []diag.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Title
	}
	return out
}

func TestNoDuplicates(t *testing.T) {
	res := runRule(t, "preamble-no-dup", lints.NoDuplicates{}, "",
		document("a: 1\nb: 2\na: 3\n", ""), nil)

	require.Len(t, res.messages, 1)
	msg := res.messages[0]
	assert.Equal(t, "preamble header `a` defined multiple times", msg.Title)
	assert.Equal(t, "preamble-no-dup", msg.ID)
	require.Len(t, msg.Snippets, 2)
	assert.Equal(t, 2, msg.Snippets[0].LineStart)
	assert.Equal(t, 4, msg.Snippets[1].LineStart)
	assert.Equal(t, diag.Info, msg.Snippets[0].Annotations[0].Level)
	assert.Equal(t, "first defined here", msg.Snippets[0].Annotations[0].Label)
	assert.Equal(t, diag.Error, msg.Snippets[1].Annotations[0].Level)
	assert.Equal(t, "redefined here", msg.Snippets[1].Annotations[0].Label)
}

func TestTrim(t *testing.T) {
	res := runRule(t, "preamble-trim", lints.Trim{}, "",
		document("a:1\nb:  2\nc: 3 \nd:\n", ""), nil)

	assert.Equal(t, []string{
		"preamble header `b` has extra whitespace",
		"preamble header `c` has extra whitespace",
		"preamble header values must begin with a space",
	}, titles(res.messages))

	noSpace := res.messages[2]
	require.Len(t, noSpace.Snippets, 1)
	assert.Equal(t, "a:1", noSpace.Snippets[0].Source)
	assert.Equal(t, diag.Range{Start: 2, End: 3}, noSpace.Snippets[0].Annotations[0].Range)
}

func TestRequired(t *testing.T) {
	res := runRule(t, "preamble-req", lints.Required{Names: []string{"eip", "title", "status"}}, "",
		document("title: x\n", ""), nil)

	require.Len(t, res.messages, 1)
	assert.Equal(t, "preamble is missing header(s): `eip`, `status`", res.messages[0].Title)
	assert.True(t, res.messages[0].Snippets[0].Fold)
	assert.Equal(t, "---", res.messages[0].Snippets[0].Source)
}

func TestRequiredIfEq(t *testing.T) {
	rule := lints.RequiredIfEq{When: "status", Equals: "Last Call", Then: "last-call-deadline"}
	tests := []struct {
		name     string
		preamble string
		want     []string
	}{
		{"neither", "title: x\n", nil},
		{"both", "status: Last Call\nlast-call-deadline: 2024-01-01\n", nil},
		{"other status", "status: Draft\n", nil},
		{"missing", "status: Last Call\n", []string{
			"preamble header `last-call-deadline` is required when `status` is `Last Call`",
		}},
		{"not allowed", "status: Draft\nlast-call-deadline: 2024-01-01\n", []string{
			"preamble header `last-call-deadline` is only allowed when `status` is `Last Call`",
		}},
		{"no status", "last-call-deadline: 2024-01-01\n", []string{
			"preamble header `last-call-deadline` is only allowed when `status` is `Last Call`",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runRule(t, "req-if", rule, "", document(tt.preamble, ""), nil)
			if tt.want == nil {
				assert.Empty(t, res.messages)
				return
			}
			assert.Equal(t, tt.want, titles(res.messages))
		})
	}
}

func TestOrder(t *testing.T) {
	res := runRule(t, "preamble-order", lints.Order{Names: []string{"eip", "title", "status"}}, "",
		document("title: x\neip: 1\nfoo: bar\n", ""), nil)

	assert.Equal(t, []string{
		"preamble has extra header(s)",
		"preamble header `title` must come after `eip`",
	}, titles(res.messages))
	assert.Equal(t, diag.Range{Start: 0, End: 3}, res.messages[0].Snippets[0].Annotations[0].Range)
}

func TestOneOf(t *testing.T) {
	rule := lints.OneOf{Name: "status", Values: []string{"Draft", "Final"}}

	res := runRule(t, "enum", rule, "", document("status: Final\n", ""), nil)
	assert.Empty(t, res.messages)

	res = runRule(t, "enum", rule, "", document("status: Bogus\n", ""), nil)
	require.Len(t, res.messages, 1)
	msg := res.messages[0]
	assert.Equal(t, "preamble header `status` has an unrecognized value", msg.Title)
	ann := msg.Snippets[0].Annotations[0]
	assert.Equal(t, "must be one of: `Draft`, `Final`", ann.Label)
	assert.Equal(t, diag.Range{Start: 7, End: 13}, ann.Range)
}

func TestRegex(t *testing.T) {
	excludes := lints.Regex{Name: "title", Mode: lints.ModeExcludes, Pattern: `(?i)standar\w*\b`, Message: "no standards"}
	includes := lints.Regex{Name: "discussions-to", Mode: lints.ModeIncludes, Pattern: `^https://`, Message: "must be https"}

	res := runRule(t, "re", excludes, "", document("title: A Standard Thing\n", ""), nil)
	require.Len(t, res.messages, 1)
	assert.Equal(t, "no standards", res.messages[0].Title)
	assert.Equal(t, "prohibited pattern was matched", res.messages[0].Snippets[0].Annotations[0].Label)
	require.Len(t, res.messages[0].Footer, 1)
	assert.Equal(t, "the pattern in question: `(?i)standar\\w*\\b`", res.messages[0].Footer[0].Title)

	res = runRule(t, "re", includes, "", document("discussions-to: http://example.com\n", ""), nil)
	require.Len(t, res.messages, 1)
	assert.Equal(t, "required pattern was not matched", res.messages[0].Snippets[0].Annotations[0].Label)

	res = runRule(t, "re", includes, "", document("discussions-to: https://example.com\n", ""), nil)
	assert.Empty(t, res.messages)
}

func TestRegexInvalidPatternIsRuleError(t *testing.T) {
	rule := lints.Regex{Name: "title", Mode: lints.ModeExcludes, Pattern: `(`, Message: "broken"}
	res := runRule(t, "re-broken", rule, "doc.md", document("title: x\n", ""), nil)

	assert.Empty(t, res.messages)
	require.Len(t, res.summary.RuleErrors, 1)
	assert.Equal(t, "re-broken", res.summary.RuleErrors[0].Slug)
	assert.Equal(t, lint.PhaseLint, res.summary.RuleErrors[0].Phase)
}

func TestUint(t *testing.T) {
	res := runRule(t, "eip", lints.Uint{Name: "eip"}, "", document("eip: -1\n", ""), nil)
	require.Len(t, res.messages, 1)
	assert.Equal(t, "preamble header `eip` must be an unsigned integer", res.messages[0].Title)
	assert.Equal(t, "not a non-negative integer", res.messages[0].Snippets[0].Annotations[0].Label)
}

func TestUintList(t *testing.T) {
	res := runRule(t, "uints", lints.UintList{Name: "requires"}, "", document("requires: 3, x, 1\n", ""), nil)

	assert.Equal(t, []string{
		"preamble header `requires` items must be unsigned integers",
		"preamble header `requires` items must be sorted in ascending order",
	}, titles(res.messages))
	assert.Equal(t, diag.Range{Start: 12, End: 14}, res.messages[0].Snippets[0].Annotations[0].Range)
}

func TestList(t *testing.T) {
	res := runRule(t, "list", lints.List{Name: "author"}, "", document("author: a,b,  c, , d\n", ""), nil)

	assert.Equal(t, []string{
		"preamble header `author` cannot have empty items",
		"preamble header list items must begin with a space",
		"preamble header list items have extra whitespace",
	}, titles(res.messages))
}

func TestLength(t *testing.T) {
	rule := lints.Length{Name: "title", Min: 2, Max: 5}

	res := runRule(t, "len", rule, "", document("title: abcdef\n", ""), nil)
	assert.Equal(t, []string{"preamble header `title` value is too long (max 5)"}, titles(res.messages))

	res = runRule(t, "len", rule, "", document("title: a\n", ""), nil)
	assert.Equal(t, []string{"preamble header `title` value is too short (min 2)"}, titles(res.messages))

	// characters, not bytes
	res = runRule(t, "len", rule, "", document("title: ñandú\n", ""), nil)
	assert.Empty(t, res.messages)
}

func TestDate(t *testing.T) {
	tests := []struct {
		value string
		label string
	}{
		{"2024-01-02", ""},
		{"2024-1-02", "invalid length"},
		{"2024-13-01", "month out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			res := runRule(t, "date", lints.Date{Name: "created"}, "", document("created: "+tt.value+"\n", ""), nil)
			if tt.label == "" {
				assert.Empty(t, res.messages)
				return
			}
			require.Len(t, res.messages, 1)
			assert.Equal(t, "preamble header `created` is not a date in the `YYYY-MM-DD` format", res.messages[0].Title)
			assert.Equal(t, tt.label, res.messages[0].Snippets[0].Annotations[0].Label)
		})
	}
}

func TestFileName(t *testing.T) {
	rule := lints.FileName{Name: "eip", Prefix: "eip-", Suffix: ".md"}
	text := document("eip: 7\n", "")

	assert.Empty(t, runRule(t, "fn", rule, "EIPS/eip-7.md", text, nil).messages)
	assert.Empty(t, runRule(t, "fn", rule, "EIPS/eip-7/index.md", text, nil).messages)
	assert.Empty(t, runRule(t, "fn", rule, "", text, nil).messages)

	res := runRule(t, "fn", rule, "EIPS/eip-8.md", text, nil)
	require.Len(t, res.messages, 1)
	assert.Equal(t, "file name must reflect the preamble header `eip`", res.messages[0].Title)
	assert.Equal(t, "this file's name should be `eip-7.md`", res.messages[0].Footer[0].Title)
}

func statusDoc(status string) string {
	return document("status: "+status+"\n", "body\n")
}

func TestRequiresStatus(t *testing.T) {
	rule := lints.RequiresStatus{Requires: "requires", Status: "status", Flow: lints.DefaultFlow()}
	files := map[string]string{
		"EIPS/eip-1.md": statusDoc("Final"),
		"EIPS/eip-2.md": statusDoc("Draft"),
	}

	res := runRule(t, "preamble-requires-status", rule, "EIPS/eip-3.md",
		document("status: Final\nrequires: 1, 2\n", ""), files)

	require.Len(t, res.messages, 1)
	msg := res.messages[0]
	assert.Equal(t, "preamble header `requires` contains items not stable enough for a `status` of `Final`", msg.Title)
	require.Len(t, msg.Snippets[0].Annotations, 1)
	ann := msg.Snippets[0].Annotations[0]
	assert.Equal(t, "has a less advanced status", ann.Label)
	assert.Equal(t, diag.Range{Start: 12, End: 14}, ann.Range)
	require.Len(t, msg.Footer, 1)
	assert.Equal(t, "valid `status` values for this proposal are: `Draft`, `Stagnant`", msg.Footer[0].Title)
	assert.Equal(t, 4, res.summary.Fetched) // two layouts per proposal
}

func TestRequiresStatusDirectoryLayout(t *testing.T) {
	rule := lints.RequiresStatus{Requires: "requires", Status: "status", Flow: lints.DefaultFlow()}
	files := map[string]string{
		"EIPS/eip-1/index.md": statusDoc("Draft"),
	}

	res := runRule(t, "rs", rule, "EIPS/eip-3/index.md", document("status: Review\nrequires: 1\n", ""), files)
	require.Len(t, res.messages, 1)
	assert.Contains(t, res.messages[0].Title, "not stable enough")
}

func TestRequiresStatusMissingProposal(t *testing.T) {
	rule := lints.RequiresStatus{Requires: "requires", Status: "status", Flow: lints.DefaultFlow()}

	res := runRule(t, "rs", rule, "EIPS/eip-3.md", document("status: Draft\nrequires: 4\n", ""), nil)
	require.Len(t, res.messages, 1)
	assert.Contains(t, res.messages[0].Title, "unable to read file `eip-4.md`")
	assert.Equal(t, "required from here", res.messages[0].Snippets[0].Annotations[0].Label)
}

func TestFetchFailureSitsAmongOtherFindings(t *testing.T) {
	type registered struct {
		slug string
		rule lint.Lint
	}
	rs := registered{"a-rs", lints.RequiresStatus{Requires: "requires", Status: "status", Flow: lints.DefaultFlow()}}
	enum := registered{"z-enum", lints.OneOf{Name: "category", Values: []string{"Core", "ERC"}}}
	text := document("status: Draft\nrequires: 20\ncategory: Bogus\n", "")

	run := func(order ...registered) []diag.Message {
		var bag diag.Bag
		l := lint.New(&bag)
		for _, r := range order {
			require.NoError(t, l.Register(r.slug, lint.SeverityDefault, r.rule))
		}
		l.SetFetch(fetch.NewMemory(nil))
		l.CheckSlice("EIPS/eip-3.md", text)
		summary, err := l.Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, summary.RuleErrors)
		return bag.Items()
	}

	forward := run(rs, enum)
	backward := run(enum, rs)
	assert.Equal(t, forward, backward)

	require.Len(t, forward, 2)
	assert.Equal(t, "a-rs", forward[0].ID)
	assert.Contains(t, forward[0].Title, "unable to read file `eip-20.md`: ")
	assert.Equal(t, "z-enum", forward[1].ID)
	assert.Contains(t, forward[1].Title, "`category`")
}

func TestRequiresStatusFetchesOncePerRun(t *testing.T) {
	var (
		mu    sync.Mutex
		calls = map[string]int{}
	)
	mem := fetch.NewMemory(map[string]string{"EIPS/eip-1.md": statusDoc("Final")})
	counting := fetch.Func(func(ctx context.Context, path string) (string, error) {
		mu.Lock()
		calls[path]++
		mu.Unlock()
		return mem.Fetch(ctx, path)
	})

	var bag diag.Bag
	l := lint.New(&bag)
	require.NoError(t, l.Register("rs", lint.SeverityDefault,
		lints.RequiresStatus{Requires: "requires", Status: "status", Flow: lints.DefaultFlow()}))
	l.SetFetch(counting)
	l.CheckSlice("EIPS/eip-2.md", document("status: Draft\nrequires: 1\n", ""))
	l.CheckSlice("EIPS/eip-3.md", document("status: Draft\nrequires: 1\n", ""))

	_, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"EIPS/eip-1.md": 1, "EIPS/eip-1/index.md": 1}, calls)
	assert.Zero(t, bag.Len())
}

func TestHTMLComments(t *testing.T) {
	rule := lints.HTMLComments{Name: "status", WarnFor: []string{"Draft", "Withdrawn"}}
	body := "<!-- hidden -->\n\nSome text <!-- inline --> here.\n"

	res := runRule(t, "comments", rule, "", document("status: Final\n", body), nil)
	require.Len(t, res.messages, 1)
	msg := res.messages[0]
	assert.Equal(t, diag.Error, msg.Level)
	assert.Equal(t, "HTML comments are not allowed when `status` is `Final`", msg.Title)
	require.Len(t, msg.Snippets, 2)
	assert.Equal(t, 4, msg.Snippets[0].LineStart)
	assert.Equal(t, 6, msg.Snippets[1].LineStart)

	res = runRule(t, "comments", rule, "", document("status: Draft\n", body), nil)
	require.Len(t, res.messages, 1)
	assert.Equal(t, diag.Warning, res.messages[0].Level)
	assert.Equal(t, "HTML comments are only allowed while `status` is one of: `Draft`, `Withdrawn`", res.messages[0].Title)

	res = runRule(t, "comments", rule, "", document("status: Final\n", "No comments.\n"), nil)
	assert.Empty(t, res.messages)
}

func TestSections(t *testing.T) {
	body := "## Abstract\n\ntext\n\n## Specification\n\ntext\n\n## Motivation\n\n## Extra\n"

	req := lints.SectionRequired{Sections: []string{"Abstract", "Rationale", "Copyright"}}
	res := runRule(t, "req", req, "", document("a: b\n", body), nil)
	require.Len(t, res.messages, 1)
	assert.Equal(t, "body is missing section(s): `Rationale`, `Copyright`", res.messages[0].Title)
	assert.Equal(t, 4, res.messages[0].Snippets[0].LineStart)

	order := lints.SectionOrder{Sections: []string{"Abstract", "Motivation", "Specification"}}
	res = runRule(t, "order", order, "", document("a: b\n", body), nil)
	assert.Equal(t, []string{
		"body has extra section(s)",
		"section `Specification` is out of order",
	}, titles(res.messages))
	assert.Equal(t, 14, res.messages[0].Snippets[0].LineStart)
	assert.Equal(t, "`Specification` should come after `Motivation`", res.messages[1].Footer[0].Title)
}

func TestHeadingFirst(t *testing.T) {
	res := runRule(t, "hf", lints.HeadingFirst{}, "", document("a: b\n", "\n## Abstract\n"), nil)
	assert.Empty(t, res.messages)

	res = runRule(t, "hf", lints.HeadingFirst{}, "", document("a: b\n", "Intro.\n\n## Abstract\n"), nil)
	assert.Equal(t, []string{"Nothing is permitted between the preamble and the first heading"}, titles(res.messages))

	res = runRule(t, "hf", lints.HeadingFirst{}, "", document("a: b\n", ""), nil)
	assert.Equal(t, []string{"Cannot submit an empty proposal"}, titles(res.messages))
}

func TestBodyRegex(t *testing.T) {
	rule := lints.BodyRegex{Pattern: `(?i)eip[\s]*[0-9]+`, Message: "use EIP-N"}
	body := "See EIP 1 and EIP-2.\n\n`EIP3` is code.\n"

	res := runRule(t, "re", rule, "", document("a: b\n", body), nil)
	require.Len(t, res.messages, 1)
	msg := res.messages[0]
	assert.Equal(t, "use EIP-N", msg.Title)
	assert.Equal(t, 4, msg.Snippets[0].LineStart)
	assert.Equal(t, diag.Range{Start: 4, End: 9}, msg.Snippets[0].Annotations[0].Range)
}

func TestLinkStatus(t *testing.T) {
	rule := lints.LinkStatus{Pattern: `(?i)(?:eip|erc)-([0-9]+)\.md$`, Status: "status", Flow: lints.DefaultFlow()}
	files := map[string]string{
		"EIPS/eip-1.md": statusDoc("Final"),
		"EIPS/eip-2.md": statusDoc("Draft"),
	}
	body := "See [one](./eip-1.md) and [two](./eip-2.md#spec).\n\n[ext](https://example.com/eip-9.md)\n"

	res := runRule(t, "markdown-link-status", rule, "EIPS/eip-5.md", document("status: Review\n", body), files)
	require.Len(t, res.messages, 1)
	msg := res.messages[0]
	assert.Equal(t, "proposal `./eip-2.md` is not stable enough for a `status` of `Review`", msg.Title)
	assert.Equal(t, 4, msg.Snippets[0].LineStart)
	assert.Equal(t, "because of this link, this proposal's `status` must be one of: `Draft`, `Stagnant`", msg.Footer[0].Title)
	assert.Equal(t, 2, res.summary.Fetched)
}

func TestSpell(t *testing.T) {
	rule := lints.Spell{Dictionary: "see\nhello\nworld\n", Personal: "eipw\n"}
	body := "Hello wrold, `wrold` is code. See eipw and 0xabc. Wrold again.\n"

	res := runRule(t, "spell", rule, "", document("a: b\n", body), nil)
	assert.Equal(t, []string{
		"the word `wrold` is misspelled",
		"the word `is` is misspelled",
		"the word `and` is misspelled",
		"the word `Wrold` is misspelled",
		"the word `again` is misspelled",
	}, titles(res.messages))
	first := res.messages[0].Snippets[0]
	assert.Equal(t, 4, first.LineStart)
	assert.Equal(t, diag.Range{Start: 6, End: 11}, first.Annotations[0].Range)
	assert.Equal(t, "incorrectly spelled", first.Annotations[0].Label)
}

func TestProseFootnotes(t *testing.T) {
	body := "Hello world[^1].\n\n[^1]: Wrold citation.\n"

	spell := lints.Spell{Dictionary: "hello\nworld\n"}
	res := runRule(t, "spell", spell, "", document("a: b\n", body), nil)
	assert.Empty(t, res.messages, "footnote definitions are not spell checked")

	re := lints.BodyRegex{Pattern: "(?i)wrold", Message: "typo"}
	res = runRule(t, "re", re, "", document("a: b\n", body), nil)
	require.Len(t, res.messages, 1, "patterns still apply inside footnotes")
	assert.Equal(t, "typo", res.messages[0].Title)
}

func TestSpellUsesBoundDictionary(t *testing.T) {
	cache := dict.NewCache(2)
	bound := lints.WithDictionaries(lints.Spell{Dictionary: "hello\nwrold\n"}, cache)
	again := lints.WithDictionaries(&lints.Spell{Dictionary: "hello\nwrold\n"}, cache)

	spell, ok := bound.(lints.Spell)
	require.True(t, ok)
	require.NotNil(t, spell.Dict)
	assert.Same(t, spell.Dict, again.(*lints.Spell).Dict)
	assert.Equal(t, 1, cache.Len())

	// the handle wins over the raw lists
	spell.Dictionary = ""
	res := runRule(t, "spell", spell, "", document("a: b\n", "Hello wrold.\n"), nil)
	assert.Empty(t, res.messages)

	trim := lints.WithDictionaries(lints.Trim{}, cache)
	assert.IsType(t, lints.Trim{}, trim)
}

func TestSeverityOverride(t *testing.T) {
	var bag diag.Bag
	l := lint.New(&bag)
	require.NoError(t, l.Warn("enum", lints.OneOf{Name: "status", Values: []string{"Final"}}))
	l.CheckSlice("", document("status: Draft\n", ""))
	_, err := l.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.Warning, bag.Items()[0].Level)
}
