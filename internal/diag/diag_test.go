package diag

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestLevelText(t *testing.T) {
	for _, l := range []Level{Error, Warning, Info, Note, Help} {
		text, err := l.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", l, err)
		}
		var back Level
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if back != l {
			t.Errorf("round trip %s -> %s", l, back)
		}
	}
	if _, err := ParseLevel("fatal"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestBuildersDoNotAlias(t *testing.T) {
	base := Error.Title("t").WithSnippet(NewSnippet("abc"))
	a := base.WithFooter(Help.Title("a"))
	b := base.WithFooter(Help.Title("b"))
	if a.Footer[0].Title != "a" || b.Footer[0].Title != "b" {
		t.Fatalf("footers alias: %q %q", a.Footer[0].Title, b.Footer[0].Title)
	}
	if len(base.Footer) != 0 {
		t.Fatalf("base modified")
	}
}

func TestSpanChars(t *testing.T) {
	line := "author: Łukasz <l@example.com>"
	ann := Error.SpanChars(line, 8, 6).WithLabel("here")
	got := line[ann.Range.Start:ann.Range.End]
	if got != "Łukasz" {
		t.Fatalf("SpanChars selected %q", got)
	}
	if ann.Label != "here" || ann.Level != Error {
		t.Fatalf("unexpected annotation %+v", ann)
	}
}

func TestSpanUTF8RoundsUp(t *testing.T) {
	text := "a€b"
	ann := Warning.SpanUTF8(text, 1, 1)
	if ann.Range != (Range{Start: 1, End: 4}) {
		t.Fatalf("range = %+v", ann.Range)
	}
	ann = Warning.SpanUTF8(text, 4, 10)
	if ann.Range != (Range{Start: 4, End: 5}) {
		t.Fatalf("range = %+v", ann.Range)
	}
}

func TestCountTallies(t *testing.T) {
	var bag Bag
	c := NewCount(&bag)
	for _, l := range []Level{Error, Error, Warning, Note} {
		if err := c.Report(l.Title("x")); err != nil {
			t.Fatal(err)
		}
	}
	got := c.Counts()
	want := Counts{Error: 2, Warning: 1, Note: 1}
	if got != want {
		t.Fatalf("counts = %+v, want %+v", got, want)
	}
	if got.Total() != 4 || bag.Len() != 4 {
		t.Fatalf("total = %d, forwarded = %d", got.Total(), bag.Len())
	}
}

func TestAdditionalHelpFirstOccurrence(t *testing.T) {
	var bag Bag
	r := NewAdditionalHelp(&bag, func(id string) (string, error) {
		return fmt.Sprintf("see https://ethereum.github.io/eipw/%s/", id), nil
	})

	msgs := []Message{
		Error.Title("one").WithID("preamble-trim"),
		Error.Title("two").WithID("preamble-trim"),
		Error.Title("three").WithID("preamble-req"),
		Error.Title("no id"),
	}
	for _, m := range msgs {
		if err := r.Report(m); err != nil {
			t.Fatal(err)
		}
	}

	items := bag.Items()
	wantFooters := []int{1, 0, 1, 0}
	for i, m := range items {
		if len(m.Footer) != wantFooters[i] {
			t.Errorf("message %d (%s): %d footers, want %d", i, m.Title, len(m.Footer), wantFooters[i])
		}
	}
	if items[0].Footer[0].Level != Help || items[0].Footer[0].Title != "see https://ethereum.github.io/eipw/preamble-trim/" {
		t.Fatalf("unexpected footer %+v", items[0].Footer[0])
	}
	if len(msgs[0].Footer) != 0 {
		t.Fatalf("caller's message modified")
	}
}

func TestAdditionalHelpFailureIsReportError(t *testing.T) {
	boom := errors.New("boom")
	r := NewAdditionalHelp(Null{}, func(string) (string, error) { return "", boom })
	err := r.Report(Error.Title("x").WithID("id"))
	var re *ReportError
	if !errors.As(err, &re) || !errors.Is(err, boom) {
		t.Fatalf("expected ReportError wrapping boom, got %v", err)
	}
}

func TestAdditionalHelpConcurrent(t *testing.T) {
	var bag Bag
	r := NewAdditionalHelp(&bag, func(id string) (string, error) { return id, nil })
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Report(Error.Title("x").WithID("same"))
		}()
	}
	wg.Wait()

	withFooter := 0
	for _, m := range bag.Items() {
		withFooter += len(m.Footer)
	}
	if withFooter != 1 {
		t.Fatalf("footer attached %d times, want 1", withFooter)
	}
}

func TestDedup(t *testing.T) {
	var bag Bag
	r := NewDedup(&bag)
	m := Error.Title("dup").WithID("a").WithSnippet(NewSnippet("x").WithOrigin("f.md").WithLineStart(3))
	_ = r.Report(m)
	_ = r.Report(m)
	_ = r.Report(m.WithID("b"))
	bare := Error.Title("no position").WithID("a")
	_ = r.Report(bare)
	_ = r.Report(bare)
	if bag.Len() != 4 {
		t.Fatalf("forwarded %d, want 4", bag.Len())
	}
}

func TestBagSort(t *testing.T) {
	var bag Bag
	at := func(origin string, line int, id string) Message {
		return Error.Title(id).WithID(id).WithSnippet(NewSnippet("").WithOrigin(origin).WithLineStart(line))
	}
	_ = bag.Report(at("b.md", 1, "x"))
	_ = bag.Report(at("a.md", 9, "y"))
	_ = bag.Report(at("a.md", 2, "z"))
	bag.Sort()
	got := bag.IDs()
	want := []string{"z", "y", "x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted ids = %v, want %v", got, want)
		}
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Fatalf("Wrap(nil) != nil")
	}
	inner := &ReportError{Err: errors.New("x")}
	if Wrap(inner) != error(inner) {
		t.Fatalf("Wrap re-wrapped a ReportError")
	}
}
