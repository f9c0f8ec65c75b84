package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelRecords(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelError, ScopeRun, false},
		{LevelPhase, ScopeDocument, true},
		{LevelPhase, ScopeFetch, false},
		{LevelDetail, ScopeFetch, true},
		{LevelDetail, ScopeRule, false},
		{LevelDebug, ScopeRule, true},
		{Level(9), ScopeRun, false},
	}
	for _, tt := range tests {
		if got := tt.level.Records(tt.scope); got != tt.want {
			t.Errorf("%s.Records(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	for in, want := range map[string]Level{"": LevelOff, "Phase": LevelPhase, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil || !strings.Contains(err.Error(), "off|error|phase|detail|debug") {
		t.Errorf("ParseLevel(loud) error = %v", err)
	}
	if m, err := ParseMode("BOTH"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode(BOTH) = %v, %v", m, err)
	}
	if _, err := ParseMode("tape"); err == nil {
		t.Error("ParseMode(tape) should fail")
	}
}

func TestStartNestsSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Start(ctx, ScopeDocument, "doc")
	_, inner := Start(ctx, ScopePhase, "parse")
	if ParentID(ctx) != outer.ID() {
		t.Fatalf("ParentID = %d, want %d", ParentID(ctx), outer.ID())
	}
	inner.WithExtra("fields", "3").End("")
	outer.End("ok")

	out := buf.String()
	if strings.Count(out, "\n") != 4 {
		t.Fatalf("expected 4 events, got:\n%s", out)
	}
	if !strings.Contains(out, "  ← parse {fields=3}") {
		t.Errorf("missing indented end event with extras:\n%s", out)
	}
	if !strings.Contains(out, "[document] ← doc (ok)") {
		t.Errorf("missing root end event:\n%s", out)
	}
}

func TestNewPicksFormatFromPath(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Output: &buf, Path: "run.ndjson"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, sp := Start(WithTracer(context.Background(), tr), ScopeRun, "run")
	sp.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	var first, second jsonEvent
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2: %v", err)
	}
	if first.Kind != "begin" || second.Kind != "end" || first.SpanID != second.SpanID {
		t.Errorf("unexpected events %+v %+v", first, second)
	}
	if second.Seq <= first.Seq {
		t.Errorf("seq must increase: %d then %d", first.Seq, second.Seq)
	}

	if tr, _ := New(Config{Level: LevelOff}); tr != Nop {
		t.Errorf("LevelOff should give Nop, got %T", tr)
	}
	if tr, _ := New(Config{Level: LevelPhase, Mode: ModeRing}); tr == nil {
		t.Error("ring mode should build a tracer")
	} else if _, ok := tr.(*RingTracer); !ok {
		t.Errorf("ring mode built %T", tr)
	}
}

func TestRingSnapshotWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		r.Emit(&Event{Kind: KindSpanBegin, Scope: ScopeRun, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestDisabledTracerIsFree(t *testing.T) {
	ctx, sp := Start(context.Background(), ScopeRun, "run")
	if sp.ID() != 0 || ParentID(ctx) != 0 {
		t.Fatalf("expected disabled span")
	}
	if d := sp.End(""); d != 0 {
		t.Fatalf("expected zero duration, got %v", d)
	}
}

func TestMultiTracerRing(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(4, LevelPhase)
	m := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), ring)
	if m.Ring() != ring {
		t.Fatal("Ring() should find the ring tracer")
	}
	if NewMultiTracer(LevelPhase).Ring() != nil {
		t.Fatal("Ring() without a ring tracer should be nil")
	}

	_, sp := Start(WithTracer(context.Background(), m), ScopePhase, "lint")
	sp.End("")
	if got := len(ring.Snapshot()); got != 2 {
		t.Errorf("ring kept %d events, want 2", got)
	}
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("stream wrote %d events, want 2", got)
	}
}
