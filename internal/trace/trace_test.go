package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "debug"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if lvl.String() != s {
			t.Fatalf("round trip %q -> %q", s, lvl.String())
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeModule) {
		t.Fatalf("phase level must stop at pass scope")
	}
	if !LevelDetail.ShouldEmit(ScopeModule) || LevelDetail.ShouldEmit(ScopeNode) {
		t.Fatalf("detail level must stop at module scope")
	}
	if !LevelDebug.ShouldEmit(ScopeNode) {
		t.Fatalf("debug level must emit node scope")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	sp := Begin(tr, ScopePass, "expand", 0)
	Point(tr, ScopeModule, "round", "1", sp.ID())
	Point(tr, ScopeNode, "macro", "dropped at detail", sp.ID())
	sp.WithExtra("files", "2").End("ok")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "\u2192 expand") || !strings.Contains(lines[2], "\u2190 expand (ok) {files=2}") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	Begin(tr, ScopePass, "parse", 0).End("")
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json %q: %v", line, err)
		}
		if m["name"] != "parse" || m["scope"] != "pass" {
			t.Fatalf("unexpected event %v", m)
		}
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(2, LevelError)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopePass, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected ring contents: %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("dump should print 2 lines:\n%s", buf.String())
	}
}

func TestNewSelectsImplementation(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give a disabled tracer")
	}
	tr, err = New(Config{Level: LevelError})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("error level must give a ring tracer, got %T", tr)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Output: &buf, OutputPath: "x.ndjson"})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopePass, "p", "", 0)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("ndjson path must select NDJSON format: %q", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must be Nop")
	}
	r := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer not propagated")
	}
	if SpanID(ctx) != 0 {
		t.Fatalf("no span started yet")
	}
	outer, sp := Start(ctx, ScopePass, "expand")
	inner, child := Start(outer, ScopeModule, "module:a")
	if SpanID(outer) != sp.ID() || SpanID(inner) != child.ID() || sp.ID() == 0 {
		t.Fatalf("span ids not propagated: outer=%d inner=%d", SpanID(outer), SpanID(inner))
	}
	child.End("a.rs")
	sp.End("")

	events := r.Snapshot()
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	if events[1].ParentID != sp.ID() || events[2].Kind != KindSpanEnd || events[2].Detail != "a.rs" {
		t.Fatalf("unexpected nesting: %+v", events)
	}
}

func TestStartFilteredScope(t *testing.T) {
	ctx := WithTracer(context.Background(), NewRingTracer(4, LevelPhase))
	next, sp := Start(ctx, ScopeNode, "macro")
	if sp.ID() != 0 || next != ctx {
		t.Fatal("a filtered span must not change the context")
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for i := range 5 {
		Point(r, ScopePass, "p", strconv.Itoa(i), 0)
	}
	events := r.Snapshot()
	if len(events) != 3 || events[0].Detail != "2" || events[2].Detail != "4" {
		t.Fatalf("ring = %+v", events)
	}
}

func TestBeginOnDisabledTracer(t *testing.T) {
	sp := Begin(Nop, ScopePass, "x", 0)
	if sp.End("") != 0 || sp.ID() != 0 {
		t.Fatalf("nop span must be inert")
	}
}
