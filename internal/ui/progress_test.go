package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"modtree/internal/buildpipeline"
)

func TestApplyEventTracksStatus(t *testing.T) {
	m := NewProgressModel("tree", []string{"a/main.rs", "b/main.rs"}, nil).(*progressModel)

	m.applyEvent(buildpipeline.Event{Root: "a/main.rs", Stage: buildpipeline.StageExpand, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{Root: "b/main.rs", Status: buildpipeline.StatusError, Err: errors.New("b/a.rs: no such file"), Elapsed: 3 * time.Millisecond})
	m.applyEvent(buildpipeline.Event{Root: "unknown.rs", Status: buildpipeline.StatusDone})

	if got := m.roots[0].label(); got != "expanding" {
		t.Fatalf("label = %q", got)
	}
	if !m.roots[1].finished() || m.roots[1].stage != "" {
		t.Fatalf("root b = %+v", m.roots[1])
	}
	if got, want := m.percent(), (1.5/3+1.0)/2; got != want {
		t.Fatalf("percent = %v, want %v", got, want)
	}
	view := m.View()
	for _, want := range []string{"tree: 1/2 roots", "expanding", "a/main.rs", "no such file"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestFinishedRootShowsElapsed(t *testing.T) {
	m := NewProgressModel("tree", []string{"main.rs"}, nil).(*progressModel)
	m.applyEvent(buildpipeline.Event{Root: "main.rs", Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	if got := m.roots[0].fraction(); got != 0.5/3 {
		t.Fatalf("fraction while parsing = %v", got)
	}
	m.applyEvent(buildpipeline.Event{Root: "main.rs", Status: buildpipeline.StatusDone, Elapsed: 1500 * time.Microsecond})
	if m.percent() != 1 {
		t.Fatalf("percent = %v", m.percent())
	}
	if view := m.View(); !strings.Contains(view, "2ms") || !strings.Contains(view, "done") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a/very/long/path.rs", 10, "a/ve..."},
		{"abcdef", 3, "abc"},
		{"日本語.rs", 8, "日..."},
		{"any", 0, "any"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
