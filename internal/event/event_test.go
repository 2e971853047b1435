package event

import (
	"testing"

	"modtree/internal/syntax"
)

func TestRecorderStream(t *testing.T) {
	var r Recorder
	r.Enter(syntax.SourceFile)
	r.Token(syntax.Semi, 1)
	r.Error("boom")
	r.Exit()

	if r.Depth() != 0 {
		t.Fatalf("Depth = %d", r.Depth())
	}

	s := r.Stream()
	peeked, ok := s.Peek()
	if !ok || peeked.Kind != StepEnter || peeked.Node != syntax.SourceFile {
		t.Fatalf("Peek = %+v", peeked)
	}
	want := []StepKind{StepEnter, StepToken, StepError, StepExit}
	for i, k := range want {
		st, ok := s.Next()
		if !ok || st.Kind != k {
			t.Fatalf("step %d = %v (%v), want %v", i, st.Kind, ok, k)
		}
	}
	if _, ok := s.Next(); ok {
		t.Error("stream must be exhausted")
	}
	if s.Remaining() != 0 {
		t.Errorf("Remaining = %d", s.Remaining())
	}
}
