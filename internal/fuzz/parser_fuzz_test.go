package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"modtree/internal/event"
	"modtree/internal/parser"
	"modtree/internal/testkit"
	"modtree/internal/tree"
)

// parseTimeout is the maximum time allowed for one input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

// FuzzParserBalanced checks that every step stream is well nested.
func FuzzParserBalanced(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		res, err := parser.Parse(input)
		if err != nil {
			return // ошибки лексера
		}
		depth := 0
		for i, st := range res.Steps {
			switch st.Kind {
			case event.StepEnter:
				depth++
			case event.StepExit:
				depth--
				if depth < 0 {
					t.Fatalf("step %d closes more than was opened", i)
				}
			case event.StepToken:
				if depth == 0 {
					t.Fatalf("step %d: token outside the root node", i)
				}
			}
		}
		if depth != 0 {
			t.Fatalf("%d records left open\ninput: %q", depth, truncateForLog(input, 200))
		}
	})
}

// FuzzBuildTree runs the whole builder and checks the arena. Module files are
// never found (the root is virtual), so only the root file is built.
func FuzzBuildTree(f *testing.F) {
	addCorpusSeeds(f)

	// Add specific edge cases around recovery
	f.Add([]byte("fn f() { { { { } } } }"))     // deeply nested blocks
	f.Add([]byte("mod a { mod a { } } mod a;")) // duplicate after inline
	f.Add([]byte("fn f() { , }"))               // stray separator

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		type outcome struct {
			s   *tree.Session
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			s, err := tree.NewFromSource(context.Background(), "/fuzz/main.rs", input, tree.Config{})
			done <- outcome{s, err}
		}()

		var out outcome
		select {
		case out = <-done:
		case <-ctx.Done():
			t.Fatalf("build hang detected: took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
		if out.err != nil {
			if errors.Is(out.err, tree.ErrMalformedStream) {
				t.Fatalf("parser produced a malformed stream: %v\ninput: %q", out.err, truncateForLog(input, 200))
			}
			return
		}
		if err := testkit.CheckArena(out.s.Nodes(), out.s.Sources()); err != nil {
			t.Fatalf("arena invariant: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}
