package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	i := tm.Begin("parse")
	tm.End(i, "main.rs")
	j := tm.Begin("expand")
	tm.End(j, "")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 || rep.Phases[0].Name != "parse" || rep.Phases[0].Note != "main.rs" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "parse") || !strings.Contains(sum, "// main.rs") || !strings.Contains(sum, "total") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("root"), "")
		}()
	}
	wg.Wait()
	if got := len(tm.Report().Phases); got != 8 {
		t.Fatalf("expected 8 phases, got %d", got)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer must report nothing")
	}
}
