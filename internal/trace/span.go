package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// goroutineID reads the id from "goroutine 17 [running]:". Roots built in
// parallel run on their own goroutines, so the id separates their events.
func goroutineID() uint64 {
	var buf [64]byte
	b := bytes.TrimPrefix(buf[:runtime.Stack(buf[:], false)], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		if id, err := strconv.ParseUint(string(b[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}

func emits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Span is an open begin/end pair. A span whose scope is filtered out
// records nothing and has ID 0.
type Span struct {
	t       Tracer
	begin   Event // шаблон для события end
	started time.Time
	extra   map[string]string
}

// Begin emits the begin event of a span under parent (0 for a top span).
// Prefer Start, which also carries the span in a context.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !emits(t, scope) {
		return &Span{}
	}
	sp := &Span{
		t:       t,
		started: time.Now(),
		begin: Event{
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   spanIDs.Add(1),
			ParentID: parent,
			GID:      goroutineID(),
			Name:     name,
		},
	}
	ev := sp.begin
	ev.Time, ev.Seq = sp.started, seq.Add(1)
	t.Emit(&ev)
	return sp
}

// End emits the end event with detail and any extras and returns the span
// duration.
func (sp *Span) End(detail string) time.Duration {
	if sp == nil || sp.t == nil {
		return 0
	}
	ev := sp.begin
	ev.Kind, ev.Time, ev.Seq = KindSpanEnd, time.Now(), seq.Add(1)
	ev.Detail, ev.Extra = detail, sp.extra
	sp.t.Emit(&ev)
	return ev.Time.Sub(sp.started)
}

// WithExtra attaches key=value to the end event.
func (sp *Span) WithExtra(key, value string) *Span {
	if sp == nil || sp.t == nil {
		return sp
	}
	if sp.extra == nil {
		sp.extra = make(map[string]string, 2)
	}
	sp.extra[key] = value
	return sp
}

// ID returns the span id, 0 for an inert span.
func (sp *Span) ID() uint64 {
	if sp == nil {
		return 0
	}
	return sp.begin.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !emits(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		SpanID:   spanIDs.Add(1),
		ParentID: parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
