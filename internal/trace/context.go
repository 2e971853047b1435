package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// FromContext returns the tracer attached to ctx, Nop when there is none.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx; nil attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanID returns the span opened by the nearest Start up the context chain,
// 0 outside any span.
func SpanID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// Start opens a span under the current one. Events emitted with the
// returned context nest inside the new span until End.
//
//	ctx, sp := trace.Start(ctx, trace.ScopeModule, "module:"+path)
//	defer sp.End(file)
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	sp := Begin(FromContext(ctx), scope, name, SpanID(ctx))
	if sp.ID() == 0 {
		return ctx, sp
	}
	return context.WithValue(ctx, spanKey{}, sp.ID()), sp
}
