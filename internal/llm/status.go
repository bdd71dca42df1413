package llm

import (
	"context"
	"time"
)

// StatusPhase labels a progress note emitted while a call is being nursed
// through retries and fallback.
type StatusPhase string

const (
	// PhaseRetrying means the same model will be attempted again after a delay.
	// Consumers should update a single status line in place, not re-announce.
	PhaseRetrying StatusPhase = "retrying"
	// PhaseFallback means the primary model is exhausted and the cheaper model
	// takes over. Emitted at most once per call.
	PhaseFallback StatusPhase = "fallback"
)

type Status struct {
	Phase   StatusPhase
	Model   string
	Attempt int
	Wait    time.Duration
}

// StatusFunc receives progress notes. It must not block.
type StatusFunc func(Status)

type ctxKeyStatusFunc struct{}

// WithStatusFunc attaches a progress callback to the context so middleware can
// report retry and fallback transitions to the caller.
func WithStatusFunc(ctx context.Context, fn StatusFunc) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyStatusFunc{}, fn)
}

func statusFrom(ctx context.Context) StatusFunc {
	if ctx == nil {
		return nil
	}
	if v := ctx.Value(ctxKeyStatusFunc{}); v != nil {
		if fn, ok := v.(StatusFunc); ok {
			return fn
		}
	}
	return nil
}

func notify(ctx context.Context, st Status) {
	if fn := statusFrom(ctx); fn != nil {
		fn(st)
	}
}
