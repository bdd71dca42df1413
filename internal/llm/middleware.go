package llm

import (
	"context"
	"log/slog"
	"time"

	"homewise/internal/llmclient"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (throttling, retries, fallback, logging).
type Middleware func(llmclient.Client) llmclient.Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.Client, mws ...Middleware) llmclient.Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Request spacing --------

// Throttle enforces a minimum interval between consecutive calls. A call that
// arrives too soon is delayed, never rejected. The limiter is shared across
// both call paths so single-shot and streaming requests pace each other.
func Throttle(limiter *PaceLimiter) Middleware {
	return func(next llmclient.Client) llmclient.Client {
		return &throttled{next: next, limiter: limiter}
	}
}

type throttled struct {
	next    llmclient.Client
	limiter *PaceLimiter
}

func (t *throttled) Name() string { return t.next.Name() }
func (t *throttled) Close() error { return t.next.Close() }

func (t *throttled) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.next.Generate(ctx, req)
}

func (t *throttled) GenerateStream(ctx context.Context, req llmclient.Request, onChunk func(chunk string)) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.next.GenerateStream(ctx, req, onChunk)
}

// -------- Logging --------

// WithLogging logs request shape and failures. Pass nil to use slog.Default().
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next llmclient.Client) llmclient.Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.Client
	log  *slog.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	start := time.Now()
	text, err := l.next.Generate(ctx, req)
	l.observe("generate", req, start, err)
	return text, err
}

func (l *logging) GenerateStream(ctx context.Context, req llmclient.Request, onChunk func(chunk string)) (string, error) {
	start := time.Now()
	text, err := l.next.GenerateStream(ctx, req, onChunk)
	l.observe("stream", req, start, err)
	return text, err
}

func (l *logging) observe(kind string, req llmclient.Request, start time.Time, err error) {
	attrs := []any{
		"model", l.next.Name(),
		"kind", kind,
		"prompt_bytes", len(req.Prompt),
		"history_turns", len(req.History),
		"has_image", req.Image != nil,
		"elapsed", time.Since(start),
	}
	if err != nil {
		l.log.Error("llm call failed", append(attrs, "error", err)...)
		return
	}
	l.log.Debug("llm call ok", attrs...)
}
