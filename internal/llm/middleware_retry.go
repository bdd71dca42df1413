package llm

import (
	"context"
	"math/rand"
	"time"

	"homewise/internal/llmclient"
)

// RetryPolicy is the single backoff configuration shared by the single-shot and
// streaming call paths.
type RetryPolicy struct {
	// MaxAttempts counts the first try plus retries against one model.
	MaxAttempts int
	// BaseDelay is scaled by 2^attempt between tries.
	BaseDelay time.Duration
	// MaxJitter is added to each delay, uniformly random in [0, MaxJitter).
	MaxJitter time.Duration
}

// DefaultRetryPolicy matches the observed client behavior: three tries with a
// 2s base and up to 1.5s of jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 2 * time.Second, MaxJitter: 1500 * time.Millisecond}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 2 * time.Second
	}
	return p
}

// delay computes the wait before the given retry attempt (attempt is 1-based
// for the first retry).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay * time.Duration(1<<attempt)
	if p.MaxJitter > 0 {
		d += time.Duration(rand.Int63n(int64(p.MaxJitter)))
	}
	return d
}

// Retry retries transient failures with exponential backoff. Permanent errors
// and context cancellation stop immediately. Progress is reported through the
// context status hook so the caller can update a "retrying" note in place.
func Retry(policy RetryPolicy) Middleware {
	policy = policy.normalized()
	return func(next llmclient.Client) llmclient.Client {
		return &retrying{next: next, policy: policy}
	}
}

type retrying struct {
	next   llmclient.Client
	policy RetryPolicy
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	var last error
	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := r.backoff(ctx, attempt); err != nil {
				return "", err
			}
		}
		text, err := r.next.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		if !llmclient.IsTransient(err) {
			return "", err
		}
		last = err
	}
	return "", last
}

func (r *retrying) GenerateStream(ctx context.Context, req llmclient.Request, onChunk func(chunk string)) (string, error) {
	var last error
	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := r.backoff(ctx, attempt); err != nil {
				return "", err
			}
		}
		// Once a chunk has reached the caller a retry would replay text the
		// user already saw, so mid-stream failures are surfaced instead.
		delivered := false
		text, err := r.next.GenerateStream(ctx, req, func(chunk string) {
			delivered = true
			if onChunk != nil {
				onChunk(chunk)
			}
		})
		if err == nil {
			return text, nil
		}
		if delivered || !llmclient.IsTransient(err) {
			return "", err
		}
		last = err
	}
	return "", last
}

func (r *retrying) backoff(ctx context.Context, attempt int) error {
	wait := r.policy.delay(attempt)
	notify(ctx, Status{Phase: PhaseRetrying, Model: r.next.Name(), Attempt: attempt, Wait: wait})

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
