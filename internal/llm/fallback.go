package llm

import (
	"context"
	"errors"

	"homewise/internal/llmclient"
)

// ErrCapacity is returned when the primary and fallback models both exhausted
// their retries on transient failures. Callers surface it as a "try again in a
// few minutes" condition, distinct from every other failure kind.
var ErrCapacity = errors.New("model capacity exhausted")

// Fallback chains two already-wrapped clients: when the primary fails with a
// transient error (its retry budget spent), the secondary gets a fresh attempt
// budget. Exactly one fallback notification is emitted per call.
func Fallback(secondary llmclient.Client) Middleware {
	return func(primary llmclient.Client) llmclient.Client {
		return &fallingBack{primary: primary, secondary: secondary}
	}
}

type fallingBack struct {
	primary   llmclient.Client
	secondary llmclient.Client
}

func (f *fallingBack) Name() string { return f.primary.Name() }

func (f *fallingBack) Close() error {
	err := f.primary.Close()
	if serr := f.secondary.Close(); err == nil {
		err = serr
	}
	return err
}

func (f *fallingBack) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	text, err := f.primary.Generate(ctx, req)
	if err == nil || !f.shouldFallBack(ctx, err) {
		return text, err
	}
	text, err = f.secondary.Generate(ctx, req)
	return text, f.finalize(err)
}

func (f *fallingBack) GenerateStream(ctx context.Context, req llmclient.Request, onChunk func(chunk string)) (string, error) {
	text, err := f.primary.GenerateStream(ctx, req, onChunk)
	if err == nil || !f.shouldFallBack(ctx, err) {
		return text, err
	}
	text, err = f.secondary.GenerateStream(ctx, req, onChunk)
	return text, f.finalize(err)
}

func (f *fallingBack) shouldFallBack(ctx context.Context, err error) bool {
	if f.secondary == nil || !llmclient.IsTransient(err) {
		return false
	}
	notify(ctx, Status{Phase: PhaseFallback, Model: f.secondary.Name()})
	return true
}

// finalize maps a transient failure of the secondary to ErrCapacity: both
// models are out of budget and only time will help.
func (f *fallingBack) finalize(err error) error {
	if err != nil && llmclient.IsTransient(err) {
		return ErrCapacity
	}
	return err
}
