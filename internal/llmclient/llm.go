package llmclient

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyResponse = errors.New("empty response from model")

// PermanentError indicates an error that will not resolve with retries
// (bad auth, malformed request). Middleware must fail fast on it.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err is wrapped as permanent.
func IsPermanent(err error) bool {
	var pErr *PermanentError
	return errors.As(err, &pErr)
}

// Turn is one prior exchange replayed as context. Text only; images are
// one-shot and never replayed.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// Image is an inline photo attached to a single request.
type Image struct {
	MIME string
	Data []byte
}

// Request is a provider-neutral generate call.
type Request struct {
	Prompt  string
	Image   *Image
	History []Turn
}

// Client is the provider boundary. Cross-cutting concerns (throttling, retries,
// fallback, logging) are applied via middleware in internal/llm.
type Client interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
	GenerateStream(ctx context.Context, req Request, onChunk func(chunk string)) (string, error)
	Close() error
}

// transientSignatures are provider error fragments that indicate temporary
// capacity problems worth retrying.
var transientSignatures = []string{
	"rate limit",
	"quota",
	"resource_exhausted",
	"resource exhausted",
	"overloaded",
	"unavailable",
	"try again",
	"deadline exceeded",
	"429",
	"503",
}

// IsTransient reports whether err looks like a temporary capacity failure
// (rate limit, quota, server overload). Context cancellation and permanent
// errors are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if IsPermanent(err) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range transientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
