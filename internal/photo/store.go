package photo

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("photo not found")

// Store keeps uploaded repair photos. Keys are scoped per user; the bytes are
// fed inline to the AI call and can be re-fetched for display.
type Store interface {
	Put(ctx context.Context, userID, name string, contentType string, data []byte) (string, error)
	Get(ctx context.Context, userID, ref string) ([]byte, string, error)
	Delete(ctx context.Context, userID, ref string) error
}
