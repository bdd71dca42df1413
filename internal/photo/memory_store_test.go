package photo

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ref, err := s.Put(ctx, "u1", "faucet.jpg", "image/jpeg", []byte{0xFF, 0xD8})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".jpg"), "ref keeps the upload extension")

	data, contentType, err := s.Get(ctx, "u1", ref)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, []byte{0xFF, 0xD8}, data)
}

func TestMemoryStoreScopedPerUser(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ref, err := s.Put(ctx, "u1", "leak.png", "image/png", []byte{1})
	require.NoError(t, err)

	_, _, err = s.Get(ctx, "u2", ref)
	assert.ErrorIs(t, err, ErrNotFound, "another user's ref must not resolve")
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ref, err := s.Put(ctx, "u1", "x.webp", "image/webp", []byte{1})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "u1", ref))
	_, _, err = s.Get(ctx, "u1", ref)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "u1", ref), ErrNotFound)
}
