package photo

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore backs tests and database-less local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]stored
}

type stored struct {
	contentType string
	bytes       []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]stored)}
}

func (s *MemoryStore) Put(_ context.Context, userID, name, contentType string, data []byte) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	ref := uuid.NewString() + path.Ext(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectKey(userID, ref)] = stored{contentType: contentType, bytes: append([]byte(nil), data...)}
	return ref, nil
}

func (s *MemoryStore) Get(_ context.Context, userID, ref string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.data[objectKey(strings.TrimSpace(userID), strings.TrimSpace(ref))]
	if !ok {
		return nil, "", ErrNotFound
	}
	return append([]byte(nil), obj.bytes...), obj.contentType, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := objectKey(strings.TrimSpace(userID), strings.TrimSpace(ref))
	if _, ok := s.data[key]; !ok {
		return ErrNotFound
	}
	delete(s.data, key)
	return nil
}
