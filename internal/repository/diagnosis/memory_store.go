package diagnosis

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"homewise/internal/domain"
)

// MemoryStore is the in-process backend used by tests and local runs without a
// database.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]domain.SavedDiagnosis
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]domain.SavedDiagnosis)}
}

func (s *MemoryStore) Save(_ context.Context, d domain.SavedDiagnosis) (string, error) {
	d.UserID = strings.TrimSpace(d.UserID)
	if d.UserID == "" {
		return "", domain.ErrUnauthorized
	}
	if strings.TrimSpace(d.Diagnosis.Title) == "" {
		return "", domain.ErrInvalidRequest
	}
	if strings.TrimSpace(d.ID) == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[d.ID] = d
	return d.ID, nil
}

func (s *MemoryStore) List(_ context.Context, userID string) ([]domain.SavedDiagnosis, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SavedDiagnosis, 0, len(s.byID))
	for _, d := range s.byID {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, userID, id string) (domain.SavedDiagnosis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[strings.TrimSpace(id)]
	if !ok || d.UserID != strings.TrimSpace(userID) {
		return domain.SavedDiagnosis{}, domain.ErrNotFound
	}
	return d, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.byID[strings.TrimSpace(id)]
	if !ok || d.UserID != strings.TrimSpace(userID) {
		return domain.ErrNotFound
	}
	delete(s.byID, d.ID)
	return nil
}
