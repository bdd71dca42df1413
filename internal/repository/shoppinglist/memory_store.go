package shoppinglist

import (
	"context"
	"sort"
	"strings"
	"sync"

	"homewise/internal/domain"
)

// MemoryStore mirrors the Postgres semantics, including the
// (user, issueId, name) uniqueness with quantity bump on duplicate adds.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]domain.ShoppingListItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]domain.ShoppingListItem)}
}

func (s *MemoryStore) Add(_ context.Context, item domain.ShoppingListItem) (domain.ShoppingListItem, error) {
	if err := normalizeItem(&item); err != nil {
		return domain.ShoppingListItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.byID {
		if existing.UserID == item.UserID && existing.IssueID == item.IssueID && existing.Name == item.Name {
			existing.Quantity += item.Quantity
			s.byID[id] = existing
			return existing, nil
		}
	}
	s.byID[item.ID] = item
	return item, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]domain.ShoppingListItem, error) {
	return s.filter(userID, func(domain.ShoppingListItem) bool { return true })
}

func (s *MemoryStore) ListByIssue(_ context.Context, userID, issueID string) ([]domain.ShoppingListItem, error) {
	issueID = strings.TrimSpace(issueID)
	return s.filter(userID, func(item domain.ShoppingListItem) bool { return item.IssueID == issueID })
}

func (s *MemoryStore) SetCompleted(_ context.Context, userID, id string, completed bool) error {
	return s.mutate(userID, id, func(item *domain.ShoppingListItem) { item.Completed = completed })
}

func (s *MemoryStore) SetQuantity(_ context.Context, userID, id string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidRequest
	}
	return s.mutate(userID, id, func(item *domain.ShoppingListItem) { item.Quantity = quantity })
}

func (s *MemoryStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[strings.TrimSpace(id)]
	if !ok || item.UserID != strings.TrimSpace(userID) {
		return domain.ErrNotFound
	}
	delete(s.byID, item.ID)
	return nil
}

func (s *MemoryStore) DeleteByIssue(_ context.Context, userID, issueID string) error {
	userID = strings.TrimSpace(userID)
	issueID = strings.TrimSpace(issueID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range s.byID {
		if item.UserID == userID && item.IssueID == issueID {
			delete(s.byID, id)
		}
	}
	return nil
}

func (s *MemoryStore) filter(userID string, keep func(domain.ShoppingListItem) bool) ([]domain.ShoppingListItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ShoppingListItem, 0, len(s.byID))
	for _, item := range s.byID {
		if item.UserID == userID && keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (s *MemoryStore) mutate(userID, id string, apply func(*domain.ShoppingListItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[strings.TrimSpace(id)]
	if !ok || item.UserID != strings.TrimSpace(userID) {
		return domain.ErrNotFound
	}
	apply(&item)
	s.byID[item.ID] = item
	return nil
}
