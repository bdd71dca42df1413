package maintenance

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"homewise/internal/domain"
)

type MemoryStore struct {
	mu      sync.RWMutex
	tasks   map[string]domain.MaintenanceTask
	history map[string][]domain.MaintenanceHistoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:   make(map[string]domain.MaintenanceTask),
		history: make(map[string][]domain.MaintenanceHistoryEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context, task domain.MaintenanceTask) (domain.MaintenanceTask, error) {
	task.UserID = strings.TrimSpace(task.UserID)
	task.Title = strings.TrimSpace(task.Title)
	if task.UserID == "" {
		return domain.MaintenanceTask{}, domain.ErrUnauthorized
	}
	if task.Title == "" {
		return domain.MaintenanceTask{}, domain.ErrInvalidRequest
	}
	if strings.TrimSpace(task.ID) == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return task, nil
}

func (s *MemoryStore) List(_ context.Context, userID string) ([]domain.MaintenanceTask, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MaintenanceTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, userID, id string) (domain.MaintenanceTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[strings.TrimSpace(id)]
	if !ok || task.UserID != strings.TrimSpace(userID) {
		return domain.MaintenanceTask{}, domain.ErrNotFound
	}
	entries := s.history[task.ID]
	task.History = make([]domain.MaintenanceHistoryEntry, len(entries))
	copy(task.History, entries)
	sort.Slice(task.History, func(i, j int) bool {
		return task.History[i].CompletedAt.After(task.History[j].CompletedAt)
	})
	return task, nil
}

func (s *MemoryStore) Update(_ context.Context, task domain.MaintenanceTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[strings.TrimSpace(task.ID)]
	if !ok || existing.UserID != strings.TrimSpace(task.UserID) {
		return domain.ErrNotFound
	}
	existing.Title = strings.TrimSpace(task.Title)
	existing.Frequency = task.Frequency
	existing.Completed = task.Completed
	s.tasks[existing.ID] = existing
	return nil
}

func (s *MemoryStore) Complete(ctx context.Context, userID, id string, entry domain.MaintenanceHistoryEntry) (domain.MaintenanceTask, error) {
	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = time.Now()
	}
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}

	s.mu.Lock()
	task, ok := s.tasks[strings.TrimSpace(id)]
	if !ok || task.UserID != strings.TrimSpace(userID) {
		s.mu.Unlock()
		return domain.MaintenanceTask{}, domain.ErrNotFound
	}
	completedAt := entry.CompletedAt
	task.LastCompleted = &completedAt
	task.Completed = false
	entry.TaskID = task.ID
	s.tasks[task.ID] = task
	s.history[task.ID] = append(s.history[task.ID], entry)
	s.mu.Unlock()

	return s.Get(ctx, userID, id)
}

func (s *MemoryStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[strings.TrimSpace(id)]
	if !ok || task.UserID != strings.TrimSpace(userID) {
		return domain.ErrNotFound
	}
	delete(s.tasks, task.ID)
	delete(s.history, task.ID)
	return nil
}
