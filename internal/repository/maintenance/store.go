package maintenance

import (
	"context"

	"homewise/internal/domain"
)

// Store persists maintenance tasks and their completion history. NextDue and
// Status are never stored; callers derive them from LastCompleted and
// Frequency on read. History entries are append-only: one per completion,
// removed only by the task-level cascade delete.
type Store interface {
	Create(ctx context.Context, task domain.MaintenanceTask) (domain.MaintenanceTask, error)
	List(ctx context.Context, userID string) ([]domain.MaintenanceTask, error)
	// Get includes the task's history, newest first.
	Get(ctx context.Context, userID, id string) (domain.MaintenanceTask, error)
	Update(ctx context.Context, task domain.MaintenanceTask) error
	// Complete appends exactly one history entry and rolls LastCompleted
	// forward in a single transaction.
	Complete(ctx context.Context, userID, id string, entry domain.MaintenanceHistoryEntry) (domain.MaintenanceTask, error)
	Delete(ctx context.Context, userID, id string) error
}
