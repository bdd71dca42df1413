package diagnosis

import (
	"context"

	"homewise/internal/domain"
)

// Store persists saved diagnoses. Every call is scoped to the authenticated
// user; the id returned by Save is the grouping key for the linked shopping
// list.
type Store interface {
	Save(ctx context.Context, d domain.SavedDiagnosis) (string, error)
	List(ctx context.Context, userID string) ([]domain.SavedDiagnosis, error)
	Get(ctx context.Context, userID, id string) (domain.SavedDiagnosis, error)
	Delete(ctx context.Context, userID, id string) error
}
