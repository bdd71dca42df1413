package shoppinglist

import (
	"context"

	"homewise/internal/domain"
)

// Store persists shopping-list items. Rows are unique per
// (user, issueId, name): Add bumps the quantity of an existing row instead of
// duplicating it, which also makes re-seeding a list after a partial failure
// idempotent.
type Store interface {
	Add(ctx context.Context, item domain.ShoppingListItem) (domain.ShoppingListItem, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
	ListByIssue(ctx context.Context, userID, issueID string) ([]domain.ShoppingListItem, error)
	SetCompleted(ctx context.Context, userID, id string, completed bool) error
	SetQuantity(ctx context.Context, userID, id string, quantity int) error
	Delete(ctx context.Context, userID, id string) error
	DeleteByIssue(ctx context.Context, userID, issueID string) error
}
