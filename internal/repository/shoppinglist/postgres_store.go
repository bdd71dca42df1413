package shoppinglist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"homewise/internal/domain"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Add(ctx context.Context, item domain.ShoppingListItem) (domain.ShoppingListItem, error) {
	if err := normalizeItem(&item); err != nil {
		return domain.ShoppingListItem{}, err
	}

	// The (user_id, issue_id, name) constraint turns a duplicate add into a
	// quantity bump.
	row := s.pool.QueryRow(ctx, `
INSERT INTO shopping_list_items (id, user_id, issue_id, issue_title, name, quantity, completed, added_at)
VALUES ($1,$2,$3,$4,$5,$6,FALSE,$7)
ON CONFLICT (user_id, issue_id, name)
DO UPDATE SET quantity = shopping_list_items.quantity + EXCLUDED.quantity
RETURNING id, user_id, issue_id, issue_title, name, quantity, completed, added_at`,
		item.ID, item.UserID, item.IssueID, item.IssueTitle, item.Name, item.Quantity, item.AddedAt)

	saved, err := scanItem(row)
	if err != nil {
		return domain.ShoppingListItem{}, fmt.Errorf("add shopping item: %w", err)
	}
	return saved, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.list(ctx, `
SELECT id, user_id, issue_id, issue_title, name, quantity, completed, added_at
FROM shopping_list_items WHERE user_id = $1 ORDER BY added_at DESC`, userID)
}

func (s *PostgresStore) ListByIssue(ctx context.Context, userID, issueID string) ([]domain.ShoppingListItem, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.list(ctx, `
SELECT id, user_id, issue_id, issue_title, name, quantity, completed, added_at
FROM shopping_list_items WHERE user_id = $1 AND issue_id = $2 ORDER BY added_at DESC`,
		userID, strings.TrimSpace(issueID))
}

func (s *PostgresStore) SetCompleted(ctx context.Context, userID, id string, completed bool) error {
	return s.update(ctx, `UPDATE shopping_list_items SET completed = $3 WHERE user_id = $1 AND id = $2`,
		userID, id, completed)
}

func (s *PostgresStore) SetQuantity(ctx context.Context, userID, id string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidRequest)
	}
	return s.update(ctx, `UPDATE shopping_list_items SET quantity = $3 WHERE user_id = $1 AND id = $2`,
		userID, id, quantity)
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	return s.update(ctx, `DELETE FROM shopping_list_items WHERE user_id = $1 AND id = $2`, userID, id)
}

func (s *PostgresStore) DeleteByIssue(ctx context.Context, userID, issueID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrUnauthorized
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM shopping_list_items WHERE user_id = $1 AND issue_id = $2`,
		userID, strings.TrimSpace(issueID))
	return err
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]domain.ShoppingListItem, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ShoppingListItem, 0, 16)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *PostgresStore) update(ctx context.Context, query, userID, id string, args ...any) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrUnauthorized
	}
	allArgs := append([]any{userID, strings.TrimSpace(id)}, args...)
	tag, err := s.pool.Exec(ctx, query, allArgs...)
	if err != nil {
		return fmt.Errorf("update shopping item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.ShoppingListItem, error) {
	var item domain.ShoppingListItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.IssueID,
		&item.IssueTitle,
		&item.Name,
		&item.Quantity,
		&item.Completed,
		&item.AddedAt,
	)
	return item, err
}

func normalizeItem(item *domain.ShoppingListItem) error {
	item.UserID = strings.TrimSpace(item.UserID)
	item.IssueID = strings.TrimSpace(item.IssueID)
	item.Name = strings.TrimSpace(item.Name)
	if item.UserID == "" {
		return domain.ErrUnauthorized
	}
	// A blank issue id is an ad-hoc item outside any saved diagnosis.
	if item.Name == "" {
		return fmt.Errorf("%w: item name is required", domain.ErrInvalidRequest)
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	return nil
}
