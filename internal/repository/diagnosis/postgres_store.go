package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"homewise/internal/domain"
)

type PostgresStore struct {
	pool *pgxpool.Pool

	// Per-user list cache; invalidated on every write for that user.
	listCache *lru.Cache[string, []domain.SavedDiagnosis]
}

func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	cache, err := lru.New[string, []domain.SavedDiagnosis](256)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{pool: pool, listCache: cache}, nil
}

func (s *PostgresStore) Save(ctx context.Context, d domain.SavedDiagnosis) (string, error) {
	userID := strings.TrimSpace(d.UserID)
	if userID == "" {
		return "", domain.ErrUnauthorized
	}
	if strings.TrimSpace(d.Diagnosis.Title) == "" {
		return "", fmt.Errorf("%w: diagnosis title is required", domain.ErrInvalidRequest)
	}

	id := strings.TrimSpace(d.ID)
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `
INSERT INTO diagnoses (id, user_id, title, summary, parts_needed, tools_needed, steps, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title,
  summary=EXCLUDED.summary,
  parts_needed=EXCLUDED.parts_needed,
  tools_needed=EXCLUDED.tools_needed,
  steps=EXCLUDED.steps`,
		id, userID, d.Diagnosis.Title, d.Diagnosis.Summary,
		textArray(d.Diagnosis.PartsNeeded), textArray(d.Diagnosis.ToolsNeeded), textArray(d.Diagnosis.Steps),
		createdAt)
	if err != nil {
		return "", fmt.Errorf("save diagnosis: %w", err)
	}

	s.listCache.Remove(userID)
	return id, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string) ([]domain.SavedDiagnosis, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if cached, ok := s.listCache.Get(userID); ok {
		return cached, nil
	}

	rows, err := s.pool.Query(ctx, `
SELECT id, user_id, title, summary, parts_needed, tools_needed, steps, created_at
FROM diagnoses WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SavedDiagnosis, 0, 16)
	for rows.Next() {
		d, err := scanDiagnosis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.listCache.Add(userID, out)
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, id string) (domain.SavedDiagnosis, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.SavedDiagnosis{}, domain.ErrUnauthorized
	}
	row := s.pool.QueryRow(ctx, `
SELECT id, user_id, title, summary, parts_needed, tools_needed, steps, created_at
FROM diagnoses WHERE user_id = $1 AND id = $2`, userID, strings.TrimSpace(id))

	d, err := scanDiagnosis(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SavedDiagnosis{}, domain.ErrNotFound
	}
	return d, err
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrUnauthorized
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM diagnoses WHERE user_id = $1 AND id = $2`, userID, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete diagnosis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	s.listCache.Remove(userID)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDiagnosis(row rowScanner) (domain.SavedDiagnosis, error) {
	var d domain.SavedDiagnosis
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Diagnosis.Title,
		&d.Diagnosis.Summary,
		&d.Diagnosis.PartsNeeded,
		&d.Diagnosis.ToolsNeeded,
		&d.Diagnosis.Steps,
		&d.CreatedAt,
	)
	if err != nil {
		return domain.SavedDiagnosis{}, err
	}
	return d, nil
}

// textArray keeps NOT NULL columns happy when a list is nil.
func textArray(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
