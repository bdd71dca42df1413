package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"homewise/internal/domain"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, task domain.MaintenanceTask) (domain.MaintenanceTask, error) {
	task.UserID = strings.TrimSpace(task.UserID)
	task.Title = strings.TrimSpace(task.Title)
	if task.UserID == "" {
		return domain.MaintenanceTask{}, domain.ErrUnauthorized
	}
	if task.Title == "" {
		return domain.MaintenanceTask{}, fmt.Errorf("%w: task title is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(task.ID) == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	_, err := s.pool.Exec(ctx, `
INSERT INTO maintenance_tasks (id, user_id, title, frequency, completed, last_completed, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		task.ID, task.UserID, task.Title, task.Frequency, task.Completed, task.LastCompleted, task.CreatedAt)
	if err != nil {
		return domain.MaintenanceTask{}, fmt.Errorf("create maintenance task: %w", err)
	}
	return task, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string) ([]domain.MaintenanceTask, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	rows, err := s.pool.Query(ctx, `
SELECT id, user_id, title, frequency, completed, last_completed, created_at
FROM maintenance_tasks WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list maintenance tasks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.MaintenanceTask, 0, 16)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, userID, id string) (domain.MaintenanceTask, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.MaintenanceTask{}, domain.ErrUnauthorized
	}
	row := s.pool.QueryRow(ctx, `
SELECT id, user_id, title, frequency, completed, last_completed, created_at
FROM maintenance_tasks WHERE user_id = $1 AND id = $2`, userID, strings.TrimSpace(id))

	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MaintenanceTask{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MaintenanceTask{}, err
	}

	history, err := s.history(ctx, task.ID)
	if err != nil {
		return domain.MaintenanceTask{}, err
	}
	task.History = history
	return task, nil
}

func (s *PostgresStore) Update(ctx context.Context, task domain.MaintenanceTask) error {
	task.UserID = strings.TrimSpace(task.UserID)
	if task.UserID == "" {
		return domain.ErrUnauthorized
	}
	tag, err := s.pool.Exec(ctx, `
UPDATE maintenance_tasks SET title=$3, frequency=$4, completed=$5
WHERE user_id=$1 AND id=$2`,
		task.UserID, strings.TrimSpace(task.ID), strings.TrimSpace(task.Title), task.Frequency, task.Completed)
	if err != nil {
		return fmt.Errorf("update maintenance task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Complete(ctx context.Context, userID, id string, entry domain.MaintenanceHistoryEntry) (domain.MaintenanceTask, error) {
	userID = strings.TrimSpace(userID)
	id = strings.TrimSpace(id)
	if userID == "" {
		return domain.MaintenanceTask{}, domain.ErrUnauthorized
	}
	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = time.Now()
	}
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.MaintenanceTask{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
UPDATE maintenance_tasks SET last_completed=$3, completed=FALSE
WHERE user_id=$1 AND id=$2`, userID, id, entry.CompletedAt)
	if err != nil {
		return domain.MaintenanceTask{}, fmt.Errorf("roll task forward: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.MaintenanceTask{}, domain.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
INSERT INTO maintenance_history (id, task_id, completed_at, notes, parts_used, tools_used, total_cost)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		entry.ID, id, entry.CompletedAt, entry.Notes,
		textArray(entry.PartsUsed), textArray(entry.ToolsUsed), entry.TotalCost)
	if err != nil {
		return domain.MaintenanceTask{}, fmt.Errorf("append history: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.MaintenanceTask{}, err
	}
	return s.Get(ctx, userID, id)
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrUnauthorized
	}
	// History rows go with the task via ON DELETE CASCADE.
	tag, err := s.pool.Exec(ctx, `DELETE FROM maintenance_tasks WHERE user_id = $1 AND id = $2`,
		userID, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete maintenance task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) history(ctx context.Context, taskID string) ([]domain.MaintenanceHistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, task_id, completed_at, notes, parts_used, tools_used, total_cost
FROM maintenance_history WHERE task_id = $1 ORDER BY completed_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	out := make([]domain.MaintenanceHistoryEntry, 0, 8)
	for rows.Next() {
		var e domain.MaintenanceHistoryEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.CompletedAt, &e.Notes, &e.PartsUsed, &e.ToolsUsed, &e.TotalCost); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.MaintenanceTask, error) {
	var task domain.MaintenanceTask
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Frequency,
		&task.Completed,
		&task.LastCompleted,
		&task.CreatedAt,
	)
	return task, err
}

func textArray(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
