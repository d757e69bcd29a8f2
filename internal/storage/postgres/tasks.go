package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrTaskNotFound = errors.New("task not found")

type PostgresTasksStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresTasksStorage(pool *pgxpool.Pool) *PostgresTasksStorage {
	return &PostgresTasksStorage{pool: pool}
}

func (s *PostgresTasksStorage) InsertTasks(ctx context.Context, tasks []storage.Task) ([]storage.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	const query = `
		INSERT INTO tasks (id, owner_user_id, profile_id, title, notes, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now().UTC()
	saved := make([]storage.Task, 0, len(tasks))

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, task := range tasks {
		if task.ID == uuid.Nil {
			task.ID = uuid.New()
		}
		if task.Status == "" {
			task.Status = "pending"
		}
		task.OwnerUserID = strings.TrimSpace(task.OwnerUserID)
		task.CreatedAt = now
		task.UpdatedAt = now

		if _, err := tx.Exec(ctx, query,
			task.ID,
			task.OwnerUserID,
			task.ProfileID,
			task.Title,
			task.Notes,
			task.DueDate,
			task.Status,
			task.CreatedAt,
			task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		saved = append(saved, task)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *PostgresTasksStorage) ListTasks(ctx context.Context, ownerUserID string, profileID uuid.UUID, status string, limit int) ([]storage.Task, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if limit <= 0 {
		limit = 100
	}

	const query = `
		SELECT id, owner_user_id, profile_id, title, notes, due_date, status, created_at, updated_at
		FROM tasks
		WHERE owner_user_id = $1
		  AND profile_id = $2
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at ASC, id ASC
		LIMIT $4
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, profileID, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]storage.Task, 0)
	for rows.Next() {
		var t storage.Task
		if err := rows.Scan(
			&t.ID,
			&t.OwnerUserID,
			&t.ProfileID,
			&t.Title,
			&t.Notes,
			&t.DueDate,
			&t.Status,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PostgresTasksStorage) GetTask(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.Task, error) {
	const query = `
		SELECT id, owner_user_id, profile_id, title, notes, due_date, status, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_user_id = $2
	`

	var t storage.Task
	err := s.pool.QueryRow(ctx, query, id, strings.TrimSpace(ownerUserID)).Scan(
		&t.ID,
		&t.OwnerUserID,
		&t.ProfileID,
		&t.Title,
		&t.Notes,
		&t.DueDate,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresTasksStorage) UpdateTask(ctx context.Context, ownerUserID string, id uuid.UUID, update storage.TaskUpdate) (*storage.Task, error) {
	const query = `
		UPDATE tasks
		SET title = COALESCE($3, title),
		    notes = COALESCE($4, notes),
		    due_date = COALESCE($5, due_date),
		    status = COALESCE($6, status),
		    updated_at = $7
		WHERE id = $1 AND owner_user_id = $2
		RETURNING id, owner_user_id, profile_id, title, notes, due_date, status, created_at, updated_at
	`

	var t storage.Task
	err := s.pool.QueryRow(ctx, query,
		id,
		strings.TrimSpace(ownerUserID),
		update.Title,
		update.Notes,
		update.DueDate,
		update.Status,
		time.Now().UTC(),
	).Scan(
		&t.ID,
		&t.OwnerUserID,
		&t.ProfileID,
		&t.Title,
		&t.Notes,
		&t.DueDate,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresTasksStorage) DeleteTask(ctx context.Context, ownerUserID string, id uuid.UUID) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND owner_user_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, strings.TrimSpace(ownerUserID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
