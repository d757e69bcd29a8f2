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

var ErrPlanNotFound = errors.New("plan not found")

type PostgresPlansStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresPlansStorage(pool *pgxpool.Pool) *PostgresPlansStorage {
	return &PostgresPlansStorage{pool: pool}
}

func (s *PostgresPlansStorage) InsertPlan(ctx context.Context, plan *storage.GeneratedPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.OwnerUserID = strings.TrimSpace(plan.OwnerUserID)
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO generated_plans (id, owner_user_id, profile_id, kind, title, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		plan.ID,
		plan.OwnerUserID,
		plan.ProfileID,
		plan.Kind,
		plan.Title,
		plan.Payload,
		plan.CreatedAt,
	)
	return err
}

func (s *PostgresPlansStorage) ListPlans(ctx context.Context, ownerUserID string, profileID uuid.UUID, kind string, limit int) ([]storage.GeneratedPlan, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, owner_user_id, profile_id, kind, title, payload, created_at
		FROM generated_plans
		WHERE owner_user_id = $1
		  AND profile_id = $2
		  AND ($3 = '' OR kind = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, profileID, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]storage.GeneratedPlan, 0)
	for rows.Next() {
		var p storage.GeneratedPlan
		if err := rows.Scan(
			&p.ID,
			&p.OwnerUserID,
			&p.ProfileID,
			&p.Kind,
			&p.Title,
			&p.Payload,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (s *PostgresPlansStorage) GetPlan(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.GeneratedPlan, error) {
	const query = `
		SELECT id, owner_user_id, profile_id, kind, title, payload, created_at
		FROM generated_plans
		WHERE id = $1 AND owner_user_id = $2
	`

	var p storage.GeneratedPlan
	err := s.pool.QueryRow(ctx, query, id, strings.TrimSpace(ownerUserID)).Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.ProfileID,
		&p.Kind,
		&p.Title,
		&p.Payload,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
