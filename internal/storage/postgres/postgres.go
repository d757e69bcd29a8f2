package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("profile not found")
)

// PostgresStorage is the pgx-backed implementation of every storage interface.
type PostgresStorage struct {
	pool  *pgxpool.Pool
	chat  *PostgresChatStorage
	tasks *PostgresTasksStorage
	plans *PostgresPlansStorage
}

// New connects to Postgres and ensures the default owner profile exists.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	ps := &PostgresStorage{
		pool:  pool,
		chat:  NewPostgresChatStorage(pool),
		tasks: NewPostgresTasksStorage(pool),
		plans: NewPostgresPlansStorage(pool),
	}

	if err := ps.ensureDefaultProfile(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return ps, nil
}

func (s *PostgresStorage) ensureDefaultProfile(ctx context.Context) error {
	const query = `SELECT COUNT(*) FROM profiles WHERE owner_user_id = 'default' AND type = 'owner'`

	var count int
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return s.CreateProfile(ctx, &storage.Profile{
		ID:          uuid.New(),
		OwnerUserID: "default",
		Type:        "owner",
		Name:        "Me",
	})
}

func (s *PostgresStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	const query = `
		SELECT id, owner_user_id, type, name, created_at, updated_at
		FROM profiles
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]storage.Profile, 0)
	for rows.Next() {
		var p storage.Profile
		if err := rows.Scan(&p.ID, &p.OwnerUserID, &p.Type, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (s *PostgresStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	const query = `
		SELECT id, owner_user_id, type, name, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p storage.Profile
	err := s.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.OwnerUserID, &p.Type, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	const query = `
		INSERT INTO profiles (id, owner_user_id, type, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		profile.ID,
		profile.OwnerUserID,
		profile.Type,
		profile.Name,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

func (s *PostgresStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	const query = `
		UPDATE profiles
		SET name = $2, updated_at = $3
		WHERE id = $1
	`

	profile.UpdatedAt = time.Now().UTC()
	tag, err := s.pool.Exec(ctx, query, profile.ID, profile.Name, profile.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM profiles WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStorage) GetChatStorage() storage.ChatStorage {
	return s.chat
}

func (s *PostgresStorage) GetTasksStorage() storage.TasksStorage {
	return s.tasks
}

func (s *PostgresStorage) GetPlansStorage() storage.PlansStorage {
	return s.plans
}
