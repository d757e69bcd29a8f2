package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("profile not found")
)

// MemoryStorage is the in-memory implementation of every storage interface.
// Used when no DATABASE_URL is configured and in tests.
type MemoryStorage struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]storage.Profile
	chat     *ChatMemoryStorage
	tasks    *TasksMemoryStorage
	plans    *PlansMemoryStorage
}

// New creates a MemoryStorage with a default owner profile.
func New() *MemoryStorage {
	ownerID := uuid.New()
	owner := storage.Profile{
		ID:          ownerID,
		OwnerUserID: "default",
		Type:        "owner",
		Name:        "Me",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	return &MemoryStorage{
		profiles: map[uuid.UUID]storage.Profile{
			ownerID: owner,
		},
		chat:  NewChatMemoryStorage(),
		tasks: NewTasksMemoryStorage(),
		plans: NewPlansMemoryStorage(),
	}
}

func (m *MemoryStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	_ = ctx

	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]storage.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})

	return profiles, nil
}

func (m *MemoryStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	_ = ctx

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	m.profiles[profile.ID] = *profile
	return nil
}

func (m *MemoryStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.profiles[profile.ID]
	if !ok {
		return ErrNotFound
	}

	existing.Name = profile.Name
	existing.UpdatedAt = time.Now()
	m.profiles[profile.ID] = existing
	*profile = existing
	return nil
}

func (m *MemoryStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	_ = ctx

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(m.profiles, id)
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) GetChatStorage() storage.ChatStorage {
	return m.chat
}

func (m *MemoryStorage) GetTasksStorage() storage.TasksStorage {
	return m.tasks
}

func (m *MemoryStorage) GetPlansStorage() storage.PlansStorage {
	return m.plans
}
