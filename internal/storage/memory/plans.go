package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/google/uuid"
)

var ErrPlanNotFound = errors.New("plan not found")

type PlansMemoryStorage struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]storage.GeneratedPlan
}

func NewPlansMemoryStorage() *PlansMemoryStorage {
	return &PlansMemoryStorage{
		plans: make(map[uuid.UUID]storage.GeneratedPlan),
	}
}

func (s *PlansMemoryStorage) InsertPlan(ctx context.Context, plan *storage.GeneratedPlan) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.OwnerUserID = strings.TrimSpace(plan.OwnerUserID)
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	s.plans[plan.ID] = *plan
	return nil
}

func (s *PlansMemoryStorage) ListPlans(ctx context.Context, ownerUserID string, profileID uuid.UUID, kind string, limit int) ([]storage.GeneratedPlan, error) {
	_ = ctx

	ownerUserID = strings.TrimSpace(ownerUserID)
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]storage.GeneratedPlan, 0, len(s.plans))
	for _, plan := range s.plans {
		if plan.OwnerUserID != ownerUserID || plan.ProfileID != profileID {
			continue
		}
		if kind != "" && plan.Kind != kind {
			continue
		}
		filtered = append(filtered, plan)
	}

	// Newest first, like the API returns them.
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID.String() > filtered[j].ID.String()
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

func (s *PlansMemoryStorage) GetPlan(ctx context.Context, ownerUserID string, id uuid.UUID) (*storage.GeneratedPlan, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok || plan.OwnerUserID != strings.TrimSpace(ownerUserID) {
		return nil, ErrPlanNotFound
	}
	return &plan, nil
}
