package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/LEOK66/Modo-sub000/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrProfileNotFound = errors.New("profile not found")
	ErrPlanNotFound    = errors.New("plan not found")
)

// Service stores and serves assistant-generated plans.
type Service struct {
	plansStorage    storage.PlansStorage
	profilesStorage storage.Storage
}

func NewService(plansStorage storage.PlansStorage, profilesStorage storage.Storage) *Service {
	return &Service{
		plansStorage:    plansStorage,
		profilesStorage: profilesStorage,
	}
}

// Save persists a decoded plan for the given profile and returns its DTO.
// Called by the plan-generation tool handlers, not by HTTP directly.
func (s *Service) Save(ctx context.Context, profileID uuid.UUID, plan *Plan) (*PlanDTO, error) {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: nil plan", ErrInvalidRequest)
	}
	if err := s.ensureProfileOwned(ctx, userID, profileID); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	record := storage.GeneratedPlan{
		OwnerUserID: userID,
		ProfileID:   profileID,
		Kind:        plan.Kind,
		Title:       plan.Title(),
		Payload:     payload,
	}
	if err := s.plansStorage.InsertPlan(ctx, &record); err != nil {
		return nil, err
	}

	dto := planToDTO(record)
	return &dto, nil
}

// List returns stored plans for a profile, newest first, optionally filtered
// by kind.
func (s *Service) List(ctx context.Context, profileID uuid.UUID, kind string, limit int) (*ListPlansResponse, error) {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if profileID == uuid.Nil {
		return nil, fmt.Errorf("%w: profile_id is required", ErrInvalidRequest)
	}
	if kind != "" && kind != KindWorkout && kind != KindNutrition && kind != KindWeekly {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, kind)
	}
	if err := s.ensureProfileOwned(ctx, userID, profileID); err != nil {
		return nil, err
	}

	records, err := s.plansStorage.ListPlans(ctx, userID, profileID, kind, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]PlanDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, planToDTO(record))
	}
	return &ListPlansResponse{Plans: dtos}, nil
}

// Get returns one stored plan by id, scoped to the calling user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PlanDTO, error) {
	userID := normalizeOwner(userIDFromContext(ctx))
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: plan id is required", ErrInvalidRequest)
	}

	record, err := s.plansStorage.GetPlan(ctx, userID, id)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	dto := planToDTO(*record)
	return &dto, nil
}

func (s *Service) ensureProfileOwned(ctx context.Context, userID string, profileID uuid.UUID) error {
	profile, err := s.profilesStorage.GetProfile(ctx, profileID)
	if err != nil {
		return ErrProfileNotFound
	}
	if normalizeOwner(profile.OwnerUserID) != userID {
		return ErrProfileNotFound // Don't reveal existence
	}
	return nil
}

func userIDFromContext(ctx context.Context) string {
	userID, _ := userctx.GetUserID(ctx)
	return userID
}

func normalizeOwner(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
