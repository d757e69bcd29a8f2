package plans

import (
	"encoding/json"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/google/uuid"
)

// Plan kinds, also stored as generated_plans.kind.
const (
	KindWorkout   = "workout"
	KindNutrition = "nutrition"
	KindWeekly    = "weekly"
)

type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets,omitempty"`
	Reps        int    `json:"reps,omitempty"`
	DurationMin int    `json:"duration_min,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type Meal struct {
	Name     string `json:"name"`
	Slot     string `json:"slot"` // breakfast | lunch | dinner | snack
	Kcal     int    `json:"kcal,omitempty"`
	ProteinG int    `json:"protein_g,omitempty"`
	FatG     int    `json:"fat_g,omitempty"`
	CarbsG   int    `json:"carbs_g,omitempty"`
}

// WorkoutPlan is a single-day workout.
type WorkoutPlan struct {
	Title     string     `json:"title"`
	Focus     string     `json:"focus,omitempty"`
	Exercises []Exercise `json:"exercises"`
}

// NutritionPlan is a single-day nutrition target with meals.
type NutritionPlan struct {
	Title      string `json:"title"`
	TargetKcal int    `json:"target_kcal,omitempty"`
	Meals      []Meal `json:"meals"`
}

// WeeklyDay is one day of a multi-day composite plan. Either part may be
// absent (rest day, free-eating day).
type WeeklyDay struct {
	DayIndex  int            `json:"day_index"`
	Workout   *WorkoutPlan   `json:"workout,omitempty"`
	Nutrition *NutritionPlan `json:"nutrition,omitempty"`
}

// WeeklyPlan is the multi-day composite of workouts and nutrition days.
type WeeklyPlan struct {
	Title string      `json:"title"`
	Days  []WeeklyDay `json:"days"`
}

// Plan is the decoded result of a plan-generation tool call; exactly one of
// the kind-specific fields is set, matching Kind.
type Plan struct {
	Kind      string         `json:"kind"`
	Workout   *WorkoutPlan   `json:"workout,omitempty"`
	Nutrition *NutritionPlan `json:"nutrition,omitempty"`
	Weekly    *WeeklyPlan    `json:"weekly,omitempty"`
}

// Title returns the human title of whichever variant is set.
func (p *Plan) Title() string {
	switch {
	case p.Workout != nil:
		return p.Workout.Title
	case p.Nutrition != nil:
		return p.Nutrition.Title
	case p.Weekly != nil:
		return p.Weekly.Title
	default:
		return ""
	}
}

// PlanDTO is the API shape of a stored generated plan.
type PlanDTO struct {
	ID        uuid.UUID      `json:"id"`
	ProfileID uuid.UUID      `json:"profile_id"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

type ListPlansResponse struct {
	Plans []PlanDTO `json:"plans"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func planToDTO(p storage.GeneratedPlan) PlanDTO {
	payload := make(map[string]any)
	if len(p.Payload) > 0 {
		_ = json.Unmarshal(p.Payload, &payload)
	}
	return PlanDTO{
		ID:        p.ID,
		ProfileID: p.ProfileID,
		Kind:      p.Kind,
		Title:     p.Title,
		Payload:   payload,
		CreatedAt: p.CreatedAt,
	}
}
