package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/LEOK66/Modo-sub000/internal/assistant"
	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/google/uuid"
)

// planTools are the terminal family: the tool's own arguments carry the
// whole plan, so Execute decodes them, stores the plan, and ends the
// exchange without another backend round-trip.
type planTools struct {
	service *plans.Service
}

func registerPlanTools(registry *assistant.Registry, service *plans.Service) {
	p := &planTools{service: service}

	registry.Register(ai.ToolSchema{
		Name:        "generate_workout_plan",
		Description: "Produce a single-day workout plan. Call with the complete plan as arguments.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"focus": map[string]any{"type": "string"},
				"exercises": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":         map[string]any{"type": "string"},
							"sets":         map[string]any{"type": "integer"},
							"reps":         map[string]any{"type": "integer"},
							"duration_min": map[string]any{"type": "integer"},
							"notes":        map[string]any{"type": "string"},
						},
						"required": []string{"name"},
					},
				},
			},
			"required": []string{"title", "exercises"},
		},
	}, p.handler(plans.KindWorkout))

	registry.Register(ai.ToolSchema{
		Name:        "generate_nutrition_plan",
		Description: "Produce a single-day nutrition plan. Call with the complete plan as arguments.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":       map[string]any{"type": "string"},
				"target_kcal": map[string]any{"type": "integer"},
				"meals": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":      map[string]any{"type": "string"},
							"slot":      map[string]any{"type": "string", "enum": []string{"breakfast", "lunch", "dinner", "snack"}},
							"kcal":      map[string]any{"type": "integer"},
							"protein_g": map[string]any{"type": "integer"},
							"fat_g":     map[string]any{"type": "integer"},
							"carbs_g":   map[string]any{"type": "integer"},
						},
						"required": []string{"name", "slot"},
					},
				},
			},
			"required": []string{"title", "meals"},
		},
	}, p.handler(plans.KindNutrition))

	registry.Register(ai.ToolSchema{
		Name:        "generate_weekly_plan",
		Description: "Produce a multi-day plan combining workouts and nutrition. Call with the complete plan as arguments.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"days": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"day_index": map[string]any{"type": "integer"},
							"workout":   map[string]any{"type": "object"},
							"nutrition": map[string]any{"type": "object"},
						},
						"required": []string{"day_index"},
					},
				},
			},
			"required": []string{"title", "days"},
		},
	}, p.handler(plans.KindWeekly))
}

func (p *planTools) handler(kind string) assistant.Handler {
	return assistant.HandlerFunc(func(ctx context.Context, arguments string, requestID uuid.UUID) (assistant.Outcome, error) {
		_ = requestID // terminal tools never touch the bus

		plan, err := plans.Decode([]byte(arguments), kind)
		if err != nil {
			if errors.Is(err, plans.ErrDecodingFailed) || errors.Is(err, plans.ErrTruncatedResponse) {
				return assistant.Outcome{}, fmt.Errorf("%w: %w", assistant.ErrInvalidArguments, err)
			}
			return assistant.Outcome{}, err
		}

		profileID, err := activeProfile(ctx)
		if err != nil {
			return assistant.Outcome{}, err
		}

		dto, err := p.service.Save(ctx, profileID, plan)
		if err != nil {
			return assistant.Outcome{}, err
		}
		return assistant.Outcome{Terminal: true, Plan: dto}, nil
	})
}
