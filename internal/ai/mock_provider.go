package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider is a deterministic stand-in for the real backend: it picks a
// tool call from keywords in the last user message and, once a tool-result
// turn is present, answers with terminal text. Lets the full stack run
// without an API key (AI_MODE=mock).
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	_ = ctx

	// After a tool result the mock always terminates the exchange.
	if len(req.Turns) > 0 && req.Turns[len(req.Turns)-1].Role == RoleTool {
		last := req.Turns[len(req.Turns)-1]
		return Completion{
			Text: fmt.Sprintf("Done — I finished the %s step. Anything else?", last.ToolName),
		}, nil
	}

	lastUserMessage := ""
	for i := len(req.Turns) - 1; i >= 0; i-- {
		if req.Turns[i].Role == RoleUser {
			lastUserMessage = req.Turns[i].Content
			break
		}
	}
	lowered := strings.ToLower(lastUserMessage)

	if req.ToolChoice != ToolChoiceNone && len(req.Tools) > 0 {
		if call := p.pickToolCall(lowered); call != nil {
			return Completion{ToolCall: call}, nil
		}
	}

	return Completion{
		Text: "This is demo mode. I can create tasks, or put together a workout, nutrition, or weekly plan — just ask.",
	}, nil
}

func (p *MockProvider) pickToolCall(lowered string) *ToolCall {
	switch {
	case strings.Contains(lowered, "weekly") || strings.Contains(lowered, "week"):
		return &ToolCall{
			ID:   "mock-call-weekly",
			Name: "generate_weekly_plan",
			Arguments: `{"title":"Starter week","days":[` +
				`{"day_index":0,"workout":{"title":"Easy run","focus":"endurance","exercises":[{"name":"Run","duration_min":30}]}},` +
				`{"day_index":1,"nutrition":{"title":"Balanced day","target_kcal":2200,"meals":[{"name":"Oatmeal with banana","slot":"breakfast","kcal":450,"protein_g":15,"fat_g":12,"carbs_g":70}]}}]}`,
		}
	case strings.Contains(lowered, "workout") || strings.Contains(lowered, "train") || strings.Contains(lowered, "exercise"):
		return &ToolCall{
			ID:   "mock-call-workout",
			Name: "generate_workout_plan",
			Arguments: `{"title":"Full body basics","focus":"strength","exercises":[` +
				`{"name":"Squat","sets":3,"reps":10},` +
				`{"name":"Push-up","sets":3,"reps":12},` +
				`{"name":"Plank","duration_min":3}]}`,
		}
	case strings.Contains(lowered, "nutrition") || strings.Contains(lowered, "meal") || strings.Contains(lowered, "diet") || strings.Contains(lowered, "eat"):
		return &ToolCall{
			ID:   "mock-call-nutrition",
			Name: "generate_nutrition_plan",
			Arguments: `{"title":"Balanced day","target_kcal":2200,"meals":[` +
				`{"name":"Oatmeal with banana","slot":"breakfast","kcal":450,"protein_g":15,"fat_g":12,"carbs_g":70},` +
				`{"name":"Chicken with rice","slot":"lunch","kcal":600,"protein_g":45,"fat_g":15,"carbs_g":55},` +
				`{"name":"Fish with salad","slot":"dinner","kcal":550,"protein_g":40,"fat_g":18,"carbs_g":50}]}`,
		}
	case strings.Contains(lowered, "task") || strings.Contains(lowered, "remind") || strings.Contains(lowered, "todo") || strings.Contains(lowered, "to-do"):
		if strings.Contains(lowered, "show") || strings.Contains(lowered, "list") || strings.Contains(lowered, "what") {
			return &ToolCall{
				ID:        "mock-call-query",
				Name:      "query_tasks",
				Arguments: `{"status":"pending"}`,
			}
		}
		return &ToolCall{
			ID:        "mock-call-create",
			Name:      "create_tasks",
			Arguments: `{"tasks":[{"title":"Drink a glass of water","notes":"mock task"}]}`,
		}
	default:
		return nil
	}
}
