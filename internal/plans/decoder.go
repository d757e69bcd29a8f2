package plans

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDecodingFailed means the payload is not structurally valid JSON for
	// the requested plan kind.
	ErrDecodingFailed = errors.New("plan decoding failed")
	// ErrEmptyPlan means the payload parsed fine but carries no exercises or
	// meals — a domain error, distinct from a structural one.
	ErrEmptyPlan = errors.New("plan has no content")
	// ErrTruncatedResponse means the raw payload looks cut off (it does not
	// end with the closing brace), which happens when the model runs out of
	// output tokens mid-plan.
	ErrTruncatedResponse = errors.New("plan payload truncated")
)

// Decode turns a raw tool-argument payload into a typed plan of the given
// kind. Pure: no state, no I/O.
func Decode(raw []byte, kind string) (*Plan, error) {
	switch kind {
	case KindWorkout:
		return DecodeWorkout(raw)
	case KindNutrition:
		return DecodeNutrition(raw)
	case KindWeekly:
		return DecodeWeekly(raw)
	default:
		return nil, fmt.Errorf("%w: unknown plan kind %q", ErrDecodingFailed, kind)
	}
}

func DecodeWorkout(raw []byte) (*Plan, error) {
	if err := checkTruncation(raw); err != nil {
		return nil, err
	}

	var workout WorkoutPlan
	if err := json.Unmarshal(raw, &workout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailed, err)
	}
	if len(workout.Exercises) == 0 {
		return nil, fmt.Errorf("%w: workout without exercises", ErrEmptyPlan)
	}

	return &Plan{Kind: KindWorkout, Workout: &workout}, nil
}

func DecodeNutrition(raw []byte) (*Plan, error) {
	if err := checkTruncation(raw); err != nil {
		return nil, err
	}

	var nutrition NutritionPlan
	if err := json.Unmarshal(raw, &nutrition); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailed, err)
	}
	if len(nutrition.Meals) == 0 {
		return nil, fmt.Errorf("%w: nutrition plan without meals", ErrEmptyPlan)
	}

	return &Plan{Kind: KindNutrition, Nutrition: &nutrition}, nil
}

func DecodeWeekly(raw []byte) (*Plan, error) {
	if err := checkTruncation(raw); err != nil {
		return nil, err
	}

	var weekly WeeklyPlan
	if err := json.Unmarshal(raw, &weekly); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodingFailed, err)
	}

	// A week counts as non-empty when at least one day carries at least one
	// exercise or meal.
	hasContent := false
	for _, day := range weekly.Days {
		if day.Workout != nil && len(day.Workout.Exercises) > 0 {
			hasContent = true
			break
		}
		if day.Nutrition != nil && len(day.Nutrition.Meals) > 0 {
			hasContent = true
			break
		}
	}
	if !hasContent {
		return nil, fmt.Errorf("%w: weekly plan without exercises or meals", ErrEmptyPlan)
	}

	return &Plan{Kind: KindWeekly, Weekly: &weekly}, nil
}

// checkTruncation is a cheap heuristic: a complete JSON object payload ends
// with "}". Payloads cut off mid-generation fail this before they fail the
// parser, which lets us report a clearer error.
func checkTruncation(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return fmt.Errorf("%w: empty payload", ErrDecodingFailed)
	}
	if !strings.HasSuffix(trimmed, "}") {
		return ErrTruncatedResponse
	}
	return nil
}
