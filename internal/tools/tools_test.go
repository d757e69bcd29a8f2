package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LEOK66/Modo-sub000/internal/assistant"
	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/LEOK66/Modo-sub000/internal/storage"
	"github.com/LEOK66/Modo-sub000/internal/storage/memory"
	"github.com/LEOK66/Modo-sub000/internal/tasks"
	"github.com/LEOK66/Modo-sub000/internal/userctx"
	"github.com/google/uuid"
)

type toolsFixture struct {
	registry     *assistant.Registry
	bus          *assistant.Bus
	mem          *memory.MemoryStorage
	tasksService *tasks.Service
	plansService *plans.Service
	profileID    uuid.UUID
	ctx          context.Context
}

func newToolsFixture(t *testing.T) *toolsFixture {
	t.Helper()

	mem := memory.New()
	profileID := uuid.New()
	if err := mem.CreateProfile(context.Background(), &storage.Profile{ID: profileID, OwnerUserID: "userA", Type: "owner", Name: "User A"}); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	registry := assistant.NewRegistry()
	bus := assistant.NewBus()
	tasksService := tasks.NewService(mem.GetTasksStorage(), mem)
	plansService := plans.NewService(mem.GetPlansStorage(), mem)
	RegisterAll(registry, bus, tasksService, plansService)

	ctx := userctx.WithUserID(context.Background(), "userA")
	ctx = userctx.WithProfileID(ctx, profileID)

	return &toolsFixture{
		registry:     registry,
		bus:          bus,
		mem:          mem,
		tasksService: tasksService,
		plansService: plansService,
		profileID:    profileID,
		ctx:          ctx,
	}
}

func awaitResult(t *testing.T, results <-chan assistant.Result) assistant.Result {
	t.Helper()
	select {
	case result := <-results:
		return result
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for bus result")
		return assistant.Result{}
	}
}

func TestRegisterAllInstallsFullToolSet(t *testing.T) {
	f := newToolsFixture(t)

	want := []string{
		"create_tasks", "delete_task",
		"generate_nutrition_plan", "generate_weekly_plan", "generate_workout_plan",
		"query_tasks", "update_task",
	}
	got := f.registry.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d tools, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected tools %v, got %v", want, got)
		}
	}
}

func TestCreateTasksToolPublishesResult(t *testing.T) {
	f := newToolsFixture(t)

	results := make(chan assistant.Result, 1)
	f.bus.Subscribe(assistant.ResultTypeCreate, func(r assistant.Result) { results <- r })

	handler, ok := f.registry.Resolve("create_tasks")
	if !ok {
		t.Fatal("create_tasks not registered")
	}

	requestID := uuid.New()
	outcome, err := handler.Execute(f.ctx, `{"tasks":[{"title":"Drink water"}]}`, requestID)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !outcome.Async {
		t.Fatalf("expected async outcome, got %+v", outcome)
	}

	result := awaitResult(t, results)
	if result.RequestID != requestID {
		t.Fatalf("result carries wrong request id: %s", result.RequestID)
	}
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Err)
	}

	var resp tasks.CreateTasksResponse
	if err := json.Unmarshal(result.Data, &resp); err != nil {
		t.Fatalf("decode result data: %v", err)
	}
	if len(resp.Tasks) != 1 || resp.Tasks[0].Title != "Drink water" {
		t.Fatalf("unexpected result payload: %+v", resp)
	}

	// The task really landed in storage.
	listed, err := f.tasksService.List(f.ctx, f.profileID, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed.Tasks) != 1 {
		t.Fatalf("expected 1 stored task, got %d", len(listed.Tasks))
	}
}

func TestCreateTasksToolRejectsBadArguments(t *testing.T) {
	f := newToolsFixture(t)

	handler, _ := f.registry.Resolve("create_tasks")
	_, err := handler.Execute(f.ctx, "not json", uuid.New())
	if !errors.Is(err, assistant.ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
}

func TestQueryTasksToolReturnsStoredTasks(t *testing.T) {
	f := newToolsFixture(t)

	if _, err := f.tasksService.Create(f.ctx, &tasks.CreateTasksRequest{
		ProfileID: f.profileID,
		Tasks:     []tasks.TaskInput{{Title: "Stretch"}, {Title: "Walk"}},
	}); err != nil {
		t.Fatalf("seed tasks: %v", err)
	}

	results := make(chan assistant.Result, 1)
	f.bus.Subscribe(assistant.ResultTypeQuery, func(r assistant.Result) { results <- r })

	handler, _ := f.registry.Resolve("query_tasks")
	requestID := uuid.New()
	if _, err := handler.Execute(f.ctx, `{"status":"pending"}`, requestID); err != nil {
		t.Fatalf("execute: %v", err)
	}

	result := awaitResult(t, results)
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Err)
	}
	var resp tasks.ListTasksResponse
	if err := json.Unmarshal(result.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(resp.Tasks))
	}
}

func TestDeleteTaskToolPublishesFailure(t *testing.T) {
	f := newToolsFixture(t)

	results := make(chan assistant.Result, 1)
	f.bus.Subscribe(assistant.ResultTypeDelete, func(r assistant.Result) { results <- r })

	handler, _ := f.registry.Resolve("delete_task")
	requestID := uuid.New()
	args, _ := json.Marshal(map[string]string{"task_id": uuid.NewString()})
	if _, err := handler.Execute(f.ctx, string(args), requestID); err != nil {
		t.Fatalf("execute: %v", err)
	}

	result := awaitResult(t, results)
	if result.Success {
		t.Fatal("deleting an unknown task must report failure over the bus")
	}
	if result.Err == "" {
		t.Fatal("failure result must carry an error message")
	}
}

func TestWorkoutPlanToolIsTerminal(t *testing.T) {
	f := newToolsFixture(t)

	handler, ok := f.registry.Resolve("generate_workout_plan")
	if !ok {
		t.Fatal("generate_workout_plan not registered")
	}

	outcome, err := handler.Execute(f.ctx, `{"title":"Full body","exercises":[{"name":"Squat","sets":3,"reps":10}]}`, uuid.New())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !outcome.Terminal || outcome.Plan == nil {
		t.Fatalf("expected terminal outcome with plan, got %+v", outcome)
	}
	if outcome.Plan.Kind != plans.KindWorkout || outcome.Plan.Title != "Full body" {
		t.Fatalf("unexpected plan: %+v", outcome.Plan)
	}

	// Stored, not just returned.
	stored, err := f.plansService.Get(f.ctx, outcome.Plan.ID)
	if err != nil {
		t.Fatalf("plan not persisted: %v", err)
	}
	if stored.Kind != plans.KindWorkout {
		t.Fatalf("unexpected stored plan: %+v", stored)
	}
}

func TestWorkoutPlanToolEmptyPlan(t *testing.T) {
	f := newToolsFixture(t)

	handler, _ := f.registry.Resolve("generate_workout_plan")
	_, err := handler.Execute(f.ctx, `{"title":"Nothing","exercises":[]}`, uuid.New())
	if !errors.Is(err, plans.ErrEmptyPlan) {
		t.Fatalf("expected ErrEmptyPlan, got %v", err)
	}
	if errors.Is(err, assistant.ErrInvalidArguments) {
		t.Fatalf("empty plan is a domain error, not an argument error: %v", err)
	}
}

func TestWorkoutPlanToolTruncatedArguments(t *testing.T) {
	f := newToolsFixture(t)

	handler, _ := f.registry.Resolve("generate_workout_plan")
	_, err := handler.Execute(f.ctx, `{"title":"Cut off","exercises":[{"name":"Squat"`, uuid.New())
	if !errors.Is(err, assistant.ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments wrap, got %v", err)
	}
	if !errors.Is(err, plans.ErrTruncatedResponse) {
		t.Fatalf("expected ErrTruncatedResponse cause, got %v", err)
	}
}
