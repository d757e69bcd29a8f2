package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LEOK66/Modo-sub000/internal/assistant"
	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/LEOK66/Modo-sub000/internal/tasks"
	"github.com/LEOK66/Modo-sub000/internal/userctx"
	"github.com/google/uuid"
)

// taskTools are the async family: Execute validates the arguments, starts
// the domain work on its own goroutine, and the result comes back over the
// bus tagged with the requestID.
type taskTools struct {
	bus     *assistant.Bus
	service *tasks.Service
}

func registerTaskTools(registry *assistant.Registry, bus *assistant.Bus, service *tasks.Service) {
	t := &taskTools{bus: bus, service: service}

	registry.Register(ai.ToolSchema{
		Name:        "create_tasks",
		Description: "Create one or more to-do tasks for the user.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tasks": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"title":    map[string]any{"type": "string"},
							"notes":    map[string]any{"type": "string"},
							"due_date": map[string]any{"type": "string", "description": "YYYY-MM-DD"},
						},
						"required": []string{"title"},
					},
				},
			},
			"required": []string{"tasks"},
		},
	}, assistant.HandlerFunc(t.createTasks))

	registry.Register(ai.ToolSchema{
		Name:        "query_tasks",
		Description: "List the user's tasks, optionally filtered by status.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]any{"type": "string", "enum": []string{"pending", "done"}},
				"limit":  map[string]any{"type": "integer"},
			},
		},
	}, assistant.HandlerFunc(t.queryTasks))

	registry.Register(ai.ToolSchema{
		Name:        "update_task",
		Description: "Update a task's title, notes, due date, or status.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"task_id":  map[string]any{"type": "string", "description": "task UUID"},
				"title":    map[string]any{"type": "string"},
				"notes":    map[string]any{"type": "string"},
				"due_date": map[string]any{"type": "string", "description": "YYYY-MM-DD"},
				"status":   map[string]any{"type": "string", "enum": []string{"pending", "done"}},
			},
			"required": []string{"task_id"},
		},
	}, assistant.HandlerFunc(t.updateTask))

	registry.Register(ai.ToolSchema{
		Name:        "delete_task",
		Description: "Delete a task.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"task_id": map[string]any{"type": "string", "description": "task UUID"},
			},
			"required": []string{"task_id"},
		},
	}, assistant.HandlerFunc(t.deleteTask))
}

type createTasksArgs struct {
	Tasks []tasks.TaskInput `json:"tasks"`
}

func (t *taskTools) createTasks(ctx context.Context, arguments string, requestID uuid.UUID) (assistant.Outcome, error) {
	var args createTasksArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return assistant.Outcome{}, fmt.Errorf("%w: %v", assistant.ErrInvalidArguments, err)
	}
	profileID, err := activeProfile(ctx)
	if err != nil {
		return assistant.Outcome{}, err
	}

	t.run(ctx, assistant.ResultTypeCreate, requestID, func(work context.Context) (any, error) {
		return t.service.Create(work, &tasks.CreateTasksRequest{ProfileID: profileID, Tasks: args.Tasks})
	})
	return assistant.Outcome{Async: true}, nil
}

type queryTasksArgs struct {
	Status string `json:"status"`
	Limit  int    `json:"limit"`
}

func (t *taskTools) queryTasks(ctx context.Context, arguments string, requestID uuid.UUID) (assistant.Outcome, error) {
	var args queryTasksArgs
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return assistant.Outcome{}, fmt.Errorf("%w: %v", assistant.ErrInvalidArguments, err)
		}
	}
	profileID, err := activeProfile(ctx)
	if err != nil {
		return assistant.Outcome{}, err
	}

	t.run(ctx, assistant.ResultTypeQuery, requestID, func(work context.Context) (any, error) {
		return t.service.List(work, profileID, args.Status, args.Limit)
	})
	return assistant.Outcome{Async: true}, nil
}

type updateTaskArgs struct {
	TaskID  uuid.UUID `json:"task_id"`
	Title   *string   `json:"title,omitempty"`
	Notes   *string   `json:"notes,omitempty"`
	DueDate *string   `json:"due_date,omitempty"`
	Status  *string   `json:"status,omitempty"`
}

func (t *taskTools) updateTask(ctx context.Context, arguments string, requestID uuid.UUID) (assistant.Outcome, error) {
	var args updateTaskArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return assistant.Outcome{}, fmt.Errorf("%w: %v", assistant.ErrInvalidArguments, err)
	}
	if args.TaskID == uuid.Nil {
		return assistant.Outcome{}, fmt.Errorf("%w: task_id is required", assistant.ErrInvalidArguments)
	}

	t.run(ctx, assistant.ResultTypeUpdate, requestID, func(work context.Context) (any, error) {
		return t.service.Update(work, args.TaskID, &tasks.UpdateTaskRequest{
			Title:   args.Title,
			Notes:   args.Notes,
			DueDate: args.DueDate,
			Status:  args.Status,
		})
	})
	return assistant.Outcome{Async: true}, nil
}

type deleteTaskArgs struct {
	TaskID uuid.UUID `json:"task_id"`
}

func (t *taskTools) deleteTask(ctx context.Context, arguments string, requestID uuid.UUID) (assistant.Outcome, error) {
	var args deleteTaskArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return assistant.Outcome{}, fmt.Errorf("%w: %v", assistant.ErrInvalidArguments, err)
	}
	if args.TaskID == uuid.Nil {
		return assistant.Outcome{}, fmt.Errorf("%w: task_id is required", assistant.ErrInvalidArguments)
	}

	t.run(ctx, assistant.ResultTypeDelete, requestID, func(work context.Context) (any, error) {
		if err := t.service.Delete(work, args.TaskID); err != nil {
			return nil, err
		}
		return map[string]any{"deleted": args.TaskID}, nil
	})
	return assistant.Outcome{Async: true}, nil
}

// run executes the domain call on its own goroutine and publishes the result
// to the bus. The work context survives the HTTP request's cancellation so a
// started mutation always reports back.
func (t *taskTools) run(ctx context.Context, typ assistant.ResultType, requestID uuid.UUID, fn func(context.Context) (any, error)) {
	work := context.WithoutCancel(ctx)
	go func() {
		payload, err := fn(work)
		if err != nil {
			t.bus.Publish(typ, assistant.Result{RequestID: requestID, Success: false, Err: err.Error()})
			return
		}
		data, err := json.Marshal(payload)
		if err != nil {
			t.bus.Publish(typ, assistant.Result{RequestID: requestID, Success: false, Err: err.Error()})
			return
		}
		t.bus.Publish(typ, assistant.Result{RequestID: requestID, Success: true, Data: data})
	}()
}

func activeProfile(ctx context.Context) (uuid.UUID, error) {
	profileID, ok := userctx.GetProfileID(ctx)
	if !ok || profileID == uuid.Nil {
		return uuid.Nil, errors.New("no active profile on context")
	}
	return profileID, nil
}
