package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/google/uuid"
)

func TestDispatchInvokesHandlerExactlyOnce(t *testing.T) {
	reg := NewRegistry()

	type invocation struct {
		arguments string
		requestID uuid.UUID
	}
	var invocations []invocation

	reg.Register(ai.ToolSchema{Name: "create_tasks"}, HandlerFunc(func(ctx context.Context, arguments string, requestID uuid.UUID) (Outcome, error) {
		invocations = append(invocations, invocation{arguments: arguments, requestID: requestID})
		return Outcome{Async: true}, nil
	}))

	requestID := uuid.New()
	outcome, err := NewDispatcher(reg).Dispatch(context.Background(), "create_tasks", `{"tasks":[]}`, requestID)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !outcome.Async {
		t.Fatalf("expected async outcome, got %+v", outcome)
	}

	if len(invocations) != 1 {
		t.Fatalf("expected exactly one invocation, got %d", len(invocations))
	}
	if invocations[0].arguments != `{"tasks":[]}` || invocations[0].requestID != requestID {
		t.Fatalf("handler saw wrong inputs: %+v", invocations[0])
	}
}

func TestDispatchUnknownNameNeverInvokes(t *testing.T) {
	reg := NewRegistry()

	invoked := false
	reg.Register(ai.ToolSchema{Name: "create_tasks"}, HandlerFunc(func(ctx context.Context, arguments string, requestID uuid.UUID) (Outcome, error) {
		invoked = true
		return Outcome{Async: true}, nil
	}))

	_, err := NewDispatcher(reg).Dispatch(context.Background(), "no_such_tool", "{}", uuid.New())
	if !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("expected ErrHandlerNotFound, got %v", err)
	}
	if invoked {
		t.Fatal("no handler may run for an unknown name")
	}
}

func TestDispatchWrapsHandlerFailure(t *testing.T) {
	reg := NewRegistry()
	reg.Register(ai.ToolSchema{Name: "create_tasks"}, HandlerFunc(func(ctx context.Context, arguments string, requestID uuid.UUID) (Outcome, error) {
		return Outcome{}, errors.New("db down")
	}))

	_, err := NewDispatcher(reg).Dispatch(context.Background(), "create_tasks", "{}", uuid.New())
	if !errors.Is(err, ErrExecutionFailed) {
		t.Fatalf("expected ErrExecutionFailed, got %v", err)
	}
}

func TestDispatchPassesThroughInvalidArguments(t *testing.T) {
	reg := NewRegistry()
	reg.Register(ai.ToolSchema{Name: "create_tasks"}, HandlerFunc(func(ctx context.Context, arguments string, requestID uuid.UUID) (Outcome, error) {
		return Outcome{}, fmt.Errorf("%w: not json", ErrInvalidArguments)
	}))

	_, err := NewDispatcher(reg).Dispatch(context.Background(), "create_tasks", "not json", uuid.New())
	if !errors.Is(err, ErrInvalidArguments) {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
	if errors.Is(err, ErrExecutionFailed) {
		t.Fatalf("argument errors must not be reported as execution failures: %v", err)
	}
}
