package assistant

import (
	"context"
	"reflect"
	"testing"

	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/google/uuid"
)

func noopHandler(tag string, hits *[]string) Handler {
	return HandlerFunc(func(ctx context.Context, arguments string, requestID uuid.UUID) (Outcome, error) {
		*hits = append(*hits, tag)
		return Outcome{Async: true}, nil
	})
}

func TestRegistryRegisterAndResolve(t *testing.T) {
	reg := NewRegistry()
	var hits []string

	reg.Register(ai.ToolSchema{Name: "create_tasks"}, noopHandler("first", &hits))

	if !reg.Has("create_tasks") {
		t.Fatal("expected create_tasks to be registered")
	}
	if reg.Has("unknown_tool") {
		t.Fatal("unknown_tool must not be registered")
	}

	handler, ok := reg.Resolve("create_tasks")
	if !ok {
		t.Fatal("resolve failed for registered name")
	}
	if _, err := handler.Execute(context.Background(), "{}", uuid.New()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !reflect.DeepEqual(hits, []string{"first"}) {
		t.Fatalf("expected one hit on first handler, got %v", hits)
	}
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	var hits []string

	reg.Register(ai.ToolSchema{Name: "create_tasks"}, noopHandler("first", &hits))
	reg.Register(ai.ToolSchema{Name: "create_tasks"}, noopHandler("second", &hits))

	handler, ok := reg.Resolve("create_tasks")
	if !ok {
		t.Fatal("resolve failed")
	}
	if _, err := handler.Execute(context.Background(), "{}", uuid.New()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !reflect.DeepEqual(hits, []string{"second"}) {
		t.Fatalf("expected only the replacement handler to run, got %v", hits)
	}

	if names := reg.Names(); len(names) != 1 {
		t.Fatalf("re-registration must not duplicate the name, got %v", names)
	}
}

func TestRegistryNamesAndSchemasSorted(t *testing.T) {
	reg := NewRegistry()
	var hits []string

	reg.Register(ai.ToolSchema{Name: "query_tasks", Description: "q"}, noopHandler("q", &hits))
	reg.Register(ai.ToolSchema{Name: "create_tasks", Description: "c"}, noopHandler("c", &hits))

	want := []string{"create_tasks", "query_tasks"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected sorted names %v, got %v", want, got)
	}

	schemas := reg.Schemas()
	if len(schemas) != 2 || schemas[0].Name != "create_tasks" || schemas[1].Name != "query_tasks" {
		t.Fatalf("expected schemas in name order, got %+v", schemas)
	}
}
