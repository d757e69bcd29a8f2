package assistant

import (
	"context"
	"sort"
	"sync"

	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/google/uuid"
)

// Outcome is what a handler's synchronous invocation reports back to the
// router. Exactly one of the two shapes applies:
//   - Async: domain work continues in the background and the result will
//     arrive on the Bus tagged with the requestID.
//   - Terminal: the handler finished the exchange itself; Plan carries the
//     stored result and no further backend round-trip happens.
type Outcome struct {
	Async    bool
	Terminal bool
	Plan     *plans.PlanDTO
}

// Handler is one callable tool. Execute may finish the work inline (terminal
// tools) or start it and publish the result to the Bus later (async tools).
// Argument parse failures are reported by wrapping ErrInvalidArguments.
type Handler interface {
	Execute(ctx context.Context, arguments string, requestID uuid.UUID) (Outcome, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, arguments string, requestID uuid.UUID) (Outcome, error)

func (f HandlerFunc) Execute(ctx context.Context, arguments string, requestID uuid.UUID) (Outcome, error) {
	return f(ctx, arguments, requestID)
}

type registration struct {
	schema  ai.ToolSchema
	handler Handler
}

// Registry maps tool names to handlers plus the schemas advertised to the
// backend. New tools are added by registering, never by branching in the
// router.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register installs a handler under schema.Name. A later registration for
// the same name silently replaces the earlier one.
func (r *Registry) Register(schema ai.ToolSchema, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[schema.Name] = registration{schema: schema, handler: handler}
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

func (r *Registry) Resolve(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return reg.handler, true
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schemas returns the tool schemas in name order, ready for a completion
// request.
func (r *Registry) Schemas() []ai.ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	schemas := make([]ai.ToolSchema, 0, len(names))
	for _, name := range names {
		schemas = append(schemas, r.entries[name].schema)
	}
	return schemas
}
