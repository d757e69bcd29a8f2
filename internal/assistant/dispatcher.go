package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Dispatcher resolves tool names through the registry and invokes handlers,
// translating failures into the typed error taxonomy.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch invokes the handler registered under name. Unknown names fail
// with ErrHandlerNotFound without invoking anything. Handler errors come
// back wrapped: ErrInvalidArguments passes through as the handler reported
// it, anything else becomes ErrExecutionFailed.
func (d *Dispatcher) Dispatch(ctx context.Context, name, arguments string, requestID uuid.UUID) (Outcome, error) {
	handler, ok := d.registry.Resolve(name)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrHandlerNotFound, name)
	}

	outcome, err := handler.Execute(ctx, arguments, requestID)
	if err != nil {
		if errors.Is(err, ErrInvalidArguments) {
			return Outcome{}, err
		}
		return Outcome{}, fmt.Errorf("%w: %s: %w", ErrExecutionFailed, name, err)
	}
	return outcome, nil
}
