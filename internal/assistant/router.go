package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/LEOK66/Modo-sub000/internal/plans"
	"github.com/google/uuid"
)

// Reply is the terminal result of one exchange: assistant text, a stored
// plan from a terminal tool, or both fields with one empty.
type Reply struct {
	Text string
	Plan *plans.PlanDTO
}

// RouterConfig bounds one router's exchanges.
type RouterConfig struct {
	// MaxToolCalls caps the tool-call chain per exchange; past it the
	// exchange fails with ErrChainDepthExceeded. Defaults to 8.
	MaxToolCalls int
	// MaxTokens is forwarded to the backend as the output budget.
	MaxTokens int
}

// Router runs one conversational exchange against the AI backend: it sends
// the turn list, dispatches any tool call the backend requests, waits for
// async results on the bus, feeds them back, and loops until terminal text,
// a terminal tool, or an error.
//
// A router holds at most one pending tool call at a time and is meant to be
// constructed per exchange (cheap) and closed afterwards. The registry and
// bus it borrows are process-wide and shared across routers; correlation by
// requestID keeps concurrent routers from stealing each other's results.
type Router struct {
	provider   ai.Provider
	registry   *Registry
	bus        *Bus
	dispatcher *Dispatcher

	ledger  pendingLedger
	results chan Result
	subs    []Subscription

	maxToolCalls int
	maxTokens    int
}

func NewRouter(provider ai.Provider, registry *Registry, bus *Bus, cfg RouterConfig) *Router {
	if cfg.MaxToolCalls <= 0 {
		cfg.MaxToolCalls = 8
	}

	r := &Router{
		provider:     provider,
		registry:     registry,
		bus:          bus,
		dispatcher:   NewDispatcher(registry),
		results:      make(chan Result, 1),
		maxToolCalls: cfg.MaxToolCalls,
		maxTokens:    cfg.MaxTokens,
	}

	// Subscribe before any dispatch can happen; the bus does not replay.
	for _, typ := range []ResultType{ResultTypeQuery, ResultTypeCreate, ResultTypeUpdate, ResultTypeDelete} {
		r.subs = append(r.subs, bus.Subscribe(typ, r.onResult))
	}
	return r
}

// Close unsubscribes the router from the bus. Always call it when the
// exchange is over; a closed router must not be reused.
func (r *Router) Close() {
	for _, sub := range r.subs {
		r.bus.Unsubscribe(sub)
	}
	r.subs = nil
	r.ledger.clear()
}

// Respond runs the exchange state machine over the given turns. The caller
// owns the deadline: a handler that never publishes a matching result parks
// Respond until ctx expires.
func (r *Router) Respond(ctx context.Context, turns []ai.Turn) (*Reply, error) {
	r.drainStale()

	snapshot := append([]ai.Turn(nil), turns...)
	dispatched := 0

	for {
		completion, err := r.provider.Complete(ctx, ai.CompletionRequest{
			Turns:      snapshot,
			Tools:      r.registry.Schemas(),
			ToolChoice: ai.ToolChoiceAuto,
			MaxTokens:  r.maxTokens,
		})
		if err != nil {
			return nil, err
		}

		call := completion.ToolCall
		if call == nil {
			if strings.TrimSpace(completion.Text) == "" {
				return nil, ErrEmptyResponse
			}
			return &Reply{Text: completion.Text}, nil
		}

		dispatched++
		if dispatched > r.maxToolCalls {
			return nil, fmt.Errorf("%w: %d tool calls without a terminal answer", ErrChainDepthExceeded, r.maxToolCalls)
		}

		snapshot = append(snapshot, ai.Turn{Role: ai.RoleAssistant, ToolCall: call})

		requestID := uuid.New()
		if evicted := r.ledger.put(&pendingCall{requestID: requestID, toolName: call.Name, turns: snapshot}); evicted != nil {
			log.Printf("WARNING: assistant: evicted pending call %s (%s)", evicted.requestID, evicted.toolName)
		}

		outcome, err := r.dispatcher.Dispatch(ctx, call.Name, call.Arguments, requestID)
		if err != nil {
			r.ledger.clear()
			return nil, err
		}

		switch {
		case outcome.Terminal:
			// Terminal tools end the exchange themselves; no backend
			// round-trip with the result.
			r.ledger.clear()
			return &Reply{Plan: outcome.Plan}, nil
		case outcome.Async:
			result, err := r.awaitResult(ctx)
			if err != nil {
				r.ledger.clear()
				return nil, err
			}
			snapshot = append(snapshot, ai.ToolResultTurn(call.Name, call.ID, formatResult(result)))
		default:
			r.ledger.clear()
			return nil, fmt.Errorf("%w: %s: handler reported no outcome", ErrExecutionFailed, call.Name)
		}
	}
}

// onResult runs on the publishing handler's goroutine. The ledger filters
// before the channel: only the result matching the held pending call gets
// through, and only once.
func (r *Router) onResult(result Result) {
	if _, ok := r.ledger.take(result.RequestID); !ok {
		log.Printf("WARNING: assistant: discarding %s result for unknown request %s", result.Type, result.RequestID)
		return
	}
	select {
	case r.results <- result:
	default:
		log.Printf("WARNING: assistant: dropping %s result for request %s, slot full", result.Type, result.RequestID)
	}
}

func (r *Router) awaitResult(ctx context.Context) (Result, error) {
	select {
	case result := <-r.results:
		return result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// drainStale empties results left over from an abandoned exchange on this
// router. Nothing to correlate them against anymore.
func (r *Router) drainStale() {
	for {
		select {
		case stale := <-r.results:
			log.Printf("WARNING: assistant: dropping stale result for request %s", stale.RequestID)
		default:
			return
		}
	}
}

// formatResult renders a bus result as the tool-turn content the backend
// sees.
func formatResult(result Result) string {
	if !result.Success {
		payload, _ := json.Marshal(map[string]string{"error": result.Err})
		return string(payload)
	}
	if len(result.Data) == 0 {
		return `{"ok":true}`
	}
	return string(result.Data)
}
