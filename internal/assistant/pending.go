package assistant

import (
	"sync"

	"github.com/LEOK66/Modo-sub000/internal/ai"
	"github.com/google/uuid"
)

// pendingCall is the one in-flight tool invocation a router is waiting on.
type pendingCall struct {
	requestID uuid.UUID
	toolName  string
	turns     []ai.Turn
}

// pendingLedger holds at most one pending call per router instance.
// Single-flight: dispatching while a call is pending evicts the old slot.
// The mutex is needed because bus callbacks arrive on handler goroutines.
type pendingLedger struct {
	mu   sync.Mutex
	slot *pendingCall
}

// put installs the call and returns whatever it evicted, if anything.
func (l *pendingLedger) put(call *pendingCall) *pendingCall {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := l.slot
	l.slot = call
	return evicted
}

// take consumes the slot when requestID matches the held call. A second
// delivery of the same result finds the slot empty and is a no-op.
func (l *pendingLedger) take(requestID uuid.UUID) (*pendingCall, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.slot == nil || l.slot.requestID != requestID {
		return nil, false
	}
	call := l.slot
	l.slot = nil
	return call, true
}

func (l *pendingLedger) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.slot = nil
}
