package assistant

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// ResultType partitions bus traffic by tool family.
type ResultType string

const (
	ResultTypeQuery  ResultType = "query"
	ResultTypeCreate ResultType = "create"
	ResultTypeUpdate ResultType = "update"
	ResultTypeDelete ResultType = "delete"
)

// Result is an async handler's eventual outcome, correlated back to the
// in-flight exchange by RequestID.
type Result struct {
	RequestID uuid.UUID
	Type      ResultType
	Success   bool
	Data      json.RawMessage
	Err       string
}

// Subscription identifies one registered callback for Unsubscribe.
type Subscription struct {
	id  uint64
	typ ResultType
}

// Bus is a typed in-process publish/subscribe channel between async tool
// handlers and routers. Delivery is synchronous fan-out with no persistence:
// publishing before anyone subscribed loses the message, which is fine
// because routers subscribe at construction, before any dispatch.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[ResultType]map[uint64]func(Result)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[ResultType]map[uint64]func(Result))}
}

func (b *Bus) Subscribe(typ ResultType, callback func(Result)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[typ] == nil {
		b.subs[typ] = make(map[uint64]func(Result))
	}
	b.subs[typ][id] = callback

	return Subscription{id: id, typ: typ}
}

func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if callbacks, ok := b.subs[sub.typ]; ok {
		delete(callbacks, sub.id)
	}
}

// Publish delivers the result to every subscriber of its type. Callbacks run
// on the publisher's goroutine, outside the bus lock, so they may call back
// into the bus.
func (b *Bus) Publish(typ ResultType, result Result) {
	result.Type = typ

	b.mu.RLock()
	callbacks := make([]func(Result), 0, len(b.subs[typ]))
	for _, callback := range b.subs[typ] {
		callbacks = append(callbacks, callback)
	}
	b.mu.RUnlock()

	for _, callback := range callbacks {
		callback(result)
	}
}
