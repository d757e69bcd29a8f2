package assistant

import (
	"testing"

	"github.com/google/uuid"
)

func TestBusPublishReachesTypeSubscribersOnly(t *testing.T) {
	bus := NewBus()

	var created, queried []Result
	bus.Subscribe(ResultTypeCreate, func(r Result) { created = append(created, r) })
	bus.Subscribe(ResultTypeQuery, func(r Result) { queried = append(queried, r) })

	id := uuid.New()
	bus.Publish(ResultTypeCreate, Result{RequestID: id, Success: true})

	if len(created) != 1 || created[0].RequestID != id {
		t.Fatalf("expected one create delivery, got %+v", created)
	}
	if created[0].Type != ResultTypeCreate {
		t.Fatalf("expected publish to stamp the type, got %q", created[0].Type)
	}
	if len(queried) != 0 {
		t.Fatalf("query subscriber must not see create results, got %+v", queried)
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus()

	var got []Result
	sub := bus.Subscribe(ResultTypeUpdate, func(r Result) { got = append(got, r) })

	bus.Publish(ResultTypeUpdate, Result{RequestID: uuid.New()})
	bus.Unsubscribe(sub)
	bus.Publish(ResultTypeUpdate, Result{RequestID: uuid.New()})

	if len(got) != 1 {
		t.Fatalf("expected exactly one delivery before unsubscribe, got %d", len(got))
	}
}

func TestBusPublishWithoutSubscribersIsLost(t *testing.T) {
	bus := NewBus()

	// No subscriber yet: the message is dropped, not queued.
	bus.Publish(ResultTypeDelete, Result{RequestID: uuid.New()})

	var got []Result
	bus.Subscribe(ResultTypeDelete, func(r Result) { got = append(got, r) })
	if len(got) != 0 {
		t.Fatalf("bus must not replay earlier publishes, got %+v", got)
	}
}
