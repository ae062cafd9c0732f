package event

import "testing"

func TestPublishOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	bus.Subscribe(func() { order = append(order, 1) })
	bus.Subscribe(func() { order = append(order, 2) })
	bus.Subscribe(func() { order = append(order, 3) })

	bus.Publish()

	if len(order) != 3 {
		t.Fatalf("Expected 3 invocations, got %d", len(order))
	}
	for i, v := range order {
		if v != i+1 {
			t.Errorf("Position %d: expected %d, got %d", i, i+1, v)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsub := bus.Subscribe(func() { calls++ })

	bus.Publish()
	unsub()
	bus.Publish()

	if calls != 1 {
		t.Errorf("Expected 1 call after unsubscribe, got %d", calls)
	}

	// Double unsubscribe must be a no-op
	unsub()
	bus.Publish()
	if calls != 1 {
		t.Errorf("Expected calls to stay at 1, got %d", calls)
	}
}

func TestPanicIsolation(t *testing.T) {
	bus := NewBus()

	secondCalled := false
	bus.Subscribe(func() { panic("boom") })
	bus.Subscribe(func() { secondCalled = true })

	// Must not propagate to the publisher
	bus.Publish()

	if !secondCalled {
		t.Error("Subscriber after a panicking one was not invoked")
	}
}

func TestSubscribeDuringDispatch(t *testing.T) {
	bus := NewBus()

	lateCalls := 0
	bus.Subscribe(func() {
		bus.Subscribe(func() { lateCalls++ })
	})

	bus.Publish()
	if lateCalls != 0 {
		t.Error("Subscriber added during dispatch should not run in same publish")
	}

	bus.Publish()
	if lateCalls != 1 {
		t.Errorf("Expected late subscriber to run on next publish, got %d calls", lateCalls)
	}
}
