package event

import (
	"log"
	"sync"
)

// Bus is a minimal in-process notification mechanism for connection and
// playback state changes. Publish carries no payload; subscribers re-query
// whatever state they care about. Dispatch is synchronous, in subscription
// order, on the goroutine that called Publish. A panic in one subscriber is
// logged and must not stop the remaining subscribers or reach the publisher.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func()
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns its unsubscribe handle. Unsubscribing
// twice is a no-op.
func (b *Bus) Subscribe(fn func()) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish invokes every subscriber in subscription order. The subscriber list
// is snapshotted first so callbacks may subscribe or unsubscribe without
// deadlocking; such changes take effect on the next Publish.
func (b *Bus) Publish() {
	b.mu.Lock()
	snapshot := make([]subscription, len(b.subs))
	copy(snapshot, b.subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		invoke(s.fn)
	}
}

func invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("event: subscriber panicked: %v", r)
		}
	}()
	fn()
}
