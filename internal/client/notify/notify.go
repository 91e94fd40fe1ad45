// Package notify is the same-device invalidation channel between live
// application instances (windows) sharing one local store.
//
// It carries no data beyond an event tag: a receiver always re-reads full
// collections from the local store instead of trusting an inline payload, so
// two instances can never disagree about serialization.
package notify

import "sync"

// Event tags which collection changed.
type Event struct {
	Key string
}

// Handler receives change events published by other instances.
type Handler func(Event)

// Hub fans events out between the instances registered on it.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]subscription
}

type subscription struct {
	instance int
	fn       Handler
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]subscription)}
}

// Instance is one application instance's handle on the hub. Events it
// publishes are delivered to every other instance's subscribers but never to
// its own, so an instance cannot trigger its own reload loop.
type Instance struct {
	hub *Hub
	id  int
}

// Register adds a new instance to the hub.
func (h *Hub) Register() *Instance {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	return &Instance{hub: h, id: h.next}
}

// Subscribe registers fn to run once per publish from any other instance.
// The returned cancel function removes the subscription.
func (i *Instance) Subscribe(fn Handler) (cancel func()) {
	h := i.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.subs[id] = subscription{instance: i.id, fn: fn}
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Publish broadcasts ev to the subscribers of every other instance. Handlers
// run on their own goroutine so a slow receiver cannot stall the publisher's
// mutation path.
func (i *Instance) Publish(ev Event) {
	h := i.hub
	h.mu.Lock()
	handlers := make([]Handler, 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.instance == i.id {
			continue
		}
		handlers = append(handlers, sub.fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		go fn(ev)
	}
}
