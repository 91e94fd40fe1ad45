package notify

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPublishReachesOtherInstancesOnce(t *testing.T) {
	hub := NewHub()
	a := hub.Register()
	b := hub.Register()
	c := hub.Register()

	var bCount, cCount atomic.Int64
	var got atomic.Value
	b.Subscribe(func(ev Event) {
		bCount.Add(1)
		got.Store(ev.Key)
	})
	c.Subscribe(func(Event) { cCount.Add(1) })

	a.Publish(Event{Key: "patients"})

	waitFor(t, func() bool { return bCount.Load() == 1 && cCount.Load() == 1 })
	if got.Load() != "patients" {
		t.Errorf("event key = %v; want patients", got.Load())
	}

	// No duplicate delivery shows up later.
	time.Sleep(50 * time.Millisecond)
	if bCount.Load() != 1 || cCount.Load() != 1 {
		t.Errorf("duplicate delivery: b=%d c=%d", bCount.Load(), cCount.Load())
	}
}

func TestPublisherDoesNotReceiveOwnEvent(t *testing.T) {
	hub := NewHub()
	a := hub.Register()
	b := hub.Register()

	var aCount, bCount atomic.Int64
	a.Subscribe(func(Event) { aCount.Add(1) })
	b.Subscribe(func(Event) { bCount.Add(1) })

	a.Publish(Event{Key: "queue"})

	waitFor(t, func() bool { return bCount.Load() == 1 })
	if aCount.Load() != 0 {
		t.Errorf("publisher received its own event %d times", aCount.Load())
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	a := hub.Register()
	b := hub.Register()

	var count atomic.Int64
	cancel := b.Subscribe(func(Event) { count.Add(1) })

	a.Publish(Event{Key: "users"})
	waitFor(t, func() bool { return count.Load() == 1 })

	cancel()
	a.Publish(Event{Key: "users"})
	time.Sleep(50 * time.Millisecond)
	if count.Load() != 1 {
		t.Errorf("delivery after cancel: count=%d", count.Load())
	}
}
