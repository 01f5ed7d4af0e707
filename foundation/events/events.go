// Package events fans chain events out to subscribers. The node feeds every
// event handler message into Send so websocket clients can follow
// submissions and mining as they happen.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer is how many events a subscriber can fall behind before
// events are dropped for it.
const messageBuffer = 100

// subscriber is a single receiver of events.
type subscriber struct {
	ch      chan string
	dropped int
}

// Events maintains the set of subscribers keyed by a unique id.
type Events struct {
	mu   sync.Mutex
	subs map[string]*subscriber
}

// New constructs an empty set of subscribers.
func New() *Events {
	return &Events{
		subs: make(map[string]*subscriber),
	}
}

// Acquire returns the channel events are delivered on for the id. The same
// channel is returned when the id is already subscribed.
func (evt *Events) Acquire(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.subs[id]; exists {
		return sub.ch
	}

	sub := subscriber{ch: make(chan string, messageBuffer)}
	evt.subs[id] = &sub

	return sub.ch
}

// Release closes the channel for the id and returns how many events were
// dropped because the subscriber was not keeping up.
func (evt *Events) Release(id string) (int, error) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.subs[id]
	if !exists {
		return 0, fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subs, id)
	close(sub.ch)

	return sub.dropped, nil
}

// Count returns the number of subscribers.
func (evt *Events) Count() int {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	return len(evt.subs)
}

// Send delivers the event to every subscriber without blocking. A
// subscriber with a full buffer misses the event.
func (evt *Events) Send(s string) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for _, sub := range evt.subs {
		select {
		case sub.ch <- s:
		default:
			sub.dropped++
		}
	}
}

// Shutdown closes every subscriber channel.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.subs {
		delete(evt.subs, id)
		close(sub.ch)
	}
}
