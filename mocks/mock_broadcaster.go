package mocks

import (
	"sync"

	"rxlens/internal/port"
)

// RecordingBroadcaster collects broadcast events for assertions.
type RecordingBroadcaster struct {
	mu     sync.Mutex
	events []port.Event
}

func (b *RecordingBroadcaster) Broadcast(event port.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

// Events returns a copy of everything broadcast so far.
func (b *RecordingBroadcaster) Events() []port.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]port.Event(nil), b.events...)
}

// Types returns the event types in broadcast order.
func (b *RecordingBroadcaster) Types() []port.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]port.EventType, len(b.events))
	for i, e := range b.events {
		types[i] = e.Type
	}
	return types
}
