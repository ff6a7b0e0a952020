package events

import (
	"context"
	"errors"
	"sync"
)

// EventHandler reacts to one employee lifecycle event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans employee events out to the handlers registered per type.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type inMemoryDispatcher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a dispatcher that runs handlers inline, in
// registration order, on the publishing goroutine.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{subscribers: make(map[EventType][]EventHandler)}
}

// Publish hands event to every subscriber of its type. All subscribers run even
// when some fail; the failures come back joined.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subs := make([]EventHandler, len(d.subscribers[event.Type]))
	copy(subs, d.subscribers[event.Type])
	d.mu.RUnlock()

	var failures []error
	for _, handle := range subs {
		if err := handle(ctx, event); err != nil {
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	d.subscribers[eventType] = append(d.subscribers[eventType], handler)
	d.mu.Unlock()
}

// SubscribeAll registers handler for every employee event type.
func SubscribeAll(d Dispatcher, handler EventHandler) {
	for _, t := range AllEventTypes {
		d.Subscribe(t, handler)
	}
}
