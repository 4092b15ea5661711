package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans session events out to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe registers handler for the listed types, or for every type when none are given.
	Subscribe(handler EventHandler, types ...EventType)
}

// Bus delivers events synchronously on the publisher's goroutine.
type Bus struct {
	mu       sync.RWMutex
	byType   map[EventType][]EventHandler
	catchAll []EventHandler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{byType: make(map[EventType][]EventHandler)}
}

// Publish runs the catch-all handlers, then the handlers for event.Type.
// A failing or panicking handler does not stop the others; errors are joined.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.catchAll)+len(b.byType[event.Type]))
	handlers = append(handlers, b.catchAll...)
	handlers = append(handlers, b.byType[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := deliver(ctx, handler, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) Subscribe(handler EventHandler, types ...EventType) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(types) == 0 {
		b.catchAll = append(b.catchAll, handler)
		return
	}
	for _, t := range types {
		b.byType[t] = append(b.byType[t], handler)
	}
}

func deliver(ctx context.Context, handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler for %s panicked: %v", event.Type, r)
		}
	}()
	return handler(ctx, event)
}
