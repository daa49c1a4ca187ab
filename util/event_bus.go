// util/event_bus.go

package util

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/echo/abac/logging"
)

const (
	EventPolicyReloaded     = "policy.reloaded"
	EventPolicyReloadFailed = "policy.reload_failed"
	EventDecisionDiagnostic = "decision.diagnostic"
)

// Event represents an event in the system
type Event struct {
	Type    string
	Payload interface{}
}

// EventHandler is a function that handles an event
type EventHandler func(context.Context, Event) error

type subscription struct {
	id      uint64
	handler EventHandler
}

// EventBus fans events out to subscribers asynchronously.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]subscription
	nextID      uint64
	inflight    sync.WaitGroup
	errorChan   chan error
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]subscription),
		errorChan:   make(chan error, 100),
	}
}

// Subscribe registers handler for eventType and returns an id for
// Unsubscribe.
func (eb *EventBus) Subscribe(eventType string, handler EventHandler) uint64 {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextID++
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscription{id: eb.nextID, handler: handler})
	return eb.nextID
}

func (eb *EventBus) Unsubscribe(eventType string, id uint64) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[eventType]
	for i, s := range subs {
		if s.id == id {
			eb.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// HasSubscribers reports whether any handler is registered for eventType.
func (eb *EventBus) HasSubscribers(eventType string) bool {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers[eventType]) > 0
}

// Publish sends an event to all subscribers without waiting for them.
func (eb *EventBus) Publish(ctx context.Context, eventType string, payload interface{}) {
	eb.mu.RLock()
	subs := eb.subscribers[eventType]
	eb.mu.RUnlock()

	event := Event{Type: eventType, Payload: payload}
	for _, s := range subs {
		eb.inflight.Add(1)
		go func(h EventHandler) {
			defer eb.inflight.Done()
			if err := h(ctx, event); err != nil {
				select {
				case eb.errorChan <- fmt.Errorf("%s handler: %w", eventType, err):
				default:
					logger.Error("Error channel full, dropping event handler error",
						zap.Error(err),
						zap.String("eventType", eventType))
				}
			}
		}(s.handler)
	}
}

// Wait blocks until every handler started so far has returned.
func (eb *EventBus) Wait() {
	eb.inflight.Wait()
}

// Start logs handler errors until ctx is done.
func (eb *EventBus) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case err := <-eb.errorChan:
				logger.Error("Event handler error", zap.Error(err))
			case <-ctx.Done():
				return
			}
		}
	}()
}
