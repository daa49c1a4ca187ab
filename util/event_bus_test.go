// util/event_bus_test.go
package util_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dev-mohitbeniwal/echo/abac/util"
)

func TestEventBusPublish(t *testing.T) {
	bus := util.NewEventBus()

	var mu sync.Mutex
	var got []util.Event
	record := func(_ context.Context, e util.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
		return nil
	}
	bus.Subscribe(util.EventPolicyReloaded, record)
	bus.Subscribe(util.EventPolicyReloaded, record)
	bus.Subscribe(util.EventPolicyReloadFailed, record)

	bus.Publish(context.Background(), util.EventPolicyReloaded, "v2")
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, util.EventPolicyReloaded, e.Type)
		assert.Equal(t, "v2", e.Payload)
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := util.NewEventBus()

	var mu sync.Mutex
	calls := map[string]int{}
	handler := func(name string) util.EventHandler {
		return func(context.Context, util.Event) error {
			mu.Lock()
			defer mu.Unlock()
			calls[name]++
			return nil
		}
	}
	first := bus.Subscribe(util.EventDecisionDiagnostic, handler("first"))
	bus.Subscribe(util.EventDecisionDiagnostic, handler("second"))

	bus.Unsubscribe(util.EventDecisionDiagnostic, first)
	bus.Unsubscribe(util.EventDecisionDiagnostic, 999)
	bus.Publish(context.Background(), util.EventDecisionDiagnostic, nil)
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]int{"second": 1}, calls)
}

func TestEventBusHandlerErrorsDoNotBlock(t *testing.T) {
	bus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus.Start(ctx)

	bus.Subscribe(util.EventPolicyReloadFailed, func(context.Context, util.Event) error {
		return errors.New("handler failed")
	})
	// more errors than the error channel holds
	for i := 0; i < 250; i++ {
		bus.Publish(ctx, util.EventPolicyReloadFailed, i)
	}
	bus.Wait()
}

func TestEventBusHasSubscribers(t *testing.T) {
	bus := util.NewEventBus()
	assert.False(t, bus.HasSubscribers(util.EventDecisionDiagnostic))

	id := bus.Subscribe(util.EventDecisionDiagnostic, func(context.Context, util.Event) error { return nil })
	assert.True(t, bus.HasSubscribers(util.EventDecisionDiagnostic))
	assert.False(t, bus.HasSubscribers(util.EventPolicyReloaded))

	bus.Unsubscribe(util.EventDecisionDiagnostic, id)
	assert.False(t, bus.HasSubscribers(util.EventDecisionDiagnostic))
}
