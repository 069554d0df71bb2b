package events

import (
	"fmt"
	"sync"

	console "storefront/internal/utils/logger"
)

var log = console.New("EVENTS")

// Names of the storefront events. Generic CRUD writes also emit "<table>.<action>".
const (
	UserCreated   = "users.created"
	OrderCreated  = "orders.created"
	OrderUpdated  = "orders.updated"
	LeadCreated   = "leads.created"
	PasswordReset = "password.reset"
)

// Name builds the event name a CRUD write on table emits.
func Name(table, action string) string {
	return table + "." + action
}

type EventHandler func(interface{})

type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

var defaultBus = NewEventBus()

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

// On registers a handler for an event
func (bus *EventBus) On(event string, handler EventHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.handlers[event] = append(bus.handlers[event], handler)
	log.Info("Registered handler for event: %s", event)
}

// Emit runs every handler for event on its own goroutine; a panicking handler is logged and dropped.
func (bus *EventBus) Emit(event string, data interface{}) {
	bus.mu.RLock()
	handlers := append([]EventHandler(nil), bus.handlers[event]...)
	bus.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	log.Debug("Emitting event: %s", event)

	for _, handler := range handlers {
		bus.wg.Add(1)
		go func(h EventHandler) {
			defer bus.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					_ = log.Error("Panic in handler for %s", fmt.Errorf("panic: %v", r), event)
				}
			}()
			h(data)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned.
func (bus *EventBus) Wait() {
	bus.wg.Wait()
}

// Reset drops all handlers.
func (bus *EventBus) Reset() {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers = make(map[string][]EventHandler)
}

// On Global event functions that use the default event bus
func On(event string, handler EventHandler) {
	defaultBus.On(event, handler)
}

func Emit(event string, data interface{}) {
	defaultBus.Emit(event, data)
}

func Wait() {
	defaultBus.Wait()
}

func Reset() {
	defaultBus.Reset()
}
