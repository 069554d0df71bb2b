package events

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitRunsEveryHandler(t *testing.T) {
	bus := NewEventBus()
	var calls atomic.Int32
	var got atomic.Value

	bus.On("orders.created", func(data interface{}) {
		calls.Add(1)
		got.Store(data)
	})
	bus.On("orders.created", func(interface{}) { calls.Add(1) })

	bus.Emit("orders.created", "order-1")
	bus.Wait()

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "order-1", got.Load())
}

func TestEmitWithoutHandlersIsNoop(t *testing.T) {
	bus := NewEventBus()
	bus.Emit("nobody.listens", nil)
	bus.Wait()
}

func TestEmitRecoversFromPanics(t *testing.T) {
	bus := NewEventBus()
	var after atomic.Bool

	bus.On("leads.created", func(interface{}) { panic("boom") })
	bus.On("leads.created", func(interface{}) { after.Store(true) })

	bus.Emit("leads.created", nil)
	bus.Wait()

	assert.True(t, after.Load())
}

func TestReset(t *testing.T) {
	bus := NewEventBus()
	var calls atomic.Int32
	bus.On("x", func(interface{}) { calls.Add(1) })
	bus.Reset()

	bus.Emit("x", nil)
	bus.Wait()
	assert.Zero(t, calls.Load())
}
