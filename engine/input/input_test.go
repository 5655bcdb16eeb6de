package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversInRegistrationOrder(t *testing.T) {
	d := NewDispatcher()
	var order []int
	d.OnPointerMove(func(PointerEvent) { order = append(order, 1) })
	d.OnPointerMove(func(PointerEvent) { order = append(order, 2) })
	d.OnPointerDown(func(PointerEvent) { order = append(order, 99) })

	d.DispatchPointerMove(PointerEvent{X: 1, Y: 2})

	assert.Equal(t, []int{1, 2}, order)
}

func TestDispatcherRoutesByKind(t *testing.T) {
	d := NewDispatcher()
	var moves, downs, ups int
	var wheel float32
	d.OnPointerMove(func(PointerEvent) { moves++ })
	d.OnPointerDown(func(PointerEvent) { downs++ })
	d.OnPointerUp(func(PointerEvent) { ups++ })
	d.OnWheel(func(e WheelEvent) { wheel += e.DeltaY })

	d.DispatchPointerDown(PointerEvent{})
	d.DispatchPointerMove(PointerEvent{})
	d.DispatchPointerMove(PointerEvent{})
	d.DispatchPointerUp(PointerEvent{})
	d.DispatchWheel(WheelEvent{DeltaY: 3})
	d.DispatchWheel(WheelEvent{DeltaY: -1})

	assert.Equal(t, 2, moves)
	assert.Equal(t, 1, downs)
	assert.Equal(t, 1, ups)
	assert.Equal(t, float32(2), wheel)
}

func TestDispatcherRemoveListener(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	id := d.OnWheel(func(WheelEvent) { calls++ })
	assert.Equal(t, 1, d.ListenerCount())

	d.RemoveListener(id)
	d.RemoveListener(id)
	d.DispatchWheel(WheelEvent{DeltaY: 1})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, d.ListenerCount())
}

func TestDispatcherListenerMayUnsubscribeItself(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	var id ListenerID
	id = d.OnPointerUp(func(PointerEvent) {
		calls++
		d.RemoveListener(id)
	})

	d.DispatchPointerUp(PointerEvent{})
	d.DispatchPointerUp(PointerEvent{})

	assert.Equal(t, 1, calls)
}

func TestZeroValueDispatcherIsUsable(t *testing.T) {
	var d Dispatcher
	got := PointerEvent{}
	d.OnPointerMove(func(e PointerEvent) { got = e })
	d.DispatchPointerMove(PointerEvent{X: 4, Y: 5})
	assert.Equal(t, PointerEvent{X: 4, Y: 5}, got)
}

func TestWheelFromScroll(t *testing.T) {
	assert.Equal(t, WheelEvent{DeltaY: -100}, WheelFromScroll(1, DefaultWheelScale))
	assert.Equal(t, WheelEvent{DeltaY: 50}, WheelFromScroll(-0.5, DefaultWheelScale))
	assert.Equal(t, float32(0), WheelFromScroll(0, DefaultWheelScale).DeltaY)
}
