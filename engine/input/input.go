// Package input defines the pointer and wheel events consumed by camera controls and the
// listener registry that windows use to deliver them.
package input

import (
	"sort"
	"sync"
)

// PointerEvent carries a pointer position in surface pixels, origin at the top-left corner.
type PointerEvent struct {
	X, Y   float32
	Button int
}

// WheelEvent carries a scroll delta. DeltaY follows the DOM convention:
// positive values scroll down (away from the scene), negative values scroll up.
type WheelEvent struct {
	DeltaY float32
}

// ListenerID identifies a registered listener so it can be removed later.
type ListenerID uint64

// EventSource is the subscription surface for pointer and wheel input.
// Listeners are invoked in registration order.
type EventSource interface {
	// OnPointerMove registers a listener for pointer movement.
	//
	// Parameters:
	//   - fn: the listener
	//
	// Returns:
	//   - ListenerID: handle for RemoveListener
	OnPointerMove(fn func(PointerEvent)) ListenerID

	// OnPointerDown registers a listener for button presses.
	//
	// Parameters:
	//   - fn: the listener
	//
	// Returns:
	//   - ListenerID: handle for RemoveListener
	OnPointerDown(fn func(PointerEvent)) ListenerID

	// OnPointerUp registers a listener for button releases.
	//
	// Parameters:
	//   - fn: the listener
	//
	// Returns:
	//   - ListenerID: handle for RemoveListener
	OnPointerUp(fn func(PointerEvent)) ListenerID

	// OnWheel registers a listener for scroll wheel input.
	//
	// Parameters:
	//   - fn: the listener
	//
	// Returns:
	//   - ListenerID: handle for RemoveListener
	OnWheel(fn func(WheelEvent)) ListenerID

	// RemoveListener unregisters a listener. Unknown IDs are ignored.
	//
	// Parameters:
	//   - id: the handle returned at registration
	RemoveListener(id ListenerID)
}

type eventKind int

const (
	kindPointerMove eventKind = iota
	kindPointerDown
	kindPointerUp
	kindWheel
)

type listener struct {
	kind    eventKind
	pointer func(PointerEvent)
	wheel   func(WheelEvent)
}

// Dispatcher is an EventSource that fans events out to registered listeners.
// Windows embed it and call the Dispatch* methods from their native callbacks; headless hosts
// and tests drive it directly.
type Dispatcher struct {
	mu        sync.Mutex
	nextID    ListenerID
	listeners map[ListenerID]listener
}

var _ EventSource = &Dispatcher{}

// NewDispatcher creates an empty Dispatcher.
//
// Returns:
//   - *Dispatcher: the dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[ListenerID]listener),
	}
}

func (d *Dispatcher) add(l listener) ListenerID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners == nil {
		d.listeners = make(map[ListenerID]listener)
	}
	d.nextID++
	d.listeners[d.nextID] = l
	return d.nextID
}

func (d *Dispatcher) OnPointerMove(fn func(PointerEvent)) ListenerID {
	return d.add(listener{kind: kindPointerMove, pointer: fn})
}

func (d *Dispatcher) OnPointerDown(fn func(PointerEvent)) ListenerID {
	return d.add(listener{kind: kindPointerDown, pointer: fn})
}

func (d *Dispatcher) OnPointerUp(fn func(PointerEvent)) ListenerID {
	return d.add(listener{kind: kindPointerUp, pointer: fn})
}

func (d *Dispatcher) OnWheel(fn func(WheelEvent)) ListenerID {
	return d.add(listener{kind: kindWheel, wheel: fn})
}

func (d *Dispatcher) RemoveListener(id ListenerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners, id)
}

// ListenerCount returns the number of registered listeners.
//
// Returns:
//   - int: listener count across all event kinds
func (d *Dispatcher) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// snapshot returns the listeners of the given kind ordered by registration.
// Listeners run outside the lock so they may register or remove listeners themselves.
func (d *Dispatcher) snapshot(kind eventKind) []listener {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]ListenerID, 0, len(d.listeners))
	for id, l := range d.listeners {
		if l.kind == kind {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]listener, len(ids))
	for i, id := range ids {
		out[i] = d.listeners[id]
	}
	return out
}

// DispatchPointerMove delivers a pointer-move event.
func (d *Dispatcher) DispatchPointerMove(e PointerEvent) {
	for _, l := range d.snapshot(kindPointerMove) {
		l.pointer(e)
	}
}

// DispatchPointerDown delivers a button press.
func (d *Dispatcher) DispatchPointerDown(e PointerEvent) {
	for _, l := range d.snapshot(kindPointerDown) {
		l.pointer(e)
	}
}

// DispatchPointerUp delivers a button release.
func (d *Dispatcher) DispatchPointerUp(e PointerEvent) {
	for _, l := range d.snapshot(kindPointerUp) {
		l.pointer(e)
	}
}

// DispatchWheel delivers a wheel event.
func (d *Dispatcher) DispatchWheel(e WheelEvent) {
	for _, l := range d.snapshot(kindWheel) {
		l.wheel(e)
	}
}

// DefaultWheelScale is the number of wheel-delta pixels produced by one scroll line.
const DefaultWheelScale = 100

// WheelFromScroll converts a platform scroll offset (positive = scroll up, in lines) into a
// WheelEvent using the DOM sign convention.
//
// Parameters:
//   - yoff: vertical scroll offset in lines
//   - scale: pixels per line
//
// Returns:
//   - WheelEvent: the equivalent wheel event
func WheelFromScroll(yoff float64, scale float32) WheelEvent {
	return WheelEvent{DeltaY: -float32(yoff) * scale}
}
