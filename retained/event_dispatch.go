package retained

import "slices"

// ============================================================================
// Event Dispatcher
// ============================================================================

// Target is a routable widget: a Responder that can name its tree node.
type Target interface {
	Responder
	Node() *Widget
}

// Node returns w. Types embedding a Widget satisfy Target through it.
func (w *Widget) Node() *Widget {
	return w
}

// EventDispatcher routes host input to registered targets. It tracks hover,
// the pressed target and the current selection, turns a press and release on
// the same target into a click, and turns submit keys into submit events for
// the selected target. It is not safe for concurrent use; call it from the
// loop goroutine.
type EventDispatcher struct {
	// Registration order; later targets are on top for hit testing
	targets []Target

	hovered       Target
	pressed       Target
	pressedButton MouseButton
	selected      Target

	submitKeys map[string]bool

	// Attached to every event delivered until it is replaced
	payload any
}

// NewEventDispatcher creates a dispatcher that submits on DefaultSubmitKeys.
func NewEventDispatcher() *EventDispatcher {
	d := &EventDispatcher{}
	d.SetSubmitKeys(DefaultSubmitKeys...)
	return d
}

// SetSubmitKeys replaces the set of keys that produce a submit.
func (d *EventDispatcher) SetSubmitKeys(keys ...string) {
	d.submitKeys = make(map[string]bool, len(keys))
	for _, k := range keys {
		d.submitKeys[k] = true
	}
}

// SetPayload sets the host data attached to the events the dispatcher
// delivers from now on. Hosts set it to the raw input event before
// dispatching it and clear it afterwards.
func (d *EventDispatcher) SetPayload(v any) {
	d.payload = v
}

// IsSubmitKey reports whether key produces a submit.
func (d *EventDispatcher) IsSubmitKey(key string) bool {
	return d.submitKeys[key]
}

// Register adds t to the routing set. Registering twice is a no-op.
func (d *EventDispatcher) Register(t Target) {
	if slices.Contains(d.targets, t) {
		return
	}
	d.targets = append(d.targets, t)
}

// Unregister removes t and clears any hover, press or selection it held.
func (d *EventDispatcher) Unregister(t Target) {
	d.targets = slices.DeleteFunc(d.targets, func(x Target) bool { return x == t })
	if d.hovered == t {
		d.hovered = nil
	}
	if d.pressed == t {
		d.pressed = nil
		d.pressedButton = MouseButtonNone
	}
	if d.selected == t {
		d.selected = nil
	}
}

// Targets returns the registered targets in registration order.
func (d *EventDispatcher) Targets() []Target {
	return slices.Clone(d.targets)
}

// ============================================================================
// Hit Testing
// ============================================================================

// HitTest finds the topmost target at the given screen coordinates that can
// receive events. Returns nil if there is none.
func (d *EventDispatcher) HitTest(screenX, screenY float32) Target {
	for i := len(d.targets) - 1; i >= 0; i-- {
		t := d.targets[i]
		if t.CanReceiveEvents() && t.HitTest(screenX, screenY) {
			return t
		}
	}
	return nil
}

// ============================================================================
// Pointer
// ============================================================================

// DispatchMouseMove updates hover state. Returns true if hover changed.
func (d *EventDispatcher) DispatchMouseMove(screenX, screenY float32, mods Modifiers) bool {
	target := d.HitTest(screenX, screenY)
	if target == d.hovered {
		return false
	}

	if d.hovered != nil {
		d.dispatchMouse(d.hovered, EventMouseLeave, screenX, screenY, MouseButtonNone, mods)
	}
	d.hovered = target
	if target != nil {
		d.dispatchMouse(target, EventMouseEnter, screenX, screenY, MouseButtonNone, mods)
	}
	return true
}

// DispatchMouseDown handles a button press. A primary press on an
// interactable target selects it; a press on empty space clears selection.
func (d *EventDispatcher) DispatchMouseDown(screenX, screenY float32, button MouseButton, mods Modifiers) {
	d.DispatchMouseMove(screenX, screenY, mods)

	target := d.HitTest(screenX, screenY)
	if target == nil {
		if button == MouseButtonLeft {
			d.SetSelected(nil)
		}
		return
	}

	d.pressed = target
	d.pressedButton = button

	if button == MouseButtonLeft && isInteractable(target) {
		d.SetSelected(target)
	}

	d.dispatchMouse(target, EventMouseDown, screenX, screenY, button, mods)
}

// DispatchMouseUp handles a button release. The pressed target always gets
// the release; a click follows only if the pointer is still over it and the
// button matches the press.
func (d *EventDispatcher) DispatchMouseUp(screenX, screenY float32, button MouseButton, mods Modifiers) {
	target := d.HitTest(screenX, screenY)
	pressed := d.pressed
	if pressed == nil || button != d.pressedButton {
		return
	}

	d.pressed = nil
	d.pressedButton = MouseButtonNone

	d.dispatchMouse(pressed, EventMouseUp, screenX, screenY, button, mods)

	if target == pressed && pressed.CanReceiveEvents() {
		d.dispatchMouse(pressed, EventClick, screenX, screenY, button, mods)
	}
}

func (d *EventDispatcher) dispatchMouse(target Target, eventType EventType, screenX, screenY float32, button MouseButton, mods Modifiers) {
	e := NewMouseEvent(eventType, screenX, screenY, button, mods)
	e.LocalX, e.LocalY = target.Node().Bounds().LocalPoint(screenX, screenY)
	d.dispatchToTarget(target, e)
	e.Release()
}

// HoveredTarget returns the target under the pointer.
func (d *EventDispatcher) HoveredTarget() Target {
	return d.hovered
}

// PressedTarget returns the target holding a press.
func (d *EventDispatcher) PressedTarget() Target {
	return d.pressed
}

// ============================================================================
// Keyboard and Gamepad
// ============================================================================

// DispatchKeyDown routes a key press. Submit keys become a SubmitEvent for
// the selected target, Tab moves selection, and anything else is delivered
// as a KeyEvent. Held-key repeats never submit. Returns true if consumed.
func (d *EventDispatcher) DispatchKeyDown(key string, mods Modifiers, repeat bool) bool {
	if key == KeyTab {
		if mods.Shift() {
			d.SelectPrevious()
		} else {
			d.SelectNext()
		}
		return true
	}

	target := d.selected
	if target == nil || !target.CanReceiveEvents() {
		return false
	}

	if d.submitKeys[key] {
		if repeat {
			return true
		}
		source := SubmitKeyboard
		if key == KeyGamepadSouth {
			source = SubmitGamepad
		}
		return d.DispatchSubmit(source, key)
	}

	e := NewKeyEvent(EventKeyDown, key, 0, mods, repeat)
	handled := d.dispatchToTarget(target, e)
	e.Release()
	return handled
}

// DispatchSubmit delivers a submit to the selected target.
func (d *EventDispatcher) DispatchSubmit(source SubmitSource, key string) bool {
	target := d.selected
	if target == nil || !target.CanReceiveEvents() {
		return false
	}
	logger().Debug("submit", "widget", target.Node().ID(), "source", source, "key", key)
	return d.dispatchToTarget(target, NewSubmitEvent(source, key))
}

// ============================================================================
// Selection
// ============================================================================

// SelectedTarget returns the current selection.
func (d *EventDispatcher) SelectedTarget() Target {
	return d.selected
}

// SetSelected moves selection to t, sending Deselect to the previous target
// and Select to the new one. Nil clears selection.
func (d *EventDispatcher) SetSelected(t Target) {
	prev := d.selected
	if prev == t {
		return
	}
	d.selected = t
	if prev != nil {
		d.dispatchToTarget(prev, NewSelectEvent(EventDeselect, t))
	}
	if t != nil {
		d.dispatchToTarget(t, NewSelectEvent(EventSelect, prev))
	}
}

// SelectNext moves selection to the next interactable target in
// registration order, wrapping around.
func (d *EventDispatcher) SelectNext() {
	d.cycleSelection(1)
}

// SelectPrevious moves selection backwards.
func (d *EventDispatcher) SelectPrevious() {
	d.cycleSelection(-1)
}

func (d *EventDispatcher) cycleSelection(step int) {
	n := len(d.targets)
	if n == 0 {
		return
	}
	start := slices.Index(d.targets, d.selected)
	if start < 0 && step < 0 {
		start = 0
	}
	for i := 1; i <= n; i++ {
		t := d.targets[((start+step*i)%n+n)%n]
		if t.CanReceiveEvents() && isInteractable(t) {
			d.SetSelected(t)
			return
		}
	}
}

// ============================================================================
// Delivery
// ============================================================================

func (d *EventDispatcher) dispatchToTarget(target Target, e Event) bool {
	e.setTarget(target.Node())
	e.setPayload(d.payload)
	return target.HandleEvent(e)
}

func isInteractable(t Target) bool {
	if it, ok := t.(interface{ IsInteractable() bool }); ok {
		return it.IsInteractable()
	}
	return true
}
