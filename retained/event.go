package retained

import "sync"

// ============================================================================
// Event Types
// ============================================================================

// EventType identifies the kind of event.
type EventType uint8

const (
	// Pointer events
	EventMouseEnter EventType = iota + 1
	EventMouseLeave
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventClick

	// Keyboard events
	EventKeyDown
	EventKeyUp

	// Navigation events
	EventSubmit
	EventSelect
	EventDeselect
)

var eventTypeNames = map[EventType]string{
	EventMouseEnter: "mouse-enter",
	EventMouseLeave: "mouse-leave",
	EventMouseMove:  "mouse-move",
	EventMouseDown:  "mouse-down",
	EventMouseUp:    "mouse-up",
	EventClick:      "click",
	EventKeyDown:    "key-down",
	EventKeyUp:      "key-up",
	EventSubmit:     "submit",
	EventSelect:     "select",
	EventDeselect:   "deselect",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MouseButton identifies which mouse button was pressed.
type MouseButton uint8

const (
	MouseButtonNone MouseButton = iota
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	default:
		return "none"
	}
}

// Modifier keys
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }

// Logical key names delivered by hosts in KeyEvent.Key.
const (
	KeyEnter        = "Enter"
	KeyNumpadEnter  = "NumpadEnter"
	KeySpace        = "Space"
	KeyEscape       = "Escape"
	KeyTab          = "Tab"
	KeyUp           = "Up"
	KeyDown         = "Down"
	KeyLeft         = "Left"
	KeyRight        = "Right"
	KeyGamepadSouth = "GamepadSouth"
)

// DefaultSubmitKeys are the keys the dispatcher treats as a submit.
var DefaultSubmitKeys = []string{KeyEnter, KeyNumpadEnter, KeySpace, KeyGamepadSouth}

// ============================================================================
// Event Interface and Base
// ============================================================================

// Event is the interface for all events.
type Event interface {
	// Type returns the event type.
	Type() EventType

	// Target returns the widget the dispatcher routed the event to.
	Target() *Widget

	// Payload returns the raw host input that produced the event, or nil.
	// It is opaque to the widgets and only passed through.
	Payload() any

	setTarget(w *Widget)
	setPayload(v any)
}

// eventBase provides common event functionality.
type eventBase struct {
	eventType EventType
	target    *Widget
	payload   any
}

func (e *eventBase) Type() EventType     { return e.eventType }
func (e *eventBase) Target() *Widget     { return e.target }
func (e *eventBase) Payload() any        { return e.payload }
func (e *eventBase) setTarget(w *Widget) { e.target = w }
func (e *eventBase) setPayload(v any)    { e.payload = v }

func (e *eventBase) reset(eventType EventType) {
	e.eventType = eventType
	e.target = nil
	e.payload = nil
}

// ============================================================================
// Mouse Event
// ============================================================================

// MouseEvent represents pointer interaction events.
type MouseEvent struct {
	eventBase

	// Screen coordinates (cells for terminal hosts)
	X, Y float32

	// Local coordinates (relative to target widget's top-left)
	LocalX, LocalY float32

	// Which button triggered the event (for down/up/click)
	Button MouseButton

	// Modifier keys held during the event
	Modifiers Modifiers
}

// NewMouseEvent creates a mouse event. Uses object pool for high-frequency events.
func NewMouseEvent(eventType EventType, x, y float32, button MouseButton, mods Modifiers) *MouseEvent {
	e := mouseEventPool.Get().(*MouseEvent)
	e.reset(eventType)
	e.X = x
	e.Y = y
	e.LocalX = x
	e.LocalY = y
	e.Button = button
	e.Modifiers = mods
	return e
}

// Release returns the event to the pool. Call when done processing.
func (e *MouseEvent) Release() {
	mouseEventPool.Put(e)
}

// Object pool for mouse events to avoid allocations on every mouse move
var mouseEventPool = sync.Pool{
	New: func() any {
		return &MouseEvent{}
	},
}

// ============================================================================
// Keyboard Event
// ============================================================================

// KeyEvent represents keyboard and gamepad button events.
type KeyEvent struct {
	eventBase

	// Logical key (e.g., "Enter", "Space", "GamepadSouth")
	Key string

	// Printable character, if any
	Char rune

	// Modifier keys held during the event
	Modifiers Modifiers

	// True if this is a repeat event (key held down)
	Repeat bool
}

// NewKeyEvent creates a keyboard event.
func NewKeyEvent(eventType EventType, key string, char rune, mods Modifiers, repeat bool) *KeyEvent {
	e := keyEventPool.Get().(*KeyEvent)
	e.reset(eventType)
	e.Key = key
	e.Char = char
	e.Modifiers = mods
	e.Repeat = repeat
	return e
}

// Release returns the event to the pool.
func (e *KeyEvent) Release() {
	keyEventPool.Put(e)
}

var keyEventPool = sync.Pool{
	New: func() any {
		return &KeyEvent{}
	},
}

// ============================================================================
// Submit and Selection Events
// ============================================================================

// SubmitSource records which device produced a submit.
type SubmitSource uint8

const (
	SubmitKeyboard SubmitSource = iota
	SubmitGamepad
	SubmitProgrammatic
)

func (s SubmitSource) String() string {
	switch s {
	case SubmitKeyboard:
		return "keyboard"
	case SubmitGamepad:
		return "gamepad"
	default:
		return "programmatic"
	}
}

// SubmitEvent is the logical "confirm" input delivered to the selected widget.
type SubmitEvent struct {
	eventBase

	Source SubmitSource

	// Key that produced the submit; empty for programmatic submits.
	Key string
}

// NewSubmitEvent creates a submit event.
func NewSubmitEvent(source SubmitSource, key string) *SubmitEvent {
	e := &SubmitEvent{Source: source, Key: key}
	e.eventType = EventSubmit
	return e
}

// SelectEvent is delivered when selection moves to (EventSelect) or away
// from (EventDeselect) a widget.
type SelectEvent struct {
	eventBase

	// Related is the widget losing selection (for Select) or gaining it (for Deselect).
	Related Responder
}

// NewSelectEvent creates a selection change event.
func NewSelectEvent(eventType EventType, related Responder) *SelectEvent {
	e := &SelectEvent{Related: related}
	e.eventType = eventType
	return e
}

// ============================================================================
// Responder Interface
// ============================================================================

// Responder is implemented by widgets that handle routed events.
type Responder interface {
	// HandleEvent processes an event. Return true if it was consumed.
	HandleEvent(event Event) bool

	// HitTest returns true if the screen point lies on the widget.
	HitTest(x, y float32) bool

	// CanReceiveEvents returns false for inactive or destroyed widgets.
	CanReceiveEvents() bool
}

// ============================================================================
// Computed Bounds (for hit testing)
// ============================================================================

// Bounds represents the screen-space bounding box of a widget.
type Bounds struct {
	X, Y          float32 // Top-left corner in screen coordinates
	Width, Height float32
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y float32) bool {
	return x >= b.X && x < b.X+b.Width &&
		y >= b.Y && y < b.Y+b.Height
}

// LocalPoint converts screen coordinates to local coordinates relative to bounds.
func (b Bounds) LocalPoint(screenX, screenY float32) (localX, localY float32) {
	return screenX - b.X, screenY - b.Y
}
