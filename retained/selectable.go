package retained

import "sync"

// Selectable adds interaction state to a Widget: an interactable flag, pointer
// hover and press tracking, and selection. It derives a SelectionState from
// that state and forwards changes to its VisualStateMachine.
type Selectable struct {
	*Widget

	stateMu       sync.RWMutex
	interactable  bool
	pointerInside bool
	pointerDown   bool
	hasSelection  bool
	transition    VisualStateMachine
}

// NewSelectable wraps w. A nil transition is replaced with a NoTransition.
func NewSelectable(w *Widget, transition VisualStateMachine) *Selectable {
	if transition == nil {
		transition = &NoTransition{}
	}
	s := &Selectable{
		Widget:       w,
		interactable: true,
		transition:   transition,
	}
	w.OnActiveChange(s.onActiveChange)
	return s
}

// IsActive reports whether the widget is active in the hierarchy.
func (s *Selectable) IsActive() bool {
	return s.Widget.IsActiveInHierarchy()
}

// IsInteractable reports whether the widget's own flag and every enclosing
// group allow interaction. It is recomputed on every call.
func (s *Selectable) IsInteractable() bool {
	s.stateMu.RLock()
	own := s.interactable
	s.stateMu.RUnlock()
	return own && s.Widget.GroupsAllowInteraction()
}

// Interactable returns the widget's own flag, ignoring groups.
func (s *Selectable) Interactable() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.interactable
}

// SetInteractable changes the widget's own flag. Turning it off drops any
// press and selection, then the new state is rendered.
func (s *Selectable) SetInteractable(v bool) {
	s.stateMu.Lock()
	if s.interactable == v {
		s.stateMu.Unlock()
		return
	}
	s.interactable = v
	if !v {
		s.pointerDown = false
		s.hasSelection = false
	}
	s.stateMu.Unlock()

	logger().Debug("interactable changed", "widget", s.ID(), "interactable", v)
	s.RequestTransition(s.CurrentSelectionState(), true)
}

// SetGroup replaces the widget's group and renders the resulting state.
func (s *Selectable) SetGroup(g *Group) {
	s.Widget.SetGroup(g)
	s.RequestTransition(s.CurrentSelectionState(), true)
}

// Transition returns the visual state machine.
func (s *Selectable) Transition() VisualStateMachine {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.transition
}

// SetTransition replaces the visual state machine and snaps it to the
// current state. Nil installs a NoTransition.
func (s *Selectable) SetTransition(t VisualStateMachine) {
	if t == nil {
		t = &NoTransition{}
	}
	s.stateMu.Lock()
	s.transition = t
	s.stateMu.Unlock()
	s.RequestTransition(s.CurrentSelectionState(), false)
}

// CurrentSelectionState derives the display state. Priority, highest first:
// Disabled, Pressed, Selected, Highlighted, Normal.
func (s *Selectable) CurrentSelectionState() SelectionState {
	if !s.IsInteractable() {
		return StateDisabled
	}
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	switch {
	case s.pointerDown:
		return StatePressed
	case s.hasSelection:
		return StateSelected
	case s.pointerInside:
		return StateHighlighted
	default:
		return StateNormal
	}
}

// HasSelection reports whether the widget is the current selection.
func (s *Selectable) HasSelection() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.hasSelection
}

// IsPointerInside reports whether the pointer is over the widget.
func (s *Selectable) IsPointerInside() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.pointerInside
}

// IsPointerDown reports whether the primary button is held on the widget.
func (s *Selectable) IsPointerDown() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.pointerDown
}

// RequestTransition forwards to the visual state machine. Inactive widgets
// are not rendered.
func (s *Selectable) RequestTransition(state SelectionState, animate bool) {
	if !s.IsActive() {
		return
	}
	s.Transition().RequestTransition(state, animate)
}

// OnPointerEnter marks the pointer as inside.
func (s *Selectable) OnPointerEnter() {
	s.setFlag(&s.pointerInside, true)
}

// OnPointerExit marks the pointer as outside.
func (s *Selectable) OnPointerExit() {
	s.setFlag(&s.pointerInside, false)
}

// OnPointerDown records a primary-button press. Other buttons are ignored.
func (s *Selectable) OnPointerDown(button MouseButton) {
	if button != MouseButtonLeft {
		return
	}
	s.setFlag(&s.pointerDown, true)
}

// OnPointerUp records a primary-button release. Other buttons are ignored.
func (s *Selectable) OnPointerUp(button MouseButton) {
	if button != MouseButtonLeft {
		return
	}
	s.setFlag(&s.pointerDown, false)
}

// OnSelect marks the widget as selected.
func (s *Selectable) OnSelect() {
	s.setFlag(&s.hasSelection, true)
}

// OnDeselect clears selection.
func (s *Selectable) OnDeselect() {
	s.setFlag(&s.hasSelection, false)
}

func (s *Selectable) setFlag(flag *bool, v bool) {
	s.stateMu.Lock()
	*flag = v
	s.stateMu.Unlock()
	s.evaluateAndTransition()
}

// evaluateAndTransition renders the derived state, but only while the
// widget can be interacted with.
func (s *Selectable) evaluateAndTransition() {
	if !s.IsActive() || !s.IsInteractable() {
		return
	}
	s.RequestTransition(s.CurrentSelectionState(), true)
}

func (s *Selectable) onActiveChange(active bool) {
	if !active {
		s.stateMu.Lock()
		s.pointerInside = false
		s.pointerDown = false
		s.hasSelection = false
		s.stateMu.Unlock()
		return
	}
	s.RequestTransition(s.CurrentSelectionState(), false)
}

// HandleEvent applies pointer and selection events to the interaction state.
func (s *Selectable) HandleEvent(event Event) bool {
	switch e := event.(type) {
	case *MouseEvent:
		switch e.Type() {
		case EventMouseEnter:
			s.OnPointerEnter()
		case EventMouseLeave:
			s.OnPointerExit()
		case EventMouseDown:
			s.OnPointerDown(e.Button)
		case EventMouseUp:
			s.OnPointerUp(e.Button)
		default:
			return false
		}
		return true
	case *SelectEvent:
		if e.Type() == EventSelect {
			s.OnSelect()
		} else {
			s.OnDeselect()
		}
		return true
	}
	return false
}
