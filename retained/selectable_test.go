package retained

import (
	"errors"
	"fmt"
	"testing"
)

func newTestSelectable() (*Selectable, *transitionLog) {
	log := &transitionLog{}
	return NewSelectable(NewWidget("s"), log), log
}

func TestSelectionStatePriority(t *testing.T) {
	tests := []struct {
		name                           string
		inside, down, selected, enable bool
		expect                         SelectionState
	}{
		{"idle", false, false, false, true, StateNormal},
		{"hover", true, false, false, true, StateHighlighted},
		{"selected beats hover", true, false, true, true, StateSelected},
		{"pressed beats selected", true, true, true, true, StatePressed},
		{"disabled beats everything", true, true, true, false, StateDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSelectable()
			if tt.inside {
				s.OnPointerEnter()
			}
			if tt.selected {
				s.OnSelect()
			}
			if tt.down {
				s.OnPointerDown(MouseButtonLeft)
			}
			s.SetInteractable(tt.enable)

			if got := s.CurrentSelectionState(); got != tt.expect {
				t.Errorf("CurrentSelectionState() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestSelectableAnimatesInteractionChanges(t *testing.T) {
	s, log := newTestSelectable()

	s.OnPointerEnter()
	s.OnPointerDown(MouseButtonLeft)
	s.OnPointerDown(MouseButtonRight)
	s.OnPointerUp(MouseButtonLeft)
	s.OnPointerExit()

	want := "[highlighted/true pressed/true highlighted/true normal/true]"
	if got := fmt.Sprint(log.calls); got != want {
		t.Errorf("calls = %s, want %s", got, want)
	}
}

func TestSetInteractableFalseDropsPressAndSelection(t *testing.T) {
	s, log := newTestSelectable()
	s.OnSelect()
	s.OnPointerDown(MouseButtonLeft)
	log.reset()

	s.SetInteractable(false)
	s.SetInteractable(false)

	if s.IsPointerDown() || s.HasSelection() {
		t.Error("press and selection should be cleared")
	}
	if got := fmt.Sprint(log.calls); got != "[disabled/true]" {
		t.Errorf("calls = %s, want [disabled/true]", got)
	}

	// Disabled widgets do not react to input
	log.reset()
	s.OnPointerEnter()
	if len(log.calls) != 0 {
		t.Errorf("disabled widget rendered %v", log.calls)
	}

	s.SetInteractable(true)
	if got := fmt.Sprint(log.calls); got != "[highlighted/true]" {
		t.Errorf("re-enable calls = %s, want [highlighted/true]", got)
	}
}

func TestSelectableInteractableFollowsGroups(t *testing.T) {
	parent := NewWidget("panel")
	s, _ := newTestSelectable()
	parent.AddChild(s.Widget)

	parent.SetGroup(&Group{Interactable: false})
	if s.IsInteractable() {
		t.Error("blocking ancestor group should make the widget non-interactable")
	}
	if !s.Interactable() {
		t.Error("own flag should be unaffected by groups")
	}
	if s.CurrentSelectionState() != StateDisabled {
		t.Errorf("state = %v, want disabled", s.CurrentSelectionState())
	}

	parent.SetGroup(nil)
	if !s.IsInteractable() {
		t.Error("removing the group should restore interaction")
	}
}

func TestSelectableActiveChange(t *testing.T) {
	s, log := newTestSelectable()
	s.OnPointerEnter()
	s.OnSelect()
	log.reset()

	s.SetActive(false)
	if s.IsPointerInside() || s.HasSelection() {
		t.Error("deactivation should clear interaction flags")
	}
	if len(log.calls) != 0 {
		t.Errorf("inactive widget rendered %v", log.calls)
	}

	s.RequestTransition(StatePressed, false)
	if len(log.calls) != 0 {
		t.Error("RequestTransition should not reach an inactive widget's renderer")
	}

	s.SetActive(true)
	if got := fmt.Sprint(log.calls); got != "[normal/false]" {
		t.Errorf("calls = %s, want [normal/false]", got)
	}
}

func TestSelectableSetTransitionSnaps(t *testing.T) {
	s, _ := newTestSelectable()
	s.OnPointerEnter()

	next := &transitionLog{}
	s.SetTransition(next)
	if got := fmt.Sprint(next.calls); got != "[highlighted/false]" {
		t.Errorf("calls = %s, want [highlighted/false]", got)
	}

	s.SetTransition(nil)
	if _, ok := s.Transition().(*NoTransition); !ok {
		t.Errorf("Transition() = %T, want *NoTransition", s.Transition())
	}
}

func TestSelectableHandleEvent(t *testing.T) {
	s, _ := newTestSelectable()

	enter := NewMouseEvent(EventMouseEnter, 0, 0, MouseButtonNone, 0)
	if !s.HandleEvent(enter) || !s.IsPointerInside() {
		t.Error("mouse enter should be consumed and tracked")
	}
	enter.Release()

	if !s.HandleEvent(NewSelectEvent(EventSelect, nil)) || !s.HasSelection() {
		t.Error("select should be consumed and tracked")
	}
	if !s.HandleEvent(NewSelectEvent(EventDeselect, nil)) || s.HasSelection() {
		t.Error("deselect should clear selection")
	}

	key := NewKeyEvent(EventKeyDown, "a", 'a', 0, false)
	if s.HandleEvent(key) {
		t.Error("key events are not handled by Selectable")
	}
	key.Release()
}

func TestParseSelectionState(t *testing.T) {
	for _, s := range []SelectionState{StateNormal, StateHighlighted, StatePressed, StateSelected, StateDisabled} {
		got, err := ParseSelectionState(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSelectionState(%q) = %v, %v", s.String(), got, err)
		}
	}

	if got, err := ParseSelectionState(" Pressed "); err != nil || got != StatePressed {
		t.Errorf("ParseSelectionState should ignore case and spaces, got %v, %v", got, err)
	}

	_, err := ParseSelectionState("hovered")
	if !errors.Is(err, ErrUnknownSelectionState) {
		t.Errorf("err = %v, want ErrUnknownSelectionState", err)
	}
	if got := SelectionState(42).String(); got != "SelectionState(42)" {
		t.Errorf("String() = %q", got)
	}
}
