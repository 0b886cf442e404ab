package retained

import (
	"errors"
	"fmt"
	"strings"
)

// SelectionState is the display state of a selectable widget.
type SelectionState uint8

const (
	StateNormal SelectionState = iota
	StateHighlighted
	StatePressed
	StateSelected
	StateDisabled
)

var selectionStateNames = [...]string{
	StateNormal:      "normal",
	StateHighlighted: "highlighted",
	StatePressed:     "pressed",
	StateSelected:    "selected",
	StateDisabled:    "disabled",
}

// ErrUnknownSelectionState is returned by ParseSelectionState for names it does not recognise.
var ErrUnknownSelectionState = errors.New("unknown selection state")

func (s SelectionState) String() string {
	if int(s) < len(selectionStateNames) {
		return selectionStateNames[s]
	}
	return fmt.Sprintf("SelectionState(%d)", uint8(s))
}

// ParseSelectionState is the inverse of String. Matching ignores case.
func ParseSelectionState(name string) (SelectionState, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range selectionStateNames {
		if n == name {
			return SelectionState(i), nil
		}
	}
	return StateNormal, fmt.Errorf("%w: %q", ErrUnknownSelectionState, name)
}
