package retained

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/agiangrant/pressable/tw"
)

// VisualStateMachine renders selection states. RequestTransition is its only
// entry point; animate false asks for an instant change.
type VisualStateMachine interface {
	RequestTransition(state SelectionState, animate bool)
}

// TransitionFunc adapts a function to VisualStateMachine.
type TransitionFunc func(state SelectionState, animate bool)

// RequestTransition calls f(state, animate).
func (f TransitionFunc) RequestTransition(state SelectionState, animate bool) {
	f(state, animate)
}

// NoTransition records the requested state without rendering anything.
type NoTransition struct {
	mu    sync.Mutex
	state SelectionState
}

func (n *NoTransition) RequestTransition(state SelectionState, _ bool) {
	n.mu.Lock()
	n.state = state
	n.mu.Unlock()
}

// State returns the last requested state.
func (n *NoTransition) State() SelectionState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// ErrNegativeFade is returned by ColorBlock.Validate for a negative fade duration.
var ErrNegativeFade = errors.New("fade duration must not be negative")

// ColorBlock maps each selection state to an RGBA tint.
type ColorBlock struct {
	Normal      uint32
	Highlighted uint32
	Pressed     uint32
	Selected    uint32
	Disabled    uint32

	// ColorMultiplier scales the RGB channels of every tint; alpha is kept.
	ColorMultiplier float64

	// FadeDuration is how long animated transitions take.
	FadeDuration time.Duration
}

// DefaultColorBlock returns the stock tints: white, two light greys, and a
// translucent grey for disabled.
func DefaultColorBlock() ColorBlock {
	return ColorBlock{
		Normal:          0xFFFFFFFF,
		Highlighted:     0xF5F5F5FF,
		Pressed:         0xC8C8C8FF,
		Selected:        0xF5F5F5FF,
		Disabled:        0xC8C8C880,
		ColorMultiplier: 1,
		FadeDuration:    100 * time.Millisecond,
	}
}

// Validate reports configuration errors.
func (b ColorBlock) Validate() error {
	if b.FadeDuration < 0 {
		return ErrNegativeFade
	}
	return nil
}

// Color returns the tint for state with the multiplier applied.
func (b ColorBlock) Color(state SelectionState) uint32 {
	var c uint32
	switch state {
	case StateHighlighted:
		c = b.Highlighted
	case StatePressed:
		c = b.Pressed
	case StateSelected:
		c = b.Selected
	case StateDisabled:
		c = b.Disabled
	default:
		c = b.Normal
	}
	return scaleColor(c, b.ColorMultiplier)
}

func scaleColor(c uint32, m float64) uint32 {
	if m == 1 {
		return c
	}
	ch := func(shift uint) uint32 {
		v := float64((c >> shift) & 0xFF)
		return uint32(math.Round(clamp(v*m, 0, 255))) << shift
	}
	return ch(24) | ch(16) | ch(8) | c&0xFF
}

// ColorBlockFromClasses builds a ColorBlock from background color classes.
// Base colors become Normal; hover:, active:, selected: (or focus:) and
// disabled: variants fill the other states. States without a class fall back
// to the defaults derived from Normal.
func ColorBlockFromClasses(classes string, darkMode bool) ColorBlock {
	block := DefaultColorBlock()
	styles := tw.ParseClasses(classes)
	resolved := styles.Resolve(darkMode)

	if c := resolved.Base.BackgroundColor; c != nil {
		block.Normal = *c
		block.Highlighted = scaleColor(*c, 0.96)
		block.Pressed = scaleColor(*c, 0.78)
		block.Selected = scaleColor(*c, 0.96)
		block.Disabled = scaleColor(*c, 0.78)&0xFFFFFF00 | 0x80
	}
	if c := resolved.Hover.BackgroundColor; c != nil {
		block.Highlighted = *c
	}
	if c := resolved.Active.BackgroundColor; c != nil {
		block.Pressed = *c
	}
	if c := resolved.Focus.BackgroundColor; c != nil {
		block.Selected = *c
	}
	if c := resolved.Selected.BackgroundColor; c != nil {
		block.Selected = *c
	}
	if c := resolved.Disabled.BackgroundColor; c != nil {
		block.Disabled = *c
	}
	return block
}

// ColorTint is a VisualStateMachine that tints a color per state. Animated
// requests fade over the block's FadeDuration using the animation registry;
// instant requests, or a zero fade, snap.
type ColorTint struct {
	mu         sync.Mutex
	block      ColorBlock
	animations *AnimationRegistry
	easing     EasingFunc
	state      SelectionState
	color      uint32
	anim       *Animation
	onChange   []func(state SelectionState, color uint32)
}

// NewColorTint creates a tint starting at the Normal color. A nil registry
// makes every transition instant.
func NewColorTint(block ColorBlock, animations *AnimationRegistry) *ColorTint {
	return &ColorTint{
		block:      block,
		animations: animations,
		easing:     EaseLinear,
		state:      StateNormal,
		color:      block.Color(StateNormal),
	}
}

// SetEasing selects the easing curve for animated fades. Nil keeps the current one.
func (t *ColorTint) SetEasing(fn EasingFunc) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.easing = fn
	t.mu.Unlock()
}

// Block returns the tint's color block.
func (t *ColorTint) Block() ColorBlock {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.block
}

// OnChange registers fn to receive every color update.
func (t *ColorTint) OnChange(fn func(state SelectionState, color uint32)) {
	t.mu.Lock()
	t.onChange = append(t.onChange, fn)
	t.mu.Unlock()
}

// State returns the most recently requested state.
func (t *ColorTint) State() SelectionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Color returns the current, possibly mid-fade, color.
func (t *ColorTint) Color() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.color
}

// Animating reports whether a fade is in progress.
func (t *ColorTint) Animating() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.anim != nil && !t.anim.IsCancelled()
}

func (t *ColorTint) RequestTransition(state SelectionState, animate bool) {
	t.mu.Lock()
	target := t.block.Color(state)
	from := t.color
	fade := t.block.FadeDuration
	easing := t.easing
	t.state = state
	if t.anim != nil {
		t.anim.Cancel()
		t.anim = nil
	}
	t.mu.Unlock()

	if !animate || fade <= 0 || t.animations == nil || from == target {
		t.setColor(state, target)
		return
	}

	var anim *Animation
	anim = t.animations.Animate().
		Duration(fade).
		Easing(easing).
		OnComplete(func() {
			t.mu.Lock()
			if t.anim == anim {
				t.anim = nil
			}
			t.mu.Unlock()
		}).
		ColorFromTo(from, target, func(c uint32) { t.setColor(state, c) })

	t.mu.Lock()
	// OnComplete cannot have run yet; the registry only fires it from Tick
	t.anim = anim
	t.mu.Unlock()
}

func (t *ColorTint) setColor(state SelectionState, c uint32) {
	t.mu.Lock()
	t.color = c
	hooks := make([]func(SelectionState, uint32), len(t.onChange))
	copy(hooks, t.onChange)
	t.mu.Unlock()

	for _, fn := range hooks {
		fn(state, c)
	}
}
