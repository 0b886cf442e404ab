package retained

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// SettlePolicy decides what happens to a pending settle when another submit
// arrives before it completes.
type SettlePolicy uint8

const (
	// SettleOverlap leaves earlier settles running. Each submit's settle
	// completes on its own schedule.
	SettleOverlap SettlePolicy = iota

	// SettleSupersede cancels the pending settle before scheduling a new one.
	SettleSupersede
)

// ErrUnknownSettlePolicy is returned by ParseSettlePolicy.
var ErrUnknownSettlePolicy = errors.New("unknown settle policy")

func (p SettlePolicy) String() string {
	if p == SettleSupersede {
		return "supersede"
	}
	return "overlap"
}

// ParseSettlePolicy accepts "overlap" (or empty) and "supersede".
func ParseSettlePolicy(s string) (SettlePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overlap":
		return SettleOverlap, nil
	case "supersede":
		return SettleSupersede, nil
	default:
		return SettleOverlap, fmt.Errorf("%w: %q", ErrUnknownSettlePolicy, s)
	}
}

// ButtonConfig configures NewButton.
type ButtonConfig struct {
	// Name labels the underlying widget.
	Name string

	// FadeDuration is how long a submit holds the Pressed state before
	// settling. Negative values are treated as zero.
	FadeDuration time.Duration

	Policy SettlePolicy

	// Transition renders selection states. Nil installs a NoTransition.
	Transition VisualStateMachine

	// Tasks schedules the settle. Nil gives the button a private registry,
	// which the caller must tick through Tasks().
	Tasks *TaskRegistry
}

// Button is a Selectable that fires its OnClick listeners when activated by a
// primary-button click or a submit. A submit additionally shows the Pressed
// state for FadeDuration and then settles back to the current selection state.
type Button struct {
	*Selectable

	onClick ClickEvent
	tasks   *TaskRegistry

	mu           sync.Mutex
	fadeDuration time.Duration
	policy       SettlePolicy
	pending      *Task
}

// NewButton creates a button on a fresh widget.
func NewButton(cfg ButtonConfig) *Button {
	return NewButtonOn(NewWidget(cfg.Name), cfg)
}

// NewButtonOn creates a button on an existing widget.
func NewButtonOn(w *Widget, cfg ButtonConfig) *Button {
	tasks := cfg.Tasks
	if tasks == nil {
		tasks = NewTaskRegistry()
	}
	b := &Button{
		Selectable:   NewSelectable(w, cfg.Transition),
		tasks:        tasks,
		fadeDuration: max(cfg.FadeDuration, 0),
		policy:       cfg.Policy,
	}
	w.OnDestroy(func() { b.tasks.CancelOwner(w.ID()) })
	return b
}

// OnClick returns the button's listener list.
func (b *Button) OnClick() *ClickEvent {
	return &b.onClick
}

// Tasks returns the registry that runs the button's settles.
func (b *Button) Tasks() *TaskRegistry {
	return b.tasks
}

// FadeDuration returns the Pressed hold time used after a submit.
func (b *Button) FadeDuration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fadeDuration
}

// SetFadeDuration changes the hold time. Negative values are treated as zero.
// Settles already scheduled keep their delay.
func (b *Button) SetFadeDuration(d time.Duration) {
	b.mu.Lock()
	b.fadeDuration = max(d, 0)
	b.mu.Unlock()
}

// Policy returns the settle policy.
func (b *Button) Policy() SettlePolicy {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.policy
}

// SetPolicy changes the settle policy for future submits.
func (b *Button) SetPolicy(p SettlePolicy) {
	b.mu.Lock()
	b.policy = p
	b.mu.Unlock()
}

// PendingSettle returns the most recently scheduled settle, or nil.
func (b *Button) PendingSettle() *Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// HandlePointerClick activates the button for a primary-button click.
// Other buttons are ignored before any state is read.
func (b *Button) HandlePointerClick(e *MouseEvent) {
	if e == nil || e.Button != MouseButtonLeft {
		return
	}
	b.activate()
}

// HandleSubmit activates the button, then, if it is still usable, shows the
// Pressed state and schedules the settle.
func (b *Button) HandleSubmit(e *SubmitEvent) {
	b.activate()

	// Listeners may have disabled or deactivated the button
	if !b.usable() {
		return
	}

	b.RequestTransition(StatePressed, false)
	b.scheduleSettle()
}

// Press activates the button as a programmatic click.
func (b *Button) Press() {
	b.activate()
}

func (b *Button) usable() bool {
	return b.IsActive() && b.IsInteractable()
}

func (b *Button) activate() {
	if !b.usable() {
		return
	}
	emitMarker("Button.onClick")
	b.onClick.Invoke()
}

func (b *Button) scheduleSettle() {
	b.mu.Lock()
	prev := b.pending
	policy := b.policy
	delay := b.fadeDuration
	b.mu.Unlock()

	if policy == SettleSupersede && prev != nil && !prev.Done() {
		prev.Cancel()
	}

	task := b.tasks.After(b.ID(), delay, b.usable, func() {
		// The state is read now, not when the settle was scheduled
		b.RequestTransition(b.CurrentSelectionState(), false)
	})

	b.mu.Lock()
	b.pending = task
	b.mu.Unlock()
}

// HandleEvent routes clicks and submits to the activation paths and
// everything else to the Selectable.
func (b *Button) HandleEvent(event Event) bool {
	switch e := event.(type) {
	case *MouseEvent:
		if e.Type() == EventClick {
			b.HandlePointerClick(e)
			return true
		}
	case *SubmitEvent:
		b.HandleSubmit(e)
		return true
	}
	return b.Selectable.HandleEvent(event)
}
