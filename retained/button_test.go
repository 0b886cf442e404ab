package retained

import (
	"fmt"
	"testing"
	"time"
)

// fakeClock is a manual clock for task registries.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// transitionLog records every transition request, optionally into a shared
// event log so ordering against listener calls can be checked.
type transitionLog struct {
	calls []transitionCall
	trace *[]string
}

type transitionCall struct {
	state   SelectionState
	animate bool
}

func (c transitionCall) String() string {
	return fmt.Sprintf("%s/%v", c.state, c.animate)
}

func (l *transitionLog) RequestTransition(state SelectionState, animate bool) {
	c := transitionCall{state, animate}
	l.calls = append(l.calls, c)
	if l.trace != nil {
		*l.trace = append(*l.trace, c.String())
	}
}

func (l *transitionLog) reset() {
	l.calls = nil
}

func (l *transitionLog) instant() []transitionCall {
	var out []transitionCall
	for _, c := range l.calls {
		if !c.animate {
			out = append(out, c)
		}
	}
	return out
}

type buttonHarness struct {
	btn    *Button
	log    *transitionLog
	clock  *fakeClock
	tasks  *TaskRegistry
	clicks int
}

func newButtonHarness(t *testing.T, fade time.Duration) *buttonHarness {
	t.Helper()
	h := &buttonHarness{
		log:   &transitionLog{},
		clock: newFakeClock(),
		tasks: NewTaskRegistry(),
	}
	h.tasks.SetClock(h.clock.Now)
	h.btn = NewButton(ButtonConfig{
		Name:         "ok",
		FadeDuration: fade,
		Transition:   h.log,
		Tasks:        h.tasks,
	})
	h.btn.OnClick().AddListener(func() { h.clicks++ })
	h.log.reset()
	return h
}

func (h *buttonHarness) submit() {
	h.btn.HandleSubmit(NewSubmitEvent(SubmitKeyboard, KeyEnter))
}

func (h *buttonHarness) click(button MouseButton) {
	e := NewMouseEvent(EventClick, 1, 1, button, 0)
	h.btn.HandlePointerClick(e)
	e.Release()
}

func (h *buttonHarness) tick(d time.Duration) {
	h.tasks.Tick(h.clock.Advance(d))
}

func TestPointerClickIgnoresNonPrimaryButtons(t *testing.T) {
	for _, button := range []MouseButton{MouseButtonRight, MouseButtonMiddle, MouseButtonNone} {
		t.Run(button.String(), func(t *testing.T) {
			h := newButtonHarness(t, 100*time.Millisecond)
			h.click(button)

			if h.clicks != 0 {
				t.Errorf("clicks = %d, want 0", h.clicks)
			}
			if len(h.log.calls) != 0 {
				t.Errorf("transition requests = %v, want none", h.log.calls)
			}
		})
	}
}

func TestPointerClickFiresOnceWithoutSettle(t *testing.T) {
	h := newButtonHarness(t, 100*time.Millisecond)
	h.click(MouseButtonLeft)

	if h.clicks != 1 {
		t.Errorf("clicks = %d, want 1", h.clicks)
	}
	if len(h.log.calls) != 0 {
		t.Errorf("transition requests = %v, want none", h.log.calls)
	}
	if h.tasks.Count() != 0 {
		t.Errorf("pending tasks = %d, want 0", h.tasks.Count())
	}
	if h.btn.PendingSettle() != nil {
		t.Error("pointer click should not schedule a settle")
	}

	h.tick(time.Second)
	if len(h.log.calls) != 0 {
		t.Errorf("transition requests after tick = %v, want none", h.log.calls)
	}
}

func TestGateBlocksBothPaths(t *testing.T) {
	tests := []struct {
		name    string
		disable func(h *buttonHarness)
	}{
		{"not interactable", func(h *buttonHarness) { h.btn.SetInteractable(false) }},
		{"inactive", func(h *buttonHarness) { h.btn.SetActive(false) }},
		{"parent inactive", func(h *buttonHarness) {
			parent := NewWidget("panel")
			parent.AddChild(h.btn.Widget)
			parent.SetActive(false)
		}},
		{"group blocks", func(h *buttonHarness) {
			parent := NewWidget("panel")
			parent.AddChild(h.btn.Widget)
			parent.SetGroup(&Group{Interactable: false})
		}},
		{"destroyed", func(h *buttonHarness) { h.btn.Destroy() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newButtonHarness(t, 100*time.Millisecond)
			tt.disable(h)
			h.log.reset()

			h.click(MouseButtonLeft)
			h.submit()
			h.tick(time.Second)

			if h.clicks != 0 {
				t.Errorf("clicks = %d, want 0", h.clicks)
			}
			if len(h.log.calls) != 0 {
				t.Errorf("transition requests = %v, want none", h.log.calls)
			}
		})
	}
}

func TestGroupIgnoringParentsAllowsInteraction(t *testing.T) {
	h := newButtonHarness(t, 0)
	outer := NewWidget("outer")
	inner := NewWidget("inner")
	outer.AddChild(inner)
	inner.AddChild(h.btn.Widget)
	outer.SetGroup(&Group{Interactable: false})
	inner.SetGroup(&Group{Interactable: true, IgnoreParentGroups: true})

	h.click(MouseButtonLeft)
	if h.clicks != 1 {
		t.Errorf("clicks = %d, want 1", h.clicks)
	}
}

func TestSubmitWithZeroFadeIssuesBothRequests(t *testing.T) {
	h := newButtonHarness(t, 0)
	// The listener changes selection, so the final state must be read after it ran
	h.btn.OnClick().AddListener(func() { h.btn.OnSelect() })
	h.submit()

	got := h.log.instant()
	want := []transitionCall{{StatePressed, false}, {StateSelected, false}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("instant requests = %v, want %v", got, want)
	}
	if h.clicks != 1 {
		t.Errorf("clicks = %d, want 1", h.clicks)
	}
	if h.tasks.Count() != 0 {
		t.Errorf("pending tasks = %d, want 0", h.tasks.Count())
	}
}

func TestSettleReadsStateAtCompletion(t *testing.T) {
	h := newButtonHarness(t, 200*time.Millisecond)
	h.submit()

	h.tick(50 * time.Millisecond)
	h.btn.OnPointerEnter()
	h.tick(200 * time.Millisecond)

	got := h.log.instant()
	want := []transitionCall{{StatePressed, false}, {StateHighlighted, false}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("instant requests = %v, want %v", got, want)
	}
}

func TestDisabledByListenerSkipsPressed(t *testing.T) {
	h := newButtonHarness(t, 100*time.Millisecond)
	h.btn.OnClick().AddListener(func() { h.btn.SetInteractable(false) })
	h.submit()
	h.tick(time.Second)

	if h.clicks != 1 {
		t.Errorf("clicks = %d, want 1", h.clicks)
	}
	for _, c := range h.log.calls {
		if c.state == StatePressed {
			t.Errorf("unexpected pressed request in %v", h.log.calls)
		}
	}
	if len(h.log.instant()) != 0 {
		t.Errorf("instant requests = %v, want none", h.log.instant())
	}
	if h.btn.PendingSettle() != nil {
		t.Error("no settle should be scheduled")
	}
}

func TestDeactivatedByListenerSkipsPressed(t *testing.T) {
	h := newButtonHarness(t, 100*time.Millisecond)
	h.btn.OnClick().AddListener(func() { h.btn.SetActive(false) })
	h.submit()
	h.tick(time.Second)

	if len(h.log.calls) != 0 {
		t.Errorf("transition requests = %v, want none", h.log.calls)
	}
}

func TestDisabledMidFadeCancelsSettle(t *testing.T) {
	h := newButtonHarness(t, 200*time.Millisecond)
	h.submit()

	h.tick(100 * time.Millisecond)
	h.btn.SetInteractable(false)
	h.tick(100 * time.Millisecond)
	h.tick(time.Second)

	got := h.log.instant()
	want := []transitionCall{{StatePressed, false}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("instant requests = %v, want %v", got, want)
	}
	if task := h.btn.PendingSettle(); task == nil || !task.Done() {
		t.Error("settle task should have been dropped")
	}
	if h.tasks.Count() != 0 {
		t.Errorf("pending tasks = %d, want 0", h.tasks.Count())
	}
}

func TestSettleDisabledBySameTickSettleIsDropped(t *testing.T) {
	clock := newFakeClock()
	tasks := NewTaskRegistry()
	tasks.SetClock(clock.Now)

	bLog := &transitionLog{}
	b := NewButton(ButtonConfig{Name: "b", FadeDuration: 100 * time.Millisecond, Transition: bLog, Tasks: tasks})

	instantA := 0
	a := NewButton(ButtonConfig{
		Name:         "a",
		FadeDuration: 100 * time.Millisecond,
		Tasks:        tasks,
		Transition: TransitionFunc(func(state SelectionState, animate bool) {
			if animate {
				return
			}
			// Pressed, then the settle
			if instantA++; instantA == 2 {
				b.SetInteractable(false)
			}
		}),
	})

	a.HandleSubmit(NewSubmitEvent(SubmitKeyboard, KeyEnter))
	bLog.reset()
	b.HandleSubmit(NewSubmitEvent(SubmitKeyboard, KeyEnter))

	tasks.Tick(clock.Advance(200 * time.Millisecond))

	want := []transitionCall{{StatePressed, false}, {StateDisabled, true}}
	if fmt.Sprint(bLog.calls) != fmt.Sprint(want) {
		t.Errorf("b requests = %v, want %v", bLog.calls, want)
	}
}

func TestDestroyedMidFadeStopsSilently(t *testing.T) {
	h := newButtonHarness(t, 200*time.Millisecond)
	h.submit()
	h.tick(50 * time.Millisecond)
	h.btn.Destroy()
	h.log.reset()

	h.tick(time.Second)

	if len(h.log.calls) != 0 {
		t.Errorf("transition requests = %v, want none", h.log.calls)
	}
	if h.tasks.Count() != 0 {
		t.Errorf("pending tasks = %d, want 0", h.tasks.Count())
	}
}

func TestSubmitScenarioSelected(t *testing.T) {
	var trace []string
	h := newButtonHarness(t, 200*time.Millisecond)
	h.btn.OnSelect()
	h.log.reset()
	h.log.trace = &trace
	h.btn.OnClick().AddListener(func() { trace = append(trace, "notify") })

	h.submit()
	if want := "[notify pressed/false]"; fmt.Sprint(trace) != want {
		t.Fatalf("after submit trace = %v, want %s", trace, want)
	}

	h.tick(199 * time.Millisecond)
	if len(trace) != 2 {
		t.Fatalf("settle fired early: %v", trace)
	}

	h.tick(time.Millisecond)
	if want := "[notify pressed/false selected/false]"; fmt.Sprint(trace) != want {
		t.Errorf("trace = %v, want %s", trace, want)
	}
	if h.clicks != 1 {
		t.Errorf("clicks = %d, want 1", h.clicks)
	}
}

func TestRepeatedDisqualifiedEventsDoNothing(t *testing.T) {
	h := newButtonHarness(t, 100*time.Millisecond)
	markers := 0
	SetMarker(func(string) { markers++ })
	t.Cleanup(func() { SetMarker(nil) })

	for i := 0; i < 10; i++ {
		h.click(MouseButtonRight)
	}
	h.btn.SetInteractable(false)
	h.log.reset()
	for i := 0; i < 10; i++ {
		h.click(MouseButtonLeft)
		h.submit()
		h.tick(time.Second)
	}

	if h.clicks != 0 || markers != 0 {
		t.Errorf("clicks = %d, markers = %d, want 0", h.clicks, markers)
	}
	if len(h.log.calls) != 0 {
		t.Errorf("transition requests = %v, want none", h.log.calls)
	}
}

func TestActivationEmitsMarker(t *testing.T) {
	var names []string
	SetMarker(func(name string) { names = append(names, name) })
	t.Cleanup(func() { SetMarker(nil) })

	h := newButtonHarness(t, 0)
	h.click(MouseButtonLeft)
	h.submit()

	if want := "[Button.onClick Button.onClick]"; fmt.Sprint(names) != want {
		t.Errorf("markers = %v, want %s", names, want)
	}
}

func TestListenerPanicPropagates(t *testing.T) {
	h := newButtonHarness(t, 100*time.Millisecond)
	h.btn.OnClick().AddListener(func() { panic("boom") })

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recover() = %v, want boom", r)
			}
		}()
		h.submit()
	}()

	if h.clicks != 1 {
		t.Errorf("listeners before the panic should run, clicks = %d", h.clicks)
	}
	if len(h.log.calls) != 0 {
		t.Errorf("transition requests = %v, want none", h.log.calls)
	}
}

func TestOverlappingSubmitsBothSettle(t *testing.T) {
	h := newButtonHarness(t, 200*time.Millisecond)
	h.submit()
	first := h.btn.PendingSettle()
	h.tick(100 * time.Millisecond)
	h.submit()

	h.tick(100 * time.Millisecond)
	if !first.Done() || first.IsCancelled() {
		t.Error("first settle should have completed")
	}
	h.tick(100 * time.Millisecond)

	got := h.log.instant()
	want := []transitionCall{
		{StatePressed, false},
		{StatePressed, false},
		{StateNormal, false},
		{StateNormal, false},
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("instant requests = %v, want %v", got, want)
	}
	if h.clicks != 2 {
		t.Errorf("clicks = %d, want 2", h.clicks)
	}
}

func TestSupersedeCancelsPendingSettle(t *testing.T) {
	h := newButtonHarness(t, 200*time.Millisecond)
	h.btn.SetPolicy(SettleSupersede)

	h.submit()
	first := h.btn.PendingSettle()
	h.tick(100 * time.Millisecond)
	h.submit()

	if !first.IsCancelled() {
		t.Error("first settle should be cancelled")
	}

	h.tick(100 * time.Millisecond)
	h.tick(100 * time.Millisecond)

	got := h.log.instant()
	want := []transitionCall{
		{StatePressed, false},
		{StatePressed, false},
		{StateNormal, false},
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("instant requests = %v, want %v", got, want)
	}
}

func TestNegativeFadeIsZero(t *testing.T) {
	b := NewButton(ButtonConfig{FadeDuration: -time.Second})
	if b.FadeDuration() != 0 {
		t.Errorf("FadeDuration() = %v, want 0", b.FadeDuration())
	}
	b.SetFadeDuration(-1)
	if b.FadeDuration() != 0 {
		t.Errorf("FadeDuration() = %v, want 0", b.FadeDuration())
	}
}

func TestButtonHandleEventRoutesActivation(t *testing.T) {
	h := newButtonHarness(t, 0)

	click := NewMouseEvent(EventClick, 0, 0, MouseButtonLeft, 0)
	if !h.btn.HandleEvent(click) {
		t.Error("click should be consumed")
	}
	click.Release()

	if !h.btn.HandleEvent(NewSubmitEvent(SubmitGamepad, KeyGamepadSouth)) {
		t.Error("submit should be consumed")
	}
	if h.clicks != 2 {
		t.Errorf("clicks = %d, want 2", h.clicks)
	}

	key := NewKeyEvent(EventKeyDown, "a", 'a', 0, false)
	if h.btn.HandleEvent(key) {
		t.Error("plain keys should not be consumed")
	}
	key.Release()
}

func TestParseSettlePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    SettlePolicy
		wantErr bool
	}{
		{"", SettleOverlap, false},
		{"overlap", SettleOverlap, false},
		{"Supersede", SettleSupersede, false},
		{"latest", SettleOverlap, true},
	}
	for _, tt := range tests {
		got, err := ParseSettlePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSettlePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseSettlePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
