// Package trace replays a scripted interaction against an App on a manual
// clock and writes every activation, marker and transition request it sees.
package trace

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agiangrant/pressable"
	"github.com/agiangrant/pressable/retained"
)

// ErrBadStep is returned by ParseScript for steps it does not understand.
var ErrBadStep = errors.New("bad step")

// Action is one scripted input.
type Action string

const (
	ActSelect     Action = "select"
	ActDeselect   Action = "deselect"
	ActSubmit     Action = "submit"
	ActClick      Action = "click"
	ActRightClick Action = "rightclick"
	ActHover      Action = "hover"
	ActLeave      Action = "leave"
	ActDisable    Action = "disable"
	ActEnable     Action = "enable"
	ActHide       Action = "hide"
	ActShow       Action = "show"
	ActDestroy    Action = "destroy"
	ActWait       Action = "wait"
)

var knownActions = map[Action]bool{
	ActSelect: true, ActDeselect: true, ActSubmit: true, ActClick: true,
	ActRightClick: true, ActHover: true, ActLeave: true, ActDisable: true,
	ActEnable: true, ActHide: true, ActShow: true, ActDestroy: true, ActWait: true,
}

// Step is an action with its argument: a wait duration, or the index of the
// button it targets.
type Step struct {
	Action Action
	Wait   time.Duration
	Button int
}

// DefaultScript selects the first button, submits, and waits past the fade.
const DefaultScript = "select,submit,wait=250ms"

// ParseScript reads a comma separated list of steps. Button actions take an
// optional 1-based index ("click=2"); wait takes a duration ("wait=150ms").
// submit and deselect act on the current selection and ignore the index.
func ParseScript(script string) ([]Step, error) {
	var steps []Step
	for _, raw := range strings.Split(script, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		name, arg, hasArg := strings.Cut(raw, "=")
		step := Step{Action: Action(strings.ToLower(name))}
		if !knownActions[step.Action] {
			return nil, fmt.Errorf("%w: %q", ErrBadStep, raw)
		}

		switch {
		case step.Action == ActWait:
			d, err := time.ParseDuration(arg)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("%w: %q needs a duration", ErrBadStep, raw)
			}
			step.Wait = d
		case hasArg:
			var n int
			if _, err := fmt.Sscanf(arg, "%d", &n); err != nil || n < 1 {
				return nil, fmt.Errorf("%w: %q needs a button number", ErrBadStep, raw)
			}
			step.Button = n - 1
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// recorder sits in front of a button's renderer and logs each request.
type recorder struct {
	label string
	next  retained.VisualStateMachine
	out   func(format string, args ...any)
}

func (r *recorder) RequestTransition(state retained.SelectionState, animate bool) {
	mode := "instant"
	if animate {
		mode = "animated"
	}
	if r.out != nil {
		r.out("%s -> %s (%s)", r.label, state, mode)
	}
	if r.next != nil {
		r.next.RequestTransition(state, animate)
	}
}

// Run plays steps against app, writing one line per observation to w. The
// app's loop is ticked on a manual clock every frame interval, so output is
// deterministic. Run installs a marker hook for its duration.
func Run(app *pressable.App, steps []Step, w io.Writer) error {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	out := func(format string, args ...any) {
		fmt.Fprintf(w, "%6dms  %s\n", now.Sub(start).Milliseconds(), fmt.Sprintf(format, args...))
	}

	app.Loop.Tick(now)
	for _, it := range app.Items {
		// Wrap after the snap SetTransition issues, so it is not logged
		var next retained.VisualStateMachine
		if it.Tint != nil {
			next = it.Tint
		}
		rec := &recorder{label: it.Config.Label, next: next}
		it.Button.SetTransition(rec)
		rec.out = out

		label := it.Config.Label
		it.Button.OnClick().AddListener(func() { out("%s onClick", label) })
	}

	retained.SetMarker(func(name string) { out("marker %s", name) })
	defer retained.SetMarker(nil)

	frame := time.Second / time.Duration(max(app.Config.Loop.TargetFPS, 1))
	for _, step := range steps {
		if step.Action == ActWait {
			end := now.Add(step.Wait)
			for now.Before(end) {
				now = now.Add(frame)
				if end.Before(now) {
					now = end
				}
				app.Loop.Tick(now)
			}
			continue
		}
		if step.Button >= len(app.Items) {
			return fmt.Errorf("%w: button %d does not exist", ErrBadStep, step.Button+1)
		}
		apply(app, app.Items[step.Button], step.Action)
	}
	return nil
}

func apply(app *pressable.App, it *pressable.Item, action Action) {
	events := app.Loop.Events()
	b := it.Button
	bounds := b.Bounds()
	// Buttons laid out by no host get a synthetic cell each
	if bounds.Width == 0 {
		bounds = retained.Bounds{X: 0, Y: float32(index(app, it) * 2), Width: 1, Height: 1}
		b.SetBounds(bounds)
	}
	x, y := bounds.X, bounds.Y

	switch action {
	case ActSelect:
		events.SetSelected(b)
	case ActDeselect:
		events.SetSelected(nil)
	case ActSubmit:
		// Submits go to whatever is selected, as they do from a keyboard
		events.DispatchSubmit(retained.SubmitProgrammatic, "")
	case ActClick:
		events.DispatchMouseDown(x, y, retained.MouseButtonLeft, 0)
		events.DispatchMouseUp(x, y, retained.MouseButtonLeft, 0)
	case ActRightClick:
		events.DispatchMouseDown(x, y, retained.MouseButtonRight, 0)
		events.DispatchMouseUp(x, y, retained.MouseButtonRight, 0)
	case ActHover:
		events.DispatchMouseMove(x, y, 0)
	case ActLeave:
		events.DispatchMouseMove(-1, -1, 0)
	case ActDisable:
		b.SetInteractable(false)
	case ActEnable:
		b.SetInteractable(true)
	case ActHide:
		b.SetActive(false)
	case ActShow:
		b.SetActive(true)
	case ActDestroy:
		events.Unregister(b)
		b.Destroy()
	}
}

func index(app *pressable.App, it *pressable.Item) int {
	for i, x := range app.Items {
		if x == it {
			return i
		}
	}
	return 0
}
