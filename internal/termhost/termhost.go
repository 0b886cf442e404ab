// Package termhost draws pressable buttons in a terminal with tcell and
// feeds terminal input to the retained loop.
package termhost

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agiangrant/pressable"
	"github.com/agiangrant/pressable/retained"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/sync/errgroup"
)

const (
	originX    = 2
	originY    = 1
	rowSpacing = 2
)

// Host owns a tcell screen and one App. Everything except Run must be called
// on the loop goroutine.
type Host struct {
	app    *pressable.App
	screen tcell.Screen
	logger *slog.Logger

	prevButtons tcell.ButtonMask
	clicks      map[*retained.Button]int
	status      string
}

// New lays out app's buttons and subscribes to their clicks.
func New(app *pressable.App, screen tcell.Screen, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Host{
		app:    app,
		screen: screen,
		logger: logger,
		clicks: make(map[*retained.Button]int),
		status: "Tab/Shift+Tab select, Enter or Space submit, Esc quits",
	}
	for i, it := range app.Items {
		it.Button.SetBounds(retained.Bounds{
			X:      originX,
			Y:      float32(originY + i*rowSpacing),
			Width:  float32(runewidth.StringWidth(it.Config.Label) + 4),
			Height: 1,
		})
		b, label := it.Button, it.Config.Label
		b.OnClick().AddListener(func() {
			h.clicks[b]++
			h.status = fmt.Sprintf("%s clicked (%d)", label, h.clicks[b])
		})
	}
	return h
}

// Clicks returns how many times b has fired.
func (h *Host) Clicks(b *retained.Button) int {
	return h.clicks[b]
}

// Status returns the message shown on the bottom row.
func (h *Host) Status() string {
	return h.status
}

// Run drives the loop and polls the screen until ctx is cancelled or the
// user quits.
func (h *Host) Run(ctx context.Context) error {
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer h.screen.Fini()
	h.screen.EnableMouse()
	h.screen.HideCursor()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := h.app.Loop
	loop.OnFrame(func(*retained.Frame) { h.Draw() })

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		// Wake PollEvent so the reader below can exit
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})
	g.Go(func() error {
		for {
			ev := h.screen.PollEvent()
			if ev == nil || gctx.Err() != nil {
				return nil
			}
			loop.Post(func() {
				if h.safeHandle(ev) {
					cancel()
				}
			})
		}
	})
	return g.Wait()
}

// safeHandle keeps a panicking click listener from taking the terminal down
// with it in raw mode.
func (h *Host) safeHandle(ev tcell.Event) (quit bool) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("event handler panicked", "panic", r)
			h.status = fmt.Sprintf("listener panic: %v", r)
		}
	}()
	return h.HandleEvent(ev)
}

// HandleEvent routes one terminal event. Widgets receive ev as the payload
// of the events it produces. It reports whether the user asked to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	events := h.app.Loop.Events()
	events.SetPayload(ev)
	defer events.SetPayload(nil)

	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		key, mods := translateKey(ev)
		if key == "" {
			return false
		}
		events.DispatchKeyDown(key, mods, false)
	case *tcell.EventMouse:
		h.handleMouse(ev)
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return false
}

var mouseButtons = []struct {
	mask   tcell.ButtonMask
	button retained.MouseButton
}{
	{tcell.Button1, retained.MouseButtonLeft},
	{tcell.Button2, retained.MouseButtonRight},
	{tcell.Button3, retained.MouseButtonMiddle},
}

// handleMouse turns tcell's button masks into press and release edges.
func (h *Host) handleMouse(ev *tcell.EventMouse) {
	events := h.app.Loop.Events()
	x, y := ev.Position()
	fx, fy := float32(x), float32(y)
	mods := translateMods(ev.Modifiers())
	buttons := ev.Buttons()
	prev := h.prevButtons
	h.prevButtons = buttons

	events.DispatchMouseMove(fx, fy, mods)
	for _, mb := range mouseButtons {
		now, was := buttons&mb.mask != 0, prev&mb.mask != 0
		switch {
		case now && !was:
			events.DispatchMouseDown(fx, fy, mb.button, mods)
		case !now && was:
			events.DispatchMouseUp(fx, fy, mb.button, mods)
		}
	}
}

func translateKey(ev *tcell.EventKey) (string, retained.Modifiers) {
	mods := translateMods(ev.Modifiers())
	switch ev.Key() {
	case tcell.KeyEnter:
		return retained.KeyEnter, mods
	case tcell.KeyTab:
		return retained.KeyTab, mods
	case tcell.KeyBacktab:
		return retained.KeyTab, mods | retained.ModShift
	case tcell.KeyUp:
		return retained.KeyUp, mods
	case tcell.KeyDown:
		return retained.KeyDown, mods
	case tcell.KeyLeft:
		return retained.KeyLeft, mods
	case tcell.KeyRight:
		return retained.KeyRight, mods
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return retained.KeySpace, mods
		}
		return strings.ToUpper(string(ev.Rune())), mods
	}
	return "", mods
}

func translateMods(m tcell.ModMask) retained.Modifiers {
	var mods retained.Modifiers
	if m&tcell.ModShift != 0 {
		mods |= retained.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= retained.ModCtrl
	}
	if m&tcell.ModAlt != 0 || m&tcell.ModMeta != 0 {
		mods |= retained.ModAlt
	}
	return mods
}
