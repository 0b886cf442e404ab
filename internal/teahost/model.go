// Package teahost runs pressable buttons inside a Bubble Tea program.
// Update is the loop goroutine: frame ticks and input both arrive as
// messages, so the retained loop is ticked from Update directly.
package teahost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agiangrant/pressable"
	"github.com/agiangrant/pressable/retained"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerRows = 2
	rowSpacing = 2
	gutter     = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	buttonStyle = lipgloss.NewStyle().Padding(0, 2)
)

type frameMsg time.Time

// Model is the Bubble Tea model for an App.
type Model struct {
	app      *pressable.App
	logger   *slog.Logger
	interval time.Duration

	clicks  map[*retained.Button]int
	status  string
	pressed retained.MouseButton
	width   int
}

// New builds a model for app and lays out its buttons one per row.
func New(app *pressable.App, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fps := max(app.Config.Loop.TargetFPS, 1)
	m := &Model{
		app:      app,
		logger:   logger,
		interval: time.Second / time.Duration(fps),
		clicks:   make(map[*retained.Button]int),
		status:   "tab select · enter submit · q quit",
	}
	for i, it := range app.Items {
		w := lipgloss.Width(buttonStyle.Render(it.Config.Label))
		it.Button.SetBounds(retained.Bounds{
			X:      gutter,
			Y:      float32(headerRows + i*rowSpacing),
			Width:  float32(w),
			Height: 1,
		})
		b, label := it.Button, it.Config.Label
		b.OnClick().AddListener(func() {
			m.clicks[b]++
			m.status = fmt.Sprintf("%s clicked (%d)", label, m.clicks[b])
		})
	}
	return m
}

// Clicks returns how many times b has fired.
func (m *Model) Clicks(b *retained.Button) int {
	return m.clicks[b]
}

// Status returns the footer message.
func (m *Model) Status() string {
	return m.status
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.app.Loop.Tick(time.Time(msg))
		return m, m.tick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m, m.guard(msg, func() tea.Cmd { return m.handleKey(msg) })
	case tea.MouseMsg:
		return m, m.guard(msg, func() tea.Cmd { m.handleMouse(msg); return nil })
	}
	return m, nil
}

// guard runs fn with msg attached as the payload of the events it dispatches,
// and recovers a panicking click listener so the program keeps running.
func (m *Model) guard(msg tea.Msg, fn func() tea.Cmd) (cmd tea.Cmd) {
	events := m.app.Loop.Events()
	events.SetPayload(msg)
	defer events.SetPayload(nil)
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("input handler panicked", "panic", r)
			m.status = fmt.Sprintf("listener panic: %v", r)
			cmd = nil
		}
	}()
	return fn()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	events := m.app.Loop.Events()
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "tab":
		events.DispatchKeyDown(retained.KeyTab, 0, false)
	case "shift+tab":
		events.DispatchKeyDown(retained.KeyTab, retained.ModShift, false)
	case "enter":
		events.DispatchKeyDown(retained.KeyEnter, 0, false)
	case " ", "space":
		events.DispatchKeyDown(retained.KeySpace, 0, false)
	case "up", "down", "left", "right":
		events.DispatchKeyDown(strings.ToUpper(msg.String()[:1])+msg.String()[1:], 0, false)
	default:
		if len(msg.Runes) == 1 {
			events.DispatchKeyDown(strings.ToUpper(string(msg.Runes)), 0, false)
		}
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	events := m.app.Loop.Events()
	x, y := float32(msg.X), float32(msg.Y)
	var mods retained.Modifiers
	if msg.Shift {
		mods |= retained.ModShift
	}
	if msg.Ctrl {
		mods |= retained.ModCtrl
	}
	if msg.Alt {
		mods |= retained.ModAlt
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		events.DispatchMouseMove(x, y, mods)
	case tea.MouseActionPress:
		button := translateButton(msg.Button)
		if button == retained.MouseButtonNone {
			// Wheel
			return
		}
		m.pressed = button
		events.DispatchMouseDown(x, y, button, mods)
	case tea.MouseActionRelease:
		// X10 mouse reports do not say which button was released
		button := translateButton(msg.Button)
		if button == retained.MouseButtonNone {
			button = m.pressed
		}
		m.pressed = retained.MouseButtonNone
		events.DispatchMouseUp(x, y, button, mods)
	}
}

func translateButton(b tea.MouseButton) retained.MouseButton {
	switch b {
	case tea.MouseButtonLeft:
		return retained.MouseButtonLeft
	case tea.MouseButtonRight:
		return retained.MouseButtonRight
	case tea.MouseButtonMiddle:
		return retained.MouseButtonMiddle
	}
	return retained.MouseButtonNone
}

// Run starts a full-screen program with mouse tracking and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, app *pressable.App, logger *slog.Logger) error {
	p := tea.NewProgram(New(app, logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
