package retained

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// ErrLoopRunning is returned by Run when the loop is already running.
var ErrLoopRunning = errors.New("loop already running")

// LoopConfig configures the frame loop.
type LoopConfig struct {
	// TargetFPS is the desired frames per second (default: 60).
	TargetFPS int

	// TimeScale multiplies scaled frame time (default: 1). Tasks and
	// animations ignore it. Use SetTimeScale(0) to freeze scaled time.
	TimeScale float64
}

// DefaultLoopConfig returns sensible defaults.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TargetFPS: 60,
		TimeScale: 1,
	}
}

// Frame provides context for each loop iteration.
type Frame struct {
	// Number is the monotonically increasing frame counter.
	Number uint64

	// DeltaTime is scaled seconds since the previous frame. It is zero while paused.
	DeltaTime float64

	// UnscaledDeltaTime is wall-clock seconds since the previous frame.
	UnscaledDeltaTime float64

	// Time is scaled seconds since loop start.
	Time float64

	// UnscaledTime is wall-clock seconds since loop start.
	UnscaledTime float64

	// Now is the unscaled clock reading for this frame.
	Now time.Time
}

// Loop is the single execution context for widgets. Each tick it runs posted
// input, advances deferred tasks and animations on the unscaled clock, then
// calls the frame hook.
type Loop struct {
	config     LoopConfig
	animations *AnimationRegistry
	tasks      *TaskRegistry
	events     *EventDispatcher

	// Timing
	targetFrameTime time.Duration
	clockMu         sync.RWMutex
	startTime       time.Time
	lastFrameTime   time.Time
	frameNow        time.Time
	scaledTime      float64
	timeScale       atomic.Uint64 // math.Float64bits

	// State
	running atomic.Bool
	paused  atomic.Bool

	postMu sync.Mutex
	posted []func()

	onFrame func(*Frame)

	// Stats
	frameCount    atomic.Uint64
	droppedFrames atomic.Uint64
}

// NewLoop creates a loop with the specified configuration.
func NewLoop(config LoopConfig) *Loop {
	if config.TargetFPS < 1 {
		config.TargetFPS = 60
	}
	if config.TimeScale <= 0 || math.IsNaN(config.TimeScale) {
		config.TimeScale = 1
	}

	l := &Loop{
		config:          config,
		animations:      NewAnimationRegistry(),
		tasks:           NewTaskRegistry(),
		events:          NewEventDispatcher(),
		targetFrameTime: time.Second / time.Duration(config.TargetFPS),
	}
	l.timeScale.Store(math.Float64bits(config.TimeScale))

	// Work scheduled during a frame measures from that frame's time
	l.animations.SetClock(l.Now)
	l.tasks.SetClock(l.Now)
	return l
}

// Animations returns the animation registry for this loop.
func (l *Loop) Animations() *AnimationRegistry {
	return l.animations
}

// Tasks returns the deferred task registry for this loop.
func (l *Loop) Tasks() *TaskRegistry {
	return l.tasks
}

// Events returns the event dispatcher.
func (l *Loop) Events() *EventDispatcher {
	return l.events
}

// Now returns the current frame's unscaled time, or the wall clock before the
// first frame.
func (l *Loop) Now() time.Time {
	l.clockMu.RLock()
	defer l.clockMu.RUnlock()
	if l.frameNow.IsZero() {
		return time.Now()
	}
	return l.frameNow
}

// OnFrame sets the callback run at the end of every tick.
func (l *Loop) OnFrame(fn func(*Frame)) {
	l.onFrame = fn
}

// Post queues fn to run on the loop at the start of the next tick. It is
// safe to call from any goroutine.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.postMu.Lock()
	l.posted = append(l.posted, fn)
	l.postMu.Unlock()
}

// Tick advances the loop to now and returns the frame it produced. Run calls
// it from a ticker; tests call it directly with a manual clock.
func (l *Loop) Tick(now time.Time) *Frame {
	l.clockMu.Lock()
	if l.startTime.IsZero() {
		l.startTime = now
		l.lastFrameTime = now
	}
	unscaledDelta := max(now.Sub(l.lastFrameTime).Seconds(), 0)
	scale := l.TimeScale()
	if l.paused.Load() {
		scale = 0
	}
	scaledDelta := unscaledDelta * scale
	l.scaledTime += scaledDelta
	l.lastFrameTime = now
	l.frameNow = now
	frame := &Frame{
		Number:            l.frameCount.Add(1),
		DeltaTime:         scaledDelta,
		UnscaledDeltaTime: unscaledDelta,
		Time:              l.scaledTime,
		UnscaledTime:      now.Sub(l.startTime).Seconds(),
		Now:               now,
	}
	l.clockMu.Unlock()

	// Input first, so a submit posted this frame is scheduled at this frame's time
	l.drainPosted()

	// Tasks and animations always use the unscaled clock; a paused loop still settles
	l.tasks.Tick(now)
	l.animations.Tick(now)

	if l.onFrame != nil {
		l.onFrame(frame)
	}
	return frame
}

func (l *Loop) drainPosted() {
	l.postMu.Lock()
	posted := l.posted
	l.posted = nil
	l.postMu.Unlock()

	for _, fn := range posted {
		fn()
	}
}

// Run ticks the loop at the target frame rate until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.targetFrameTime)
	defer ticker.Stop()

	logger().Debug("loop started", "fps", l.config.TargetFPS)
	last := time.Now()
	l.Tick(last)
	for {
		select {
		case <-ctx.Done():
			logger().Debug("loop stopped", "frames", l.frameCount.Load())
			return nil
		case now := <-ticker.C:
			if now.Sub(last) > 2*l.targetFrameTime {
				l.droppedFrames.Add(1)
			}
			last = now
			l.Tick(now)
		}
	}
}

// Pause freezes scaled time. Input, tasks and animations keep running.
func (l *Loop) Pause() {
	l.paused.Store(true)
}

// Resume resumes a paused loop.
func (l *Loop) Resume() {
	l.paused.Store(false)
}

// IsPaused returns whether the loop is paused.
func (l *Loop) IsPaused() bool {
	return l.paused.Load()
}

// IsRunning returns whether Run is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// TimeScale returns the scaled-time multiplier.
func (l *Loop) TimeScale() float64 {
	return math.Float64frombits(l.timeScale.Load())
}

// SetTimeScale changes the scaled-time multiplier. Negative or NaN values are ignored.
func (l *Loop) SetTimeScale(scale float64) {
	if scale < 0 || math.IsNaN(scale) {
		return
	}
	l.timeScale.Store(math.Float64bits(scale))
}

// Stats returns loop statistics.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		FrameCount:    l.frameCount.Load(),
		DroppedFrames: l.droppedFrames.Load(),
		TargetFPS:     l.config.TargetFPS,
		PendingTasks:  l.tasks.Count(),
		Animations:    l.animations.Count(),
	}
}

// LoopStats contains performance metrics.
type LoopStats struct {
	FrameCount    uint64
	DroppedFrames uint64
	TargetFPS     int
	PendingTasks  int
	Animations    int
}
