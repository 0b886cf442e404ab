package retained

import (
	"sync"
	"sync/atomic"
	"time"
)

// TaskID uniquely identifies a deferred task.
type TaskID uint64

var nextTaskID atomic.Uint64

// Task is a deferred callback owned by a widget. It runs once its delay has
// elapsed on the registry clock, provided it has not been cancelled and its
// liveness check still passes at that tick.
type Task struct {
	id        TaskID
	owner     WidgetID
	startTime time.Time
	delay     time.Duration
	alive     func() bool
	run       func()
	cancelled atomic.Bool
	finished  atomic.Bool
}

// ID returns the task's unique identifier.
func (t *Task) ID() TaskID {
	return t.id
}

// Owner returns the widget the task was scheduled for.
func (t *Task) Owner() WidgetID {
	return t.owner
}

// Cancel prevents the task from running. Cancelling a finished task is a no-op.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
}

// IsCancelled returns whether Cancel was called.
func (t *Task) IsCancelled() bool {
	return t.cancelled.Load()
}

// Done reports whether the task has left the registry, either by running,
// by being cancelled or by failing its liveness check.
func (t *Task) Done() bool {
	return t.finished.Load()
}

func (t *Task) isAlive() bool {
	return t.alive == nil || t.alive()
}

// TaskRegistry holds deferred tasks and advances them from the frame loop.
// Tasks are polled in scheduling order, so two tasks due on the same tick
// run in the order they were scheduled.
type TaskRegistry struct {
	mu    sync.Mutex
	tasks []*Task
	now   func() time.Time

	onActiveChange func(hasActive bool)
}

// NewTaskRegistry creates an empty registry reading time.Now.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{now: time.Now}
}

// SetClock replaces the registry's time source. Passing nil restores time.Now.
// The clock must be unscaled: pausing or slowing the simulation must not
// delay tasks.
func (r *TaskRegistry) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

// Now returns the registry clock's current time.
func (r *TaskRegistry) Now() time.Time {
	r.mu.Lock()
	now := r.now
	r.mu.Unlock()
	return now()
}

// OnActiveChange sets the callback for when the registry becomes busy or idle.
func (r *TaskRegistry) OnActiveChange(fn func(hasActive bool)) {
	r.mu.Lock()
	r.onActiveChange = fn
	r.mu.Unlock()
}

// After schedules run for owner once delay has elapsed. alive is polled on
// every tick; when it reports false the task is dropped without running.
// A non-positive delay runs the task immediately on the caller's goroutine,
// subject to the same liveness check.
func (r *TaskRegistry) After(owner WidgetID, delay time.Duration, alive func() bool, run func()) *Task {
	task := &Task{
		id:        TaskID(nextTaskID.Add(1)),
		owner:     owner,
		startTime: r.Now(),
		delay:     delay,
		alive:     alive,
		run:       run,
	}

	if delay <= 0 {
		task.finished.Store(true)
		if task.isAlive() && run != nil {
			run()
		}
		return task
	}

	r.mu.Lock()
	wasEmpty := len(r.tasks) == 0
	r.tasks = append(r.tasks, task)
	callback := r.onActiveChange
	r.mu.Unlock()

	if wasEmpty && callback != nil {
		callback(true)
	}
	return task
}

// CancelOwner cancels every pending task scheduled for owner and returns how
// many were cancelled.
func (r *TaskRegistry) CancelOwner(owner WidgetID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tasks {
		if t.owner == owner && !t.cancelled.Load() {
			t.Cancel()
			n++
		}
	}
	return n
}

// HasActive returns true if any task is pending.
func (r *TaskRegistry) HasActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks) > 0
}

// Count returns the number of pending tasks, including cancelled ones that
// have not been swept by Tick yet.
func (r *TaskRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Tick polls every pending task against now. Cancelled tasks and tasks whose
// liveness check fails are dropped silently; due tasks run in scheduling
// order, each checked again just before it runs. Returns true if tasks remain
// pending.
func (r *TaskRegistry) Tick(now time.Time) bool {
	r.mu.Lock()
	pending := make([]*Task, len(r.tasks))
	copy(pending, r.tasks)
	r.mu.Unlock()

	if len(pending) == 0 {
		return false
	}

	// Liveness checks read widget state, so they run outside the lock
	drop := make(map[TaskID]bool)
	var due []*Task
	for _, t := range pending {
		switch {
		case t.cancelled.Load():
			drop[t.id] = true
		case !t.isAlive():
			drop[t.id] = true
			logger().Debug("task dropped", "task", t.id, "owner", t.owner)
		case now.Sub(t.startTime) >= t.delay:
			drop[t.id] = true
			due = append(due, t)
		}
	}

	r.mu.Lock()
	kept := r.tasks[:0]
	for _, t := range r.tasks {
		if drop[t.id] {
			t.finished.Store(true)
			continue
		}
		kept = append(kept, t)
	}
	clear(r.tasks[len(kept):])
	r.tasks = kept
	hasActive := len(r.tasks) > 0
	callback := r.onActiveChange
	r.mu.Unlock()

	for _, t := range due {
		// An earlier task in this batch may have cancelled this one or
		// disabled its owner
		if t.cancelled.Load() || t.run == nil {
			continue
		}
		if !t.isAlive() {
			logger().Debug("task dropped", "task", t.id, "owner", t.owner)
			continue
		}
		t.run()
	}

	// A task that ran may have scheduled another
	if len(due) > 0 {
		hasActive = r.HasActive()
	}
	if len(drop) > 0 && !hasActive && callback != nil {
		callback(false)
	}
	return hasActive
}
