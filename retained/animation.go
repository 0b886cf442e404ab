package retained

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// AnimationID uniquely identifies an animation.
type AnimationID uint64

var nextAnimationID atomic.Uint64

func newAnimationID() AnimationID {
	return AnimationID(nextAnimationID.Add(1))
}

// EasingFunc defines how animation progress maps to value progress.
// Input t is 0-1 (time progress), output is 0-1 (value progress).
type EasingFunc func(t float64) float64

// Common easing functions
var (
	// EaseLinear - constant speed
	EaseLinear EasingFunc = func(t float64) float64 { return t }

	// EaseInQuad - accelerate from zero
	EaseInQuad EasingFunc = func(t float64) float64 { return t * t }

	// EaseOutQuad - decelerate to zero
	EaseOutQuad EasingFunc = func(t float64) float64 { return t * (2 - t) }

	// EaseInOutQuad - accelerate then decelerate
	EaseInOutQuad EasingFunc = func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}

	// EaseOutCubic - smooth deceleration (good for UI)
	EaseOutCubic EasingFunc = func(t float64) float64 {
		t--
		return t*t*t + 1
	}

	// EaseInOutCubic - smooth acceleration and deceleration
	EaseInOutCubic EasingFunc = func(t float64) float64 {
		if t < 0.5 {
			return 4 * t * t * t
		}
		return (t-1)*(2*t-2)*(2*t-2) + 1
	}

	// EaseOutBack - slight overshoot then settle
	EaseOutBack EasingFunc = func(t float64) float64 {
		c1 := 1.70158
		c3 := c1 + 1
		return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
	}
)

// EasingByName returns the easing function for a given name.
// Returns nil if the name is unknown.
func EasingByName(name string) EasingFunc {
	switch name {
	case "linear", "":
		return EaseLinear
	case "ease-in":
		return EaseInQuad
	case "ease-out":
		return EaseOutQuad
	case "ease", "ease-in-out":
		return EaseInOutQuad
	case "cubic":
		return EaseInOutCubic
	case "cubic-out":
		return EaseOutCubic
	case "back":
		return EaseOutBack
	default:
		return nil
	}
}

// Animation is a time-driven value update owned by an AnimationRegistry.
type Animation struct {
	id         AnimationID
	startTime  time.Time
	duration   time.Duration
	update     func(progress float64) // Called each frame with eased progress 0-1
	onComplete func()                 // Called when animation finishes
	easing     EasingFunc
	loop       bool // If true, animation repeats until cancelled
	cancelled  atomic.Bool
}

// ID returns the animation's unique identifier.
func (a *Animation) ID() AnimationID {
	return a.id
}

// Cancel stops the animation. The update function is not called again.
func (a *Animation) Cancel() {
	a.cancelled.Store(true)
}

// IsCancelled returns whether the animation was cancelled.
func (a *Animation) IsCancelled() bool {
	return a.cancelled.Load()
}

// AnimationRegistry manages active animations. Time is read from its clock,
// which the Loop points at the unscaled frame time.
type AnimationRegistry struct {
	mu         sync.RWMutex
	animations map[AnimationID]*Animation
	now        func() time.Time

	// Callback when animation state changes (for loop to know when to switch modes)
	onActiveChange func(hasActive bool)
}

// NewAnimationRegistry creates a new animation registry.
func NewAnimationRegistry() *AnimationRegistry {
	return &AnimationRegistry{
		animations: make(map[AnimationID]*Animation),
		now:        time.Now,
	}
}

// SetClock replaces the registry's time source. Passing nil restores time.Now.
func (r *AnimationRegistry) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
}

// Now returns the registry clock's current time.
func (r *AnimationRegistry) Now() time.Time {
	r.mu.RLock()
	now := r.now
	r.mu.RUnlock()
	return now()
}

// OnActiveChange sets the callback for when animations become active/inactive.
func (r *AnimationRegistry) OnActiveChange(fn func(hasActive bool)) {
	r.mu.Lock()
	r.onActiveChange = fn
	r.mu.Unlock()
}

// Add registers a new animation. A zero start time is replaced with the
// registry clock's current time.
func (r *AnimationRegistry) Add(anim *Animation) {
	if anim.startTime.IsZero() {
		anim.startTime = r.Now()
	}

	r.mu.Lock()
	wasEmpty := len(r.animations) == 0
	r.animations[anim.id] = anim
	callback := r.onActiveChange
	r.mu.Unlock()

	// Notify if we went from no animations to having animations
	if wasEmpty && callback != nil {
		callback(true)
	}
}

// HasActive returns true if there are any running animations.
func (r *AnimationRegistry) HasActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.animations) > 0
}

// Count returns the number of active animations.
func (r *AnimationRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.animations)
}

// Tick updates all animations and removes completed ones.
// Called once per frame by the loop. Returns true if any animations are still active.
func (r *AnimationRegistry) Tick(now time.Time) bool {
	r.mu.Lock()

	var toRemove []AnimationID
	var toComplete []*Animation
	type step struct {
		anim     *Animation
		progress float64
	}
	var steps []step

	for id, anim := range r.animations {
		if anim.cancelled.Load() {
			toRemove = append(toRemove, id)
			continue
		}

		elapsed := now.Sub(anim.startTime)
		if elapsed < 0 {
			elapsed = 0
		}

		if elapsed >= anim.duration {
			if anim.loop {
				anim.startTime = now
				elapsed = 0
			} else {
				toRemove = append(toRemove, id)
				toComplete = append(toComplete, anim)
				steps = append(steps, step{anim, anim.easing(1.0)})
				continue
			}
		}

		t := 1.0
		if anim.duration > 0 {
			t = clamp(float64(elapsed)/float64(anim.duration), 0, 1)
		}
		steps = append(steps, step{anim, anim.easing(t)})
	}

	for _, id := range toRemove {
		delete(r.animations, id)
	}

	hasActive := len(r.animations) > 0
	callback := r.onActiveChange
	r.mu.Unlock()

	// Updates and completions run outside the lock so they may add animations
	for _, s := range steps {
		if s.anim.update != nil && !s.anim.cancelled.Load() {
			s.anim.update(s.progress)
		}
	}
	for _, anim := range toComplete {
		if anim.onComplete != nil && !anim.cancelled.Load() {
			anim.onComplete()
		}
	}

	if len(toRemove) > 0 && !hasActive && callback != nil {
		callback(false)
	}

	return hasActive
}

// ============================================================================
// Animation Builder API
// ============================================================================

// AnimationBuilder provides a fluent API for creating animations.
type AnimationBuilder struct {
	registry   *AnimationRegistry
	duration   time.Duration
	easing     EasingFunc
	loop       bool
	onComplete func()
}

// Animate starts building an animation registered on r.
func (r *AnimationRegistry) Animate() *AnimationBuilder {
	return &AnimationBuilder{
		registry: r,
		duration: 300 * time.Millisecond, // Default duration
		easing:   EaseOutCubic,           // Default easing (smooth UI feel)
	}
}

// Duration sets how long the animation runs.
func (b *AnimationBuilder) Duration(d time.Duration) *AnimationBuilder {
	b.duration = d
	return b
}

// Easing sets the easing function. Nil keeps the current one.
func (b *AnimationBuilder) Easing(fn EasingFunc) *AnimationBuilder {
	if fn != nil {
		b.easing = fn
	}
	return b
}

// Loop makes the animation repeat forever until cancelled.
func (b *AnimationBuilder) Loop() *AnimationBuilder {
	b.loop = true
	return b
}

// OnComplete sets a callback for when the animation finishes.
func (b *AnimationBuilder) OnComplete(fn func()) *AnimationBuilder {
	b.onComplete = fn
	return b
}

// ColorFromTo animates between two RGBA colors, passing each step to set.
func (b *AnimationBuilder) ColorFromTo(from, to uint32, set func(color uint32)) *Animation {
	return b.Custom(func(progress float64) {
		set(lerpColor(from, to, progress))
	})
}

// Custom creates an animation with a custom update function.
// The update function receives progress from 0-1.
func (b *AnimationBuilder) Custom(update func(progress float64)) *Animation {
	anim := &Animation{
		id:         newAnimationID(),
		duration:   b.duration,
		easing:     b.easing,
		loop:       b.loop,
		onComplete: b.onComplete,
		update:     update,
	}

	b.registry.Add(anim)
	return anim
}

// ============================================================================
// Helper Functions
// ============================================================================

// lerpColor linearly interpolates between two RGBA colors.
// Channels are clamped so overshooting easings stay in range.
func lerpColor(from, to uint32, t float64) uint32 {
	mix := func(shift uint) uint32 {
		a := float64((from >> shift) & 0xFF)
		b := float64((to >> shift) & 0xFF)
		return uint32(math.Round(clamp(a+(b-a)*t, 0, 255))) << shift
	}
	return mix(24) | mix(16) | mix(8) | mix(0)
}

// clamp restricts a value to a range.
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
