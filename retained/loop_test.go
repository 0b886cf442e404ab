package retained

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func TestLoopTickFrames(t *testing.T) {
	l := NewLoop(LoopConfig{TargetFPS: 60, TimeScale: 0.5})
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f1 := l.Tick(start)
	if f1.Number != 1 || f1.DeltaTime != 0 {
		t.Errorf("first frame = %+v", f1)
	}

	f2 := l.Tick(start.Add(time.Second))
	if f2.UnscaledDeltaTime != 1 || f2.DeltaTime != 0.5 {
		t.Errorf("deltas = %v scaled, %v unscaled", f2.DeltaTime, f2.UnscaledDeltaTime)
	}
	if f2.Time != 0.5 || f2.UnscaledTime != 1 {
		t.Errorf("times = %v scaled, %v unscaled", f2.Time, f2.UnscaledTime)
	}
	if !l.Now().Equal(start.Add(time.Second)) {
		t.Errorf("Now() = %v, want the frame time", l.Now())
	}
}

func TestLoopPauseFreezesScaledTimeOnly(t *testing.T) {
	l := NewLoop(DefaultLoopConfig())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.Tick(start)

	l.Pause()
	if !l.IsPaused() {
		t.Fatal("IsPaused() = false")
	}
	f := l.Tick(start.Add(time.Second))
	if f.DeltaTime != 0 || f.UnscaledDeltaTime != 1 {
		t.Errorf("paused frame deltas = %v/%v", f.DeltaTime, f.UnscaledDeltaTime)
	}

	l.Resume()
	l.SetTimeScale(0)
	if f := l.Tick(start.Add(2 * time.Second)); f.DeltaTime != 0 {
		t.Errorf("zero time scale delta = %v", f.DeltaTime)
	}
	l.SetTimeScale(-1)
	l.SetTimeScale(math.NaN())
	if l.TimeScale() != 0 {
		t.Errorf("invalid scales should be ignored, TimeScale() = %v", l.TimeScale())
	}
}

func TestLoopZeroConfigDefaults(t *testing.T) {
	l := NewLoop(LoopConfig{})
	if l.TimeScale() != 1 {
		t.Errorf("TimeScale() = %v, want 1", l.TimeScale())
	}
	if l.Stats().TargetFPS != 60 {
		t.Errorf("TargetFPS = %d, want 60", l.Stats().TargetFPS)
	}
}

func TestLoopPostRunsInOrderBeforeTasks(t *testing.T) {
	l := NewLoop(DefaultLoopConfig())
	var order []string
	l.OnFrame(func(*Frame) { order = append(order, "frame") })
	l.Post(func() { order = append(order, "first") })
	l.Post(func() { order = append(order, "second") })
	l.Post(nil)

	l.Tick(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if got := fmt.Sprint(order); got != "[first second frame]" {
		t.Errorf("order = %s", got)
	}
}

func TestLoopSettlesSubmitWhilePaused(t *testing.T) {
	l := NewLoop(DefaultLoopConfig())
	log := &transitionLog{}
	btn := NewButton(ButtonConfig{FadeDuration: 100 * time.Millisecond, Transition: log, Tasks: l.Tasks()})
	l.Events().Register(btn)
	l.Events().SetSelected(btn)
	log.reset()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.Tick(start)
	l.Pause()
	l.SetTimeScale(0)

	l.Post(func() { l.Events().DispatchKeyDown(KeyEnter, 0, false) })
	l.Tick(start.Add(16 * time.Millisecond))
	if l.Stats().PendingTasks != 1 {
		t.Fatalf("pending = %d, want 1", l.Stats().PendingTasks)
	}

	l.Tick(start.Add(115 * time.Millisecond))
	if l.Stats().PendingTasks != 1 {
		t.Error("settle completed early; it should measure from the submit frame")
	}
	l.Tick(start.Add(116 * time.Millisecond))

	if got := fmt.Sprint(log.instant()); got != "[pressed/false selected/false]" {
		t.Errorf("instant transitions = %s", got)
	}
	if l.Stats().PendingTasks != 0 {
		t.Error("settle should have run")
	}
}

func TestLoopRun(t *testing.T) {
	l := NewLoop(LoopConfig{TargetFPS: 200})
	ctx, cancel := context.WithCancel(context.Background())

	ticked := make(chan struct{}, 1)
	l.OnFrame(func(f *Frame) {
		if f.Number >= 3 {
			select {
			case ticked <- struct{}{}:
			default:
			}
		}
	})

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case <-ticked:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not tick")
	}

	if err := l.Run(context.Background()); !errors.Is(err, ErrLoopRunning) {
		t.Errorf("second Run() = %v, want ErrLoopRunning", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if l.IsRunning() {
		t.Error("IsRunning() after Run returned")
	}
}
