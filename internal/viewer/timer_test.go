package viewer

import (
	"testing"
	"time"
)

func TestFrameTimerTick(t *testing.T) {
	start := time.Unix(100, 0)
	ft := NewFrameTimer(start)

	if fps := ft.FPS(); fps != 0 {
		t.Errorf("expected 0 fps before first tick, got %f", fps)
	}

	dt := ft.Tick(start.Add(20 * time.Millisecond))
	if dt < 0.0199 || dt > 0.0201 {
		t.Errorf("expected dt 0.02, got %f", dt)
	}
	if fps := ft.FPS(); fps < 49.9 || fps > 50.1 {
		t.Errorf("expected 50 fps after first tick, got %f", fps)
	}
	if ft.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", ft.Frames())
	}
}

func TestFrameTimerSmoothing(t *testing.T) {
	start := time.Unix(0, 0)
	ft := NewFrameTimer(start)
	ft.SetSmoothing(0.5)

	now := start.Add(10 * time.Millisecond)
	ft.Tick(now)
	now = now.Add(30 * time.Millisecond)
	ft.Tick(now)

	// EMA: 0.5*0.03 + 0.5*0.01 = 0.02s.
	if fps := ft.FPS(); fps < 49.9 || fps > 50.1 {
		t.Errorf("expected smoothed 50 fps, got %f", fps)
	}
	if ft.Elapsed() != 40*time.Millisecond {
		t.Errorf("expected elapsed 40ms, got %v", ft.Elapsed())
	}
	if ft.Delta() != 30*time.Millisecond {
		t.Errorf("expected delta 30ms, got %v", ft.Delta())
	}
}

func TestFrameTimerSmoothingClamped(t *testing.T) {
	ft := NewFrameTimer(time.Now())
	ft.SetSmoothing(5)
	if ft.alpha != 0.95 {
		t.Errorf("expected alpha 0.95, got %f", ft.alpha)
	}
	ft.SetSmoothing(-1)
	if ft.alpha != 0.01 {
		t.Errorf("expected alpha 0.01, got %f", ft.alpha)
	}
}

func TestFrameTimerBackwardsClock(t *testing.T) {
	start := time.Unix(50, 0)
	ft := NewFrameTimer(start)
	if dt := ft.Tick(start.Add(-time.Second)); dt != 0 {
		t.Errorf("expected dt 0 for a clock going backwards, got %f", dt)
	}
}

func TestFrameTimerDue(t *testing.T) {
	start := time.Unix(0, 0)
	ft := NewFrameTimer(start)

	now := start
	due := 0
	for i := 0; i < 100; i++ {
		now = now.Add(25 * time.Millisecond)
		ft.Tick(now)
		if ft.Due(time.Second) {
			due++
		}
	}
	// 2.5 seconds of frames.
	if due != 2 {
		t.Errorf("expected 2 stats intervals, got %d", due)
	}
}
