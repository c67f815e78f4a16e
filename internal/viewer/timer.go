package viewer

import "time"

// DefaultSmoothing is the EMA weight of the newest frame time.
const DefaultSmoothing = 0.15

// FrameTimer measures frame deltas and a smoothed frame rate.
type FrameTimer struct {
	start    time.Time
	last     time.Time
	delta    time.Duration
	ema      float64 // seconds
	alpha    float64
	frames   uint64
	sinceLog time.Duration
}

// NewFrameTimer starts a timer at now.
func NewFrameTimer(now time.Time) *FrameTimer {
	return &FrameTimer{start: now, last: now, alpha: DefaultSmoothing}
}

// SetSmoothing sets the EMA weight, clamped to [0.01, 0.95].
func (t *FrameTimer) SetSmoothing(alpha float64) {
	t.alpha = min(max(alpha, 0.01), 0.95)
}

// Tick records a frame ending at now and returns its delta in seconds.
func (t *FrameTimer) Tick(now time.Time) float32 {
	t.delta = now.Sub(t.last)
	if t.delta < 0 {
		t.delta = 0
	}
	t.last = now
	t.frames++
	t.sinceLog += t.delta

	d := t.delta.Seconds()
	if t.ema <= 0 {
		t.ema = d
	} else {
		t.ema = t.alpha*d + (1-t.alpha)*t.ema
	}
	return float32(d)
}

// Delta returns the last frame time.
func (t *FrameTimer) Delta() time.Duration { return t.delta }

// FPS returns the smoothed frame rate, or 0 before the first timed frame.
func (t *FrameTimer) FPS() float64 {
	if t.ema <= 0 {
		return 0
	}
	return 1 / t.ema
}

// Frames returns the number of ticks.
func (t *FrameTimer) Frames() uint64 { return t.frames }

// Elapsed returns the time from start to the last tick.
func (t *FrameTimer) Elapsed() time.Duration { return t.last.Sub(t.start) }

// Due reports, at most once per interval, that stats should be logged.
func (t *FrameTimer) Due(interval time.Duration) bool {
	if t.sinceLog < interval {
		return false
	}
	t.sinceLog = 0
	return true
}
