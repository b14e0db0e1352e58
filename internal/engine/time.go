package engine

import "time"

// DefaultFixedDelta is the fixed simulation step in seconds.
const DefaultFixedDelta = float32(1.0 / 60)

// Time is the frame clock. Tick or Advance once per frame, then drain
// FixedSteps to run the fixed-step updates owed for that frame.
type Time struct {
	Delta         float32
	UnscaledDelta float32
	FixedDelta    float32
	TimeScale     float32
	Elapsed       float64
	Unscaled      float64
	FrameCount    uint64
	// MaxFixedSteps caps the fixed steps run in one frame so a long stall
	// does not spiral. Zero means no cap.
	MaxFixedSteps int

	accumulator float32
	last        time.Time
}

func NewTime() *Time {
	return &Time{FixedDelta: DefaultFixedDelta, TimeScale: 1, MaxFixedSteps: 8}
}

// Tick advances the clock to now. The first tick yields a zero delta.
func (t *Time) Tick(now time.Time) {
	var dt float32
	if !t.last.IsZero() {
		dt = float32(now.Sub(t.last).Seconds())
	}
	t.last = now
	t.Advance(dt)
}

// Advance moves the clock forward by dt unscaled seconds.
func (t *Time) Advance(dt float32) {
	if dt < 0 {
		dt = 0
	}
	t.UnscaledDelta = dt
	t.Delta = dt * t.TimeScale
	t.Unscaled += float64(dt)
	t.Elapsed += float64(t.Delta)
	t.FrameCount++
	t.accumulator += t.Delta
}

// FixedSteps consumes the accumulator and returns how many fixed steps are
// due this frame. Time beyond MaxFixedSteps is dropped.
func (t *Time) FixedSteps() int {
	if t.FixedDelta <= 0 {
		return 0
	}
	n := 0
	for t.accumulator >= t.FixedDelta {
		t.accumulator -= t.FixedDelta
		n++
		if t.MaxFixedSteps > 0 && n >= t.MaxFixedSteps {
			t.accumulator = 0
			break
		}
	}
	return n
}

// Reset clears the clock, keeping its configuration.
func (t *Time) Reset() {
	*t = Time{FixedDelta: t.FixedDelta, TimeScale: t.TimeScale, MaxFixedSteps: t.MaxFixedSteps}
}
