package av

import "time"

// Timestamp is a rational point in time: ticks / ticksPerSecond seconds
// relative to the start of playback. Two timestamps on different
// timescales are never compared directly — convert both to Duration
// first, per §3's invariant.
type Timestamp struct {
	Ticks          int64
	TicksPerSecond float64
}

// Duration converts the timestamp to a wall-clock duration.
func (t Timestamp) Duration() time.Duration {
	if t.TicksPerSecond == 0 {
		return 0
	}
	seconds := float64(t.Ticks) / t.TicksPerSecond
	return time.Duration(seconds * float64(time.Second))
}

// Add returns the timestamp advanced by n ticks on the same timescale.
func (t Timestamp) Add(n int64) Timestamp {
	return Timestamp{Ticks: t.Ticks + n, TicksPerSecond: t.TicksPerSecond}
}

// Sub returns the timestamp receded by n ticks on the same timescale.
func (t Timestamp) Sub(n int64) Timestamp {
	return Timestamp{Ticks: t.Ticks - n, TicksPerSecond: t.TicksPerSecond}
}
