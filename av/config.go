package av

// Config carries the tunables the Open Questions in §9 ask to be
// parameterized rather than left as compiled-in magic numbers, plus
// the construction-time adapter filter described in §4.1's "Global
// registries" design note.
type Config struct {
	// SyncToleranceTicks is how close (in ticks) a queued video frame's
	// timestamp must be to last+frameDelay to be accepted as "the next
	// frame" during decode_frame's video inner loop. Default 5.
	SyncToleranceTicks int64
	// FarFutureThresholdTicks is how far ahead (in ticks) a queued
	// frame may be and still be accepted outright, treated as the start
	// of a new segment/discontinuity. Default 1000.
	FarFutureThresholdTicks int64

	// DisabledCodecs excludes matching FourCCs from the default
	// registry view returned by NewRegistry.
	DisabledCodecs []FourCC
	// DisabledContainers excludes matching MIME types from the default
	// registry view returned by NewRegistry.
	DisabledContainers []string
}

// DefaultConfig returns the tolerances spec.md's scheduler algorithm
// names literally (±5 ticks, 1000 ticks ahead), with no adapters
// disabled.
func DefaultConfig() Config {
	return Config{
		SyncToleranceTicks:      5,
		FarFutureThresholdTicks: 1000,
	}
}
