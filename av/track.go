package av

// TrackType is the closed set of track kinds §3 describes: a track
// consumes itself into exactly one specialized view.
type TrackType int

const (
	TrackOther TrackType = iota
	TrackVideo
	TrackAudio
)

// Track is the common, classification-safe surface every track
// exposes without consuming it into a specialized view.
type Track interface {
	// Number is the stable identifier used for frame/cluster lookups.
	Number() int64
	// Type consumes the track and returns the variant carrying its
	// specialized view (VideoTrack or AudioTrack), or TrackOther with a
	// nil view.
	Type() (TrackType, any)
	IsVideo() bool
	IsAudio() bool
	// ClusterCount returns the number of clusters if a table of
	// contents exists, or (0, false) for scan-forward containers.
	ClusterCount() (int, bool)
	// Codec returns the track's FourCC, or (FourCC{}, false) if none.
	Codec() (FourCC, bool)
	// Cluster returns the cluster at the given index.
	Cluster(index int) (Cluster, error)
}

// VideoTrack is the specialized view Track.Type() returns for video
// tracks.
type VideoTrack interface {
	Track
	Width() uint16
	Height() uint16
	FrameRate() float64
	PixelFormat() PixelFormat
	Headers() Headers
}

// AudioTrack is the specialized view Track.Type() returns for audio
// tracks.
type AudioTrack interface {
	Track
	SamplingRate() float64
	Channels() uint16
	Headers() Headers
}

// Cluster is an ordered group of frames with stable indices.
type Cluster interface {
	FrameCount() int
	// ReadFrame reads the frame at frameIndex belonging to trackNumber.
	// Implementations return ErrOutOfRange once frameIndex passes the
	// end of this cluster for that track.
	ReadFrame(frameIndex int, trackNumber int64) (Frame, error)
}

// ContainerReader owns the stream and exposes the tracks found in it.
// A container reader is created once per stream and lives for the
// entire playback session; it is single-threaded (§3 invariant).
type ContainerReader interface {
	TrackCount() int
	TrackByIndex(index int) (Track, error)
	TrackByNumber(number int64) (Track, error)
}
