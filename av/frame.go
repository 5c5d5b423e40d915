package av

// Frame is one encoded access unit, as described in §3. Frame objects
// borrow from the ContainerReader that produced them and must never
// outlive it.
type Frame interface {
	// Len returns the number of bytes Read will deliver.
	Len() int64
	// Read fills buffer with the frame's encoded bytes. buffer must be
	// at least Len() bytes.
	Read(buffer []byte) error
	// TrackNumber is the stable identifier of the track this frame was
	// read from; it always equals the number passed to
	// Cluster.ReadFrame.
	TrackNumber() int64
	// Time is the frame's decode-order presentation timestamp before
	// the rendering offset is applied.
	Time() Timestamp
	// RenderingOffset is the signed tick delta between decode order and
	// display time, used for B-frames.
	RenderingOffset() int64
}
