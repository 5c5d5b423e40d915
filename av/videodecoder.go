package av

// VideoDecoder turns encoded access units into decoded frames. Per §3,
// a decoder is created after the first track scan and lives until
// playback ends; it is single-threaded.
type VideoDecoder interface {
	DecodeFrame(data []byte, presentationTime Timestamp) (DecodedVideoFrame, error)
}

// DecodedVideoFrame is a decoded, presentable video frame.
type DecodedVideoFrame interface {
	Width() uint32
	Height() uint32
	// Stride returns the byte stride of the given plane.
	Stride(plane int) int
	PixelFormat() PixelFormat
	PresentationTime() Timestamp
	// Lock returns a scoped guard over the frame's pixel planes. Some
	// back-ends (hardware surfaces) require an explicit map/unmap; the
	// guard's Unlock must run on every exit path before the decoder is
	// reused.
	Lock() DecodedVideoFrameLock
}

// DecodedVideoFrameLock is the acquire/release scope for reading a
// decoded frame's pixels.
type DecodedVideoFrameLock interface {
	Pixels(plane int) []byte
	Unlock()
}

// VideoDecoderConstructor builds a VideoDecoder eagerly from headers
// and dimensions — synchronous construction is sufficient for video
// because, unlike AAC, no negotiation phase is needed (§4.1).
type VideoDecoderConstructor func(headers Headers, width, height int) (VideoDecoder, error)
