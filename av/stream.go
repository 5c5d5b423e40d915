package av

import "io"

// StreamReader is the random-access byte source collaborator described
// in §6. Container readers are built on top of one and never assume
// the whole stream is resident; they may read past AvailableSize only
// when the container format guarantees the bytes are ready (e.g. a
// local file already fully written).
type StreamReader interface {
	io.Reader
	io.Seeker

	// AvailableSize returns the number of bytes currently readable
	// without blocking, which may be less than TotalSize for a stream
	// still being produced.
	AvailableSize() (int64, error)
	// TotalSize returns the full size of the stream once known, or an
	// error if it cannot be determined.
	TotalSize() (int64, error)
}

// FileStreamReader adapts an *os.File-like ReadSeeker with a known,
// fixed size into a StreamReader. It is the minimal collaborator the
// library needs for local-file playback; a networked StreamReader is
// explicitly out of scope (see spec Non-goals).
type FileStreamReader struct {
	io.ReadSeeker
	Size int64
}

func (f *FileStreamReader) AvailableSize() (int64, error) { return f.Size, nil }
func (f *FileStreamReader) TotalSize() (int64, error)      { return f.Size, nil }
