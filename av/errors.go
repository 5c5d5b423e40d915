package av

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure the way §7 of the design groups them:
// structural parse failures, semantic misuse, decoder rejection, and
// transient conditions the caller is expected to retry past.
type ErrorKind int

const (
	// ErrStructural covers unrecognized MIME types, unknown FourCCs,
	// missing headers, and malformed container/GIF data.
	ErrStructural ErrorKind = iota
	// ErrSemantic covers out-of-range cluster/frame requests and
	// "no more clusters".
	ErrSemantic
	// ErrDecoder covers a codec rejecting a packet or running out of
	// buffer for its output.
	ErrDecoder
	// ErrTransient covers conditions the scheduler is expected to loop
	// past: a zero-length audio decode, a momentarily empty queue.
	ErrTransient
)

func (k ErrorKind) String() string {
	switch k {
	case ErrStructural:
		return "structural"
	case ErrSemantic:
		return "semantic"
	case ErrDecoder:
		return "decoder"
	case ErrTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error wraps a cause with the operation that produced it and a kind,
// so callers can collapse on kind with errors.As instead of string
// matching, while still reaching the original cause with errors.Unwrap.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error. cause may be nil.
func NewError(kind ErrorKind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

var (
	// ErrNoSuchContainer is returned by GetContainer when no registered
	// reader claims the MIME type.
	ErrNoSuchContainer = errors.New("av: no container reader registered for mime type")
	// ErrNoSuchDecoder is returned by GetVideoDecoder/GetAudioDecoder
	// when no registered decoder claims the FourCC.
	ErrNoSuchDecoder = errors.New("av: no decoder registered for fourcc")
	// ErrUnsupported is returned by stub adapters that conform to an
	// interface but cannot actually decode (no native library wired).
	ErrUnsupported = errors.New("av: codec or container not supported by this build")
	// ErrOutOfRange is returned by track/cluster lookups past the end
	// of the known set.
	ErrOutOfRange = errors.New("av: index out of range")
	// ErrNoMoreClusters is returned by scheduler.Player.DecodeFrame once
	// the container has been exhausted.
	ErrNoMoreClusters = errors.New("av: no more clusters")
)
