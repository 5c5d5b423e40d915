// Package videotoolbox is the av.VideoDecoder registration point for
// hardware-accelerated H.264/H.265 decode via Apple's VideoToolbox
// framework. No VideoToolbox cgo binding exists anywhere in the
// retrieved corpus; the nearest relative is
// other_examples/77b90ba4_farcloser-saprobe__aac-decode_darwin_cgo.go.go,
// which shows the same family's cgo-preamble-plus-build-tag shape for
// AudioToolbox rather than VideoToolbox. Lacking a grounded call site
// for the video framework itself, this stays a conforming stub: it
// registers no FourCC of its own (software decode via
// codec/libavcodec already claims `avc `) and exists only so a host
// build can select it in place of libavcodec without restructuring
// the registry, per SPEC_FULL.md's platform/macos/* stub list.
package videotoolbox

import (
	"fmt"

	"github.com/playvdk/vdk/av"
)

// Decoder conforms to av.VideoDecoder without decoding anything.
type Decoder struct {
	width, height int
}

// NewDecoder matches av.VideoDecoderConstructor.
func NewDecoder(headers av.Headers, width, height int) (av.VideoDecoder, error) {
	return &Decoder{width: width, height: height}, nil
}

func (d *Decoder) DecodeFrame(data []byte, presentationTime av.Timestamp) (av.DecodedVideoFrame, error) {
	return nil, av.NewError(av.ErrDecoder, "videotoolbox.DecodeFrame", fmt.Errorf("videotoolbox: %w", av.ErrUnsupported))
}
