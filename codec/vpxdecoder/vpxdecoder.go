// Package vpxdecoder is the av.VideoDecoder registration point for
// VP8. No pure-Go VP8 decode engine appears anywhere in the retrieved
// corpus — real VP8 decode is always done via cgo bindings to libvpx
// or platform hardware (see platform/macos/videotoolbox), neither of
// which this build carries — so NewDecoder registers the FourCC and
// conforms to the construction contract, but DecodeFrame always
// reports av.ErrUnsupported. This mirrors codec/aacparser's
// CreateDecoder stub.
package vpxdecoder

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
	return nil, av.NewError(av.ErrDecoder, "vpxdecoder.DecodeFrame", fmt.Errorf("vpxdecoder: %w", av.ErrUnsupported))
}

func init() {
	av.RegisterVideoDecoder(av.VideoDecoderEntry{
		ID:  av.FourCCVP80,
		New: NewDecoder,
	})
}
