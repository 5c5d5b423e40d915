// Package libavcodec is the av.VideoDecoder registration point for
// software-decoded H.264/H.265 via an FFmpeg/libavcodec binding. No
// cgo FFmpeg binding is present anywhere in the retrieved corpus (the
// closest relatives, viamrobotics/rdk's gostream-ffmpeg-avcodec.go and
// linuxmatters-jivefire's internal-encoder-encoder.go, are both
// cgo-wrapped FFmpeg callers, but neither ships a redistributable
// module this build can depend on), so NewDecoder conforms to the
// construction contract and is registered under the single `avc `
// FourCC that H.264 and H.265 tracks both map to, but DecodeFrame
// always reports av.ErrUnsupported — the same stub shape as
// codec/vpxdecoder.
package libavcodec

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
	return nil, av.NewError(av.ErrDecoder, "libavcodec.DecodeFrame", fmt.Errorf("libavcodec: %w", av.ErrUnsupported))
}

func init() {
	av.RegisterVideoDecoder(av.VideoDecoderEntry{ID: av.FourCCAVC, New: NewDecoder})
}
