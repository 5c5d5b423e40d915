// Package audiounit is an unregistered av.AudioDecoderInfo stub for
// AAC decode via Apple's AudioUnit/AudioConverter services — the
// framework other_examples/77b90ba4_farcloser-saprobe__aac-decode_darwin_cgo.go.go
// actually targets for AAC, though via AudioFile/AudioToolbox rather
// than the lower-level AudioUnit render callback API, and as a
// whole-buffer decode rather than this package's required
// packet-at-a-time cycle. Lacking a directly grounded call site for
// that shape, this stays a conforming stub alongside
// platform/macos/coreaudio and platform/macos/videotoolbox.
package audiounit

import (
	"fmt"

	"github.com/playvdk/vdk/av"
)

type decoderInfo struct {
	sampleRate float64
	channels   uint16
}

// NewAudioDecoderInfo matches av.AudioDecoderInfoConstructor.
func NewAudioDecoderInfo(headers av.Headers, sampleRate float64, channels uint16) (av.AudioDecoderInfo, error) {
	return &decoderInfo{sampleRate: sampleRate, channels: channels}, nil
}

func (i *decoderInfo) CreateDecoder() (av.AudioDecoder, error) {
	return nil, av.NewError(av.ErrDecoder, "audiounit.CreateDecoder", fmt.Errorf("audiounit: %w", av.ErrUnsupported))
}
