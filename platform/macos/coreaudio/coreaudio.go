// Package coreaudio is an unregistered av.AudioDecoderInfo stub for
// decoding compressed audio via Apple's CoreAudio/AudioToolbox
// AudioConverter APIs, in the same family as
// other_examples/77b90ba4_farcloser-saprobe__aac-decode_darwin_cgo.go.go
// (which wraps AudioFileOpenWithCallbacks/AudioToolbox directly via
// cgo). That file decodes a whole in-memory buffer in one call rather
// than the packet-at-a-time Decode/DecodedSamples/Acknowledge cycle
// §4.1 requires, so it is not a drop-in grounding source for this
// adapter's shape; this stays a conforming stub per SPEC_FULL.md's
// platform/macos/* stub list.
package coreaudio

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
	return nil, av.NewError(av.ErrDecoder, "coreaudio.CreateDecoder", fmt.Errorf("coreaudio: %w", av.ErrUnsupported))
}
