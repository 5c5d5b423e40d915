// Package aacparser adapts MPEG-4 audio (AAC) configuration between
// its AudioSpecificConfig wire form and the two-phase
// av.AudioDecoderInfo/av.AudioDecoder construction §4.1 describes,
// grounded on bluenviron/mediacommon's mpeg4audio.AudioSpecificConfig.
package aacparser

import (
	"fmt"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/mpeg4audio"

	"github.com/playvdk/vdk/av"
)

// CodecData is the av.CodecData implementation for AAC.
type CodecData struct {
	config mpeg4audio.AudioSpecificConfig
	raw    []byte
}

func (c CodecData) Type() av.CodecType { return av.AAC }

func (c CodecData) Config() mpeg4audio.AudioSpecificConfig { return c.config }
func (c CodecData) SampleRate() int                        { return c.config.SampleRate }
func (c CodecData) ChannelCount() int                       { return c.config.ChannelCount }

func (c CodecData) VorbisHeaders() [][]byte   { return nil }
func (c CodecData) AACHeaders() []byte        { return c.raw }
func (c CodecData) H264SeqHeaders() [][]byte  { return nil }
func (c CodecData) H264PictHeaders() [][]byte { return nil }

// NewCodecDataFromMPEG4AudioConfigBytes parses a raw
// AudioSpecificConfig (ISO 14496-3 §1.6.2.1), the form MP4/AVI
// extradata carries AAC parameters in.
func NewCodecDataFromMPEG4AudioConfigBytes(data []byte) (CodecData, error) {
	var cfg mpeg4audio.AudioSpecificConfig
	if err := cfg.Unmarshal(data); err != nil {
		return CodecData{}, av.NewError(av.ErrStructural, "aacparser.NewCodecDataFromMPEG4AudioConfigBytes", err)
	}
	return CodecData{config: cfg, raw: data}, nil
}

// aacDecoderInfo is the probe-phase handle §4.1's two-phase audio
// construction calls for: headers are available immediately, but the
// underlying decode engine isn't created until CreateDecoder.
type aacDecoderInfo struct {
	config mpeg4audio.AudioSpecificConfig
}

// NewAudioDecoderInfo matches av.AudioDecoderInfoConstructor.
func NewAudioDecoderInfo(headers av.Headers, sampleRate float64, channels uint16) (av.AudioDecoderInfo, error) {
	cfg := mpeg4audio.AudioSpecificConfig{
		Type:         mpeg4audio.ObjectTypeAACLC,
		SampleRate:   int(sampleRate),
		ChannelCount: int(channels),
	}
	if raw := headers.AACHeaders(); raw != nil {
		if err := cfg.Unmarshal(raw); err != nil {
			return nil, av.NewError(av.ErrStructural, "aacparser.NewAudioDecoderInfo", err)
		}
	}
	return &aacDecoderInfo{config: cfg}, nil
}

func (i *aacDecoderInfo) CreateDecoder() (av.AudioDecoder, error) {
	// There is no pure-Go AAC decode engine in the retrieved corpus
	// (mediacommon only parses/muxes AAC, it does not decode samples);
	// this mirrors the stub adapters in codec/vpxdecoder and
	// codec/libavcodec, see DESIGN.md.
	return nil, av.NewError(av.ErrDecoder, "aacparser.CreateDecoder", fmt.Errorf("aacparser: %w", av.ErrUnsupported))
}

func init() {
	av.RegisterAudioDecoder(av.AudioDecoderEntry{
		ID:  av.FourCCAAC,
		New: NewAudioDecoderInfo,
	})
}
