// Package vorbisparser is the Vorbis counterpart to aacparser: a thin
// av.CodecData/av.AudioDecoderInfo adapter around the three Vorbis
// header packets (identification, comment, setup). Actual Vorbis
// bitstream decoding is done eagerly by format/ogg, which wraps
// jfreymuth/oggvorbis — the only Vorbis library this corpus exercises
// with confirmed API usage (see DESIGN.md: jfreymuth/vorbis, the
// lower-level package oggvorbis itself wraps, has no grounded call
// site anywhere in the retrieved examples, so this package does not
// import it directly and instead consumes format/ogg's already-decoded
// wire format, the same split format/gif uses for its own codec).
package vorbisparser

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/playvdk/vdk/av"
)

// CodecData carries the three Vorbis header packets.
type CodecData struct {
	headers [][]byte
}

func (c CodecData) Type() av.CodecType { return av.Vorbis }

func (c CodecData) VorbisHeaders() [][]byte   { return c.headers }
func (c CodecData) AACHeaders() []byte        { return nil }
func (c CodecData) H264SeqHeaders() [][]byte  { return nil }
func (c CodecData) H264PictHeaders() [][]byte { return nil }

// NewCodecData wraps the three Vorbis header packets a container (Ogg
// or otherwise) extracted from the stream.
func NewCodecData(headers [][]byte) (CodecData, error) {
	if len(headers) != 3 {
		return CodecData{}, av.NewError(av.ErrStructural, "vorbisparser.NewCodecData", fmt.Errorf("vorbisparser: expected 3 header packets, got %d", len(headers)))
	}
	return CodecData{headers: headers}, nil
}

// decoderInfo is the probe-phase handle; Vorbis needs no negotiation
// beyond the headers already in hand, but the type exists to satisfy
// §4.1's uniform two-phase construction contract.
type decoderInfo struct {
	sampleRate float64
	channels   uint16
}

// NewAudioDecoderInfo matches av.AudioDecoderInfoConstructor.
func NewAudioDecoderInfo(headers av.Headers, sampleRate float64, channels uint16) (av.AudioDecoderInfo, error) {
	return &decoderInfo{sampleRate: sampleRate, channels: channels}, nil
}

func (i *decoderInfo) CreateDecoder() (av.AudioDecoder, error) {
	return &decoder{channels: int(i.channels)}, nil
}

// decoder unpacks the wire format format/ogg's Frame.Read produces:
// 2-byte LE channel count, 4-byte LE per-channel sample count, then
// interleaved little-endian float32 samples. This mirrors the
// container-does-the-work split format/gif uses.
type decoder struct {
	channels int
	samples  [][]float32
}

func (d *decoder) Decode(data []byte) error {
	if len(data) < 6 {
		return av.NewError(av.ErrStructural, "vorbisparser.Decoder.Decode", fmt.Errorf("vorbisparser: buffer too small"))
	}
	channels := int(binary.LittleEndian.Uint16(data[0:2]))
	count := int(binary.LittleEndian.Uint32(data[2:6]))
	if channels == 0 {
		channels = d.channels
	}
	want := 6 + channels*count*4
	if len(data) < want {
		return av.NewError(av.ErrStructural, "vorbisparser.Decoder.Decode", fmt.Errorf("vorbisparser: buffer truncated"))
	}

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, count)
	}
	off := 6
	for s := 0; s < count; s++ {
		for c := 0; c < channels; c++ {
			bits := binary.LittleEndian.Uint32(data[off : off+4])
			out[c][s] = math.Float32frombits(bits)
			off += 4
		}
	}
	d.samples = out
	return nil
}

func (d *decoder) DecodedSamples() (av.DecodedAudioSamples, error) {
	return decodedSamples{channels: d.samples}, nil
}

func (d *decoder) Acknowledge(sampleCount int) {
	for c := range d.samples {
		if sampleCount >= len(d.samples[c]) {
			d.samples[c] = nil
		} else {
			d.samples[c] = d.samples[c][sampleCount:]
		}
	}
}

type decodedSamples struct {
	channels [][]float32
}

func (s decodedSamples) Samples(channel int) ([]float32, error) {
	if channel < 0 || channel >= len(s.channels) {
		return nil, av.NewError(av.ErrSemantic, "vorbisparser.DecodedAudioSamples.Samples", av.ErrOutOfRange)
	}
	return s.channels[channel], nil
}

func init() {
	av.RegisterAudioDecoder(av.AudioDecoderEntry{
		ID:  av.FourCCVorb,
		New: NewAudioDecoderInfo,
	})
}
