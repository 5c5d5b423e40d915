// Package codec holds the PCM codec data types. PCM μ-law/A-law is
// grounded directly on format/avi/demuxer.go's own codec detection (it
// builds av.CodecData for these two FourCCs inline, without a
// dedicated parser package), so this file reproduces that shape as a
// top-level codec package.
package codec

import "github.com/playvdk/vdk/av"

// PCMCodecData is the av.CodecData for both μ-law and A-law PCM: no
// header parsing exists for either (the sample format is implied by
// the FourCC alone), mirroring format/avi/demuxer.go's inline
// construction at the WAVE_FORMAT_MULAW/WAVE_FORMAT_ALAW branches.
type PCMCodecData struct {
	typ av.CodecType
}

func (c PCMCodecData) Type() av.CodecType { return c.typ }

func (c PCMCodecData) VorbisHeaders() [][]byte   { return nil }
func (c PCMCodecData) AACHeaders() []byte        { return nil }
func (c PCMCodecData) H264SeqHeaders() [][]byte  { return nil }
func (c PCMCodecData) H264PictHeaders() [][]byte { return nil }

// NewPCMMulawCodecData builds the CodecData for 8-bit μ-law PCM.
func NewPCMMulawCodecData() PCMCodecData {
	return PCMCodecData{typ: av.PCM_MULAW}
}

// NewPCMAlawCodecData builds the CodecData for 8-bit A-law PCM.
func NewPCMAlawCodecData() PCMCodecData {
	return PCMCodecData{typ: av.PCM_ALAW}
}
