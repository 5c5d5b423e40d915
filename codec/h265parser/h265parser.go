// Package h265parser mirrors codec/h264parser for H.265/HEVC: it
// turns an HEVCDecoderConfigurationRecord into the VPS/SPS/PPS NAL
// units av.Headers exposes, using bluenviron/mediacommon's SPS parser
// for dimensions.
package h265parser

import (
	"fmt"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h265"

	"github.com/playvdk/vdk/av"
)

// CodecData is the av.CodecData implementation for H.265.
type CodecData struct {
	record      []byte
	vpsHeaders  [][]byte
	spsHeaders  [][]byte
	ppsHeaders  [][]byte
	sps         h265.SPS
}

func (c CodecData) Type() av.CodecType { return av.H265 }
func (c CodecData) Record() []byte     { return c.record }
func (c CodecData) SPS() h265.SPS      { return c.sps }
func (c CodecData) Width() int         { return c.sps.Width() }
func (c CodecData) Height() int        { return c.sps.Height() }

func (c CodecData) VorbisHeaders() [][]byte  { return nil }
func (c CodecData) AACHeaders() []byte       { return nil }
func (c CodecData) H264SeqHeaders() [][]byte { return nil }
func (c CodecData) H264PictHeaders() [][]byte { return nil }

// H265VPSHeaders, H265SeqHeaders and H265PictHeaders return the VPS,
// SPS and PPS NAL units; not part of av.Headers (which is H.264-shaped
// per §3) but available for adapters that know they are talking to an
// H.265 track.
func (c CodecData) H265VPSHeaders() [][]byte { return c.vpsHeaders }
func (c CodecData) H265SeqHeaders() [][]byte { return c.spsHeaders }
func (c CodecData) H265PictHeaders() [][]byte { return c.ppsHeaders }

const hevcFixedHeaderSize = 23

// NewCodecDataFromAVCDecoderConfRecord parses an
// HEVCDecoderConfigurationRecord (ISO 14496-15 §8.3.3.1). The name
// matches the teacher's AVI demuxer calling convention, which uses the
// same function name across both H.264 and H.265 extradata paths.
func NewCodecDataFromAVCDecoderConfRecord(record []byte) (CodecData, error) {
	if len(record) < hevcFixedHeaderSize+1 {
		return CodecData{}, av.NewError(av.ErrStructural, "h265parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h265parser: record too short"))
	}

	pos := hevcFixedHeaderSize
	numArrays := int(record[pos])
	pos++

	var vps, sps, pps [][]byte
	for i := 0; i < numArrays; i++ {
		if pos+3 > len(record) {
			return CodecData{}, av.NewError(av.ErrStructural, "h265parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h265parser: truncated array header"))
		}
		nalUnitType := record[pos] & 0x3F
		pos++
		numNalus := int(record[pos])<<8 | int(record[pos+1])
		pos += 2

		for j := 0; j < numNalus; j++ {
			if pos+2 > len(record) {
				return CodecData{}, av.NewError(av.ErrStructural, "h265parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h265parser: truncated NAL length"))
			}
			length := int(record[pos])<<8 | int(record[pos+1])
			pos += 2
			if pos+length > len(record) {
				return CodecData{}, av.NewError(av.ErrStructural, "h265parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h265parser: truncated NAL"))
			}
			nal := record[pos : pos+length]
			pos += length

			switch h265.NALUType(nalUnitType) {
			case h265.NALUType_VPS_NUT:
				vps = append(vps, nal)
			case h265.NALUType_SPS_NUT:
				sps = append(sps, nal)
			case h265.NALUType_PPS_NUT:
				pps = append(pps, nal)
			}
		}
	}

	if len(sps) == 0 {
		return CodecData{}, av.NewError(av.ErrSemantic, "h265parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h265parser: no SPS present"))
	}

	var parsed h265.SPS
	if err := parsed.Unmarshal(sps[0]); err != nil {
		return CodecData{}, av.NewError(av.ErrStructural, "h265parser.NewCodecDataFromAVCDecoderConfRecord", err)
	}

	return CodecData{record: record, vpsHeaders: vps, spsHeaders: sps, ppsHeaders: pps, sps: parsed}, nil
}

// NewCodecDataFromNALUs builds a CodecData directly from already-split
// VPS/SPS/PPS NAL units, the form a typed box parse (e.g. go-mp4's
// HvcC) hands back instead of a raw HEVCDecoderConfigurationRecord.
// There is no original byte record in this path, so Record() returns
// nil.
func NewCodecDataFromNALUs(vpsHeaders, spsHeaders, ppsHeaders [][]byte) (CodecData, error) {
	if len(spsHeaders) == 0 {
		return CodecData{}, av.NewError(av.ErrSemantic, "h265parser.NewCodecDataFromNALUs", fmt.Errorf("h265parser: no SPS present"))
	}
	var parsed h265.SPS
	if err := parsed.Unmarshal(spsHeaders[0]); err != nil {
		return CodecData{}, av.NewError(av.ErrStructural, "h265parser.NewCodecDataFromNALUs", err)
	}
	return CodecData{vpsHeaders: vpsHeaders, spsHeaders: spsHeaders, ppsHeaders: ppsHeaders, sps: parsed}, nil
}
