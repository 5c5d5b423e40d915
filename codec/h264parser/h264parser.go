// Package h264parser adapts H.264 sequence/picture headers (SPS/PPS)
// between their AVCDecoderConfigurationRecord wire form and the
// av.Headers capability the scheduler hands to decoders, grounded on
// bluenviron/mediacommon's SPS parser for width/height extraction and
// on the AVCC construction algorithm from the original implementation
// (see DESIGN.md).
package h264parser

import (
	"fmt"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h264"

	"github.com/playvdk/vdk/av"
)

// CodecData is the av.CodecData implementation for H.264, carrying the
// raw SPS/PPS NAL units plus the parsed SPS for dimension queries.
type CodecData struct {
	record       []byte
	seqHeaders   [][]byte
	pictHeaders  [][]byte
	sps          h264.SPS
}

func (c CodecData) Type() av.CodecType { return av.H264 }

// Record returns the original AVCDecoderConfigurationRecord bytes.
func (c CodecData) Record() []byte { return c.record }

// SPS returns the parsed sequence parameter set.
func (c CodecData) SPS() h264.SPS { return c.sps }

func (c CodecData) Width() int  { return c.sps.Width() }
func (c CodecData) Height() int { return c.sps.Height() }

func (c CodecData) VorbisHeaders() [][]byte   { return nil }
func (c CodecData) AACHeaders() []byte        { return nil }
func (c CodecData) H264SeqHeaders() [][]byte  { return c.seqHeaders }
func (c CodecData) H264PictHeaders() [][]byte { return c.pictHeaders }

// NewCodecDataFromAVCDecoderConfRecord parses an
// AVCDecoderConfigurationRecord (ISO 14496-15 §5.2.4.1), the form MP4
// and AVI extradata carry H.264 parameter sets in.
func NewCodecDataFromAVCDecoderConfRecord(record []byte) (CodecData, error) {
	if len(record) < 6 {
		return CodecData{}, av.NewError(av.ErrStructural, "h264parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h264parser: record too short"))
	}

	pos := 5
	numSPS := int(record[pos] & 0x1F)
	pos++

	var seqHeaders [][]byte
	for i := 0; i < numSPS; i++ {
		if pos+2 > len(record) {
			return CodecData{}, av.NewError(av.ErrStructural, "h264parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h264parser: truncated SPS length"))
		}
		length := int(record[pos])<<8 | int(record[pos+1])
		pos += 2
		if pos+length > len(record) {
			return CodecData{}, av.NewError(av.ErrStructural, "h264parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h264parser: truncated SPS"))
		}
		seqHeaders = append(seqHeaders, record[pos:pos+length])
		pos += length
	}

	if pos >= len(record) {
		return CodecData{}, av.NewError(av.ErrStructural, "h264parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h264parser: truncated record"))
	}
	numPPS := int(record[pos])
	pos++

	var pictHeaders [][]byte
	for i := 0; i < numPPS; i++ {
		if pos+2 > len(record) {
			return CodecData{}, av.NewError(av.ErrStructural, "h264parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h264parser: truncated PPS length"))
		}
		length := int(record[pos])<<8 | int(record[pos+1])
		pos += 2
		if pos+length > len(record) {
			return CodecData{}, av.NewError(av.ErrStructural, "h264parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h264parser: truncated PPS"))
		}
		pictHeaders = append(pictHeaders, record[pos:pos+length])
		pos += length
	}

	if len(seqHeaders) == 0 {
		return CodecData{}, av.NewError(av.ErrSemantic, "h264parser.NewCodecDataFromAVCDecoderConfRecord", fmt.Errorf("h264parser: no SPS present"))
	}

	var sps h264.SPS
	if err := sps.Unmarshal(seqHeaders[0]); err != nil {
		return CodecData{}, av.NewError(av.ErrStructural, "h264parser.NewCodecDataFromAVCDecoderConfRecord", err)
	}

	return CodecData{record: record, seqHeaders: seqHeaders, pictHeaders: pictHeaders, sps: sps}, nil
}

// NewCodecDataFromNALUs builds a CodecData directly from already-split
// SPS/PPS NAL units, the form a typed box parse (e.g. go-mp4's AvcC)
// hands back instead of a raw AVCDecoderConfigurationRecord. It builds
// the record via CreateAVCCChunk and reuses
// NewCodecDataFromAVCDecoderConfRecord so there is exactly one SPS
// parse path.
func NewCodecDataFromNALUs(seqHeaders, pictHeaders [][]byte) (CodecData, error) {
	record, err := CreateAVCCChunk(seqHeaders, pictHeaders)
	if err != nil {
		return CodecData{}, av.NewError(av.ErrStructural, "h264parser.NewCodecDataFromNALUs", err)
	}
	return NewCodecDataFromAVCDecoderConfRecord(record)
}

// ParseSPS parses a raw SPS NAL unit (without the AVCC wrapper),
// matching the teacher's h264parser.ParseSPS call shape seen in
// format/avi/muxer.go.
func ParseSPS(sps []byte) (h264.SPS, error) {
	var s h264.SPS
	err := s.Unmarshal(sps)
	return s, err
}

// CreateAVCCChunk builds an AVCDecoderConfigurationRecord from a set
// of sequence/picture headers, per the original implementation's
// create_avcc_chunk (see DESIGN.md): byte 0 is the fixed version (1),
// bytes 1-3 are copied from the first SPS's profile/compatibility/level
// octets, byte 4 fixes the NALU length size at 4 bytes, and the SPS
// count is OR'd with the reserved top three bits.
func CreateAVCCChunk(seqHeaders, pictHeaders [][]byte) ([]byte, error) {
	if len(seqHeaders) == 0 {
		return nil, fmt.Errorf("h264parser: CreateAVCCChunk requires at least one SPS")
	}
	if len(seqHeaders[0]) < 4 {
		return nil, fmt.Errorf("h264parser: SPS too short")
	}

	avcc := []byte{
		0x01,
		seqHeaders[0][1],
		seqHeaders[0][2],
		seqHeaders[0][3],
		0xff,
		byte(len(seqHeaders)) | 0b1110_0000,
	}

	for _, sps := range seqHeaders {
		avcc = append(avcc, byte(len(sps)>>8), byte(len(sps)))
		avcc = append(avcc, sps...)
	}

	avcc = append(avcc, byte(len(pictHeaders)))
	for _, pps := range pictHeaders {
		avcc = append(avcc, byte(len(pps)>>8), byte(len(pps)))
		avcc = append(avcc, pps...)
	}

	return avcc, nil
}
