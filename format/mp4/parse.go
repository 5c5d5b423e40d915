// Package mp4 is the av.ContainerReader for ISOBMFF (.mp4/.mov) files,
// built on abema/go-mp4's box-structure walker. The box-walking
// callback shape (moov/mdia/minf/stbl/stsd expansion, mdhd for
// timescale, hdlr for track type, mp4a/esds for AAC, stsz/stco/co64/
// stsc/stts for the sample table) is grounded on
// other_examples/00a61721_llehouerou-go-faad2__m4a.go.go's parseM4A,
// generalized here to also recognize avc1/avcC/hvcC so video tracks
// get the same treatment. The H.264 side (`mp4.Avc1{Width, Height,
// ...}`, `mp4.AvcC{SequenceParameterSets, PictureParameterSets
// []mp4.AVCParameterSet{Length, NALUnit}}`) is grounded directly on
// other_examples/3ad4baea_SentryShot-sentryshot__pkg-monitor-mp4muxer-muxer.go.go,
// which builds exactly these structs (note: width/height live directly
// on Avc1, not behind a separate VisualSampleEntry type). The HEVC side
// (`mp4.HvcC`) is grounded on
// other_examples/4633483e_bluenviron-mediamtx__internal-rtmp-reader_test.go.go;
// `mp4.Hev1`/`mp4.Hvc1` are assumed to carry Width/Height the same way
// Avc1 does, by symmetry with the confirmed video sample entry shape
// above — no retrieved file constructs Hev1/Hvc1 directly, so that
// symmetry assumption is the one inference-by-convention left in this
// package (see DESIGN.md).
package mp4

import (
	"fmt"
	"io"

	"github.com/abema/go-mp4"

	"github.com/playvdk/vdk/av"
	"github.com/playvdk/vdk/codec/aacparser"
	"github.com/playvdk/vdk/codec/h264parser"
	"github.com/playvdk/vdk/codec/h265parser"
)

type trackInfo struct {
	number      int64
	isVideo     bool
	isAudio     bool
	codec       av.FourCC
	timescale   uint32
	width       uint16
	height      uint16
	sampleRate  uint32
	channels    uint16
	headers     av.Headers
	samples     []sampleInfo
}

type sampleInfo struct {
	offset   uint64
	size     uint32
	duration uint32
}

// scanState accumulates one track's sample-table boxes while
// mp4.ReadBoxStructure walks a single trak element; it resets on every
// new BoxTypeTrak().
type scanState struct {
	handlerIsVideo bool
	handlerIsAudio bool
	timescale      uint32
	width, height  uint16
	sampleRate     uint32
	channels       uint16
	headers        av.Headers
	codec          av.FourCC

	sampleSizes  []uint32
	chunkOffsets []uint64
	stsc         []mp4.StscEntry
	stts         []mp4.SttsEntry
}

func (s *scanState) reset() {
	*s = scanState{}
}

func (s *scanState) finish(number int64) (trackInfo, bool) {
	if !s.handlerIsVideo && !s.handlerIsAudio {
		return trackInfo{}, false
	}
	samples := buildSampleTable(s.sampleSizes, s.chunkOffsets, s.stsc, s.stts)
	if len(samples) == 0 {
		return trackInfo{}, false
	}
	return trackInfo{
		number:     number,
		isVideo:    s.handlerIsVideo,
		isAudio:    s.handlerIsAudio,
		codec:      s.codec,
		timescale:  s.timescale,
		width:      s.width,
		height:     s.height,
		sampleRate: s.sampleRate,
		channels:   s.channels,
		headers:    s.headers,
		samples:    samples,
	}, true
}

// buildSampleTable expands the stsc (samples-per-chunk runs) and stts
// (run-length sample durations) tables into one entry per sample,
// grounded on parseM4A's buildSampleTable in the file named above.
func buildSampleTable(sampleSizes []uint32, chunkOffsets []uint64, stscEntries []mp4.StscEntry, sttsEntries []mp4.SttsEntry) []sampleInfo {
	if len(sampleSizes) == 0 || len(chunkOffsets) == 0 {
		return nil
	}

	durations := make([]uint32, 0, len(sampleSizes))
	for _, entry := range sttsEntries {
		for i := uint32(0); i < entry.SampleCount; i++ {
			durations = append(durations, entry.SampleDelta)
		}
	}

	samples := make([]sampleInfo, 0, len(sampleSizes))
	sampleIdx := 0
	for chunkIdx, offset := range chunkOffsets {
		samplesInChunk := uint32(1)
		for i := len(stscEntries) - 1; i >= 0; i-- {
			if uint32(chunkIdx+1) >= stscEntries[i].FirstChunk {
				samplesInChunk = stscEntries[i].SamplesPerChunk
				break
			}
		}
		for i := uint32(0); i < samplesInChunk && sampleIdx < len(sampleSizes); i++ {
			size := sampleSizes[sampleIdx]
			duration := uint32(0)
			if sampleIdx < len(durations) {
				duration = durations[sampleIdx]
			}
			samples = append(samples, sampleInfo{offset: offset, size: size, duration: duration})
			offset += uint64(size)
			sampleIdx++
		}
	}
	return samples
}

// parseTracks walks the whole moov tree once and returns every track
// with a usable sample table.
func parseTracks(r io.ReadSeeker) ([]trackInfo, error) {
	var tracks []trackInfo
	var st scanState
	trackNumber := int64(0)

	_, err := mp4.ReadBoxStructure(r, func(h *mp4.ReadHandle) (any, error) {
		switch h.BoxInfo.Type {
		case mp4.BoxTypeMoov(), mp4.BoxTypeMdia(), mp4.BoxTypeMinf(), mp4.BoxTypeStbl(), mp4.BoxTypeStsd():
			return h.Expand()

		case mp4.BoxTypeTrak():
			st.reset()
			trackNumber++
			children, err := h.Expand()
			if err != nil {
				return nil, err
			}
			if info, ok := st.finish(trackNumber); ok {
				tracks = append(tracks, info)
			}
			return children, nil

		case mp4.BoxTypeMdhd():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if mdhd, ok := box.(*mp4.Mdhd); ok {
				st.timescale = mdhd.Timescale
			}

		case mp4.BoxTypeHdlr():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if hdlr, ok := box.(*mp4.Hdlr); ok {
				switch hdlr.HandlerType {
				case [4]byte{'v', 'i', 'd', 'e'}:
					st.handlerIsVideo = true
				case [4]byte{'s', 'o', 'u', 'n'}:
					st.handlerIsAudio = true
				}
			}

		case mp4.BoxTypeMp4a():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if entry, ok := box.(*mp4.AudioSampleEntry); ok {
				st.sampleRate = entry.SampleRate / 65536
				st.channels = entry.ChannelCount
			}
			return h.Expand()

		case mp4.BoxTypeEsds():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			esds, ok := box.(*mp4.Esds)
			if !ok {
				return nil, nil
			}
			for _, desc := range esds.Descriptors {
				if desc.Tag == 0x05 && len(desc.Data) > 0 {
					data, err := aacparser.NewCodecDataFromMPEG4AudioConfigBytes(desc.Data)
					if err != nil {
						return nil, err
					}
					st.headers = data
					st.codec = av.FourCCAAC
					break
				}
			}

		case mp4.BoxTypeAvc1():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if entry, ok := box.(*mp4.Avc1); ok {
				st.width = entry.Width
				st.height = entry.Height
			}
			return h.Expand()

		case mp4.BoxTypeAvcC():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			avcc, ok := box.(*mp4.AvcC)
			if !ok {
				return nil, nil
			}
			var seq, pict [][]byte
			for _, sps := range avcc.SequenceParameterSets {
				seq = append(seq, sps.NALUnit)
			}
			for _, pps := range avcc.PictureParameterSets {
				pict = append(pict, pps.NALUnit)
			}
			if len(seq) == 0 {
				return nil, fmt.Errorf("mp4: avcC has no SPS")
			}
			data, err := h264parser.NewCodecDataFromNALUs(seq, pict)
			if err != nil {
				return nil, err
			}
			st.headers = data
			st.codec = av.FourCCAVC

		case mp4.BoxTypeHev1(), mp4.BoxTypeHvc1():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			switch entry := box.(type) {
			case *mp4.Hev1:
				st.width, st.height = entry.Width, entry.Height
			case *mp4.Hvc1:
				st.width, st.height = entry.Width, entry.Height
			}
			return h.Expand()

		case mp4.BoxTypeHvcC():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			hvcc, ok := box.(*mp4.HvcC)
			if !ok {
				return nil, nil
			}
			var vps, seq, pict [][]byte
			for _, arr := range hvcc.NaluArrays {
				for _, nalu := range arr.Nalus {
					switch arr.NaluType {
					case 32:
						vps = append(vps, nalu.NALUnit)
					case 33:
						seq = append(seq, nalu.NALUnit)
					case 34:
						pict = append(pict, nalu.NALUnit)
					}
				}
			}
			if len(seq) == 0 {
				return nil, fmt.Errorf("mp4: hvcC has no SPS")
			}
			data, err := h265parser.NewCodecDataFromNALUs(vps, seq, pict)
			if err != nil {
				return nil, err
			}
			st.headers = data
			// Spec's closed FourCC set has no distinct H.265 code; H.265
			// tracks normalize to the same "avc " identifier as H.264,
			// software-decoded by codec/libavcodec either way.
			st.codec = av.FourCCAVC

		case mp4.BoxTypeStsz():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			stsz, ok := box.(*mp4.Stsz)
			if !ok {
				return nil, nil
			}
			if stsz.SampleSize != 0 {
				for i := uint32(0); i < stsz.SampleCount; i++ {
					st.sampleSizes = append(st.sampleSizes, stsz.SampleSize)
				}
			} else {
				st.sampleSizes = stsz.EntrySize
			}

		case mp4.BoxTypeStco():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if stco, ok := box.(*mp4.Stco); ok {
				for _, off := range stco.ChunkOffset {
					st.chunkOffsets = append(st.chunkOffsets, uint64(off))
				}
			}

		case mp4.BoxTypeCo64():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if co64, ok := box.(*mp4.Co64); ok {
				st.chunkOffsets = co64.ChunkOffset
			}

		case mp4.BoxTypeStsc():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if stsc, ok := box.(*mp4.Stsc); ok {
				st.stsc = stsc.Entries
			}

		case mp4.BoxTypeStts():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			if stts, ok := box.(*mp4.Stts); ok {
				st.stts = stts.Entries
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, av.NewError(av.ErrStructural, "mp4.parseTracks", err)
	}
	return tracks, nil
}
