package mkv

import (
	"fmt"
	"io"

	"github.com/playvdk/vdk/av"
)

// Reader walks just far enough into a Matroska/WebM stream to recover
// track metadata; it never descends into Cluster contents (no
// block/lacing support exists, see package doc).
type Reader struct {
	tracks []trackEntry
}

// NewReader matches av.ContainerEntry.New.
func NewReader(r av.StreamReader) (av.ContainerReader, error) {
	id, err := readElementID(r)
	if err != nil {
		return nil, av.NewError(av.ErrStructural, "mkv.NewReader", err)
	}
	if !idEquals4(id, idEBML) {
		return nil, av.NewError(av.ErrStructural, "mkv.NewReader", fmt.Errorf("mkv: not an EBML stream"))
	}
	headerSize, _, err := readVint(r)
	if err != nil {
		return nil, av.NewError(av.ErrStructural, "mkv.NewReader", err)
	}
	if _, err := io.CopyN(io.Discard, r, int64(headerSize)); err != nil {
		return nil, av.NewError(av.ErrStructural, "mkv.NewReader", err)
	}

	id, err = readElementID(r)
	if err != nil {
		return nil, av.NewError(av.ErrStructural, "mkv.NewReader", err)
	}
	if !idEquals4(id, idSegment) {
		return nil, av.NewError(av.ErrStructural, "mkv.NewReader", fmt.Errorf("mkv: expected Segment after EBML header"))
	}
	segmentSize, _, err := readVint(r)
	if err != nil && err != errUnknownSize {
		return nil, av.NewError(av.ErrStructural, "mkv.NewReader", err)
	}

	tracks, err := scanSegmentForTracks(r, segmentSize, err == errUnknownSize)
	if err != nil {
		return nil, av.NewError(av.ErrStructural, "mkv.NewReader", err)
	}
	if len(tracks) == 0 {
		return nil, av.NewError(av.ErrStructural, "mkv.NewReader", fmt.Errorf("mkv: no Tracks element found"))
	}
	return &Reader{tracks: tracks}, nil
}

// scanSegmentForTracks stops as soon as it has read the Tracks element;
// it never reaches into Cluster elements, which is the entire reason
// this container is a stub rather than a full demuxer. unknownSize
// Segments (the streaming case) are scanned the same way: element
// boundaries are still explicit regardless of the parent's own size.
func scanSegmentForTracks(r io.Reader, segmentSize uint64, unknownSize bool) ([]trackEntry, error) {
	var consumed uint64
	for unknownSize || consumed < segmentSize {
		id, err := readElementID(r)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		consumed += uint64(len(id))
		length, width, err := readVint(r)
		if err != nil {
			return nil, err
		}
		consumed += uint64(width)

		if idEquals4(id, idTracks) {
			tracks, err := parseTracksElement(r, length)
			if err != nil {
				return nil, err
			}
			return tracks, nil
		}
		if idEquals4(id, idCluster) {
			// Clusters come after Tracks in every Matroska/WebM file this
			// stub has seen; if Tracks has not appeared yet, it never will.
			return nil, fmt.Errorf("mkv: reached Cluster before Tracks")
		}
		if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
			return nil, err
		}
		consumed += length
	}
	return nil, fmt.Errorf("mkv: Segment ended without a Tracks element")
}

func parseTracksElement(r io.Reader, size uint64) ([]trackEntry, error) {
	var tracks []trackEntry
	var consumed uint64
	for consumed < size {
		id, err := readElementID(r)
		if err != nil {
			return nil, err
		}
		consumed += uint64(len(id))
		length, width, err := readVint(r)
		if err != nil {
			return nil, err
		}
		consumed += uint64(width) + length

		if len(id) == 1 && id[0] == idTrackEntry {
			te, err := parseTrackEntry(io.LimitReader(r, int64(length)), length)
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, te)
			continue
		}
		if _, err := io.CopyN(io.Discard, r, int64(length)); err != nil {
			return nil, err
		}
	}
	return tracks, nil
}

func (r *Reader) TrackCount() int { return len(r.tracks) }

func (r *Reader) TrackByIndex(index int) (av.Track, error) {
	if index < 0 || index >= len(r.tracks) {
		return nil, av.NewError(av.ErrSemantic, "mkv.Reader.TrackByIndex", av.ErrOutOfRange)
	}
	return &Track{info: r.tracks[index]}, nil
}

func (r *Reader) TrackByNumber(number int64) (av.Track, error) {
	for _, t := range r.tracks {
		if t.number == number {
			return &Track{info: t}, nil
		}
	}
	return nil, av.NewError(av.ErrSemantic, "mkv.Reader.TrackByNumber", av.ErrOutOfRange)
}

// Track exposes the metadata this stub recovers; Cluster/ReadFrame
// always fail since no block/lacing decoder exists (see package doc).
type Track struct {
	info trackEntry
}

func (t *Track) Number() int64 { return t.info.number }

func (t *Track) Type() (av.TrackType, any) {
	switch {
	case t.info.isVideo:
		return av.TrackVideo, t
	case t.info.isAudio:
		return av.TrackAudio, t
	default:
		return av.TrackOther, nil
	}
}

func (t *Track) IsVideo() bool { return t.info.isVideo }
func (t *Track) IsAudio() bool { return t.info.isAudio }

// ClusterCount always reports "unknown": this stub never scans as far
// as a Cluster element, so it has no count to offer even in the
// fixed-size-Segment case.
func (t *Track) ClusterCount() (int, bool) { return 0, false }

func (t *Track) Codec() (av.FourCC, bool) {
	switch t.info.codecID {
	case "V_VP8":
		return av.FourCCVP80, true
	case "A_VORBIS":
		return av.FourCCVorb, true
	default:
		return av.FourCC{}, false
	}
}

func (t *Track) Cluster(index int) (av.Cluster, error) {
	return nil, av.NewError(av.ErrDecoder, "mkv.Track.Cluster", fmt.Errorf("mkv: %w", av.ErrUnsupported))
}

func (t *Track) Width() uint16  { return t.info.width }
func (t *Track) Height() uint16 { return t.info.height }

// FrameRate is never recovered: it lives in per-block timecodes this
// stub never reads, not in TrackEntry.
func (t *Track) FrameRate() float64 { return 0 }

func (t *Track) PixelFormat() av.PixelFormat { return av.PixelFormat{Kind: av.I420} }

func (t *Track) SamplingRate() float64 { return t.info.sampFreq }
func (t *Track) Channels() uint16      { return t.info.channels }

// Headers is always empty: CodecPrivate parsing (V_VP8 carries none;
// A_VORBIS's three header packets live in CodecPrivate in a
// length-prefixed form this stub does not decode) is out of scope for
// a container that cannot demux frames in the first place.
func (t *Track) Headers() av.Headers { return av.EmptyHeaders{} }

func init() {
	av.RegisterContainer(av.ContainerEntry{
		MIMETypes: []string{"video/webm", "video/x-matroska"},
		New:       NewReader,
	})
}
