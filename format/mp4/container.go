package mp4

import (
	"io"

	"github.com/playvdk/vdk/av"
)

// Reader is the av.ContainerReader for ISOBMFF files: every track's
// sample table is parsed eagerly on open (mirroring format/gif's
// eager single-pass parse), but sample payload bytes are read lazily
// from the stream per frame rather than buffered up front — unlike
// the faad2 example this is grounded on, which reads the whole file
// into memory before decoding.
type Reader struct {
	stream av.StreamReader
	tracks []trackInfo
}

// NewReader matches the av.ContainerEntry.New shape.
func NewReader(r av.StreamReader) (av.ContainerReader, error) {
	// av.StreamReader already embeds io.Reader and io.Seeker, so it
	// satisfies io.ReadSeeker without an adapter.
	tracks, err := parseTracks(r)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, av.NewError(av.ErrStructural, "mp4.NewReader", io.ErrUnexpectedEOF)
	}
	return &Reader{stream: r, tracks: tracks}, nil
}

func (r *Reader) TrackCount() int { return len(r.tracks) }

func (r *Reader) TrackByIndex(index int) (av.Track, error) {
	if index < 0 || index >= len(r.tracks) {
		return nil, av.NewError(av.ErrSemantic, "mp4.Reader.TrackByIndex", av.ErrOutOfRange)
	}
	return &Track{reader: r, info: r.tracks[index]}, nil
}

func (r *Reader) TrackByNumber(number int64) (av.Track, error) {
	for _, t := range r.tracks {
		if t.number == number {
			return &Track{reader: r, info: t}, nil
		}
	}
	return nil, av.NewError(av.ErrSemantic, "mp4.Reader.TrackByNumber", av.ErrOutOfRange)
}

// Track is the av.Track/av.VideoTrack/av.AudioTrack implementation;
// which specialized view Type() returns depends on info.isVideo/isAudio.
type Track struct {
	reader *Reader
	info   trackInfo
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

func (t *Track) ClusterCount() (int, bool) { return len(t.info.samples), true }

func (t *Track) Codec() (av.FourCC, bool) {
	var zero av.FourCC
	if t.info.codec == zero {
		return av.FourCC{}, false
	}
	return t.info.codec, true
}

func (t *Track) Cluster(index int) (av.Cluster, error) {
	if index < 0 || index >= len(t.info.samples) {
		return nil, av.NewError(av.ErrSemantic, "mp4.Track.Cluster", av.ErrOutOfRange)
	}
	return &sampleCluster{track: t, index: index}, nil
}

func (t *Track) Width() uint16  { return t.info.width }
func (t *Track) Height() uint16 { return t.info.height }

// FrameRate is derived from the average sample duration in the sample
// table rather than stored directly — ISOBMFF carries per-sample
// durations (stts), not a single nominal rate.
func (t *Track) FrameRate() float64 {
	if t.info.timescale == 0 || len(t.info.samples) == 0 {
		return 0
	}
	var total uint64
	for _, s := range t.info.samples {
		total += uint64(s.duration)
	}
	if total == 0 {
		return 0
	}
	avgTicks := float64(total) / float64(len(t.info.samples))
	return float64(t.info.timescale) / avgTicks
}

// PixelFormat reports the format codec/h264parser's and
// codec/h265parser's software decode path (codec/libavcodec) would
// produce: planar 4:2:0 YUV, the conventional output of an H.264/H.265
// software decoder.
func (t *Track) PixelFormat() av.PixelFormat { return av.PixelFormat{Kind: av.I420} }

func (t *Track) SamplingRate() float64 { return float64(t.info.sampleRate) }
func (t *Track) Channels() uint16      { return t.info.channels }

func (t *Track) Headers() av.Headers {
	if t.info.headers != nil {
		return t.info.headers
	}
	return av.EmptyHeaders{}
}

// sampleCluster is one sample per cluster, matching format/gif's
// one-frame-per-cluster mapping: ISOBMFF's sample table already gives
// an exact index, so there is no benefit to a coarser grouping.
type sampleCluster struct {
	track *Track
	index int
}

func (c *sampleCluster) FrameCount() int { return 1 }

func (c *sampleCluster) ReadFrame(frameIndex int, trackNumber int64) (av.Frame, error) {
	if frameIndex != 0 {
		return nil, av.NewError(av.ErrSemantic, "mp4.sampleCluster.ReadFrame", av.ErrOutOfRange)
	}
	if trackNumber != c.track.info.number {
		return nil, av.NewError(av.ErrSemantic, "mp4.sampleCluster.ReadFrame", av.ErrOutOfRange)
	}
	sample := c.track.info.samples[c.index]

	var cumulativeTicks int64
	for _, s := range c.track.info.samples[:c.index] {
		cumulativeTicks += int64(s.duration)
	}

	return &Frame{
		reader:      c.track.reader,
		trackNumber: trackNumber,
		offset:      int64(sample.offset),
		size:        int64(sample.size),
		time: av.Timestamp{
			Ticks:          cumulativeTicks,
			TicksPerSecond: float64(c.track.info.timescale),
		},
	}, nil
}

// Frame reads its payload lazily: Len/Read seek the underlying stream
// on demand rather than holding the bytes resident, per av.Frame's
// contract that frames borrow from their container.
type Frame struct {
	reader      *Reader
	trackNumber int64
	offset      int64
	size        int64
	time        av.Timestamp
}

func (f *Frame) Len() int64 { return f.size }

func (f *Frame) Read(buffer []byte) error {
	if _, err := f.reader.stream.Seek(f.offset, io.SeekStart); err != nil {
		return av.NewError(av.ErrStructural, "mp4.Frame.Read", err)
	}
	if _, err := io.ReadFull(f.reader.stream, buffer[:f.size]); err != nil {
		return av.NewError(av.ErrStructural, "mp4.Frame.Read", err)
	}
	return nil
}

func (f *Frame) TrackNumber() int64 { return f.trackNumber }
func (f *Frame) Time() av.Timestamp { return f.time }

// RenderingOffset is always zero: the sample table this reader builds
// does not yet track the composition-time-to-sample box (ctts), which
// is what would carry a nonzero decode/display delta for B-frames.
func (f *Frame) RenderingOffset() int64 { return 0 }

func init() {
	av.RegisterContainer(av.ContainerEntry{
		MIMETypes: []string{"video/mp4", "audio/mp4", "video/quicktime", "audio/quicktime"},
		New:       NewReader,
	})
}
