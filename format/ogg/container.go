// Package ogg is the av.ContainerReader for Ogg-Vorbis audio, built on
// jfreymuth/oggvorbis.Reader, the only Vorbis library with a confirmed
// real call site anywhere in the retrieved corpus (see
// other_examples/7976deb2_olivier-w-climp__internal-player-decoder.go.go's
// oggDecoder). oggvorbis.Reader decodes straight to interleaved
// float32 PCM and never exposes the raw identification/comment/setup
// header packets, so — like format/gif's container+codec split — the
// container does the actual decode work eagerly on open and hands
// codec/vorbisparser's decoder only its own wire format (channel
// count, per-channel sample count, interleaved float32 samples) to
// unpack; codec/vorbisparser never touches jfreymuth/oggvorbis or
// jfreymuth/vorbis directly (see DESIGN.md).
package ogg

import (
	"encoding/binary"
	"math"

	"github.com/jfreymuth/oggvorbis"

	"github.com/playvdk/vdk/av"
)

// samplesPerCluster bounds how many interleaved sample frames each
// Frame carries; it keeps individual frames small enough for a
// scheduler to pace playback against without forcing the whole
// decoded stream into one giant buffer.
const samplesPerCluster = 4096

// Reader holds one fully pre-decoded audio track.
type Reader struct {
	track *Track
}

// NewReader matches av.ContainerEntry.New.
func NewReader(r av.StreamReader) (av.ContainerReader, error) {
	decoder, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, av.NewError(av.ErrStructural, "ogg.NewReader", err)
	}

	channels := decoder.Channels()
	sampleRate := decoder.SampleRate()

	var clusters []cluster
	buf := make([]float32, samplesPerCluster*channels)
	var cumulativeTicks int64
	for {
		n, readErr := decoder.Read(buf)
		if n > 0 {
			frameCount := n / channels
			samples := make([]float32, frameCount*channels)
			copy(samples, buf[:frameCount*channels])
			clusters = append(clusters, cluster{
				samples:    samples,
				channels:   channels,
				frameCount: frameCount,
				time: av.Timestamp{
					Ticks:          cumulativeTicks,
					TicksPerSecond: float64(sampleRate),
				},
			})
			cumulativeTicks += int64(frameCount)
		}
		if readErr != nil {
			break
		}
		if n == 0 {
			break
		}
	}

	track := &Track{
		channels:   uint16(channels),
		sampleRate: sampleRate,
		clusters:   clusters,
	}
	return &Reader{track: track}, nil
}

func (r *Reader) TrackCount() int { return 1 }

func (r *Reader) TrackByIndex(index int) (av.Track, error) {
	if index != 0 {
		return nil, av.NewError(av.ErrSemantic, "ogg.Reader.TrackByIndex", av.ErrOutOfRange)
	}
	return r.track, nil
}

func (r *Reader) TrackByNumber(number int64) (av.Track, error) {
	if number != 0 {
		return nil, av.NewError(av.ErrSemantic, "ogg.Reader.TrackByNumber", av.ErrOutOfRange)
	}
	return r.track, nil
}

// cluster is one pre-decoded chunk of interleaved PCM.
type cluster struct {
	samples    []float32
	channels   int
	frameCount int
	time       av.Timestamp
}

// Track is the single audio track Ogg-Vorbis files carry.
type Track struct {
	channels   uint16
	sampleRate int
	clusters   []cluster
}

func (t *Track) Number() int64 { return 0 }

func (t *Track) Type() (av.TrackType, any) { return av.TrackAudio, t }

func (t *Track) IsVideo() bool { return false }
func (t *Track) IsAudio() bool { return true }

func (t *Track) ClusterCount() (int, bool) { return len(t.clusters), true }

func (t *Track) Codec() (av.FourCC, bool) { return av.FourCCVorb, true }

func (t *Track) Cluster(index int) (av.Cluster, error) {
	if index < 0 || index >= len(t.clusters) {
		return nil, av.NewError(av.ErrSemantic, "ogg.Track.Cluster", av.ErrOutOfRange)
	}
	return clusterView{track: t, cluster: t.clusters[index]}, nil
}

func (t *Track) SamplingRate() float64 { return float64(t.sampleRate) }
func (t *Track) Channels() uint16      { return t.channels }

// Headers is empty: oggvorbis.Reader never exposes the raw
// identification/comment/setup packets, and codec/vorbisparser's
// decode stage does not need them since this container already did
// the decoding.
func (t *Track) Headers() av.Headers { return av.EmptyHeaders{} }

type clusterView struct {
	track   *Track
	cluster cluster
}

func (c clusterView) FrameCount() int { return 1 }

func (c clusterView) ReadFrame(frameIndex int, trackNumber int64) (av.Frame, error) {
	if frameIndex != 0 || trackNumber != 0 {
		return nil, av.NewError(av.ErrSemantic, "ogg.clusterView.ReadFrame", av.ErrOutOfRange)
	}
	return &Frame{cluster: c.cluster}, nil
}

// Frame emits the wire format codec/vorbisparser's decoder unpacks: a
// 2-byte LE channel count, a 4-byte LE per-channel sample count, then
// interleaved little-endian float32 samples.
type Frame struct {
	cluster cluster
}

func (f *Frame) Len() int64 {
	return 6 + int64(f.cluster.channels)*int64(f.cluster.frameCount)*4
}

func (f *Frame) Read(buffer []byte) error {
	binary.LittleEndian.PutUint16(buffer[0:2], uint16(f.cluster.channels))
	binary.LittleEndian.PutUint32(buffer[2:6], uint32(f.cluster.frameCount))
	off := 6
	for _, s := range f.cluster.samples {
		binary.LittleEndian.PutUint32(buffer[off:off+4], math.Float32bits(s))
		off += 4
	}
	return nil
}

func (f *Frame) TrackNumber() int64 { return 0 }

func (f *Frame) Time() av.Timestamp { return f.cluster.time }

func (f *Frame) RenderingOffset() int64 { return 0 }

func init() {
	av.RegisterContainer(av.ContainerEntry{
		MIMETypes: []string{"audio/ogg", "audio/vorbis"},
		New:       NewReader,
	})
}
