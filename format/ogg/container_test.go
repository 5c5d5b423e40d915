package ogg

import (
	"testing"

	"github.com/playvdk/vdk/av"
	"github.com/playvdk/vdk/codec/vorbisparser"
)

// newTestTrack builds a Track directly from pre-decoded clusters,
// bypassing jfreymuth/oggvorbis entirely: NewReader's own job is just
// decoding an Ogg-Vorbis bitstream into these clusters, which is
// exactly the part jfreymuth/oggvorbis is trusted to do correctly (see
// container.go's package doc). What's under test here is everything
// downstream of that: the Track/Frame wire-format encoding and its
// round trip through codec/vorbisparser's decoder.
func newTestTrack(channels int, sampleRate int, frames [][]float32) *Track {
	var clusters []cluster
	var ticks int64
	for _, samples := range frames {
		frameCount := len(samples) / channels
		clusters = append(clusters, cluster{
			samples:    samples,
			channels:   channels,
			frameCount: frameCount,
			time:       av.Timestamp{Ticks: ticks, TicksPerSecond: float64(sampleRate)},
		})
		ticks += int64(frameCount)
	}
	return &Track{channels: uint16(channels), sampleRate: sampleRate, clusters: clusters}
}

func TestTrackClustersCarryCumulativeTime(t *testing.T) {
	track := newTestTrack(2, 48000, [][]float32{
		{0.1, -0.1, 0.2, -0.2}, // 2 frames
		{0.3, -0.3},            // 1 frame
	})

	count, ok := track.ClusterCount()
	if !ok || count != 2 {
		t.Fatalf("ClusterCount = (%d, %v), want (2, true)", count, ok)
	}

	c0, err := track.Cluster(0)
	if err != nil {
		t.Fatalf("Cluster(0): %v", err)
	}
	f0, err := c0.ReadFrame(0, 0)
	if err != nil {
		t.Fatalf("ReadFrame(0): %v", err)
	}
	if f0.Time().Ticks != 0 {
		t.Fatalf("frame 0 time = %d, want 0", f0.Time().Ticks)
	}

	c1, err := track.Cluster(1)
	if err != nil {
		t.Fatalf("Cluster(1): %v", err)
	}
	f1, err := c1.ReadFrame(0, 0)
	if err != nil {
		t.Fatalf("ReadFrame(1): %v", err)
	}
	if f1.Time().Ticks != 2 {
		t.Fatalf("frame 1 time = %d, want 2 (cumulative frame count)", f1.Time().Ticks)
	}

	if _, err := track.Cluster(2); err == nil {
		t.Fatal("expected out-of-range error past the last cluster")
	}
}

// TestFrameWireFormatRoundTripsThroughVorbisparser exercises the exact
// contract this package's doc comment describes: the container encodes
// its decoded PCM into a small wire format, and codec/vorbisparser's
// decoder unpacks it back into per-channel float32 slices.
func TestFrameWireFormatRoundTripsThroughVorbisparser(t *testing.T) {
	channels := 2
	samples := []float32{0.5, -0.25, 0.75, -0.75} // 2 interleaved stereo frames
	track := newTestTrack(channels, 44100, [][]float32{samples})

	c, _ := track.Cluster(0)
	frame, err := c.ReadFrame(0, 0)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}

	buf := make([]byte, frame.Len())
	if err := frame.Read(buf); err != nil {
		t.Fatalf("Frame.Read: %v", err)
	}

	info, err := vorbisparser.NewAudioDecoderInfo(av.EmptyHeaders{}, 44100, uint16(channels))
	if err != nil {
		t.Fatalf("NewAudioDecoderInfo: %v", err)
	}
	dec, err := info.CreateDecoder()
	if err != nil {
		t.Fatalf("CreateDecoder: %v", err)
	}
	if err := dec.Decode(buf); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	decoded, err := dec.DecodedSamples()
	if err != nil {
		t.Fatalf("DecodedSamples: %v", err)
	}

	left, err := decoded.Samples(0)
	if err != nil {
		t.Fatalf("Samples(0): %v", err)
	}
	right, err := decoded.Samples(1)
	if err != nil {
		t.Fatalf("Samples(1): %v", err)
	}
	if len(left) != 2 || left[0] != 0.5 || left[1] != 0.75 {
		t.Fatalf("left channel = %v, want [0.5 0.75]", left)
	}
	if len(right) != 2 || right[0] != -0.25 || right[1] != -0.75 {
		t.Fatalf("right channel = %v, want [-0.25 -0.75]", right)
	}
}

func TestTrackReportsVorbisCodecAndFormat(t *testing.T) {
	track := newTestTrack(1, 22050, nil)
	fourCC, ok := track.Codec()
	if !ok || fourCC != av.FourCCVorb {
		t.Fatalf("Codec() = (%v, %v), want (FourCCVorb, true)", fourCC, ok)
	}
	if track.SamplingRate() != 22050 {
		t.Fatalf("SamplingRate() = %v, want 22050", track.SamplingRate())
	}
	if track.Channels() != 1 {
		t.Fatalf("Channels() = %v, want 1", track.Channels())
	}
	if _, ok := track.Headers().(av.EmptyHeaders); !ok {
		t.Fatalf("Headers() = %T, want av.EmptyHeaders", track.Headers())
	}
}
