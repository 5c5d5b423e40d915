package mkv

import (
	"bytes"
	"testing"

	"github.com/playvdk/vdk/av"
)

// ebmlBuilder assembles a minimal, hand-encoded EBML stream exercising
// the exact element-ID/vint grammar readElementID/readVint parse.
type ebmlBuilder struct {
	buf bytes.Buffer
}

// encodeVint encodes value as an EBML size varint of the given byte
// width, matching readVint's marker/shift scheme exactly: a single
// marker bit (0x80>>(width-1)) followed by 7*width bits of big-endian
// value data.
func encodeVint(value uint64, width int) []byte {
	buf := make([]byte, width)
	marker := byte(0x80) >> (width - 1)
	avail := uint(8 - width)
	buf[0] = marker | byte((value>>(uint(width-1)*8))&((1<<avail)-1))
	for i := 1; i < width; i++ {
		shift := uint(width-1-i) * 8
		buf[i] = byte(value >> shift)
	}
	return buf
}

func (b *ebmlBuilder) writeID4(id [4]byte) { b.buf.Write(id[:]) }
func (b *ebmlBuilder) writeID1(id byte)    { b.buf.WriteByte(id) }
func (b *ebmlBuilder) writeSize(value uint64, width int) {
	b.buf.Write(encodeVint(value, width))
}
// writeUint1 writes an EBML unsigned-integer element using the
// smallest big-endian byte length that fits value (1, 2, 4 or 8
// bytes), matching readUint's accumulate-by-shift decoding.
func (b *ebmlBuilder) writeUint1(id byte, value uint64) {
	n := 1
	for n < 8 && value>>(uint(n)*8) != 0 {
		n *= 2
	}
	b.writeID1(id)
	b.writeSize(uint64(n), 1)
	for i := n - 1; i >= 0; i-- {
		b.buf.WriteByte(byte(value >> (uint(i) * 8)))
	}
}
func (b *ebmlBuilder) writeString(id byte, s string) {
	b.writeID1(id)
	b.writeSize(uint64(len(s)), 1)
	b.buf.WriteString(s)
}

// buildVideoTrack assembles one TrackEntry for a VP8 video track with
// the given track number, width and height.
func buildVideoTrack(number int64, width, height uint16) []byte {
	var inner ebmlBuilder
	inner.writeUint1(idTrackNum, uint64(number))
	inner.writeUint1(idTrackType, trackTypeVideo)
	inner.writeString(idCodecID, "V_VP8")

	var video ebmlBuilder
	video.writeUint1(idPixelW, uint64(width))
	video.writeUint1(idPixelH, uint64(height))
	inner.writeID1(idVideo)
	inner.writeSize(uint64(video.buf.Len()), 1)
	inner.buf.Write(video.buf.Bytes())

	var entry ebmlBuilder
	entry.writeID1(idTrackEntry)
	entry.writeSize(uint64(inner.buf.Len()), 1)
	entry.buf.Write(inner.buf.Bytes())
	return entry.buf.Bytes()
}

// buildAudioTrack assembles one TrackEntry for a Vorbis audio track.
func buildAudioTrack(number int64, channels uint16) []byte {
	var inner ebmlBuilder
	inner.writeUint1(idTrackNum, uint64(number))
	inner.writeUint1(idTrackType, trackTypeAudio)
	inner.writeString(idCodecID, "A_VORBIS")

	var audio ebmlBuilder
	audio.writeUint1(idChannels, uint64(channels))
	inner.writeID1(idAudio)
	inner.writeSize(uint64(audio.buf.Len()), 1)
	inner.buf.Write(audio.buf.Bytes())

	var entry ebmlBuilder
	entry.writeID1(idTrackEntry)
	entry.writeSize(uint64(inner.buf.Len()), 1)
	entry.buf.Write(inner.buf.Bytes())
	return entry.buf.Bytes()
}

// buildStream assembles a full EBML-header + Segment + Tracks stream
// from already-built TrackEntry byte slices.
func buildStream(trackEntries ...[]byte) []byte {
	var b ebmlBuilder
	b.writeID4(idEBML)
	b.writeSize(4, 1)
	b.buf.Write([]byte{0, 0, 0, 0}) // placeholder EBML header payload, skipped on read

	var tracks ebmlBuilder
	tracks.writeID4(idTracks)
	var entriesLen uint64
	for _, e := range trackEntries {
		entriesLen += uint64(len(e))
	}
	tracks.writeSize(entriesLen, 2)
	for _, e := range trackEntries {
		tracks.buf.Write(e)
	}

	b.writeID4(idSegment)
	b.writeSize(uint64(tracks.buf.Len()), 2)
	b.buf.Write(tracks.buf.Bytes())

	return b.buf.Bytes()
}

func newStreamReader(data []byte) av.StreamReader {
	return &av.FileStreamReader{ReadSeeker: bytes.NewReader(data), Size: int64(len(data))}
}

func TestNewReaderRecognizesVideoAndAudioTracks(t *testing.T) {
	data := buildStream(
		buildVideoTrack(1, 640, 480),
		buildAudioTrack(2, 2),
	)

	cr, err := NewReader(newStreamReader(data))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if cr.TrackCount() != 2 {
		t.Fatalf("TrackCount() = %d, want 2", cr.TrackCount())
	}

	video, err := cr.TrackByNumber(1)
	if err != nil {
		t.Fatalf("TrackByNumber(1): %v", err)
	}
	if typ, _ := video.Type(); typ != av.TrackVideo {
		t.Fatalf("track 1 Type() = %v, want TrackVideo", typ)
	}
	vt := video.(*Track)
	if vt.Width() != 640 || vt.Height() != 480 {
		t.Fatalf("video dims = %dx%d, want 640x480", vt.Width(), vt.Height())
	}
	if fourCC, ok := video.(*Track).Codec(); !ok || fourCC != av.FourCCVP80 {
		t.Fatalf("video Codec() = (%v, %v), want (FourCCVP80, true)", fourCC, ok)
	}

	audio, err := cr.TrackByNumber(2)
	if err != nil {
		t.Fatalf("TrackByNumber(2): %v", err)
	}
	if typ, _ := audio.Type(); typ != av.TrackAudio {
		t.Fatalf("track 2 Type() = %v, want TrackAudio", typ)
	}
	at := audio.(*Track)
	if at.Channels() != 2 {
		t.Fatalf("audio Channels() = %d, want 2", at.Channels())
	}
	if fourCC, ok := at.Codec(); !ok || fourCC != av.FourCCVorb {
		t.Fatalf("audio Codec() = (%v, %v), want (FourCCVorb, true)", fourCC, ok)
	}
}

func TestClusterAndReadFrameAreUnsupported(t *testing.T) {
	data := buildStream(buildVideoTrack(1, 320, 240))
	cr, err := NewReader(newStreamReader(data))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	track, err := cr.TrackByIndex(0)
	if err != nil {
		t.Fatalf("TrackByIndex: %v", err)
	}
	if count, ok := track.ClusterCount(); ok || count != 0 {
		t.Fatalf("ClusterCount() = (%d, %v), want (0, false): this stub cannot index clusters", count, ok)
	}
	if _, err := track.Cluster(0); err == nil {
		t.Fatal("expected Cluster to report unsupported, got nil error")
	}
}

func TestNewReaderRejectsNonEBMLStream(t *testing.T) {
	if _, err := NewReader(newStreamReader([]byte("not an ebml stream"))); err == nil {
		t.Fatal("expected an error for a non-EBML stream")
	}
}

func TestTrackByNumberUnknown(t *testing.T) {
	data := buildStream(buildVideoTrack(1, 100, 100))
	cr, _ := NewReader(newStreamReader(data))
	if _, err := cr.TrackByNumber(99); err == nil {
		t.Fatal("expected out-of-range error for an unknown track number")
	}
}
