package gif

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/playvdk/vdk/av"
)

// gifBuilder assembles a minimal, hand-encoded GIF89a stream for
// end-to-end tests, exercising the same block grammar block.go and
// container.go parse.
type gifBuilder struct {
	buf bytes.Buffer
}

func newGIFBuilder(width, height int, globalPalette []av.RgbColor) *gifBuilder {
	b := &gifBuilder{}
	b.buf.WriteString("GIF89a")
	var screen [7]byte
	binary.LittleEndian.PutUint16(screen[0:2], uint16(width))
	binary.LittleEndian.PutUint16(screen[2:4], uint16(height))
	screen[4] = 0x80 | byte(sizeFlag(len(globalPalette)))
	b.buf.Write(screen[:])
	writePalette(&b.buf, globalPalette)
	return b
}

func sizeFlag(n int) int {
	size := 0
	for (1 << (size + 1)) < n {
		size++
	}
	return size
}

func writePalette(buf *bytes.Buffer, palette []av.RgbColor) {
	for _, c := range palette {
		buf.WriteByte(c.R)
		buf.WriteByte(c.G)
		buf.WriteByte(c.B)
	}
	// A color table always holds 2^(size+1) entries; pad the unused ones.
	for i := len(palette); i < 1<<(sizeFlag(len(palette))+1); i++ {
		buf.Write([]byte{0, 0, 0})
	}
}

func writeSubBlocks(buf *bytes.Buffer, payload []byte) {
	for len(payload) > 0 {
		n := len(payload)
		if n > 255 {
			n = 255
		}
		buf.WriteByte(byte(n))
		buf.Write(payload[:n])
		payload = payload[n:]
	}
	buf.WriteByte(0)
}

func (b *gifBuilder) graphicsControl(disposal disposalMethod, hasTransparent bool, transparentIndex byte, delayTicks uint16) {
	b.buf.WriteByte(introducerExtension)
	b.buf.WriteByte(labelGraphicsControl)
	var payload [4]byte
	packed := byte(disposal) << 2
	if hasTransparent {
		packed |= 0x01
	}
	payload[0] = packed
	binary.LittleEndian.PutUint16(payload[1:3], delayTicks)
	payload[3] = transparentIndex
	writeSubBlocks(&b.buf, payload[:])
}

func (b *gifBuilder) image(x, y, width, height int, localPalette []av.RgbColor, indices []byte, minCodeSize int) {
	b.buf.WriteByte(introducerImage)
	var desc [9]byte
	binary.LittleEndian.PutUint16(desc[0:2], uint16(x))
	binary.LittleEndian.PutUint16(desc[2:4], uint16(y))
	binary.LittleEndian.PutUint16(desc[4:6], uint16(width))
	binary.LittleEndian.PutUint16(desc[6:8], uint16(height))
	if localPalette != nil {
		desc[8] = 0x80 | byte(sizeFlag(len(localPalette)))
	}
	b.buf.Write(desc[:])
	if localPalette != nil {
		writePalette(&b.buf, localPalette)
	}
	b.buf.WriteByte(byte(minCodeSize))
	encoded := encodeLZW(indices, minCodeSize)
	writeSubBlocks(&b.buf, encoded)
}

func (b *gifBuilder) trailer() []byte {
	b.buf.WriteByte(introducerTrailer)
	return b.buf.Bytes()
}

func newStreamReader(data []byte) av.StreamReader {
	return &av.FileStreamReader{ReadSeeker: bytes.NewReader(data), Size: int64(len(data))}
}

// TestThreeFrameGIFPlaysBackInOrder corresponds to end-to-end scenario
// 1: a minimal multi-frame GIF decodes to the right number of frames,
// in order, with cumulative presentation times.
func TestThreeFrameGIFPlaysBackInOrder(t *testing.T) {
	palette := []av.RgbColor{{R: 255}, {G: 255}, {B: 255}}
	b := newGIFBuilder(2, 2, palette)
	b.graphicsControl(disposalDoNot, false, 0, 10)
	b.image(0, 0, 2, 2, nil, []byte{0, 0, 0, 0}, 2)
	b.graphicsControl(disposalDoNot, false, 0, 20)
	b.image(0, 0, 2, 2, nil, []byte{1, 1, 1, 1}, 2)
	b.graphicsControl(disposalDoNot, false, 0, 30)
	b.image(0, 0, 2, 2, nil, []byte{2, 2, 2, 2}, 2)
	data := b.trailer()

	cr, err := NewReader(newStreamReader(data))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if cr.TrackCount() != 1 {
		t.Fatalf("expected 1 track, got %d", cr.TrackCount())
	}
	track, err := cr.TrackByIndex(0)
	if err != nil {
		t.Fatalf("TrackByIndex: %v", err)
	}
	count, ok := track.ClusterCount()
	if !ok || count != 3 {
		t.Fatalf("expected 3 clusters, got %d (ok=%v)", count, ok)
	}

	dec, err := NewDecoder(av.EmptyHeaders{}, 2, 2)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}

	expectedTimes := []int64{0, 10, 30}
	expectedColor := [][3]byte{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	for i := 0; i < count; i++ {
		cluster, err := track.Cluster(i)
		if err != nil {
			t.Fatalf("Cluster(%d): %v", i, err)
		}
		frame, err := cluster.ReadFrame(0, 0)
		if err != nil {
			t.Fatalf("ReadFrame(%d): %v", i, err)
		}
		if frame.Time().Ticks != expectedTimes[i] {
			t.Fatalf("frame %d time = %d, want %d", i, frame.Time().Ticks, expectedTimes[i])
		}
		buf := make([]byte, frame.Len())
		if err := frame.Read(buf); err != nil {
			t.Fatalf("Frame.Read(%d): %v", i, err)
		}
		decoded, err := dec.DecodeFrame(buf, frame.Time())
		if err != nil {
			t.Fatalf("DecodeFrame(%d): %v", i, err)
		}
		lock := decoded.Lock()
		pixels := lock.Pixels(0)
		want := expectedColor[i]
		if pixels[0] != want[0] || pixels[1] != want[1] || pixels[2] != want[2] {
			t.Fatalf("frame %d pixel = %v, want %v", i, pixels[0:3], want)
		}
		lock.Unlock()
	}

	if _, err := cluster4(track, count); err == nil {
		t.Fatal("expected out-of-range error past the last cluster")
	}
}

func cluster4(track av.Track, count int) (av.Cluster, error) {
	return track.Cluster(count)
}

// TestBackgroundDisposalClearsBetweenFrames corresponds to end-to-end
// scenario 2.
func TestBackgroundDisposalClearsBetweenFrames(t *testing.T) {
	palette := []av.RgbColor{{R: 200, G: 200, B: 200}}
	b := newGIFBuilder(2, 2, palette)
	b.graphicsControl(disposalBackground, false, 0, 5)
	b.image(0, 0, 2, 2, nil, []byte{0, 0, 0, 0}, 2)
	b.graphicsControl(disposalDoNot, false, 0, 5)
	b.image(0, 0, 1, 1, nil, []byte{0}, 2) // second frame only paints one pixel
	data := b.trailer()

	cr, err := NewReader(newStreamReader(data))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	track, _ := cr.TrackByIndex(0)
	dec, _ := NewDecoder(av.EmptyHeaders{}, 2, 2)

	for i := 0; i < 2; i++ {
		cluster, _ := track.Cluster(i)
		frame, _ := cluster.ReadFrame(0, 0)
		buf := make([]byte, frame.Len())
		_ = frame.Read(buf)
		if _, err := dec.DecodeFrame(buf, frame.Time()); err != nil {
			t.Fatalf("DecodeFrame(%d): %v", i, err)
		}
	}

	// After frame 1 (BACKGROUND disposal) clears the canvas and frame 2
	// only repaints pixel (0,0), pixel (1,1) must be back to transparent
	// black rather than carrying frame 1's gray.
	gifDec := dec.(*Decoder)
	pixels := gifDec.comp.current.pixels
	off := (1*2 + 1) * 4
	if pixels[off] != 0 || pixels[off+3] != 0 {
		t.Fatalf("expected pixel (1,1) cleared by BACKGROUND disposal, got %v", pixels[off:off+4])
	}
}
