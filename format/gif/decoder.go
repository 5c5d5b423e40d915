package gif

import (
	"encoding/binary"
	"fmt"

	"github.com/playvdk/vdk/av"
)

// Decoder implements av.VideoDecoder for GIF frames. It is stateful
// across calls: each call's disposal method governs how the *next*
// call's canvas is prepared, per §4.3. A Decoder must therefore only
// ever be fed frames from a single track, in presentation order —
// exactly how the scheduler drives it.
type Decoder struct {
	width, height int
	comp          *compositor
}

// NewDecoder constructs a GIF video decoder, matching the
// av.VideoDecoderConstructor signature the registry calls.
func NewDecoder(headers av.Headers, width, height int) (av.VideoDecoder, error) {
	return &Decoder{width: width, height: height, comp: newCompositor(width, height)}, nil
}

func (d *Decoder) DecodeFrame(data []byte, presentationTime av.Timestamp) (av.DecodedVideoFrame, error) {
	if len(data) < 13 {
		return nil, av.NewError(av.ErrStructural, "gif.Decoder.DecodeFrame", fmt.Errorf("gif: frame buffer too small"))
	}
	x := int(binary.LittleEndian.Uint16(data[0:2]))
	y := int(binary.LittleEndian.Uint16(data[2:4]))
	width := int(binary.LittleEndian.Uint16(data[4:6]))
	height := int(binary.LittleEndian.Uint16(data[6:8]))
	disposal := disposalMethod(data[8])
	hasTransparent := data[9] != 0
	transparentIndex := data[10]
	paletteCount := int(binary.LittleEndian.Uint16(data[11:13]))

	off := 13
	paletteBytes := paletteCount * 3
	if len(data) < off+paletteBytes+width*height {
		return nil, av.NewError(av.ErrStructural, "gif.Decoder.DecodeFrame", fmt.Errorf("gif: frame buffer truncated"))
	}
	palette := make(av.Palette, paletteCount)
	for i := 0; i < paletteCount; i++ {
		p := off + i*3
		palette[i] = av.RgbColor{R: data[p], G: data[p+1], B: data[p+2]}
	}
	off += paletteBytes
	indices := data[off : off+width*height]

	canvas := d.comp.beginFrame()
	paint(canvas, x, y, width, height, indices, palette, hasTransparent, transparentIndex)
	d.comp.endFrame(disposal)

	// The compositor keeps painting c.current in place across calls (the
	// common UNSPECIFIED/DO_NOT disposal path), so a queued-ahead frame
	// must get its own copy rather than aliasing the canvas the next
	// DecodeFrame call will mutate.
	return &decodedFrame{
		width: uint32(d.width), height: uint32(d.height),
		canvas: canvas.clone(), presentationTime: presentationTime,
	}, nil
}

type decodedFrame struct {
	width, height    uint32
	canvas           *canvas
	presentationTime av.Timestamp
}

func (f *decodedFrame) Width() uint32  { return f.width }
func (f *decodedFrame) Height() uint32 { return f.height }
func (f *decodedFrame) Stride(plane int) int {
	if plane != 0 {
		return 0
	}
	return int(f.width) * 4
}
func (f *decodedFrame) PixelFormat() av.PixelFormat { return av.PixelFormat{Kind: av.Rgba32} }
func (f *decodedFrame) PresentationTime() av.Timestamp { return f.presentationTime }
func (f *decodedFrame) Lock() av.DecodedVideoFrameLock { return frameLock{f} }

type frameLock struct{ f *decodedFrame }

func (l frameLock) Pixels(plane int) []byte {
	if plane != 0 {
		return nil
	}
	return l.f.canvas.pixels
}
func (l frameLock) Unlock() {}
