package gif

import "github.com/playvdk/vdk/av"

// canvas is an RGBA frame buffer at the logical screen's dimensions.
type canvas struct {
	width, height int
	pixels        []byte // 4 bytes (R,G,B,A) per pixel, row-major
}

func newCanvas(width, height int) *canvas {
	return &canvas{width: width, height: height, pixels: make([]byte, width*height*4)}
}

func (c *canvas) clone() *canvas {
	out := &canvas{width: c.width, height: c.height, pixels: make([]byte, len(c.pixels))}
	copy(out.pixels, c.pixels)
	return out
}

func (c *canvas) clear() {
	for i := range c.pixels {
		c.pixels[i] = 0
	}
}

// compositor tracks the disposal history needed to render each frame,
// per §4.3's frame-disposal rules: UNSPECIFIED and DO_NOT both leave
// the previous frame's pixels in place; BACKGROUND clears to
// transparent; PREVIOUS restores the canvas to how it looked just
// before the previous frame was painted.
type compositor struct {
	current          *canvas
	beforePaint      *canvas
	previousDisposal disposalMethod
	havePrevious     bool
}

func newCompositor(width, height int) *compositor {
	return &compositor{current: newCanvas(width, height)}
}

// beginFrame applies the previous frame's disposal method and returns
// the canvas the caller should paint the current frame onto.
func (c *compositor) beginFrame() *canvas {
	if c.havePrevious {
		switch c.previousDisposal {
		case disposalBackground:
			c.current.clear()
		case disposalPrevious:
			if c.beforePaint != nil {
				c.current = c.beforePaint.clone()
			} else {
				c.current.clear()
			}
		case disposalUnspecified, disposalDoNot:
			// Leave c.current as the previous frame left it.
		}
	}
	// Snapshot before painting, in case the frame about to be painted
	// declares PREVIOUS disposal and a later frame needs this state back.
	c.beforePaint = c.current.clone()
	return c.current
}

// endFrame records the disposal method that governs how the next
// frame's canvas is prepared.
func (c *compositor) endFrame(disposal disposalMethod) {
	c.previousDisposal = disposal
	c.havePrevious = true
}

// paint blits a palette-expanded sub-rectangle of indices onto dst at
// (x, y), honoring the optional transparent index by leaving the
// existing destination pixel untouched.
func paint(dst *canvas, x, y, width, height int, indices []byte, palette av.Palette, hasTransparent bool, transparentIndex byte) {
	for row := 0; row < height; row++ {
		dy := y + row
		if dy < 0 || dy >= dst.height {
			continue
		}
		for col := 0; col < width; col++ {
			dx := x + col
			if dx < 0 || dx >= dst.width {
				continue
			}
			idx := indices[row*width+col]
			if hasTransparent && idx == transparentIndex {
				continue
			}
			var rgb av.RgbColor
			if int(idx) < len(palette) {
				rgb = palette[idx]
			}
			off := (dy*dst.width + dx) * 4
			dst.pixels[off] = rgb.R
			dst.pixels[off+1] = rgb.G
			dst.pixels[off+2] = rgb.B
			dst.pixels[off+3] = 0xFF
		}
	}
}
