package av

import "fmt"

// ConvertPixelFormat converts pixel data between the formats named in
// §3, operating plane-by-plane on the CPU. It mirrors the conversions
// the original source's pixelformat.rs implements (I420 identity,
// NV12->I420, I420->RGB24, Indexed->RGB24, RGB24 identity); any other
// pairing is rejected rather than silently guessed at.
func ConvertPixelFormat(dst PixelFormat, dstPlanes [][]byte, dstStrides []int,
	src PixelFormat, srcPlanes [][]byte, srcStrides []int,
	width, height int) error {

	switch {
	case src.Kind == I420 && dst.Kind == I420:
		return convertI420ToI420(dstPlanes, dstStrides, srcPlanes, srcStrides, height)
	case src.Kind == NV12 && dst.Kind == I420:
		return convertNV12ToI420(dstPlanes, dstStrides, srcPlanes, srcStrides, width, height)
	case src.Kind == I420 && dst.Kind == Rgb24:
		return convertI420ToRgb24(dstPlanes, dstStrides, srcPlanes, srcStrides, width, height)
	case src.Kind == Indexed && dst.Kind == Rgb24:
		return convertIndexedToRgb24(dstPlanes, dstStrides, srcPlanes, srcStrides, src.Palette, width, height)
	case src.Kind == Rgb24 && dst.Kind == Rgb24:
		return convertRgb24ToRgb24(dstPlanes, dstStrides, srcPlanes, srcStrides, width, height)
	default:
		return fmt.Errorf("av: unsupported pixel format conversion")
	}
}

func convertI420ToI420(dstPlanes [][]byte, dstStrides []int, srcPlanes [][]byte, srcStrides []int, height int) error {
	for plane := 0; plane < 3; plane++ {
		effHeight := height
		if plane != 0 {
			effHeight = height / 2
		}
		minStride := srcStrides[plane]
		if dstStrides[plane] < minStride {
			minStride = dstStrides[plane]
		}
		si, di := 0, 0
		for row := 0; row < effHeight; row++ {
			copy(dstPlanes[plane][di:di+minStride], srcPlanes[plane][si:si+minStride])
			si += srcStrides[plane]
			di += dstStrides[plane]
		}
	}
	return nil
}

func convertNV12ToI420(dstPlanes [][]byte, dstStrides []int, srcPlanes [][]byte, srcStrides []int, width, height int) error {
	si, di := 0, 0
	for row := 0; row < height; row++ {
		copy(dstPlanes[0][di:di+width], srcPlanes[0][si:si+width])
		si += srcStrides[0]
		di += dstStrides[0]
	}

	effHeight := height / 2
	si = 0
	uOff, vOff := 0, 0
	for row := 0; row < effHeight; row++ {
		uvRow := srcPlanes[1][si : si+srcStrides[1]]
		for x := 0; x < width/2; x++ {
			dstPlanes[1][uOff+x] = uvRow[x*2]
			dstPlanes[2][vOff+x] = uvRow[x*2+1]
		}
		si += srcStrides[1]
		uOff += dstStrides[1]
		vOff += dstStrides[2]
	}
	return nil
}

func convertI420ToRgb24(dstPlanes [][]byte, dstStrides []int, srcPlanes [][]byte, srcStrides []int, width, height int) error {
	si, di := 0, 0
	for row := 0; row < height; row++ {
		srcRow := srcPlanes[0][si : si+width]
		dstRow := dstPlanes[0][di : di+dstStrides[0]]
		for x := 0; x < width; x++ {
			y := srcRow[x]
			dstRow[x*3] = y
			dstRow[x*3+1] = y
			dstRow[x*3+2] = y
		}
		si += srcStrides[0]
		di += dstStrides[0]
	}
	return nil
}

func convertIndexedToRgb24(dstPlanes [][]byte, dstStrides []int, srcPlanes [][]byte, srcStrides []int, palette Palette, width, height int) error {
	si, di := 0, 0
	for row := 0; row < height; row++ {
		srcRow := srcPlanes[0][si : si+width]
		dstRow := dstPlanes[0][di : di+dstStrides[0]]
		for x := 0; x < width; x++ {
			c := palette[srcRow[x]]
			dstRow[x*3] = c.R
			dstRow[x*3+1] = c.G
			dstRow[x*3+2] = c.B
		}
		si += srcStrides[0]
		di += dstStrides[0]
	}
	return nil
}

func convertRgb24ToRgb24(dstPlanes [][]byte, dstStrides []int, srcPlanes [][]byte, srcStrides []int, width, height int) error {
	si, di := 0, 0
	for row := 0; row < height; row++ {
		n := width * 3
		copy(dstPlanes[0][di:di+n], srcPlanes[0][si:si+n])
		si += srcStrides[0]
		di += dstStrides[0]
	}
	return nil
}

// PlanarToInterleaved converts planar float32 PCM (one slice per
// channel, equal length) into interleaved (L,R,L,R,...) samples,
// matching audioformat.rs's Float32Planar->Float32Interleaved.
func PlanarToInterleaved(dst []float32, src [][]float32) error {
	if len(src) == 0 {
		return nil
	}
	channels := len(src)
	n := len(src[0])
	for _, ch := range src {
		if len(ch) != n {
			return fmt.Errorf("av: channel length mismatch")
		}
	}
	if len(dst) < n*channels {
		return fmt.Errorf("av: destination buffer too small")
	}
	idx := 0
	for sample := 0; sample < n; sample++ {
		for ch := 0; ch < channels; ch++ {
			dst[idx] = src[ch][sample]
			idx++
		}
	}
	return nil
}
