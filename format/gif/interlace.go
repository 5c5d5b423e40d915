package gif

// interlacePasses is the 4-pass row ordering used by interlaced GIF
// images, per §4.3: pass 1 starts at row 0 and steps by 8, pass 2 at
// row 4 stepping by 8, pass 3 at row 2 stepping by 4, pass 4 at row 1
// stepping by 2.
var interlacePasses = [4]struct{ start, step int }{
	{0, 8},
	{4, 8},
	{2, 4},
	{1, 2},
}

// deinterlace reorders rows decoded in interlace-pass order into
// normal top-to-bottom row order. decoded holds width*height bytes
// laid out pass-by-pass, row-major within each pass.
func deinterlace(decoded []byte, width, height int) []byte {
	out := make([]byte, len(decoded))
	srcRow := 0
	for _, pass := range interlacePasses {
		for row := pass.start; row < height; row += pass.step {
			copy(out[row*width:row*width+width], decoded[srcRow*width:srcRow*width+width])
			srcRow++
		}
	}
	return out
}
