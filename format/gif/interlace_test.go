package gif

import (
	"bytes"
	"testing"
)

func TestDeinterlace(t *testing.T) {
	// 8-row image; rows are encoded pass-by-pass in interlace order:
	// pass1 rows 0, pass2 row 4, pass3 rows 2 6, pass4 rows 1 3 5 7.
	width, height := 1, 8
	decoded := []byte{0, 4, 2, 6, 1, 3, 5, 7} // row content == row index, in scan order
	want := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	got := deinterlace(decoded, width, height)
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
