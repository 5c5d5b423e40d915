package gif

import (
	"encoding/binary"
	"io"
)

// Block introducers and extension labels, per §4.3.
const (
	introducerExtension    = 0x21
	introducerImage        = 0x2C
	introducerTrailer      = 0x3B
	labelGraphicsControl   = 0xF9
	labelComment           = 0xFE
	labelPlainText         = 0x01
	labelApplication       = 0xFF
)

// disposalMethod mirrors the three-bit disposal field of the graphics
// control extension.
type disposalMethod byte

const (
	disposalUnspecified disposalMethod = 0
	disposalDoNot       disposalMethod = 1
	disposalBackground  disposalMethod = 2
	disposalPrevious    disposalMethod = 3
)

// graphicsControl carries the state of the most recently parsed
// graphics control extension, applied to the next image block.
type graphicsControl struct {
	disposal         disposalMethod
	hasTransparent   bool
	transparentIndex byte
	delayTicks       uint16 // 1/100 second units
}

// imageDescriptor is the 9-byte header following the 0x2C introducer.
type imageDescriptor struct {
	x, y, width, height uint16
	packed              byte
}

func (d imageDescriptor) hasLocalColorTable() bool { return d.packed&0x80 != 0 }
func (d imageDescriptor) interlaced() bool         { return d.packed&0x40 != 0 }
func (d imageDescriptor) localColorTableSize() int { return int(d.packed & 0x07) }

func readImageDescriptor(r io.Reader) (imageDescriptor, error) {
	var raw [9]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return imageDescriptor{}, err
	}
	return imageDescriptor{
		x:      binary.LittleEndian.Uint16(raw[0:2]),
		y:      binary.LittleEndian.Uint16(raw[2:4]),
		width:  binary.LittleEndian.Uint16(raw[4:6]),
		height: binary.LittleEndian.Uint16(raw[6:8]),
		packed: raw[8],
	}, nil
}

// readSubBlocks concatenates a GIF sub-block chain: a sequence of
// length-prefixed byte runs terminated by a zero-length block.
func readSubBlocks(r io.Reader) ([]byte, error) {
	var out []byte
	var sizeBuf [1]byte
	for {
		if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
			return nil, err
		}
		n := int(sizeBuf[0])
		if n == 0 {
			return out, nil
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		out = append(out, buf...)
	}
}

func skipSubBlocks(r io.Reader) error {
	_, err := readSubBlocks(r)
	return err
}

func readGraphicsControl(r io.Reader) (graphicsControl, error) {
	payload, err := readSubBlocks(r)
	if err != nil {
		return graphicsControl{}, err
	}
	if len(payload) < 4 {
		return graphicsControl{}, io.ErrUnexpectedEOF
	}
	packed := payload[0]
	return graphicsControl{
		disposal:         disposalMethod((packed >> 2) & 0x07),
		hasTransparent:   packed&0x01 != 0,
		transparentIndex: payload[3],
		delayTicks:       binary.LittleEndian.Uint16(payload[1:3]),
	}, nil
}

// applicationExtension reports the NETSCAPE2.0 loop count when present;
// ok is false for any other application extension, whose sub-blocks
// are still consumed and discarded here.
func applicationExtension(r io.Reader) (loopCount uint16, ok bool, err error) {
	var idBuf [1]byte
	if _, err = io.ReadFull(r, idBuf[:]); err != nil {
		return 0, false, err
	}
	idLen := int(idBuf[0])
	identifier := make([]byte, idLen)
	if _, err = io.ReadFull(r, identifier); err != nil {
		return 0, false, err
	}
	rest, err := readSubBlocks(r)
	if err != nil {
		return 0, false, err
	}
	if string(identifier) == "NETSCAPE2.0" && len(rest) >= 3 && rest[0] == 1 {
		return binary.LittleEndian.Uint16(rest[1:3]), true, nil
	}
	return 0, false, nil
}

// skipPlainText discards a plain-text extension: its fixed-size text
// grid parameters and subsequent text are both carried as ordinary
// sub-blocks, so the generic chain reader handles the whole thing.
func skipPlainText(r io.Reader) error {
	return skipSubBlocks(r)
}
