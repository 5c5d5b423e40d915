package gif

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/playvdk/vdk/av"
)

// ticksPerSecond is GIF's native delay-time granularity: 1/100 second.
const ticksPerSecond = 100

// frameRecord is one fully-demuxed GIF frame: block parsing and LZW
// decompression have already run: only disposal compositing and
// palette expansion remain, and those belong to the decoder side
// (decoder.go), per §4.3's split of container vs. codec concerns.
type frameRecord struct {
	x, y, width, height int
	disposal            disposalMethod
	hasTransparent       bool
	transparentIndex     byte
	palette              av.Palette
	indices              []byte
	time                 av.Timestamp
}

// Reader is a fully in-memory GIF demuxer: it walks the block stream
// once, decoding every image block's LZW payload eagerly, and retains
// the resulting frame list for the lifetime of the container. This is
// the "acceptable for GIF-sized inputs" back-buffer contract described
// in §4.3; there is no random-access requirement the format needs.
type Reader struct {
	width, height int
	loopCount     uint16
	frames        []frameRecord
}

// NewReader parses an entire GIF stream, per §4.1's
// ContainerReader construction contract.
func NewReader(r av.StreamReader) (av.ContainerReader, error) {
	desc, global, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	reader := &Reader{width: int(desc.width), height: int(desc.height)}
	var pendingGC graphicsControl
	var haveGC bool
	lastTime := av.Timestamp{TicksPerSecond: ticksPerSecond}

	for {
		var introducer [1]byte
		if _, err := io.ReadFull(r, introducer[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
		}

		switch introducer[0] {
		case introducerTrailer:
			return reader, nil

		case introducerExtension:
			var label [1]byte
			if _, err := io.ReadFull(r, label[:]); err != nil {
				return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
			}
			switch label[0] {
			case labelGraphicsControl:
				gc, err := readGraphicsControl(r)
				if err != nil {
					return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
				}
				pendingGC = gc
				haveGC = true
			case labelApplication:
				if loop, ok, err := applicationExtension(r); err != nil {
					return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
				} else if ok {
					reader.loopCount = loop
				}
			case labelComment:
				if err := skipSubBlocks(r); err != nil {
					return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
				}
			case labelPlainText:
				if err := skipPlainText(r); err != nil {
					return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
				}
			default:
				if err := skipSubBlocks(r); err != nil {
					return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
				}
			}

		case introducerImage:
			id, err := readImageDescriptor(r)
			if err != nil {
				return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
			}

			active := global
			if id.hasLocalColorTable() {
				n := 1 << (id.localColorTableSize() + 1)
				active, err = readPalette(r, n)
				if err != nil {
					return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
				}
			}
			if active == nil {
				return nil, av.NewError(av.ErrSemantic, "gif.NewReader", fmt.Errorf("gif: image block has no active color table"))
			}

			var minCodeSize [1]byte
			if _, err := io.ReadFull(r, minCodeSize[:]); err != nil {
				return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
			}
			payload, err := readSubBlocks(r)
			if err != nil {
				return nil, av.NewError(av.ErrStructural, "gif.NewReader", err)
			}

			width, height := int(id.width), int(id.height)
			indices, err := decodeLZW(payload, int(minCodeSize[0]), width*height)
			if err != nil {
				return nil, av.NewError(av.ErrDecoder, "gif.NewReader", err)
			}
			if id.interlaced() {
				indices = deinterlace(indices, width, height)
			}

			fr := frameRecord{
				x: int(id.x), y: int(id.y), width: width, height: height,
				palette: active,
				indices: indices,
				time:    lastTime,
			}
			if haveGC {
				fr.disposal = pendingGC.disposal
				fr.hasTransparent = pendingGC.hasTransparent
				fr.transparentIndex = pendingGC.transparentIndex
				lastTime = lastTime.Add(int64(pendingGC.delayTicks))
			}
			haveGC = false
			pendingGC = graphicsControl{}

			reader.frames = append(reader.frames, fr)

		default:
			return nil, av.NewError(av.ErrStructural, "gif.NewReader", fmt.Errorf("gif: unknown block introducer 0x%02x", introducer[0]))
		}
	}

	return reader, nil
}

func (r *Reader) TrackCount() int { return 1 }

func (r *Reader) TrackByIndex(index int) (av.Track, error) {
	if index != 0 {
		return nil, av.NewError(av.ErrStructural, "gif.Reader.TrackByIndex", av.ErrOutOfRange)
	}
	return &Track{reader: r}, nil
}

func (r *Reader) TrackByNumber(number int64) (av.Track, error) {
	return r.TrackByIndex(int(number))
}

// Track is the single video track a GIF stream exposes.
type Track struct {
	reader *Reader
}

func (t *Track) Number() int64 { return 0 }
func (t *Track) Type() (av.TrackType, any) { return av.TrackVideo, t }
func (t *Track) IsVideo() bool { return true }
func (t *Track) IsAudio() bool { return false }

func (t *Track) ClusterCount() (int, bool) { return len(t.reader.frames), true }

func (t *Track) Codec() (av.FourCC, bool) { return av.FourCCGIF, true }

func (t *Track) Cluster(index int) (av.Cluster, error) {
	if index < 0 || index >= len(t.reader.frames) {
		return nil, av.NewError(av.ErrStructural, "gif.Track.Cluster", av.ErrOutOfRange)
	}
	return &Cluster{reader: t.reader, index: index}, nil
}

func (t *Track) Width() uint16  { return uint16(t.reader.width) }
func (t *Track) Height() uint16 { return uint16(t.reader.height) }
func (t *Track) FrameRate() float64 { return 0 } // variable-delay format; no fixed rate.
func (t *Track) PixelFormat() av.PixelFormat {
	return av.PixelFormat{Kind: av.Rgba32}
}
func (t *Track) Headers() av.Headers { return av.EmptyHeaders{} }

// Cluster maps one GIF cluster to exactly one frame: a GIF stream has
// no independent grouping concept, so the simplest faithful mapping
// is one frame per cluster.
type Cluster struct {
	reader *Reader
	index  int
}

func (c *Cluster) FrameCount() int { return 1 }

func (c *Cluster) ReadFrame(frameIndex int, trackNumber int64) (av.Frame, error) {
	if frameIndex != 0 || trackNumber != 0 {
		return nil, av.NewError(av.ErrStructural, "gif.Cluster.ReadFrame", av.ErrOutOfRange)
	}
	return &Frame{record: &c.reader.frames[c.index]}, nil
}

// Frame serializes a demuxed GIF frame into the wire format the GIF
// decoder adapter consumes (parsed by Decoder.DecodeFrame in decoder.go): an
// 11-byte geometry/disposal header, followed by the §4.3-specified
// 2-byte palette count, 3N RGB triples, and raw index array.
type Frame struct {
	record *frameRecord
}

func (f *Frame) Len() int64 {
	n := len(f.record.palette)
	return 11 + 2 + int64(n*3) + int64(len(f.record.indices))
}

func (f *Frame) Read(buffer []byte) error {
	r := f.record
	if int64(len(buffer)) < f.Len() {
		return av.NewError(av.ErrStructural, "gif.Frame.Read", fmt.Errorf("gif: buffer too small"))
	}
	binary.LittleEndian.PutUint16(buffer[0:2], uint16(r.x))
	binary.LittleEndian.PutUint16(buffer[2:4], uint16(r.y))
	binary.LittleEndian.PutUint16(buffer[4:6], uint16(r.width))
	binary.LittleEndian.PutUint16(buffer[6:8], uint16(r.height))
	buffer[8] = byte(r.disposal)
	if r.hasTransparent {
		buffer[9] = 1
	} else {
		buffer[9] = 0
	}
	buffer[10] = r.transparentIndex
	binary.LittleEndian.PutUint16(buffer[11:13], uint16(len(r.palette)))
	off := 13
	for _, c := range r.palette {
		buffer[off] = c.R
		buffer[off+1] = c.G
		buffer[off+2] = c.B
		off += 3
	}
	copy(buffer[off:], r.indices)
	return nil
}

func (f *Frame) TrackNumber() int64       { return 0 }
func (f *Frame) Time() av.Timestamp       { return f.record.time }
func (f *Frame) RenderingOffset() int64   { return 0 } // GIF has no B-frames.
