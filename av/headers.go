package av

// Headers is the capability-based accessor described in §3: a codec
// pulls only the capability it understands out of whatever headers the
// container handed it. An empty Headers implementation is valid for
// self-describing codecs (e.g. GIF).
type Headers interface {
	VorbisHeaders() [][]byte
	AACHeaders() []byte
	H264SeqHeaders() [][]byte
	H264PictHeaders() [][]byte
}

// EmptyHeaders answers every capability with "absent". It is the
// placeholder a codec that needs no headers (GIF, most PCM formats)
// can pass around.
type EmptyHeaders struct{}

func (EmptyHeaders) VorbisHeaders() [][]byte    { return nil }
func (EmptyHeaders) AACHeaders() []byte         { return nil }
func (EmptyHeaders) H264SeqHeaders() [][]byte   { return nil }
func (EmptyHeaders) H264PictHeaders() [][]byte  { return nil }
