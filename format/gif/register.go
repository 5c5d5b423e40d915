package gif

import "github.com/playvdk/vdk/av"

func init() {
	av.RegisterContainer(av.ContainerEntry{
		MIMETypes: []string{"image/gif"},
		New:       NewReader,
	})
	av.RegisterVideoDecoder(av.VideoDecoderEntry{
		ID:  av.FourCCGIF,
		New: NewDecoder,
	})
}
