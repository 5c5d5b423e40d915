package av

import "sync"

// VideoDecoderEntry is one row of the process-wide video-decoder
// table described in §3/§4.1: a FourCC paired with a constructor.
type VideoDecoderEntry struct {
	ID  FourCC
	New VideoDecoderConstructor
}

// AudioDecoderEntry is the audio-decoder table's row. The constructor
// returns the probe-phase AudioDecoderInfo, not a decoder directly.
type AudioDecoderEntry struct {
	ID  FourCC
	New AudioDecoderInfoConstructor
}

// ContainerEntry is one row of the MIME->container-reader table.
type ContainerEntry struct {
	MIMETypes []string
	New       func(r StreamReader) (ContainerReader, error)
}

var (
	registryMu        sync.Mutex
	videoDecoders     []VideoDecoderEntry
	audioDecoders     []AudioDecoderEntry
	containerReaders  []ContainerEntry
)

// RegisterVideoDecoder adds an entry to the process-wide video decoder
// table. Intended to be called from adapter package init functions.
func RegisterVideoDecoder(entry VideoDecoderEntry) {
	registryMu.Lock()
	defer registryMu.Unlock()
	videoDecoders = append(videoDecoders, entry)
}

// RegisterAudioDecoder adds an entry to the process-wide audio decoder
// table.
func RegisterAudioDecoder(entry AudioDecoderEntry) {
	registryMu.Lock()
	defer registryMu.Unlock()
	audioDecoders = append(audioDecoders, entry)
}

// RegisterContainer adds an entry to the process-wide MIME->container
// table.
func RegisterContainer(entry ContainerEntry) {
	registryMu.Lock()
	defer registryMu.Unlock()
	containerReaders = append(containerReaders, entry)
}

// GetVideoDecoder performs the linear lookup by FourCC described in
// §4.1, against the unfiltered global table.
func GetVideoDecoder(id FourCC) (VideoDecoderEntry, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, d := range videoDecoders {
		if d.ID == id {
			return d, nil
		}
	}
	return VideoDecoderEntry{}, NewError(ErrStructural, "av.GetVideoDecoder", ErrNoSuchDecoder)
}

// GetAudioDecoder performs the linear lookup by FourCC against the
// unfiltered global table.
func GetAudioDecoder(id FourCC) (AudioDecoderEntry, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, d := range audioDecoders {
		if d.ID == id {
			return d, nil
		}
	}
	return AudioDecoderEntry{}, NewError(ErrStructural, "av.GetAudioDecoder", ErrNoSuchDecoder)
}

// GetContainer performs the linear MIME-string-match lookup against
// the unfiltered global table.
func GetContainer(mime string) (ContainerEntry, error) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, c := range containerReaders {
		for _, m := range c.MIMETypes {
			if m == mime {
				return c, nil
			}
		}
	}
	return ContainerEntry{}, NewError(ErrStructural, "av.GetContainer", ErrNoSuchContainer)
}

// Registry is a filtered view of the global tables, built from a
// Config's DisabledCodecs/DisabledContainers. This is the
// "construction-time filter" DESIGN NOTES §9 calls for in place of a
// conditional-compilation explosion: a host excludes adapters by
// configuration, not by rebuilding.
type Registry struct {
	video      []VideoDecoderEntry
	audio      []AudioDecoderEntry
	containers []ContainerEntry
}

// NewRegistry snapshots the current global tables and removes any
// entry the config disables.
func NewRegistry(cfg Config) *Registry {
	registryMu.Lock()
	defer registryMu.Unlock()

	r := &Registry{}
	for _, d := range videoDecoders {
		if !fourCCDisabled(d.ID, cfg.DisabledCodecs) {
			r.video = append(r.video, d)
		}
	}
	for _, d := range audioDecoders {
		if !fourCCDisabled(d.ID, cfg.DisabledCodecs) {
			r.audio = append(r.audio, d)
		}
	}
	for _, c := range containerReaders {
		if !mimeDisabled(c.MIMETypes, cfg.DisabledContainers) {
			r.containers = append(r.containers, c)
		}
	}
	return r
}

func fourCCDisabled(id FourCC, disabled []FourCC) bool {
	for _, d := range disabled {
		if d == id {
			return true
		}
	}
	return false
}

func mimeDisabled(mimes []string, disabled []string) bool {
	for _, m := range mimes {
		for _, d := range disabled {
			if m == d {
				return true
			}
		}
	}
	return false
}

func (r *Registry) GetVideoDecoder(id FourCC) (VideoDecoderEntry, error) {
	for _, d := range r.video {
		if d.ID == id {
			return d, nil
		}
	}
	return VideoDecoderEntry{}, NewError(ErrStructural, "Registry.GetVideoDecoder", ErrNoSuchDecoder)
}

func (r *Registry) GetAudioDecoder(id FourCC) (AudioDecoderEntry, error) {
	for _, d := range r.audio {
		if d.ID == id {
			return d, nil
		}
	}
	return AudioDecoderEntry{}, NewError(ErrStructural, "Registry.GetAudioDecoder", ErrNoSuchDecoder)
}

func (r *Registry) GetContainer(mime string) (ContainerEntry, error) {
	for _, c := range r.containers {
		for _, m := range c.MIMETypes {
			if m == mime {
				return c, nil
			}
		}
	}
	return ContainerEntry{}, NewError(ErrStructural, "Registry.GetContainer", ErrNoSuchContainer)
}
