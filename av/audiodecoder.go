package av

// AudioDecoderInfo is the first phase of the two-phase audio decoder
// construction described in §4.1 and DESIGN NOTES §9: it carries the
// negotiated parameters (e.g. AAC's AudioSpecificConfig) without
// allocating OS-owned resources, which CreateDecoder then does.
type AudioDecoderInfo interface {
	CreateDecoder() (AudioDecoder, error)
}

// AudioDecoder decodes compressed audio packets into planar float32
// PCM. Decode/DecodedSamples/Acknowledge form one cycle per packet: the
// scheduler decodes, reads out the samples it produced, then
// acknowledges consumption before decoding the next packet.
type AudioDecoder interface {
	Decode(data []byte) error
	DecodedSamples() (DecodedAudioSamples, error)
	Acknowledge(sampleCount int)
}

// DecodedAudioSamples exposes one channel's worth of planar PCM at a
// time; its lifetime is bound to the decoder that produced it.
type DecodedAudioSamples interface {
	Samples(channel int) ([]float32, error)
}

// AudioDecoderInfoConstructor builds the probe-phase AudioDecoderInfo
// from headers, sample rate, and channel count.
type AudioDecoderInfoConstructor func(headers Headers, sampleRate float64, channels uint16) (AudioDecoderInfo, error)
