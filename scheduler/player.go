// Package scheduler implements the sync core described in
// original_source/playback.rs's Player: it drives a container reader's
// tracks through their decoders and hands back frames in presentation
// order, learning the video cadence from the stream itself rather than
// trusting a nominal frame rate.
package scheduler

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/playvdk/vdk/av"
	"github.com/playvdk/vdk/internal/obslog"
)

// videoState is playback.rs's VideoPlayerInfo: a decoder, the track it
// reads from, a FIFO of decoded-but-not-yet-presented frames, and the
// read position within the current cluster.
type videoState struct {
	track      av.VideoTrack
	decoder    av.VideoDecoder
	queue      []av.DecodedVideoFrame
	frameIndex int
}

// audioState is playback.rs's AudioPlayerInfo: per-channel accumulated
// PCM for the interval the scheduler is currently covering.
type audioState struct {
	track      av.AudioTrack
	decoder    av.AudioDecoder
	samples    [][]float32
	frameIndex int
}

// DecodedFrame is what Advance hands back: the next video frame to
// present, if any, and the audio samples (per channel) covering the
// interval up to it.
type DecodedFrame struct {
	Video av.DecodedVideoFrame
	Audio [][]float32
}

// Player is the stateful scheduler, grounded on original_source/playback.rs's
// Player<'a>. One Player owns one container reader and its decoders for
// the lifetime of a playback session; callers must serialize
// DecodeFrame/Advance per §5's single-threaded cooperative model.
type Player struct {
	id     uuid.UUID
	reader av.ContainerReader
	cfg    av.Config

	video *videoState
	audio *audioState

	clusterIndex int

	frameDelay    *int64
	lastFrameTime *av.Timestamp
	nextFrameTime *av.Timestamp

	logger *obslog.Logger
}

// Option configures optional Player behavior not carried by av.Config
// itself.
type Option func(*Player)

// WithLogger attaches a Logger for structural-error, absorbed-decode-
// error, and scheduler-decision logging. A Player with no attached
// logger discards these events silently.
func WithLogger(l *obslog.Logger) Option {
	return func(p *Player) { p.logger = l }
}

// New looks up mimeType in a Config-filtered registry, opens the
// container, and constructs decoders for the first video track and the
// first audio track found, matching playback.rs's
// read_track_metadata_and_initialize_codecs.
func New(stream av.StreamReader, mimeType string, cfg av.Config, opts ...Option) (*Player, error) {
	p := &Player{id: uuid.New(), cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger != nil {
		p.logger = &obslog.Logger{Logger: p.logger.Logger.With("player_id", p.id.String())}
	}

	reg := av.NewRegistry(cfg)
	containerEntry, err := reg.GetContainer(mimeType)
	if err != nil {
		p.logger.StructuralError("scheduler.New", err)
		return nil, av.NewError(av.ErrStructural, "scheduler.New", err)
	}
	reader, err := containerEntry.New(stream)
	if err != nil {
		p.logger.StructuralError("scheduler.New", err)
		return nil, err
	}
	p.reader = reader

	for i := 0; i < reader.TrackCount() && (p.video == nil || p.audio == nil); i++ {
		track, err := reader.TrackByIndex(i)
		if err != nil {
			p.logger.StructuralError("scheduler.New", err)
			return nil, av.NewError(av.ErrStructural, "scheduler.New", err)
		}
		typ, view := track.Type()
		switch {
		case typ == av.TrackVideo && p.video == nil:
			vs, err := newVideoState(reg, view.(av.VideoTrack))
			if err != nil {
				p.logger.StructuralError("scheduler.New", err)
				return nil, err
			}
			p.video = vs
		case typ == av.TrackAudio && p.audio == nil:
			as, err := newAudioState(reg, view.(av.AudioTrack))
			if err != nil {
				p.logger.StructuralError("scheduler.New", err)
				return nil, err
			}
			p.audio = as
		}
	}
	if p.video == nil && p.audio == nil {
		return nil, av.NewError(av.ErrStructural, "scheduler.New", fmt.Errorf("scheduler: container exposes no usable video or audio track"))
	}
	return p, nil
}

func newVideoState(reg *av.Registry, track av.VideoTrack) (*videoState, error) {
	fourCC, ok := track.Codec()
	if !ok {
		return nil, av.NewError(av.ErrStructural, "scheduler.New", fmt.Errorf("scheduler: video track %d has no codec", track.Number()))
	}
	entry, err := reg.GetVideoDecoder(fourCC)
	if err != nil {
		return nil, av.NewError(av.ErrStructural, "scheduler.New", err)
	}
	decoder, err := entry.New(track.Headers(), int(track.Width()), int(track.Height()))
	if err != nil {
		return nil, av.NewError(av.ErrDecoder, "scheduler.New", err)
	}
	return &videoState{track: track, decoder: decoder}, nil
}

func newAudioState(reg *av.Registry, track av.AudioTrack) (*audioState, error) {
	fourCC, ok := track.Codec()
	if !ok {
		return nil, av.NewError(av.ErrStructural, "scheduler.New", fmt.Errorf("scheduler: audio track %d has no codec", track.Number()))
	}
	entry, err := reg.GetAudioDecoder(fourCC)
	if err != nil {
		return nil, av.NewError(av.ErrStructural, "scheduler.New", err)
	}
	info, err := entry.New(track.Headers(), track.SamplingRate(), track.Channels())
	if err != nil {
		return nil, av.NewError(av.ErrDecoder, "scheduler.New", err)
	}
	decoder, err := info.CreateDecoder()
	if err != nil {
		return nil, av.NewError(av.ErrDecoder, "scheduler.New", err)
	}
	return &audioState{track: track, decoder: decoder}, nil
}

// ID returns this Player's correlation id, for telling concurrent
// players' log lines apart in a host process that runs more than one.
func (p *Player) ID() uuid.UUID {
	return p.id
}

// VideoTrack returns the track the scheduler is decoding video from, if
// any.
func (p *Player) VideoTrack() (av.VideoTrack, bool) {
	if p.video == nil {
		return nil, false
	}
	return p.video.track, true
}

// AudioTrack returns the track the scheduler is decoding audio from, if
// any.
func (p *Player) AudioTrack() (av.AudioTrack, bool) {
	if p.audio == nil {
		return nil, false
	}
	return p.audio.track, true
}

// LastFramePresentationTime returns the presentation time Advance last
// returned, or false before the first Advance.
func (p *Player) LastFramePresentationTime() (av.Timestamp, bool) {
	if p.lastFrameTime == nil {
		return av.Timestamp{}, false
	}
	return *p.lastFrameTime, true
}

// NextFramePresentationTime returns the presentation time DecodeFrame
// prepared for the following Advance, or false if none is pending.
func (p *Player) NextFramePresentationTime() (av.Timestamp, bool) {
	if p.nextFrameTime == nil {
		return av.Timestamp{}, false
	}
	return *p.nextFrameTime, true
}

// clusterTrack returns the track clusters are fetched from: video when
// present, else audio, matching playback.rs's preference order. A
// cluster fetched from one track can still serve ReadFrame for the
// other track's number, for containers (Matroska) whose clusters
// interleave multiple tracks' frames.
func (p *Player) clusterTrack() av.Track {
	if p.video != nil {
		return p.video.track
	}
	if p.audio != nil {
		return p.audio.track
	}
	return nil
}

// DecodeFrame is the sync core described in spec §4.4: it fills the
// video queue until the next frame due is known and fills the audio
// accumulator with the samples up to that frame's presentation time.
func (p *Player) DecodeFrame() error {
	for {
		track := p.clusterTrack()
		if track == nil {
			return av.NewError(av.ErrSemantic, "scheduler.Player.DecodeFrame", fmt.Errorf("scheduler: no track to schedule from"))
		}
		cluster, err := track.Cluster(p.clusterIndex)
		if err != nil {
			return av.NewError(av.ErrSemantic, "scheduler.Player.DecodeFrame", av.ErrNoMoreClusters)
		}

		if p.video != nil {
			restart, err := p.fillVideoQueue(cluster)
			if err != nil {
				return err
			}
			if restart {
				p.advanceCluster()
				continue
			}
			p.nextFrameTime = p.minQueuedVideoTime()
			if p.nextFrameTime == nil {
				p.advanceCluster()
				continue
			}
		} else {
			p.nextFrameTime = nil
		}

		if err := p.fillAudioQueue(cluster); err != nil {
			return err
		}
		if p.nextFrameTime == nil {
			// No video track, and the audio inner loop never decoded a
			// frame to derive a presentation time from: this cluster is
			// exhausted for audio too.
			p.advanceCluster()
			continue
		}
		return nil
	}
}

func (p *Player) advanceCluster() {
	p.clusterIndex++
	if p.video != nil {
		p.video.frameIndex = 0
	}
	if p.audio != nil {
		p.audio.frameIndex = 0
	}
}

// fillVideoQueue runs the video inner loop. It returns restart=true when
// this cluster is exhausted for the video track and the outer loop
// should move to the next one.
func (p *Player) fillVideoQueue(cluster av.Cluster) (restart bool, err error) {
	for !p.videoQueueSatisfied() {
		frame, readErr := cluster.ReadFrame(p.video.frameIndex, p.video.track.Number())
		if readErr != nil {
			return true, nil
		}
		p.video.frameIndex++

		data := make([]byte, frame.Len())
		if err := frame.Read(data); err != nil {
			return false, av.NewError(av.ErrStructural, "scheduler.Player.fillVideoQueue", err)
		}
		presentationTime := frame.Time().Add(frame.RenderingOffset())
		decoded, decodeErr := p.video.decoder.DecodeFrame(data, presentationTime)
		if decodeErr == nil && decoded != nil {
			p.video.queue = append(p.video.queue, decoded)
		} else if decodeErr != nil {
			p.logger.AbsorbedDecodeError("scheduler.Player.fillVideoQueue", decodeErr)
		}
		// Individual decode failures are absorbed (§7): frameIndex has
		// already advanced, so the loop simply tries the next frame.
		p.pruneVideoQueue()
	}
	return false, nil
}

// videoQueueSatisfied is decode_frame's video inner-loop stop
// condition: frame_delay unknown and the queue non-empty, or some
// queued frame within tolerance of last+frame_delay, or a
// far-future frame signaling a new segment.
func (p *Player) videoQueueSatisfied() bool {
	if len(p.video.queue) == 0 {
		return false
	}
	if p.frameDelay == nil {
		return true
	}
	var lastTicks int64
	if p.lastFrameTime != nil {
		lastTicks = p.lastFrameTime.Ticks
	}
	target := lastTicks + *p.frameDelay
	for _, f := range p.video.queue {
		diff := f.PresentationTime().Ticks - target
		abs := diff
		if abs < 0 {
			abs = -abs
		}
		if abs <= p.cfg.SyncToleranceTicks || diff > p.cfg.FarFutureThresholdTicks {
			return true
		}
	}
	return false
}

// pruneVideoQueue drops frames a decoder re-emitted (B-frame re-sync or
// duplicates) that are no longer ahead of what was last presented.
func (p *Player) pruneVideoQueue() {
	if p.lastFrameTime == nil {
		return
	}
	lastTicks := p.lastFrameTime.Ticks
	kept := p.video.queue[:0]
	for _, f := range p.video.queue {
		if f.PresentationTime().Ticks > lastTicks {
			kept = append(kept, f)
		}
	}
	p.video.queue = kept
}

// minQueuedVideoTime returns the minimum-timestamp frame's presentation
// time in the video queue, or nil if the queue is empty.
func (p *Player) minQueuedVideoTime() *av.Timestamp {
	if len(p.video.queue) == 0 {
		return nil
	}
	min := p.video.queue[0].PresentationTime()
	for _, f := range p.video.queue[1:] {
		if f.PresentationTime().Ticks < min.Ticks {
			min = f.PresentationTime()
		}
	}
	return &min
}

// fillAudioQueue runs the audio inner loop: it re-initializes the
// accumulator and drains frames until the chosen video frame's
// presentation time is covered, or (audio-only) until at least one
// frame has supplied a presentation time of its own.
func (p *Player) fillAudioQueue(cluster av.Cluster) error {
	if p.audio == nil {
		return nil
	}
	channels := int(p.audio.track.Channels())
	p.audio.samples = make([][]float32, channels)

	for {
		frame, readErr := cluster.ReadFrame(p.audio.frameIndex, p.audio.track.Number())
		if readErr != nil {
			return nil
		}
		p.audio.frameIndex++

		data := make([]byte, frame.Len())
		if err := frame.Read(data); err != nil {
			return av.NewError(av.ErrStructural, "scheduler.Player.fillAudioQueue", err)
		}

		if _, decodeErr := p.decodeAudioFrame(data, channels); decodeErr != nil {
			// Decoder rejection of one packet is absorbed; try the next.
			p.logger.AbsorbedDecodeError("scheduler.Player.fillAudioQueue", decodeErr)
			continue
		}

		if p.video != nil {
			if p.nextFrameTime != nil && frame.Time().Duration() >= p.nextFrameTime.Duration() {
				return nil
			}
		} else {
			t := frame.Time()
			p.nextFrameTime = &t
			return nil
		}
	}
}

func (p *Player) decodeAudioFrame(data []byte, channels int) (int, error) {
	if err := p.audio.decoder.Decode(data); err != nil {
		return 0, av.NewError(av.ErrDecoder, "scheduler.Player.decodeAudioFrame", err)
	}
	decoded, err := p.audio.decoder.DecodedSamples()
	if err != nil {
		return 0, av.NewError(av.ErrDecoder, "scheduler.Player.decodeAudioFrame", err)
	}
	sampleCount := 0
	for c := 0; c < channels; c++ {
		s, err := decoded.Samples(c)
		if err != nil {
			return 0, av.NewError(av.ErrDecoder, "scheduler.Player.decodeAudioFrame", err)
		}
		p.audio.samples[c] = append(p.audio.samples[c], s...)
		sampleCount = len(s)
	}
	p.audio.decoder.Acknowledge(sampleCount)
	return sampleCount, nil
}

// Advance is playback.rs's advance(): it learns frame_delay from the
// first transition, commits last_frame_presentation_time, and pops the
// earliest-timestamped queued video frame together with the audio
// accumulated for it.
func (p *Player) Advance() (DecodedFrame, error) {
	if p.nextFrameTime == nil {
		return DecodedFrame{}, av.NewError(av.ErrSemantic, "scheduler.Player.Advance", fmt.Errorf("scheduler: DecodeFrame must succeed before Advance"))
	}
	next := *p.nextFrameTime
	if p.lastFrameTime != nil {
		delay := next.Ticks - p.lastFrameTime.Ticks
		p.frameDelay = &delay
		p.logger.SchedulerDecision("frame_delay learned", "ticks", delay)
	}
	p.lastFrameTime = &next

	var result DecodedFrame
	if p.video != nil && len(p.video.queue) > 0 {
		minIdx := 0
		for i, f := range p.video.queue {
			if f.PresentationTime().Ticks < p.video.queue[minIdx].PresentationTime().Ticks {
				minIdx = i
			}
		}
		result.Video = p.video.queue[minIdx]
		p.video.queue = append(p.video.queue[:minIdx], p.video.queue[minIdx+1:]...)
	}
	if p.audio != nil {
		result.Audio = p.audio.samples
		p.audio.samples = nil
	}
	p.nextFrameTime = nil
	return result, nil
}
