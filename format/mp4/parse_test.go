package mp4

import (
	"testing"

	"github.com/abema/go-mp4"
)

func TestBuildSampleTableExpandsRunsAcrossChunks(t *testing.T) {
	// Two chunks, two samples/chunk, constant sample size and duration:
	// the classic case buildSampleTable has to expand stsc's run-length
	// form into one entry per sample, grounded on parseM4A's own table
	// in other_examples/00a61721_llehouerou-go-faad2__m4a.go.go.
	sizes := []uint32{100, 100, 100, 100}
	offsets := []uint64{0, 1000}
	stsc := []mp4.StscEntry{{FirstChunk: 1, SamplesPerChunk: 2}}
	stts := []mp4.SttsEntry{{SampleCount: 4, SampleDelta: 1024}}

	samples := buildSampleTable(sizes, offsets, stsc, stts)
	if len(samples) != 4 {
		t.Fatalf("len(samples) = %d, want 4", len(samples))
	}

	want := []sampleInfo{
		{offset: 0, size: 100, duration: 1024},
		{offset: 100, size: 100, duration: 1024},
		{offset: 1000, size: 100, duration: 1024},
		{offset: 1100, size: 100, duration: 1024},
	}
	for i, s := range samples {
		if s != want[i] {
			t.Fatalf("sample %d = %+v, want %+v", i, s, want[i])
		}
	}
}

func TestBuildSampleTableHandlesChangingSamplesPerChunk(t *testing.T) {
	// stsc entries apply from FirstChunk onward until superseded; chunk 1
	// carries 1 sample, chunks 2+ carry 2.
	sizes := []uint32{10, 20, 20, 20, 20}
	offsets := []uint64{0, 100, 300}
	stsc := []mp4.StscEntry{
		{FirstChunk: 1, SamplesPerChunk: 1},
		{FirstChunk: 2, SamplesPerChunk: 2},
	}
	stts := []mp4.SttsEntry{{SampleCount: 5, SampleDelta: 512}}

	samples := buildSampleTable(sizes, offsets, stsc, stts)
	if len(samples) != 5 {
		t.Fatalf("len(samples) = %d, want 5", len(samples))
	}
	if samples[0].offset != 0 || samples[0].size != 10 {
		t.Fatalf("sample 0 = %+v, want chunk-1's single 10-byte sample at offset 0", samples[0])
	}
	if samples[1].offset != 100 || samples[2].offset != 120 {
		t.Fatalf("chunk 2 samples = %+v, %+v, want offsets 100 and 120", samples[1], samples[2])
	}
}

func TestBuildSampleTableEmptyWithoutSizesOrOffsets(t *testing.T) {
	if samples := buildSampleTable(nil, []uint64{0}, nil, nil); samples != nil {
		t.Fatalf("expected nil with no sample sizes, got %v", samples)
	}
	if samples := buildSampleTable([]uint32{10}, nil, nil, nil); samples != nil {
		t.Fatalf("expected nil with no chunk offsets, got %v", samples)
	}
}

func TestScanStateFinishRequiresTrackTypeAndSamples(t *testing.T) {
	var st scanState
	if _, ok := st.finish(1); ok {
		t.Fatal("finish should reject a track with no handler type classified")
	}

	st.handlerIsAudio = true
	if _, ok := st.finish(1); ok {
		t.Fatal("finish should reject a track with an empty sample table")
	}

	st.sampleSizes = []uint32{10}
	st.chunkOffsets = []uint64{0}
	st.timescale = 48000
	st.sampleRate = 48000
	st.channels = 2
	info, ok := st.finish(1)
	if !ok {
		t.Fatal("finish should accept a classified track with a sample table")
	}
	if info.number != 1 || !info.isAudio || info.isVideo {
		t.Fatalf("unexpected trackInfo: %+v", info)
	}
	if len(info.samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(info.samples))
	}

	st.reset()
	if st.handlerIsAudio || st.timescale != 0 {
		t.Fatal("reset should zero all scanState fields")
	}
}
