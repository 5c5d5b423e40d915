package h264parser

import "testing"

func TestCreateAVCCChunkFraming(t *testing.T) {
	// A minimal, syntactically-valid baseline-profile SPS/PPS pair is
	// hard to hand-construct without a real encoder, so the record is
	// not fed through NewCodecDataFromAVCDecoderConfRecord (its SPS
	// decode would reject it); this test instead walks, by hand, the
	// same length-prefixed layout that parser walks, using synthetic
	// (non-bitstream-valid) NAL payloads sized to exercise the framing.
	seq := [][]byte{{0x67, 0x42, 0x00, 0x1f, 0xaa, 0xbb}}
	pict := [][]byte{{0x68, 0xce, 0x3c, 0x80}}

	avcc, err := CreateAVCCChunk(seq, pict)
	if err != nil {
		t.Fatalf("CreateAVCCChunk: %v", err)
	}

	if avcc[0] != 0x01 {
		t.Fatalf("expected version byte 0x01, got 0x%02x", avcc[0])
	}
	if avcc[1] != seq[0][1] || avcc[2] != seq[0][2] || avcc[3] != seq[0][3] {
		t.Fatalf("profile/compat/level bytes not copied from SPS")
	}
	if avcc[4] != 0xff {
		t.Fatalf("expected NALU length size byte 0xff, got 0x%02x", avcc[4])
	}
	if avcc[5]&0x1f != byte(len(seq)) {
		t.Fatalf("expected SPS count %d in low 5 bits, got 0x%02x", len(seq), avcc[5])
	}

	spsLen := int(avcc[6])<<8 | int(avcc[7])
	if spsLen != len(seq[0]) {
		t.Fatalf("SPS length prefix = %d, want %d", spsLen, len(seq[0]))
	}
	ppsCountOffset := 8 + spsLen
	ppsCount := int(avcc[ppsCountOffset])
	if ppsCount != len(pict) {
		t.Fatalf("PPS count = %d, want %d", ppsCount, len(pict))
	}
}

func TestCreateAVCCChunkRequiresSPS(t *testing.T) {
	if _, err := CreateAVCCChunk(nil, nil); err == nil {
		t.Fatal("expected an error with no SPS present")
	}
}
