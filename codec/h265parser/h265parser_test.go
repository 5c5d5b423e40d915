package h265parser

import "testing"

func buildRecord(arrays [][2]interface{}) []byte {
	record := make([]byte, hevcFixedHeaderSize)
	record = append(record, byte(len(arrays)))
	for _, a := range arrays {
		nalType := a[0].(byte)
		nalus := a[1].([][]byte)
		record = append(record, nalType&0x3F)
		record = append(record, byte(len(nalus)>>8), byte(len(nalus)))
		for _, nal := range nalus {
			record = append(record, byte(len(nal)>>8), byte(len(nal)))
			record = append(record, nal...)
		}
	}
	return record
}

func TestNewCodecDataFromAVCDecoderConfRecordMissingSPS(t *testing.T) {
	record := buildRecord([][2]interface{}{
		{byte(32), [][]byte{{0x40, 0x01}}}, // VPS only, no SPS
	})
	if _, err := NewCodecDataFromAVCDecoderConfRecord(record); err == nil {
		t.Fatal("expected an error when no SPS is present")
	}
}

func TestNewCodecDataFromAVCDecoderConfRecordTooShort(t *testing.T) {
	if _, err := NewCodecDataFromAVCDecoderConfRecord(make([]byte, 5)); err == nil {
		t.Fatal("expected an error for a truncated record")
	}
}
