package protocol

import (
	"testing"
)

// FuzzDecodeFrame tests that decoding arbitrary bytes doesn't panic.
func FuzzDecodeFrame(f *testing.F) {
	f.Add(NewFrame(FrameOps, EncodeOps(sampleOps())).Encode())
	f.Add(NewFrame(FrameDone, nil).Encode())

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodeFrame(data)
	})
}

// FuzzDecodeOps tests that decoding arbitrary bytes doesn't panic and that
// anything decoded re-encodes to the same bytes.
func FuzzDecodeOps(f *testing.F) {
	f.Add(EncodeOps(sampleOps()))
	f.Add([]byte{0x00})
	f.Add([]byte{0x01, 0x03, 0x01, 0x01, 'x', 0x02, 0x01})

	f.Fuzz(func(t *testing.T, data []byte) {
		ops, err := DecodeOps(data)
		if err != nil {
			return
		}
		again, err := DecodeOps(EncodeOps(ops))
		if err != nil {
			t.Fatalf("re-decode error = %v", err)
		}
		if len(again) != len(ops) {
			t.Fatalf("re-decode got %d ops, want %d", len(again), len(ops))
		}
	})
}
