package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/vango-dev/fibre/internal/errors"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
	}{
		{"empty ops", Frame{Type: FrameOps, Payload: []byte{}}},
		{"ops", Frame{Type: FrameOps, Payload: EncodeOps(sampleOps())}},
		{"done", Frame{Type: FrameDone, Payload: EncodeDone(Done{RenderID: 1})}},
		{"error", Frame{Type: FrameError, Payload: []byte("boom")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := tc.frame.Encode()
			if len(encoded) != FrameHeaderSize+len(tc.frame.Payload) {
				t.Errorf("Encode() length = %d, want %d", len(encoded), FrameHeaderSize+len(tc.frame.Payload))
			}
			if FrameType(encoded[0]) != tc.frame.Type {
				t.Errorf("encoded type = %v, want %v", FrameType(encoded[0]), tc.frame.Type)
			}

			decoded, err := DecodeFrame(encoded)
			if err != nil {
				t.Fatalf("DecodeFrame() error = %v", err)
			}
			if decoded.Type != tc.frame.Type {
				t.Errorf("decoded type = %v, want %v", decoded.Type, tc.frame.Type)
			}
			if !bytes.Equal(decoded.Payload, tc.frame.Payload) {
				t.Errorf("decoded payload = %x, want %x", decoded.Payload, tc.frame.Payload)
			}
		})
	}
}

func TestDecodeFrame_Errors(t *testing.T) {
	good := NewFrame(FrameOps, []byte{1, 2, 3}).Encode()

	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0x01, 0x00}},
		{"short payload", good[:len(good)-1]},
		{"extra bytes", append(append([]byte{}, good...), 0xFF)},
		{"too large", []byte{0x01, 0x7F, 0xFF, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.data)
			if !errors.HasCode(err, errors.CodeFrameDecode) {
				t.Errorf("DecodeFrame() error = %v, want %s", err, errors.CodeFrameDecode)
			}
		})
	}
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameOps, EncodeOps(sampleOps())),
		NewFrame(FrameDone, EncodeDone(Done{RenderID: 2, Units: 10, Slices: 3})),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame() error = %v", err)
		}
	}

	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i, err)
		}
		if got.Type != want.Type || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("ReadFrame() #%d = %v, want %v", i, got.Type, want.Type)
		}
	}

	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("ReadFrame() at end error = %v, want io.EOF", err)
	}
}

func TestFrameTypeString(t *testing.T) {
	tests := map[FrameType]string{
		FrameOps:   "Ops",
		FrameDone:  "Done",
		FrameError: "Error",
		0x42:       "Unknown",
	}
	for ft, want := range tests {
		if got := ft.String(); got != want {
			t.Errorf("FrameType(%d).String() = %q, want %q", ft, got, want)
		}
	}
}
