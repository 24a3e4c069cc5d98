package protocol

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/fibre/internal/errors"
)

func sampleOps() []Op {
	return []Op{
		{Code: OpCreateElement, ID: 1, Name: "div"},
		{Code: OpSetProperty, ID: 1, Name: "id", Value: "foo"},
		{Code: OpAppendChild, Parent: 0, ID: 1},
		{Code: OpCreateElement, ID: 2, Name: "input"},
		{Code: OpSetProperty, ID: 2, Name: "disabled", Value: true},
		{Code: OpSetProperty, ID: 2, Name: "tabindex", Value: -3},
		{Code: OpAppendChild, Parent: 1, ID: 2},
		{Code: OpCreateText, ID: 300},
		{Code: OpSetProperty, ID: 300, Name: "nodeValue", Value: "héllo"},
		{Code: OpAppendChild, Parent: 1, ID: 300},
	}
}

func TestEncodeDecodeOps(t *testing.T) {
	ops := sampleOps()
	got, err := DecodeOps(EncodeOps(ops))
	if err != nil {
		t.Fatalf("DecodeOps() error = %v", err)
	}
	if diff := cmp.Diff(ops, got); diff != "" {
		t.Errorf("DecodeOps() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeOps_Empty(t *testing.T) {
	data := EncodeOps(nil)
	if !bytes.Equal(data, []byte{0x00}) {
		t.Errorf("EncodeOps(nil) = %x, want 00", data)
	}
	ops, err := DecodeOps(data)
	if err != nil || len(ops) != 0 {
		t.Errorf("DecodeOps() = %v, %v; want empty", ops, err)
	}
}

func TestEncodeOps_Bytes(t *testing.T) {
	data := EncodeOps([]Op{
		{Code: OpCreateElement, ID: 1, Name: "a"},
		{Code: OpAppendChild, Parent: 0, ID: 1},
	})
	want := []byte{
		0x02,                   // count
		0x01, 0x01, 0x01, 'a', // CreateElement #1 "a"
		0x04, 0x00, 0x01, // AppendChild 0 <- 1
	}
	if !bytes.Equal(data, want) {
		t.Errorf("EncodeOps() = %x, want %x", data, want)
	}
}

func TestWriteValue_Fallback(t *testing.T) {
	e := NewEncoder()
	e.WriteValue(2.5)
	v, err := NewDecoder(e.Bytes()).ReadValue()
	if err != nil {
		t.Fatalf("ReadValue() error = %v", err)
	}
	if v != "2.5" {
		t.Errorf("ReadValue() = %#v, want %q", v, "2.5")
	}
}

func TestDecodeOps_Errors(t *testing.T) {
	valid := EncodeOps(sampleOps())

	tests := []struct {
		name string
		data []byte
		code string
	}{
		{"empty", nil, errors.CodeFrameDecode},
		{"truncated", valid[:len(valid)-2], errors.CodeFrameDecode},
		{"trailing", append(append([]byte{}, valid...), 0x00), errors.CodeFrameDecode},
		{"unknown op", []byte{0x01, 0x09}, errors.CodeUnknownOp},
		{"unknown value tag", []byte{0x01, 0x03, 0x01, 0x01, 'x', 0x07}, errors.CodeFrameDecode},
		{"count exceeds buffer", []byte{0x05, 0x02, 0x01}, errors.CodeFrameDecode},
		{"varint overflow", []byte{0x01, 0x02, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}, errors.CodeFrameDecode},
		{"id beyond 32 bits", []byte{0x01, 0x02, 0x80, 0x80, 0x80, 0x80, 0x10}, errors.CodeFrameDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeOps(tt.data)
			if err == nil {
				t.Fatal("DecodeOps() expected error")
			}
			if !errors.HasCode(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{Op{Code: OpCreateElement, ID: 1, Name: "div"}, "create #1 <div>"},
		{Op{Code: OpCreateText, ID: 2}, "text #2"},
		{Op{Code: OpSetProperty, ID: 1, Name: "id", Value: "x"}, "set #1 id=x"},
		{Op{Code: OpAppendChild, Parent: 0, ID: 1}, "append #1 -> #0"},
		{Op{Code: 0x7F}, "Op(0x7f)"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestDoneFailure(t *testing.T) {
	done := Done{RenderID: 7, Units: 5000, Slices: 12}
	gotDone, err := DecodeDone(EncodeDone(done))
	if err != nil {
		t.Fatalf("DecodeDone() error = %v", err)
	}
	if gotDone != done {
		t.Errorf("DecodeDone() = %+v, want %+v", gotDone, done)
	}

	cause := errors.New(errors.CodeRenderFailed).Wrap(errors.New(errors.CodeCreateNode))
	f := NewFailure(3, cause)
	if f.Code != errors.CodeRenderFailed {
		t.Errorf("Code = %q, want %q", f.Code, errors.CodeRenderFailed)
	}
	gotFailure, err := DecodeFailure(EncodeFailure(f))
	if err != nil {
		t.Fatalf("DecodeFailure() error = %v", err)
	}
	if gotFailure != f {
		t.Errorf("DecodeFailure() = %+v, want %+v", gotFailure, f)
	}

	if _, err := DecodeDone([]byte{0x01}); err == nil {
		t.Error("DecodeDone() on truncated payload expected error")
	}
}
