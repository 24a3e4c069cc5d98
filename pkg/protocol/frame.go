package protocol

import (
	"io"

	"github.com/vango-dev/fibre/internal/errors"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 5

	// MaxPayloadSize is the maximum payload size (16MB).
	MaxPayloadSize = 16 << 20
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameOps   FrameType = 0x01 // Host operations
	FrameDone  FrameType = 0x02 // Render completed
	FrameError FrameType = 0x03 // Render ended without completing
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameOps:
		return "Ops"
	case FrameDone:
		return "Done"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Frame is a typed, length-prefixed message.
type Frame struct {
	Type    FrameType
	Payload []byte
}

// NewFrame creates a new frame with the given type and payload.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() []byte {
	buf := make([]byte, 0, FrameHeaderSize+len(f.Payload))
	e := &Encoder{buf: buf}
	e.WriteByte(byte(f.Type))
	e.WriteUint32(uint32(len(f.Payload)))
	e.buf = append(e.buf, f.Payload...)
	return e.buf
}

// DecodeFrame decodes a single frame. data must hold exactly one frame.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, errors.New(errors.CodeFrameDecode).
			WithDetailf("frame header needs %d bytes, got %d", FrameHeaderSize, len(data))
	}

	ft := FrameType(data[0])
	length := int(data[1])<<24 | int(data[2])<<16 | int(data[3])<<8 | int(data[4])
	if length > MaxPayloadSize {
		return nil, errors.New(errors.CodeFrameDecode).
			WithDetailf("payload length %d exceeds limit %d", length, MaxPayloadSize)
	}
	if len(data) != FrameHeaderSize+length {
		return nil, errors.New(errors.CodeFrameDecode).
			WithDetailf("payload length %d, frame carries %d bytes", length, len(data)-FrameHeaderSize)
	}

	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:])
	return &Frame{Type: ft, Payload: payload}, nil
}

// ReadFrame reads a complete frame from an io.Reader.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	length := int(header[1])<<24 | int(header[2])<<16 | int(header[3])<<8 | int(header[4])
	if length > MaxPayloadSize {
		return nil, errors.New(errors.CodeFrameDecode).
			WithDetailf("payload length %d exceeds limit %d", length, MaxPayloadSize)
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return &Frame{Type: FrameType(header[0]), Payload: payload}, nil
}

// WriteFrame writes a complete frame to an io.Writer.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return errors.New(errors.CodeFrameDecode).
			WithDetailf("payload length %d exceeds limit %d", len(f.Payload), MaxPayloadSize)
	}
	_, err := w.Write(f.Encode())
	return err
}
