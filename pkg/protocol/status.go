package protocol

import (
	"github.com/vango-dev/fibre/internal/errors"
)

// Done is the payload of a FrameDone frame.
type Done struct {
	RenderID uint64
	Units    uint64
	Slices   uint64
}

// EncodeDone encodes a Done payload.
func EncodeDone(done Done) []byte {
	e := NewEncoder()
	e.WriteUvarint(done.RenderID)
	e.WriteUvarint(done.Units)
	e.WriteUvarint(done.Slices)
	return e.Bytes()
}

// DecodeDone decodes a Done payload.
func DecodeDone(data []byte) (Done, error) {
	d := NewDecoder(data)
	var (
		done Done
		err  error
	)
	if done.RenderID, err = d.ReadUvarint(); err != nil {
		return Done{}, err
	}
	if done.Units, err = d.ReadUvarint(); err != nil {
		return Done{}, err
	}
	if done.Slices, err = d.ReadUvarint(); err != nil {
		return Done{}, err
	}
	return done, nil
}

// Failure is the payload of a FrameError frame.
type Failure struct {
	RenderID uint64
	Code     string // error code, e.g. "E012"
	Message  string
}

// NewFailure builds a Failure from err, taking the code of the first
// coded error in its chain.
func NewFailure(renderID uint64, err error) Failure {
	return Failure{
		RenderID: renderID,
		Code:     errors.CodeOf(err),
		Message:  errors.Chain(err),
	}
}

// EncodeFailure encodes a Failure payload.
func EncodeFailure(f Failure) []byte {
	e := NewEncoder()
	e.WriteUvarint(f.RenderID)
	e.WriteString(f.Code)
	e.WriteString(f.Message)
	return e.Bytes()
}

// DecodeFailure decodes a Failure payload.
func DecodeFailure(data []byte) (Failure, error) {
	d := NewDecoder(data)
	var (
		f   Failure
		err error
	)
	if f.RenderID, err = d.ReadUvarint(); err != nil {
		return Failure{}, err
	}
	if f.Code, err = d.ReadString(); err != nil {
		return Failure{}, err
	}
	if f.Message, err = d.ReadString(); err != nil {
		return Failure{}, err
	}
	return f, nil
}
