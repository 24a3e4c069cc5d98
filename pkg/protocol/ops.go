package protocol

import (
	"fmt"

	"github.com/vango-dev/fibre/internal/errors"
)

// OpCode identifies a host operation.
type OpCode uint8

const (
	OpCreateElement OpCode = 0x01
	OpCreateText    OpCode = 0x02
	OpSetProperty   OpCode = 0x03
	OpAppendChild   OpCode = 0x04
)

// String returns the string representation of the op code.
func (c OpCode) String() string {
	switch c {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetProperty:
		return "SetProperty"
	case OpAppendChild:
		return "AppendChild"
	default:
		return fmt.Sprintf("Op(0x%02x)", uint8(c))
	}
}

// ValueTag identifies the type of an encoded property value.
type ValueTag uint8

const (
	ValueString ValueTag = 0x01
	ValueBool   ValueTag = 0x02
	ValueInt    ValueTag = 0x03
)

// Op is one host operation.
//
// Field use by code:
//
//	CreateElement: ID, Name (the element kind)
//	CreateText:    ID
//	SetProperty:   ID, Name, Value
//	AppendChild:   Parent, ID (the child)
type Op struct {
	Code   OpCode
	ID     uint32
	Parent uint32
	Name   string
	Value  any
}

// String returns a compact, human-readable form of the op.
func (o Op) String() string {
	switch o.Code {
	case OpCreateElement:
		return fmt.Sprintf("create #%d <%s>", o.ID, o.Name)
	case OpCreateText:
		return fmt.Sprintf("text #%d", o.ID)
	case OpSetProperty:
		return fmt.Sprintf("set #%d %s=%v", o.ID, o.Name, o.Value)
	case OpAppendChild:
		return fmt.Sprintf("append #%d -> #%d", o.ID, o.Parent)
	default:
		return o.Code.String()
	}
}

// EncodeOps encodes ops as an ops frame payload.
func EncodeOps(ops []Op) []byte {
	e := NewEncoder()
	EncodeOpsTo(e, ops)
	return e.Bytes()
}

// EncodeOpsTo encodes ops using the provided encoder.
func EncodeOpsTo(e *Encoder, ops []Op) {
	e.WriteUvarint(uint64(len(ops)))
	for _, op := range ops {
		e.WriteByte(byte(op.Code))
		switch op.Code {
		case OpCreateElement:
			e.WriteUvarint(uint64(op.ID))
			e.WriteString(op.Name)
		case OpCreateText:
			e.WriteUvarint(uint64(op.ID))
		case OpSetProperty:
			e.WriteUvarint(uint64(op.ID))
			e.WriteString(op.Name)
			e.WriteValue(op.Value)
		case OpAppendChild:
			e.WriteUvarint(uint64(op.Parent))
			e.WriteUvarint(uint64(op.ID))
		}
	}
}

// DecodeOps decodes an ops frame payload.
func DecodeOps(data []byte) ([]Op, error) {
	d := NewDecoder(data)
	ops, err := DecodeOpsFrom(d)
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, errors.New(errors.CodeFrameDecode).
			WithDetailf("%d trailing bytes after %d ops", d.Remaining(), len(ops))
	}
	return ops, nil
}

// DecodeOpsFrom decodes an ops payload from a decoder.
func DecodeOpsFrom(d *Decoder) ([]Op, error) {
	count, err := d.ReadCount(MaxOpsPerFrame)
	if err != nil {
		return nil, err
	}

	ops := make([]Op, 0, count)
	for i := 0; i < count; i++ {
		op, err := decodeOp(d)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func decodeOp(d *Decoder) (Op, error) {
	code, err := d.ReadByte()
	if err != nil {
		return Op{}, err
	}

	op := Op{Code: OpCode(code)}
	switch op.Code {
	case OpCreateElement:
		if op.ID, err = d.ReadUint32Varint(); err != nil {
			return Op{}, err
		}
		if op.Name, err = d.ReadString(); err != nil {
			return Op{}, err
		}
	case OpCreateText:
		if op.ID, err = d.ReadUint32Varint(); err != nil {
			return Op{}, err
		}
	case OpSetProperty:
		if op.ID, err = d.ReadUint32Varint(); err != nil {
			return Op{}, err
		}
		if op.Name, err = d.ReadString(); err != nil {
			return Op{}, err
		}
		if op.Value, err = d.ReadValue(); err != nil {
			return Op{}, err
		}
	case OpAppendChild:
		if op.Parent, err = d.ReadUint32Varint(); err != nil {
			return Op{}, err
		}
		if op.ID, err = d.ReadUint32Varint(); err != nil {
			return Op{}, err
		}
	default:
		return Op{}, errors.New(errors.CodeUnknownOp).WithDetailf("op code 0x%02x", code)
	}
	return op, nil
}
