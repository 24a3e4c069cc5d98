package protocol

import (
	"github.com/vango-dev/fibre/internal/errors"
)

// Decoding limits.
const (
	// MaxStringLen bounds any length-prefixed string (1MB).
	MaxStringLen = 1 << 20

	// MaxOpsPerFrame bounds the op count of a single frame.
	MaxOpsPerFrame = 1_000_000
)

// Decoder is a binary decoder that reads from a byte buffer.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a new decoder from the given byte slice.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF returns true if all bytes have been read.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

func (d *Decoder) short(what string) error {
	return errors.New(errors.CodeFrameDecode).
		WithDetailf("truncated %s at offset %d", what, d.pos)
}

// ReadByte reads a single byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, d.short("byte")
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadUvarint reads an unsigned varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	var v uint64
	var shift uint

	for {
		if d.pos >= len(d.buf) {
			return 0, d.short("varint")
		}
		b := d.buf[d.pos]
		d.pos++
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New(errors.CodeFrameDecode).
				WithDetailf("varint overflow at offset %d", d.pos)
		}
	}
}

// ReadSvarint reads a signed varint using ZigZag decoding.
func (d *Decoder) ReadSvarint() (int64, error) {
	uv, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	v := int64(uv >> 1)
	if uv&1 != 0 {
		v = ^v
	}
	return v, nil
}

// ReadUint32Varint reads an unsigned varint that must fit in 32 bits.
func (d *Decoder) ReadUint32Varint() (uint32, error) {
	v, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if v > 1<<32-1 {
		return 0, errors.New(errors.CodeFrameDecode).
			WithDetailf("node id %d exceeds 32 bits", v)
	}
	return uint32(v), nil
}

// ReadString reads a length-prefixed UTF-8 string.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > MaxStringLen {
		return "", errors.New(errors.CodeFrameDecode).
			WithDetailf("string length %d exceeds limit %d", length, MaxStringLen)
	}
	if length > uint64(d.Remaining()) {
		return "", d.short("string")
	}
	n := int(length)
	s := string(d.buf[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

// ReadBool reads a boolean. Any non-zero byte is true.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadValue reads a tagged property value written by Encoder.WriteValue.
// Integers decode as int.
func (d *Decoder) ReadValue() (any, error) {
	tag, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	switch ValueTag(tag) {
	case ValueString:
		return d.ReadString()
	case ValueBool:
		return d.ReadBool()
	case ValueInt:
		v, err := d.ReadSvarint()
		if err != nil {
			return nil, err
		}
		return int(v), nil
	default:
		return nil, errors.New(errors.CodeFrameDecode).
			WithDetailf("unknown value tag 0x%02x", tag)
	}
}

// ReadCount reads a collection count and checks it against max and the
// remaining buffer (every item occupies at least one byte).
func (d *Decoder) ReadCount(max int) (int, error) {
	count, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if count > uint64(max) {
		return 0, errors.New(errors.CodeFrameDecode).
			WithDetailf("count %d exceeds limit %d", count, max)
	}
	if count > uint64(d.Remaining()) {
		return 0, d.short("collection")
	}
	return int(count), nil
}
