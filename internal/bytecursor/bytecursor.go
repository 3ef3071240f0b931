// Package bytecursor provides little-endian random and sequential access
// over a borrowed byte slice, plus the unsigned-varint and zigzag-varint
// primitives that the delta and RLE/bit-packed encodings build on.
package bytecursor

import (
	"encoding/binary"
	"fmt"
)

// Cursor reads sequentially through a borrowed byte slice. It never
// copies or takes ownership of buf; slices returned by ReadBytes alias
// buf and are only valid as long as buf is.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a Cursor positioned at the start of buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.pos }

// Pos returns the current byte offset from the start of the cursor's
// buffer.
func (c *Cursor) Pos() int { return c.pos }

// Bytes returns the full buffer the cursor was constructed over.
func (c *Cursor) Bytes() []byte { return c.buf }

func (c *Cursor) require(n int) error {
	if c.Len() < n {
		return fmt.Errorf("bytecursor: need %d bytes at offset %d, have %d", n, c.pos, c.Len())
	}
	return nil
}

// ReadU8 reads a single byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// ReadU32 reads a 4-byte little-endian unsigned integer.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// ReadU64 reads an 8-byte little-endian unsigned integer.
func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

// ReadBytes returns the next n bytes as a slice aliasing the cursor's
// buffer, advancing the cursor past them.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("bytecursor: negative read length %d", n)
	}
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	_, err := c.ReadBytes(n)
	return err
}

const (
	maxVarint32Bytes = 5
	maxVarint64Bytes = 10
)

// ReadUnsignedVarint reads a LEB128-style unsigned varint (7 bits per
// byte, LSB-first groups, high bit signals continuation), returning it as
// a uint32. Fails if the stream ends mid-group, or if 5 bytes are
// consumed that all carry the continuation bit (overflow for a 32-bit
// result).
func (c *Cursor) ReadUnsignedVarint() (uint32, error) {
	var result uint32
	var shift uint
	for i := 0; i < maxVarint32Bytes; i++ {
		b, err := c.ReadU8()
		if err != nil {
			return 0, fmt.Errorf("bytecursor: truncated varint at offset %d: %w", c.pos, err)
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, fmt.Errorf("bytecursor: varint overflow at offset %d: exceeds %d bytes", c.pos, maxVarint32Bytes)
}

// ReadUnsignedVarlong is the 64-bit counterpart of ReadUnsignedVarint,
// failing once 10 bytes that all carry the continuation bit are consumed.
func (c *Cursor) ReadUnsignedVarlong() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < maxVarint64Bytes; i++ {
		b, err := c.ReadU8()
		if err != nil {
			return 0, fmt.Errorf("bytecursor: truncated varint at offset %d: %w", c.pos, err)
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, fmt.Errorf("bytecursor: varint overflow at offset %d: exceeds %d bytes", c.pos, maxVarint64Bytes)
}

// ReadZigzagVarint reads an unsigned varint and zigzag-decodes it to a
// signed 32-bit value: (n >>> 1) ^ -(n & 1).
func (c *Cursor) ReadZigzagVarint() (int32, error) {
	u, err := c.ReadUnsignedVarint()
	if err != nil {
		return 0, err
	}
	return int32(u>>1) ^ -int32(u&1), nil
}

// ReadZigzagVarlong reads an unsigned varlong and zigzag-decodes it to a
// signed 64-bit value.
func (c *Cursor) ReadZigzagVarlong() (int64, error) {
	u, err := c.ReadUnsignedVarlong()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}

// AppendUnsignedVarint appends the LEB128 encoding of v to dst.
func AppendUnsignedVarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// AppendZigzagVarint zigzag-encodes v and appends its unsigned-varint
// form to dst.
func AppendZigzagVarint(dst []byte, v int64) []byte {
	u := uint64(v<<1) ^ uint64(v>>63)
	return AppendUnsignedVarint(dst, u)
}
