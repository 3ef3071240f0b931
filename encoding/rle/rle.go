// Package rle implements the hybrid RLE/bit-packed stream used for
// repetition and definition levels, and for dictionary indices.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#run-length-encoding--bit-packing-hybrid-rle--3
package rle

import (
	"encoding/binary"
	"fmt"

	"github.com/colbyte/parquet-go/internal/bitpack"
	"github.com/colbyte/parquet-go/internal/bytecursor"
)

// ErrTruncatedRun is returned when an RLE or bit-packed run claims more
// bytes than remain in the source buffer.
var ErrTruncatedRun = fmt.Errorf("rle: truncated run")

// ErrUnderflow is returned when a stream is exhausted before numValues
// values have been produced.
var ErrUnderflow = fmt.Errorf("rle: underflow")

// DecodeInt32 decodes numValues values of the given bit width from the
// hybrid RLE/bit-packed stream in src, appending them to dst. src must
// not include the 4-byte length prefix used by V1 level and dictionary
// index streams; callers peel that off first (see DecodeLengthPrefixed).
func DecodeInt32(dst []int32, src []byte, bitWidth uint, numValues int) ([]int32, error) {
	if bitWidth == 0 {
		for i := 0; i < numValues; i++ {
			dst = append(dst, 0)
		}
		return dst, nil
	}

	c := bytecursor.New(src)
	produced := 0

	for produced < numValues {
		if c.Len() == 0 {
			return dst, fmt.Errorf("%w: requested %d, got %d", ErrUnderflow, numValues, produced)
		}

		header, err := c.ReadUnsignedVarlong()
		if err != nil {
			return dst, fmt.Errorf("rle: reading run header: %w", err)
		}

		if header&1 == 0 {
			// RLE run: count repetitions of one little-endian, w-bit value.
			count := int(header >> 1)
			width := int(bitWidth+7) / 8
			raw, err := c.ReadBytes(width)
			if err != nil {
				return dst, fmt.Errorf("%w: rle run value: %v", ErrTruncatedRun, err)
			}
			var buf [8]byte
			copy(buf[:], raw)
			value := int32(binary.LittleEndian.Uint64(buf[:]))
			if bitWidth < 32 {
				value &= (1 << bitWidth) - 1
			}
			for i := 0; i < count && produced < numValues; i++ {
				dst = append(dst, value)
				produced++
			}
		} else {
			// Bit-packed run: groups of 8 values at exactly bitWidth bits.
			groups := int(header >> 1)
			packedValues := groups * 8
			byteLen := int((uint(packedValues)*bitWidth + 7) / 8)
			raw, err := c.ReadBytes(byteLen)
			if err != nil {
				return dst, fmt.Errorf("%w: bit-packed run: %v", ErrTruncatedRun, err)
			}

			padded := make([]byte, byteLen+bitpack.PaddingInt32)
			copy(padded, raw)

			values := make([]int32, packedValues)
			bitpack.UnpackInt32(values, padded, bitWidth)

			for i := 0; i < packedValues && produced < numValues; i++ {
				dst = append(dst, values[i])
				produced++
			}
		}
	}

	return dst, nil
}

// DecodeLengthPrefixed decodes a V1-style stream: a 4-byte little-endian
// length, followed by that many bytes of hybrid RLE/bit-packed data. It
// returns the decoded values and the number of bytes consumed from src
// (4 + the declared length).
func DecodeLengthPrefixed(dst []int32, src []byte, bitWidth uint, numValues int) ([]int32, int, error) {
	if len(src) < 4 {
		return dst, 0, fmt.Errorf("rle: truncated length prefix")
	}
	n := int(binary.LittleEndian.Uint32(src))
	if len(src) < 4+n {
		return dst, 0, fmt.Errorf("rle: length prefix declares %d bytes, only %d available", n, len(src)-4)
	}
	dst, err := DecodeInt32(dst, src[4:4+n], bitWidth, numValues)
	return dst, 4 + n, err
}

// BitWidthForMaxLevel returns ceil(log2(maxLevel+1)), the minimum number
// of bits needed to represent a repetition or definition level up to
// maxLevel, with a floor of 1 when maxLevel > 0 and 0 when maxLevel == 0
// (in which case the level stream is omitted entirely).
func BitWidthForMaxLevel(maxLevel int) uint {
	if maxLevel <= 0 {
		return 0
	}
	w := uint(0)
	for (1 << w) < maxLevel+1 {
		w++
	}
	if w == 0 {
		w = 1
	}
	return w
}

// EncodeInt32 appends the hybrid RLE/bit-packed encoding of values to dst,
// using the given bit width. It always emits bit-packed runs (the
// encoder does not attempt run detection), which is a correct, if not
// maximally compact, encoding of any input.
func EncodeInt32(dst []byte, values []int32, bitWidth uint) []byte {
	if bitWidth == 0 || len(values) == 0 {
		return dst
	}

	for i := 0; i < len(values); i += 8 {
		group := values[i:min(i+8, len(values))]
		padded := make([]int32, 8)
		copy(padded, group)

		groups := 1
		header := uint64(groups)<<1 | 1
		dst = bytecursor.AppendUnsignedVarint(dst, header)

		byteLen := int((8*bitWidth + 7) / 8)
		buf := make([]byte, byteLen+bitpack.PaddingInt32)
		bitpack.PackInt32(buf, padded, bitWidth)
		dst = append(dst, buf[:byteLen]...)
	}
	return dst
}

// EncodeLengthPrefixed encodes values with EncodeInt32 and prepends a
// 4-byte little-endian length of the encoded payload, matching the V1
// level/dictionary-index stream framing.
func EncodeLengthPrefixed(dst []byte, values []int32, bitWidth uint) []byte {
	payload := EncodeInt32(nil, values, bitWidth)
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(payload)))
	dst = append(dst, length[:]...)
	dst = append(dst, payload...)
	return dst
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
