// Package delta implements the DELTA_BINARY_PACKED integer encoding and
// the DELTA_LENGTH_BYTE_ARRAY / DELTA_BYTE_ARRAY byte-array encodings
// built on top of it.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#delta-encoding-delta_binary_packed--5
package delta

import (
	"fmt"

	"github.com/colbyte/parquet-go/internal/bitpack"
	"github.com/colbyte/parquet-go/internal/bytecursor"
)

const (
	maxMiniBlockBitWidth = 64

	// maxBlockSize bounds the per-block allocation a decoded header can
	// demand, so a corrupt varint cannot force an arbitrarily large
	// buffer before any block data has been read.
	maxBlockSize = 1 << 20
)

// DecodeInt32 decodes a DELTA_BINARY_PACKED stream of 32-bit signed
// integers, returning the decoded values, the number of bytes consumed
// from src, and any error. Exactly numValues values are reconstructed;
// trailing miniblock padding bytes beyond the last needed value are
// still consumed, per the format's atomic-miniblock-consumption rule, so
// the returned byte count lands exactly where a following stream (e.g.
// DELTA_BYTE_ARRAY's suffix-length stream) begins.
func DecodeInt32(dst []int32, src []byte, numValues int) ([]int32, int, error) {
	values, n, err := decode(src, numValues)
	if err != nil {
		return dst, n, err
	}
	for _, v := range values {
		dst = append(dst, int32(v))
	}
	return dst, n, nil
}

// DecodeInt64 is the 64-bit counterpart of DecodeInt32.
func DecodeInt64(dst []int64, src []byte, numValues int) ([]int64, int, error) {
	values, n, err := decode(src, numValues)
	if err != nil {
		return dst, n, err
	}
	dst = append(dst, values...)
	return dst, n, nil
}

func decode(src []byte, numValues int) ([]int64, int, error) {
	c := bytecursor.New(src)

	blockSize, err := c.ReadUnsignedVarlong()
	if err != nil {
		return nil, 0, fmt.Errorf("delta: reading block size: %w", err)
	}
	if blockSize == 0 || blockSize%128 != 0 {
		return nil, 0, fmt.Errorf("delta: block size %d is not a positive multiple of 128", blockSize)
	}
	if blockSize > maxBlockSize {
		return nil, 0, fmt.Errorf("delta: block size %d exceeds %d", blockSize, maxBlockSize)
	}

	numMiniBlocks, err := c.ReadUnsignedVarlong()
	if err != nil {
		return nil, 0, fmt.Errorf("delta: reading mini-block count: %w", err)
	}
	if numMiniBlocks == 0 || blockSize%numMiniBlocks != 0 {
		return nil, 0, fmt.Errorf("delta: mini-block count %d does not divide block size %d", numMiniBlocks, blockSize)
	}
	valuesPerMiniBlock := blockSize / numMiniBlocks
	if valuesPerMiniBlock%32 != 0 {
		return nil, 0, fmt.Errorf("delta: values per mini-block %d is not a multiple of 32", valuesPerMiniBlock)
	}

	totalValueCount, err := c.ReadUnsignedVarlong()
	if err != nil {
		return nil, 0, fmt.Errorf("delta: reading total value count: %w", err)
	}

	firstValue, err := c.ReadZigzagVarlong()
	if err != nil {
		return nil, 0, fmt.Errorf("delta: reading first value: %w", err)
	}

	values := make([]int64, 0, numValues)
	if totalValueCount > 0 {
		values = append(values, firstValue)
	}

	last := firstValue
	miniBlockValues := make([]int64, valuesPerMiniBlock)

	for uint64(len(values)) < totalValueCount {
		minDelta, err := c.ReadZigzagVarlong()
		if err != nil {
			return nil, 0, fmt.Errorf("delta: reading block min delta: %w", err)
		}

		bitWidths := make([]uint, numMiniBlocks)
		for i := range bitWidths {
			w, err := c.ReadU8()
			if err != nil {
				return nil, 0, fmt.Errorf("delta: reading mini-block bit width %d: %w", i, err)
			}
			if w > maxMiniBlockBitWidth {
				return nil, 0, fmt.Errorf("delta: mini-block bit width %d out of range [0,64]", w)
			}
			bitWidths[i] = uint(w)
		}

		for mb := uint64(0); mb < numMiniBlocks; mb++ {
			w := bitWidths[mb]
			remaining := int(valuesPerMiniBlock)

			if w == 0 {
				for i := 0; i < remaining; i++ {
					miniBlockValues[i] = 0
				}
			} else {
				byteLen := int((uint64(valuesPerMiniBlock)*uint64(w) + 7) / 8)
				raw, err := c.ReadBytes(byteLen)
				if err != nil {
					return nil, 0, fmt.Errorf("delta: reading mini-block %d data: %w", mb, err)
				}
				padded := make([]byte, byteLen+bitpack.PaddingInt64)
				copy(padded, raw)
				bitpack.UnpackInt64(miniBlockValues, padded, w)
			}

			for i := 0; i < remaining; i++ {
				last = last + minDelta + miniBlockValues[i]
				if uint64(len(values)) < totalValueCount {
					values = append(values, last)
				}
			}
		}
	}

	if uint64(len(values)) < totalValueCount {
		return nil, 0, fmt.Errorf("delta: expected %d values, produced %d", totalValueCount, len(values))
	}
	if len(values) < numValues {
		return nil, 0, fmt.Errorf("delta: stream carries %d values, %d requested", len(values), numValues)
	}
	if len(values) > numValues {
		values = values[:numValues]
	}
	return values, c.Pos(), nil
}

// EncodeInt32 appends the DELTA_BINARY_PACKED encoding of values to dst,
// in blocks of 128 values split into 4 mini-blocks of 32, each mini-block
// packed at the bit width of its own largest delta (relative to the
// block's minimum delta).
func EncodeInt32(dst []byte, values []int32) []byte {
	v64 := make([]int64, len(values))
	for i, v := range values {
		v64[i] = int64(v)
	}
	return encode(dst, v64)
}

// EncodeInt64 is the 64-bit counterpart of EncodeInt32.
func EncodeInt64(dst []byte, values []int64) []byte {
	return encode(dst, values)
}

const (
	encodeBlockSize          = 128
	encodeNumMiniBlocks      = 4
	encodeValuesPerMiniBlock = encodeBlockSize / encodeNumMiniBlocks
)

func encode(dst []byte, values []int64) []byte {
	dst = bytecursor.AppendUnsignedVarint(dst, encodeBlockSize)
	dst = bytecursor.AppendUnsignedVarint(dst, encodeNumMiniBlocks)
	dst = bytecursor.AppendUnsignedVarint(dst, uint64(len(values)))

	var firstValue int64
	if len(values) > 0 {
		firstValue = values[0]
	}
	dst = bytecursor.AppendZigzagVarint(dst, firstValue)

	last := firstValue
	for i := 1; i < len(values); i += encodeBlockSize {
		block := values[i:min(i+encodeBlockSize, len(values))]
		deltas := make([]int64, len(block))
		minDelta := int64(0)
		if len(block) > 0 {
			minDelta = block[0] - last
		}
		prev := last
		for j, v := range block {
			d := v - prev
			deltas[j] = d
			if d < minDelta {
				minDelta = d
			}
			prev = v
		}
		last = prev

		dst = bytecursor.AppendZigzagVarint(dst, minDelta)

		padded := make([]int64, encodeBlockSize)
		for j := range deltas {
			padded[j] = deltas[j] - minDelta
		}

		bitWidths := make([]uint, encodeNumMiniBlocks)
		for mb := 0; mb < encodeNumMiniBlocks; mb++ {
			start := mb * encodeValuesPerMiniBlock
			end := start + encodeValuesPerMiniBlock
			w := uint(0)
			for j := start; j < end && j < len(deltas); j++ {
				w = maxUint(w, bitsNeeded(uint64(padded[j])))
			}
			bitWidths[mb] = w
		}
		for _, w := range bitWidths {
			dst = append(dst, byte(w))
		}

		for mb := 0; mb < encodeNumMiniBlocks; mb++ {
			w := bitWidths[mb]
			if w == 0 {
				continue
			}
			start := mb * encodeValuesPerMiniBlock
			block := make([]int64, encodeValuesPerMiniBlock)
			copy(block, padded[start:start+encodeValuesPerMiniBlock])
			byteLen := int((uint64(encodeValuesPerMiniBlock)*uint64(w) + 7) / 8)
			buf := make([]byte, byteLen+bitpack.PaddingInt64)
			bitpack.PackInt64(buf, block, w)
			dst = append(dst, buf[:byteLen]...)
		}
	}

	return dst
}

func bitsNeeded(v uint64) uint {
	w := uint(0)
	for v > 0 {
		w++
		v >>= 1
	}
	return w
}

func maxUint(a, b uint) uint {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
