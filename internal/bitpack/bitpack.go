// Package bitpack implements bit packing and unpacking routines for
// contiguous, LSB-first sequences of fixed-width integers — the wire
// format used for DELTA_BINARY_PACKED miniblocks and the RLE/bit-packed
// hybrid's bit-packed runs.
//
// Values are packed back to back with no padding between them; a value of
// bit width w occupies exactly w bits starting at the bit offset of the
// previous value. Callers must size the source buffer with the declared
// padding constant so that the unpacker may safely load a few bytes past
// the last meaningful bit.
package bitpack

// PaddingInt32 is the number of extra bytes callers must allocate past the
// exact packed size of a buffer passed to UnpackInt32.
const PaddingInt32 = 4

// PaddingInt64 is the number of extra bytes callers must allocate past the
// exact packed size of a buffer passed to UnpackInt64.
const PaddingInt64 = 8

func byteCount(bitCount uint) uint {
	return (bitCount + 7) / 8
}

// load reads the bitWidth-bit word starting at bitOffset out of src. src
// must have at least byteCount(bitOffset+bitWidth) bytes, plus up to one
// extra byte when the word straddles a 64-bit boundary; the package's
// Padding constants account for the worst case across a whole buffer.
func load(src []byte, bitOffset, bitWidth uint) uint64 {
	byteOffset := bitOffset / 8
	shift := bitOffset % 8
	n := shift + bitWidth

	loBytes := n
	if loBytes > 64 {
		loBytes = 64
	}
	loBytes = byteCount(loBytes)

	var lo uint64
	for b := uint(0); b < loBytes; b++ {
		lo |= uint64(src[byteOffset+b]) << (8 * b)
	}

	val := lo >> shift
	if n > 64 {
		val |= uint64(src[byteOffset+8]) << (64 - shift)
	}
	if bitWidth < 64 {
		val &= (uint64(1) << bitWidth) - 1
	}
	return val
}

// store writes the low bitWidth bits of v into dst at bitOffset, leaving
// bits outside of [bitOffset, bitOffset+bitWidth) untouched. Bit by bit, but
// Pack is only used on the (much colder) write path.
func store(dst []byte, bitOffset, bitWidth uint, v uint64) {
	for i := uint(0); i < bitWidth; i++ {
		pos := bitOffset + i
		byteIndex := pos / 8
		shift := pos % 8
		if (v>>i)&1 != 0 {
			dst[byteIndex] |= 1 << shift
		} else {
			dst[byteIndex] &^= 1 << shift
		}
	}
}

// UnpackInt32 unpacks len(dst) values of the given bit width from src.
func UnpackInt32(dst []int32, src []byte, bitWidth uint) {
	if bitWidth == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	var bitOffset uint
	for i := range dst {
		dst[i] = int32(load(src, bitOffset, bitWidth))
		bitOffset += bitWidth
	}
}

// UnpackInt64 unpacks len(dst) values of the given bit width from src.
func UnpackInt64(dst []int64, src []byte, bitWidth uint) {
	if bitWidth == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	var bitOffset uint
	for i := range dst {
		dst[i] = int64(load(src, bitOffset, bitWidth))
		bitOffset += bitWidth
	}
}

// PackInt32 packs src into dst at the given bit width. dst must hold at
// least byteCount(len(src)*bitWidth) bytes plus PaddingInt32.
func PackInt32(dst []byte, src []int32, bitWidth uint) {
	if bitWidth == 0 {
		return
	}
	n := byteCount(uint(len(src)) * bitWidth)
	for i := range dst[:n] {
		dst[i] = 0
	}
	var bitOffset uint
	for _, v := range src {
		store(dst, bitOffset, bitWidth, uint64(uint32(v)))
		bitOffset += bitWidth
	}
}

// PackInt64 packs src into dst at the given bit width. dst must hold at
// least byteCount(len(src)*bitWidth) bytes plus PaddingInt64.
func PackInt64(dst []byte, src []int64, bitWidth uint) {
	if bitWidth == 0 {
		return
	}
	n := byteCount(uint(len(src)) * bitWidth)
	for i := range dst[:n] {
		dst[i] = 0
	}
	var bitOffset uint
	for _, v := range src {
		store(dst, bitOffset, bitWidth, uint64(v))
		bitOffset += bitWidth
	}
}
