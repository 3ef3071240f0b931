// Package plain implements the PLAIN encoding: fixed-width little-endian
// primitives, packed booleans, and length-prefixed byte arrays.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#plain-plain--0
package plain

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeBoolean unpacks n LSB-first packed bits from src.
func DecodeBoolean(dst []bool, src []byte, n int) ([]bool, error) {
	need := (n + 7) / 8
	if len(src) < need {
		return dst, fmt.Errorf("plain: boolean stream needs %d bytes, has %d", need, len(src))
	}
	for i := 0; i < n; i++ {
		b := src[i/8]
		dst = append(dst, (b>>(uint(i)%8))&1 != 0)
	}
	return dst, nil
}

// EncodeBoolean packs n booleans LSB-first into dst.
func EncodeBoolean(dst []byte, values []bool) []byte {
	n := (len(values) + 7) / 8
	start := len(dst)
	dst = append(dst, make([]byte, n)...)
	for i, v := range values {
		if v {
			dst[start+i/8] |= 1 << (uint(i) % 8)
		}
	}
	return dst
}

// DecodeInt32 reads n little-endian 4-byte integers from src.
func DecodeInt32(dst []int32, src []byte, n int) ([]int32, error) {
	need := n * 4
	if len(src) < need {
		return dst, fmt.Errorf("plain: int32 stream needs %d bytes, has %d", need, len(src))
	}
	for i := 0; i < n; i++ {
		dst = append(dst, int32(binary.LittleEndian.Uint32(src[i*4:])))
	}
	return dst, nil
}

// EncodeInt32 appends n little-endian 4-byte integers to dst.
func EncodeInt32(dst []byte, values []int32) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, len(values)*4)...)
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[start+i*4:], uint32(v))
	}
	return dst
}

// DecodeInt64 reads n little-endian 8-byte integers from src.
func DecodeInt64(dst []int64, src []byte, n int) ([]int64, error) {
	need := n * 8
	if len(src) < need {
		return dst, fmt.Errorf("plain: int64 stream needs %d bytes, has %d", need, len(src))
	}
	for i := 0; i < n; i++ {
		dst = append(dst, int64(binary.LittleEndian.Uint64(src[i*8:])))
	}
	return dst, nil
}

// EncodeInt64 appends n little-endian 8-byte integers to dst.
func EncodeInt64(dst []byte, values []int64) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, len(values)*8)...)
	for i, v := range values {
		binary.LittleEndian.PutUint64(dst[start+i*8:], uint64(v))
	}
	return dst
}

// DecodeInt96 reads n 12-byte legacy timestamp values from src, without
// interpreting their contents.
func DecodeInt96(dst [][12]byte, src []byte, n int) ([][12]byte, error) {
	need := n * 12
	if len(src) < need {
		return dst, fmt.Errorf("plain: int96 stream needs %d bytes, has %d", need, len(src))
	}
	for i := 0; i < n; i++ {
		var v [12]byte
		copy(v[:], src[i*12:i*12+12])
		dst = append(dst, v)
	}
	return dst, nil
}

// DecodeFloat reads n little-endian 4-byte IEEE 754 floats from src.
func DecodeFloat(dst []float32, src []byte, n int) ([]float32, error) {
	need := n * 4
	if len(src) < need {
		return dst, fmt.Errorf("plain: float stream needs %d bytes, has %d", need, len(src))
	}
	for i := 0; i < n; i++ {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:])))
	}
	return dst, nil
}

// EncodeFloat appends n little-endian 4-byte IEEE 754 floats to dst.
func EncodeFloat(dst []byte, values []float32) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, len(values)*4)...)
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[start+i*4:], math.Float32bits(v))
	}
	return dst
}

// DecodeDouble reads n little-endian 8-byte IEEE 754 doubles from src.
func DecodeDouble(dst []float64, src []byte, n int) ([]float64, error) {
	need := n * 8
	if len(src) < need {
		return dst, fmt.Errorf("plain: double stream needs %d bytes, has %d", need, len(src))
	}
	for i := 0; i < n; i++ {
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:])))
	}
	return dst, nil
}

// EncodeDouble appends n little-endian 8-byte IEEE 754 doubles to dst.
func EncodeDouble(dst []byte, values []float64) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, len(values)*8)...)
	for i, v := range values {
		binary.LittleEndian.PutUint64(dst[start+i*8:], math.Float64bits(v))
	}
	return dst
}

// DecodeByteArray reads n values, each a 4-byte little-endian length
// followed by that many bytes, returning slices that alias src.
func DecodeByteArray(src []byte, n int) ([][]byte, error) {
	out := make([][]byte, 0, n)
	offset := 0
	for i := 0; i < n; i++ {
		if offset+4 > len(src) {
			return nil, fmt.Errorf("plain: byte array length prefix %d truncated at offset %d", i, offset)
		}
		length := int(binary.LittleEndian.Uint32(src[offset:]))
		offset += 4
		if length < 0 || offset+length > len(src) {
			return nil, fmt.Errorf("plain: byte array %d declares %d bytes, only %d available", i, length, len(src)-offset)
		}
		out = append(out, src[offset:offset+length])
		offset += length
	}
	return out, nil
}

// EncodeByteArray appends n (4-byte little-endian length, raw bytes)
// pairs to dst.
func EncodeByteArray(dst []byte, values [][]byte) []byte {
	for _, v := range values {
		var length [4]byte
		binary.LittleEndian.PutUint32(length[:], uint32(len(v)))
		dst = append(dst, length[:]...)
		dst = append(dst, v...)
	}
	return dst
}

// DecodeFixedLenByteArray splits src into n values of exactly size bytes
// each, returning slices that alias src.
func DecodeFixedLenByteArray(src []byte, n, size int) ([][]byte, error) {
	need := n * size
	if len(src) < need {
		return nil, fmt.Errorf("plain: fixed-length byte array stream needs %d bytes, has %d", need, len(src))
	}
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		out[i] = src[i*size : (i+1)*size]
	}
	return out, nil
}

// EncodeFixedLenByteArray appends each value verbatim to dst. Every
// value must already be exactly size bytes long.
func EncodeFixedLenByteArray(dst []byte, values [][]byte, size int) []byte {
	for _, v := range values {
		if len(v) != size {
			panic(fmt.Sprintf("plain: fixed-length byte array value has length %d, expected %d", len(v), size))
		}
		dst = append(dst, v...)
	}
	return dst
}
