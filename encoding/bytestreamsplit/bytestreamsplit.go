// Package bytestreamsplit implements the BYTE_STREAM_SPLIT encoding for
// FLOAT and DOUBLE columns: each value's W bytes are written to W
// separate contiguous streams (all first bytes, then all second bytes,
// and so on), which tends to compress better than interleaved IEEE 754
// values because each stream holds bytes from the same position of the
// mantissa/exponent.
//
// https://github.com/apache/parquet-format/blob/master/Encodings.md#byte-stream-split-byte_stream_split--9
package bytestreamsplit

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decode reassembles n values of the given byte width from their
// transposed representation in src.
func Decode(src []byte, n, width int) ([][]byte, error) {
	need := n * width
	if len(src) < need {
		return nil, fmt.Errorf("bytestreamsplit: stream needs %d bytes, has %d", need, len(src))
	}
	out := make([][]byte, n)
	buf := make([]byte, n*width)
	for i := range out {
		out[i] = buf[i*width : i*width+width]
	}
	for stream := 0; stream < width; stream++ {
		for i := 0; i < n; i++ {
			out[i][stream] = src[stream*n+i]
		}
	}
	return out, nil
}

// Encode transposes n values of the given byte width into the
// BYTE_STREAM_SPLIT layout, appending the result to dst.
func Encode(dst []byte, values [][]byte, width int) []byte {
	n := len(values)
	start := len(dst)
	dst = append(dst, make([]byte, n*width)...)
	for i, v := range values {
		for stream := 0; stream < width; stream++ {
			dst[start+stream*n+i] = v[stream]
		}
	}
	return dst
}

// DecodeFloat decodes n BYTE_STREAM_SPLIT-encoded float32 values.
func DecodeFloat(dst []float32, src []byte, n int) ([]float32, error) {
	values, err := Decode(src, n, 4)
	if err != nil {
		return dst, err
	}
	for _, v := range values {
		dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(v)))
	}
	return dst, nil
}

// EncodeFloat appends the BYTE_STREAM_SPLIT encoding of n float32 values
// to dst.
func EncodeFloat(dst []byte, values []float32) []byte {
	raw := make([][]byte, len(values))
	for i, v := range values {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		raw[i] = b[:]
	}
	return Encode(dst, raw, 4)
}

// DecodeDouble decodes n BYTE_STREAM_SPLIT-encoded float64 values.
func DecodeDouble(dst []float64, src []byte, n int) ([]float64, error) {
	values, err := Decode(src, n, 8)
	if err != nil {
		return dst, err
	}
	for _, v := range values {
		dst = append(dst, math.Float64frombits(binary.LittleEndian.Uint64(v)))
	}
	return dst, nil
}

// EncodeDouble appends the BYTE_STREAM_SPLIT encoding of n float64
// values to dst.
func EncodeDouble(dst []byte, values []float64) []byte {
	raw := make([][]byte, len(values))
	for i, v := range values {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		raw[i] = b[:]
	}
	return Encode(dst, raw, 8)
}
