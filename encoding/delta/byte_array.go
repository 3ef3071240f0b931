package delta

import "fmt"

// DecodeLengthByteArray decodes a DELTA_LENGTH_BYTE_ARRAY stream: a
// DELTA_BINARY_PACKED int32 stream of numValues lengths, followed
// immediately by the concatenated raw bytes those lengths describe. The
// returned slices alias src.
func DecodeLengthByteArray(src []byte, numValues int) ([][]byte, error) {
	lengths, n, err := DecodeInt32(nil, src, numValues)
	if err != nil {
		return nil, fmt.Errorf("delta: decoding byte array lengths: %w", err)
	}

	rest := src[n:]
	out := make([][]byte, numValues)
	offset := 0
	for i, length := range lengths {
		if length < 0 {
			return nil, fmt.Errorf("delta: negative byte array length %d at index %d", length, i)
		}
		end := offset + int(length)
		if end > len(rest) {
			return nil, fmt.Errorf("delta: byte array data truncated at index %d: need %d bytes, have %d", i, end, len(rest))
		}
		out[i] = rest[offset:end]
		offset = end
	}
	return out, nil
}

// EncodeLengthByteArray appends the DELTA_LENGTH_BYTE_ARRAY encoding of
// values to dst.
func EncodeLengthByteArray(dst []byte, values [][]byte) []byte {
	lengths := make([]int32, len(values))
	for i, v := range values {
		lengths[i] = int32(len(v))
	}
	dst = EncodeInt32(dst, lengths)
	for _, v := range values {
		dst = append(dst, v...)
	}
	return dst
}

// DecodeByteArray decodes a DELTA_BYTE_ARRAY stream: two back-to-back
// DELTA_BINARY_PACKED int32 streams (prefix lengths, then suffix
// lengths), followed by the concatenated suffix bytes. value[i] is
// value[i-1]'s first prefixLengths[i] bytes followed by the next
// suffixLengths[i] bytes of the suffix stream. value[0]'s prefix length
// must be 0.
func DecodeByteArray(src []byte, numValues int) ([][]byte, error) {
	prefixLengths, n1, err := DecodeInt32(nil, src, numValues)
	if err != nil {
		return nil, fmt.Errorf("delta: decoding prefix lengths: %w", err)
	}
	suffixLengths, n2, err := DecodeInt32(nil, src[n1:], numValues)
	if err != nil {
		return nil, fmt.Errorf("delta: decoding suffix lengths: %w", err)
	}

	rest := src[n1+n2:]
	out := make([][]byte, numValues)
	offset := 0
	var prev []byte

	for i := 0; i < numValues; i++ {
		prefixLen := prefixLengths[i]
		suffixLen := suffixLengths[i]
		if prefixLen < 0 || suffixLen < 0 {
			return nil, fmt.Errorf("delta: negative length at index %d", i)
		}
		if i == 0 && prefixLen != 0 {
			return nil, fmt.Errorf("delta: value 0 must have prefix length 0, got %d", prefixLen)
		}
		if int(prefixLen) > len(prev) {
			return nil, fmt.Errorf("delta: prefix length %d at index %d exceeds previous value length %d", prefixLen, i, len(prev))
		}

		end := offset + int(suffixLen)
		if end > len(rest) {
			return nil, fmt.Errorf("delta: suffix data truncated at index %d: need %d bytes, have %d", i, end, len(rest))
		}
		suffix := rest[offset:end]
		offset = end

		value := make([]byte, 0, int(prefixLen)+len(suffix))
		value = append(value, prev[:prefixLen]...)
		value = append(value, suffix...)

		out[i] = value
		prev = value
	}
	return out, nil
}

// EncodeByteArray appends the DELTA_BYTE_ARRAY encoding of values to dst,
// computing the longest common prefix with each value's predecessor.
func EncodeByteArray(dst []byte, values [][]byte) []byte {
	prefixLengths := make([]int32, len(values))
	suffixes := make([][]byte, len(values))

	var prev []byte
	for i, v := range values {
		n := commonPrefixLen(prev, v)
		if i == 0 {
			n = 0
		}
		prefixLengths[i] = int32(n)
		suffixes[i] = v[n:]
		prev = v
	}

	dst = EncodeInt32(dst, prefixLengths)
	suffixLengths := make([]int32, len(suffixes))
	for i, s := range suffixes {
		suffixLengths[i] = int32(len(s))
	}
	dst = EncodeInt32(dst, suffixLengths)
	for _, s := range suffixes {
		dst = append(dst, s...)
	}
	return dst
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
