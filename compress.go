package parquet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/colbyte/parquet-go/compress"
	"github.com/colbyte/parquet-go/compress/brotli"
	"github.com/colbyte/parquet-go/compress/gzip"
	parquetlz4 "github.com/colbyte/parquet-go/compress/lz4"
	"github.com/colbyte/parquet-go/compress/snappy"
	"github.com/colbyte/parquet-go/compress/uncompressed"
	"github.com/colbyte/parquet-go/compress/zstd"
	"github.com/colbyte/parquet-go/format"
)

var (
	// Uncompressed is a parquet compression codec representing uncompressed
	// pages.
	Uncompressed uncompressed.Codec

	// Snappy is the SNAPPY parquet compression codec.
	Snappy snappy.Codec

	// Gzip is the GZIP parquet compression codec.
	Gzip = gzip.Codec{
		Level: gzip.DefaultCompression,
	}

	// Brotli is the BROTLI parquet compression codec.
	Brotli = brotli.Codec{
		Quality: brotli.DefaultQuality,
		LGWin:   brotli.DefaultLGWin,
	}

	// Zstd is the ZSTD parquet compression codec.
	Zstd zstd.Codec

	// Lz4Raw is the LZ4_RAW parquet compression codec (unframed blocks).
	Lz4Raw = parquetlz4.Codec{Level: parquetlz4.DefaultLevel}

	// compressionCodecs maps a format.CompressionCodec to the codec that
	// implements it, indexed by the code's numeric value. format.Lz4 has no
	// entry here; it is handled specially by CodecRegistry.Decompress
	// because of its block-framing ambiguity.
	compressionCodecs = [...]compress.Codec{
		format.Uncompressed: &Uncompressed,
		format.Snappy:       &Snappy,
		format.Gzip:         &Gzip,
		format.Brotli:       &Brotli,
		format.Zstd:         &Zstd,
		format.Lz4Raw:       &Lz4Raw,
	}
)

// CodecRegistry resolves a format.CompressionCodec to the codec that
// implements it and applies codec-specific decompression quirks that a bare
// lookup table can't express, namely the LZ4/Hadoop block-framing
// ambiguity described in Decompress.
//
// The zero value uses the package-level codec instances declared above.
type CodecRegistry struct{}

// Lookup returns the codec registered for code, or an unsupported stand-in
// that fails with ErrUnsupportedFeature on first use.
func (CodecRegistry) Lookup(code format.CompressionCodec) compress.Codec {
	return lookupCompressionCodec(code)
}

// Decompress decompresses src, which holds expectedSize bytes once
// decompressed, using the codec identified by code.
//
// format.Lz4 is handled specially: the codec id is authoritative, so src is
// assumed to hold the historical "Hadoop" framing, a sequence of blocks
// each prefixed by a 4-byte little-endian compressed size, whose
// concatenated outputs equal the uncompressed stream. A plausibility check
// guards against writers that store a single raw, unframed LZ4 block under
// the same codec id; when the leading bytes don't describe a
// self-consistent frame, src is decoded as that raw block instead.
// format.Lz4Raw data is never subject to this ambiguity and always decodes
// as a single raw block.
func (reg CodecRegistry) Decompress(dst, src []byte, code format.CompressionCodec, expectedSize int) ([]byte, error) {
	if code == format.Lz4 {
		return decodeHadoopLz4(dst, src, expectedSize)
	}
	return decompressWith(lookupCompressionCodec(code), dst, src, expectedSize)
}

// Compress appends the compressed form of src to dst using the codec
// identified by code. format.Lz4 is compressed as a single Hadoop-framed
// block, matching the most common real-world layout for that codec id.
func (reg CodecRegistry) Compress(dst, src []byte, code format.CompressionCodec) ([]byte, error) {
	if code == format.Lz4 {
		return encodeHadoopLz4(dst, src)
	}
	c := lookupCompressionCodec(code)
	buf := newByteSink(dst)
	w, err := c.NewWriter(buf)
	if err != nil {
		return dst, err
	}
	if _, err := w.Write(src); err != nil {
		w.Close()
		return buf.Bytes(), err
	}
	if err := w.Close(); err != nil {
		return buf.Bytes(), err
	}
	return buf.Bytes(), nil
}

func decompressWith(c compress.Codec, dst, src []byte, expectedSize int) ([]byte, error) {
	r, err := c.NewReader(byteReader(src))
	if err != nil {
		return dst, err
	}
	defer r.Close()

	if cap(dst) < expectedSize {
		dst = make([]byte, expectedSize)
	} else {
		dst = dst[:expectedSize]
	}
	n, err := io.ReadFull(r, dst)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return dst[:n], fmt.Errorf("%w: %s: %s", ErrDecompressFailed, c, err)
	}
	if n != expectedSize {
		return dst[:n], fmt.Errorf("%w: %s produced %d bytes, page header declares %d", ErrDecompressFailed, c, n, expectedSize)
	}
	return dst[:n], nil
}

func encodeHadoopLz4(dst, src []byte) ([]byte, error) {
	limit := lz4.CompressBlockBound(len(src))
	block := make([]byte, limit)
	var compressor lz4.CompressorHC
	n, err := compressor.CompressBlock(src, block)
	if err != nil {
		return dst, err
	}
	block = block[:n]
	if n == 0 && len(src) > 0 {
		// Incompressible input still needs a valid block.
		block = parquetlz4.AppendLiteralBlock(block[:0], src)
	}

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(block)))
	dst = append(dst, header[:]...)
	dst = append(dst, block...)
	return dst, nil
}

// decodeHadoopLz4 decompresses the Hadoop-framed LZ4 layout: zero or more
// (4-byte little-endian compressed length, block) pairs concatenated until
// expectedSize bytes have been produced. If the leading bytes of src don't
// describe a self-consistent frame, src is decoded as a single raw
// LZ4_RAW block instead.
func decodeHadoopLz4(dst, src []byte, expectedSize int) ([]byte, error) {
	if !looksLikeHadoopLz4Frame(src, expectedSize) {
		var codec parquetlz4.Codec
		return decompressWith(&codec, dst, src, expectedSize)
	}

	if cap(dst) < expectedSize {
		dst = make([]byte, 0, expectedSize)
	} else {
		dst = dst[:0]
	}

	for len(src) > 0 && len(dst) < expectedSize {
		if len(src) < 4 {
			return dst, fmt.Errorf("%w: truncated lz4 hadoop block header at offset %d", ErrTruncatedInput, len(src))
		}
		compressedLen := binary.LittleEndian.Uint32(src[0:4])
		src = src[4:]
		if uint64(compressedLen) > uint64(len(src)) {
			return dst, fmt.Errorf("%w: lz4 hadoop block declares %d bytes, only %d remain", ErrTruncatedInput, compressedLen, len(src))
		}

		remaining := expectedSize - len(dst)
		out := make([]byte, remaining)
		n, err := lz4.UncompressBlock(src[:compressedLen], out)
		if err != nil {
			return dst, fmt.Errorf("%w: lz4 hadoop block: %s", ErrDecompressFailed, err)
		}

		dst = append(dst, out[:n]...)
		src = src[compressedLen:]
	}
	if len(dst) != expectedSize {
		return dst, fmt.Errorf("%w: lz4 hadoop frame produced %d bytes, page header declares %d", ErrDecompressFailed, len(dst), expectedSize)
	}
	return dst, nil
}

// looksLikeHadoopLz4Frame reports whether src opens with a plausible
// Hadoop block header: a 4-byte little-endian compressed length that does
// not exceed the remaining bytes in src, and that leaves room for at least
// one compressed byte when expectedSize is positive.
func looksLikeHadoopLz4Frame(src []byte, expectedSize int) bool {
	if len(src) < 4 {
		return false
	}
	if expectedSize == 0 {
		return false
	}
	compressedLen := binary.LittleEndian.Uint32(src[0:4])
	if compressedLen == 0 {
		return false
	}
	return uint64(compressedLen) <= uint64(len(src)-4)
}

// byteSink is a minimal growable-buffer io.Writer, used instead of
// bytes.Buffer so Compress can hand back the backing array directly.
type byteSink struct{ b []byte }

func newByteSink(b []byte) *byteSink { return &byteSink{b: b[:0]} }

func (s *byteSink) Write(p []byte) (int, error) {
	s.b = append(s.b, p...)
	return len(p), nil
}

func (s *byteSink) Bytes() []byte { return s.b }
func (s *byteSink) Len() int      { return len(s.b) }

type byteReaderType struct {
	b []byte
	i int
}

func byteReader(b []byte) io.Reader { return &byteReaderType{b: b} }

func (r *byteReaderType) Read(p []byte) (int, error) {
	if r.i >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.i:])
	r.i += n
	return n, nil
}

func lookupCompressionCodec(codec format.CompressionCodec) compress.Codec {
	if codec >= 0 && int(codec) < len(compressionCodecs) {
		if c := compressionCodecs[codec]; c != nil {
			return c
		}
	}
	return &unsupportedCodec{codec}
}

type unsupportedCodec struct{ codec format.CompressionCodec }

func (u *unsupportedCodec) String() string { return u.codec.String() }

func (u *unsupportedCodec) CompressionCodec() format.CompressionCodec {
	return u.codec
}

func (u *unsupportedCodec) NewReader(r io.Reader) (compress.Reader, error) {
	return unsupportedReader{u}, nil
}

func (u *unsupportedCodec) NewWriter(w io.Writer) (compress.Writer, error) {
	return unsupportedWriter{u}, nil
}

func (u *unsupportedCodec) error() error {
	return fmt.Errorf("%w: compression codec %s", ErrUnsupportedFeature, u.codec)
}

type unsupportedReader struct{ *unsupportedCodec }

func (r unsupportedReader) Close() error               { return nil }
func (r unsupportedReader) Reset(io.Reader) error      { return nil }
func (r unsupportedReader) Read(b []byte) (int, error) { return 0, r.error() }

type unsupportedWriter struct{ *unsupportedCodec }

func (w unsupportedWriter) Close() error                { return nil }
func (w unsupportedWriter) Reset(io.Writer) error       { return nil }
func (w unsupportedWriter) Write(b []byte) (int, error) { return 0, w.error() }

