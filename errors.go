package parquet

import "errors"

// Error kinds returned throughout the decode and encode pipeline. Use
// errors.Is against these sentinels to classify a failure; wrapped errors
// name the failing construct in their message, and carry its byte offset
// where the failing site knows it.
var (
	// ErrFormat signals invalid magic, a corrupt footer length, an unknown
	// enum value, or a Thrift parse failure.
	ErrFormat = errors.New("parquet: format error")

	// ErrUnsupportedFeature signals an encoding or codec this module does
	// not implement.
	ErrUnsupportedFeature = errors.New("parquet: unsupported feature")

	// ErrTruncatedInput signals that a varint or value stream ended before
	// the expected number of bytes were available.
	ErrTruncatedInput = errors.New("parquet: truncated input")

	// ErrUnderflow signals that an RLE or delta stream produced fewer
	// values than were requested.
	ErrUnderflow = errors.New("parquet: underflow")

	// ErrOverflow signals a dictionary index at or beyond the dictionary
	// size. Oversized varints, out-of-range bit widths and miniblock counts
	// exceeding blockSize are not reported with this sentinel; they surface
	// as the encoding packages' own errors.
	ErrOverflow = errors.New("parquet: overflow")

	// ErrDecompressFailed signals that a codec reported failure or
	// produced a size different from the one recorded in the page header.
	ErrDecompressFailed = errors.New("parquet: decompress failed")

	// ErrIO signals that the underlying ChunkSource failed.
	ErrIO = errors.New("parquet: io error")

	// ErrSchemaViolation signals a writer-side row that does not satisfy
	// the target schema (e.g. a null value for a required field).
	ErrSchemaViolation = errors.New("parquet: schema violation")
)
