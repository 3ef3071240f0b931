// Package compress provides the generic APIs implemented by parquet compression
// codecs.
//
// https://github.com/apache/parquet-format/blob/master/Compression.md
package compress

import (
	"io"

	"github.com/colbyte/parquet-go/format"
)

// The Codec interface represents parquet compression codecs implemented by the
// compress sub-packages.
//
// Codec instances must be safe to use concurrently from multiple goroutines.
type Codec interface {
	// Returns a human-readable name for the codec.
	String() string

	// Returns the code of the compression codec in the parquet format.
	CompressionCodec() format.CompressionCodec

	// Returns a Reader that decompresses data read from r. A nil r must be
	// accepted and treated as an empty input, so a pooled reader can be
	// reset to a fresh source via Reset instead of being reconstructed.
	NewReader(r io.Reader) (Reader, error)

	// Returns a Writer that compresses data written to it into w. A nil w
	// must be accepted and treated as io.Discard, for the same reason as
	// NewReader.
	NewWriter(w io.Writer) (Writer, error)
}

type Reader interface {
	io.ReadCloser
	Reset(io.Reader) error
}

type Writer interface {
	io.WriteCloser
	Reset(io.Writer) error
}
