package uncompressed

import (
	"bytes"
	"io"

	"github.com/colbyte/parquet-go/compress"
	"github.com/colbyte/parquet-go/format"
)

type Codec struct {
}

func (c *Codec) String() string {
	return "UNCOMPRESSED"
}

func (c *Codec) CompressionCodec() format.CompressionCodec {
	return format.Uncompressed
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return &reader{nonNilReader(r)}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return &writer{nonNilWriter(w)}, nil
}

type reader struct{ io.Reader }

func (r *reader) Close() error             { return nil }
func (r *reader) Reset(rr io.Reader) error { r.Reader = nonNilReader(rr); return nil }

type writer struct{ io.Writer }

func (w *writer) Close() error             { return nil }
func (w *writer) Reset(ww io.Writer) error { w.Writer = nonNilWriter(ww); return nil }

func nonNilReader(r io.Reader) io.Reader {
	if r == nil {
		return bytes.NewReader(nil)
	}
	return r
}

func nonNilWriter(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
