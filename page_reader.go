package parquet

import (
	"bufio"
	"fmt"
	"io"

	"github.com/segmentio/encoding/thrift"

	"github.com/colbyte/parquet-go/format"
)

// chunkSourceReader adapts a ChunkSource range into a sequential
// io.Reader, tracking how many bytes have been consumed so a caller can
// recover the exact byte length of a decoded Thrift struct without
// read-ahead or retry.
type chunkSourceReader struct {
	source ChunkSource
	pos    int64
	end    int64
}

func newChunkSourceReader(source ChunkSource, start, end int64) *chunkSourceReader {
	return &chunkSourceReader{source: source, pos: start, end: end}
}

func (r *chunkSourceReader) Read(b []byte) (int, error) {
	if r.pos >= r.end {
		return 0, io.EOF
	}
	length := len(b)
	if remaining := r.end - r.pos; int64(length) > remaining {
		length = int(remaining)
	}
	data, err := r.source.ReadBytes(r.pos, length)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, io.EOF
	}
	n := copy(b, data)
	r.pos += int64(n)
	return n, nil
}

// PageReader parses Thrift page headers and segments level vs value
// regions, yielding decompressed Page values one at a time. It pulls
// from a ChunkSource-backed column chunk range in file order.
type PageReader struct {
	registry CodecRegistry
	codec    format.CompressionCodec
	column   *PhysicalColumn

	buffered *bufio.Reader
	decoder  *thrift.Decoder
	protocol thrift.CompactProtocol

	pos int64
	end int64
	err error
}

// NewPageReader returns a PageReader over the byte range
// [start, start+totalCompressedSize) of source, which must hold
// concatenated, Thrift-header-prefixed pages as laid out on disk.
func NewPageReader(source ChunkSource, start, totalCompressedSize int64, codec format.CompressionCodec, column *PhysicalColumn) *PageReader {
	end := start + totalCompressedSize
	buffered := bufio.NewReader(newChunkSourceReader(source, start, end))
	r := &PageReader{
		codec:    codec,
		column:   column,
		buffered: buffered,
		pos:      start,
		end:      end,
	}
	r.decoder = thrift.NewDecoder(r.protocol.NewReader(&trackingReader{r: buffered, n: &r.pos}))
	return r
}

// trackingReader wraps an io.Reader and adds every byte read to *n, so
// the PageReader can tell exactly how many bytes the last Thrift decode
// consumed.
type trackingReader struct {
	r io.Reader
	n *int64
}

func (t *trackingReader) Read(b []byte) (int, error) {
	n, err := t.r.Read(b)
	*t.n += int64(n)
	return n, err
}

// Err returns the error that halted iteration, or nil if the reader is
// exhausted cleanly (io.EOF is not reported as an error).
func (r *PageReader) Err() error {
	if r.err == io.EOF {
		return nil
	}
	return r.err
}

// Next parses and returns the next page, or (nil, false) when the
// column chunk's byte range is exhausted or an error occurred (check Err
// to distinguish the two).
func (r *PageReader) Next() (*Page, bool) {
	if r.err != nil || r.pos >= r.end {
		if r.err == nil {
			r.err = io.EOF
		}
		return nil, false
	}

	headerStart := r.pos
	header := &format.PageHeader{}
	if err := r.decoder.Decode(header); err != nil {
		r.err = fmt.Errorf("%w: page header at offset %d: %s", ErrFormat, headerStart, err)
		return nil, false
	}

	compressed := make([]byte, header.CompressedPageSize)
	if _, err := io.ReadFull(r.buffered, compressed); err != nil {
		r.err = fmt.Errorf("%w: page body at offset %d: %s", ErrTruncatedInput, r.pos, err)
		return nil, false
	}
	r.pos += int64(len(compressed))

	page, err := r.decodePage(header, compressed)
	if err != nil {
		r.err = err
		return nil, false
	}
	return page, true
}

func (r *PageReader) decodePage(header *format.PageHeader, compressed []byte) (*Page, error) {
	switch header.Type {
	case format.DictionaryPage:
		uncompressed, err := r.decompress(compressed, int(header.UncompressedPageSize))
		if err != nil {
			return nil, err
		}
		return &Page{
			Kind:      DictionaryPageKind,
			Encoding:  header.DictionaryPageHeader.Encoding,
			NumValues: int(header.DictionaryPageHeader.NumValues),
			Values:    uncompressed,
		}, nil

	case format.DataPage:
		uncompressed, err := r.decompress(compressed, int(header.UncompressedPageSize))
		if err != nil {
			return nil, err
		}
		repLevels, defLevels, values, err := splitDataPageV1(uncompressed, r.column.MaxRep, r.column.MaxDef)
		if err != nil {
			return nil, fmt.Errorf("%w: data page v1: %s", ErrFormat, err)
		}
		return &Page{
			Kind:             DataPageV1Kind,
			Encoding:         header.DataPageHeader.Encoding,
			NumValues:        int(header.DataPageHeader.NumValues),
			RepetitionLevels: repLevels,
			DefinitionLevels: defLevels,
			Values:           values,
		}, nil

	case format.DataPageV2:
		h := header.DataPageHeaderV2
		repLen := int(h.RepetitionLevelsByteLength)
		defLen := int(h.DefinitionLevelsByteLength)
		if repLen+defLen > len(compressed) {
			return nil, fmt.Errorf("%w: data page v2 levels declare %d bytes, page has %d", ErrTruncatedInput, repLen+defLen, len(compressed))
		}

		repLevels := compressed[:repLen]
		defLevels := compressed[repLen : repLen+defLen]
		valueSection := compressed[repLen+defLen:]

		var values []byte
		if h.IsCompressed {
			uncompressedValueSize := int(header.UncompressedPageSize) - repLen - defLen
			var err error
			values, err = r.decompress(valueSection, uncompressedValueSize)
			if err != nil {
				return nil, err
			}
		} else {
			values = valueSection
		}

		return &Page{
			Kind:             DataPageV2Kind,
			Encoding:         h.Encoding,
			NumValues:        int(h.NumValues),
			NumNulls:         int(h.NumNulls),
			NumRows:          int(h.NumRows),
			RepetitionLevels: repLevels,
			DefinitionLevels: defLevels,
			Values:           values,
		}, nil

	default:
		return nil, fmt.Errorf("%w: page type %s", ErrUnsupportedFeature, header.Type)
	}
}

func (r *PageReader) decompress(src []byte, uncompressedSize int) ([]byte, error) {
	if r.codec == format.Uncompressed {
		return src, nil
	}
	return r.registry.Decompress(nil, src, r.codec, uncompressedSize)
}
