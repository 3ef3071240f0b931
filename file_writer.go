package parquet

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/segmentio/encoding/thrift"

	"github.com/colbyte/parquet-go/format"
)

// FileWriter encodes rows into a parquet file, the inverse of File: it
// buffers rows column-by-column into one ColumnWriter per physical
// column, periodically flushing a row group once the buffered
// uncompressed size crosses the configured threshold, and
// on Close writes the Thrift-encoded FileMetaData footer plus the
// trailing length and magic.
type FileWriter struct {
	w    io.Writer
	pos  int64
	cfg  writerConfig
	meta format.FileMetaData // Schema and CreatedBy are fixed at construction

	schema  *Schema
	columns map[string]*ColumnWriter
	rows    *RowWriter

	rowGroups           []format.RowGroup
	numRows             int64
	currentRowGroupRows int64

	closed bool
}

// NewFileWriter builds a FileWriter over w, deriving its Schema from
// elements (the same flat SchemaElement list File.Schema's NewSchema
// consumes on read, giving the two paths a shared schema model) and
// writing the file's opening magic.
func NewFileWriter(w io.Writer, elements []format.SchemaElement, opts ...FileWriterOption) (*FileWriter, error) {
	schema, err := NewSchema(elements)
	if err != nil {
		return nil, err
	}
	cfg := newWriterConfig(opts)

	columns := make(map[string]*ColumnWriter, len(schema.Physical))
	for _, col := range schema.Physical {
		columns[PathKey(col.Path)] = newColumnWriter(col, cfg)
	}

	fw := &FileWriter{
		w:       w,
		cfg:     cfg,
		schema:  schema,
		columns: columns,
		rows:    NewRowWriter(schema, columns),
		meta: format.FileMetaData{
			Version:   1,
			Schema:    elements,
			CreatedBy: cfg.createdBy,
		},
	}

	n, err := w.Write([]byte(magic))
	if err != nil {
		return nil, fmt.Errorf("%w: writing magic header: %s", ErrIO, err)
	}
	fw.pos += int64(n)
	return fw, nil
}

// Schema returns the schema this writer was constructed with.
func (fw *FileWriter) Schema() *Schema { return fw.schema }

// AddKeyValueMetadata appends one application-defined key/value pair to
// the footer, sorted by key then value at Close.
func (fw *FileWriter) AddKeyValueMetadata(key, value string) {
	fw.meta.KeyValueMetadata = append(fw.meta.KeyValueMetadata, format.KeyValue{Key: key, Value: value})
}

// WriteRow appends row to the row group currently being built, starting
// a new row group first if the previous one has grown past
// writerConfig.rowGroupByteLimit.
func (fw *FileWriter) WriteRow(row Row) error {
	if fw.closed {
		return fmt.Errorf("%w: write to a closed FileWriter", ErrIO)
	}
	if err := fw.rows.WriteRow(row); err != nil {
		return err
	}
	fw.currentRowGroupRows++
	if fw.bufferedSize() >= fw.cfg.rowGroupByteLimit {
		return fw.flushRowGroup()
	}
	return nil
}

func (fw *FileWriter) bufferedSize() int64 {
	var total int64
	for _, cw := range fw.columns {
		total += cw.EncodedSize()
	}
	return total
}

// flushRowGroup encodes every column's buffered data into a column
// chunk, appends the chunks to the output stream in schema order, and
// records the resulting format.RowGroup. It is a no-op when no rows are
// currently buffered.
func (fw *FileWriter) flushRowGroup() error {
	if fw.currentRowGroupRows == 0 {
		return nil
	}

	columns := make([]format.ColumnChunk, len(fw.schema.Physical))
	var totalByteSize int64

	for i, pc := range fw.schema.Physical {
		cw := fw.columns[PathKey(pc.Path)]
		chunk, stats, numValues, err := cw.Flush()
		if err != nil {
			return fmt.Errorf("row group %d: %w", len(fw.rowGroups), err)
		}

		baseOffset := fw.pos
		if _, err := fw.w.Write(chunk.bytes); err != nil {
			return fmt.Errorf("%w: writing column %q: %s", ErrIO, pc, err)
		}
		fw.pos += int64(len(chunk.bytes))

		meta := format.ColumnMetaData{
			Type:                  pc.PhysicalType,
			Encodings:             columnEncodings(chunk.encoding),
			PathInSchema:          pc.Path,
			Codec:                 fw.cfg.codec,
			NumValues:             numValues,
			TotalUncompressedSize: chunk.totalUncompressedSize,
			TotalCompressedSize:   chunk.totalCompressedSize,
			DataPageOffset:        baseOffset + chunk.dictionaryPageLen,
			Statistics:            stats,
		}
		if chunk.dictionaryPageLen > 0 {
			meta.DictionaryPageOffset = baseOffset
		}

		columns[i] = format.ColumnChunk{FileOffset: baseOffset, MetaData: meta}
		totalByteSize += chunk.totalCompressedSize
	}

	fw.rowGroups = append(fw.rowGroups, format.RowGroup{
		Columns:             columns,
		TotalByteSize:       totalByteSize,
		NumRows:             fw.currentRowGroupRows,
		TotalCompressedSize: totalByteSize,
		Ordinal:             int16(len(fw.rowGroups)),
	})
	fw.numRows += fw.currentRowGroupRows
	fw.currentRowGroupRows = 0
	return nil
}

// columnEncodings lists the Encodings a column chunk's pages use: levels
// are always RLE, and the value encoding is either
// the one data-page encoding in use, or both PLAIN (the dictionary page)
// and RLE_DICTIONARY when dictionary encoding applied.
func columnEncodings(valueEncoding format.Encoding) []format.Encoding {
	if valueEncoding == format.RLEDictionary {
		return []format.Encoding{format.RLE, format.Plain, format.RLEDictionary}
	}
	return []format.Encoding{format.RLE, valueEncoding}
}

// Close flushes any partially filled row group, writes the Thrift
// FileMetaData footer, and writes the trailing footer length and magic.
// It is safe to call more than once.
func (fw *FileWriter) Close() error {
	if fw.closed {
		return nil
	}
	fw.closed = true

	if err := fw.flushRowGroup(); err != nil {
		return err
	}

	format.SortKeyValueMetadata(fw.meta.KeyValueMetadata)
	fw.meta.NumRows = fw.numRows
	fw.meta.RowGroups = fw.rowGroups

	protocol := &thrift.CompactProtocol{}
	footer, err := thrift.Marshal(protocol, &fw.meta)
	if err != nil {
		return fmt.Errorf("%w: encoding file metadata: %s", ErrFormat, err)
	}
	if _, err := fw.w.Write(footer); err != nil {
		return fmt.Errorf("%w: writing footer: %s", ErrIO, err)
	}

	var trailer [8]byte
	binary.LittleEndian.PutUint32(trailer[:4], uint32(len(footer)))
	copy(trailer[4:], magic)
	if _, err := fw.w.Write(trailer[:]); err != nil {
		return fmt.Errorf("%w: writing footer trailer: %s", ErrIO, err)
	}
	return nil
}
