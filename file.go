package parquet

import (
	"encoding/binary"
	"fmt"

	"github.com/segmentio/encoding/thrift"

	"github.com/colbyte/parquet-go/format"
)

// magic is the 4-byte marker that opens and closes every parquet file.
const magic = "PAR1"

// File is an opened, footer-parsed parquet file: its schema and row
// group metadata are resolved eagerly, but column chunk bytes are left
// on the ChunkSource until a RowGroup's columns are actually read.
type File struct {
	source    ChunkSource
	protocol  thrift.CompactProtocol
	metadata  format.FileMetaData
	schema    *Schema
	rowGroups []*RowGroup
	config    fileConfig
}

// RowGroup is one horizontal partition of a File: a fixed set of rows,
// stored as one column chunk per physical column.
type RowGroup struct {
	file    *File
	meta    *format.RowGroup
	columns map[string]*format.ColumnChunk
}

// OpenFile reads and validates a parquet file's magic bytes and footer
// from source, without reading any column chunk bytes.
//
// Layout, per the format: a 4-byte "PAR1" magic at offset 0, the
// Thrift-compact-encoded FileMetaData footer, a 4-byte little-endian
// footer length, and a trailing 4-byte "PAR1" magic — in that order,
// ending at source.Length().
func OpenFile(source ChunkSource, opts ...FileOption) (*File, error) {
	size := source.Length()
	if size < 12 {
		return nil, fmt.Errorf("%w: file is %d bytes, too short to hold a magic header, footer, and magic trailer", ErrFormat, size)
	}

	head, err := source.ReadBytes(0, 4)
	if err != nil {
		return nil, fmt.Errorf("%w: reading magic header: %s", ErrFormat, err)
	}
	if string(head) != magic {
		return nil, fmt.Errorf("%w: invalid magic header %q", ErrFormat, head)
	}

	tail, err := source.ReadBytes(size-8, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: reading footer length and magic trailer: %s", ErrFormat, err)
	}
	if string(tail[4:8]) != magic {
		return nil, fmt.Errorf("%w: invalid magic trailer %q", ErrFormat, tail[4:8])
	}

	footerLength := int64(binary.LittleEndian.Uint32(tail[:4]))
	if footerLength <= 0 || footerLength > size-8 {
		return nil, fmt.Errorf("%w: footer length %d out of range for a %d-byte file", ErrFormat, footerLength, size)
	}

	footer, err := source.ReadBytes(size-8-footerLength, int(footerLength))
	if err != nil {
		return nil, fmt.Errorf("%w: reading footer: %s", ErrFormat, err)
	}

	f := &File{source: source, config: newFileConfig(opts)}
	if err := thrift.Unmarshal(&f.protocol, footer, &f.metadata); err != nil {
		return nil, fmt.Errorf("%w: decoding file metadata: %s", ErrFormat, err)
	}
	if len(f.metadata.Schema) == 0 {
		return nil, fmt.Errorf("%w: file metadata has no schema", ErrFormat)
	}

	schema, err := NewSchema(f.metadata.Schema)
	if err != nil {
		return nil, fmt.Errorf("%w: building schema: %s", ErrFormat, err)
	}
	f.schema = schema

	f.rowGroups = make([]*RowGroup, len(f.metadata.RowGroups))
	for i := range f.metadata.RowGroups {
		rg := &f.metadata.RowGroups[i]
		columns := make(map[string]*format.ColumnChunk, len(rg.Columns))
		for j := range rg.Columns {
			cc := &rg.Columns[j]
			columns[PathKey(cc.MetaData.PathInSchema)] = cc
		}
		f.rowGroups[i] = &RowGroup{file: f, meta: rg, columns: columns}
	}

	return f, nil
}

// Schema returns the file's physical/logical column model.
func (f *File) Schema() *Schema { return f.schema }

// NumRows returns the total number of rows across all row groups.
func (f *File) NumRows() int64 { return f.metadata.NumRows }

// RowGroups returns the file's row groups, in file order.
func (f *File) RowGroups() []*RowGroup { return f.rowGroups }

// KeyValueMetadata returns the footer's application-defined key/value
// pairs, passed through unmodified.
func (f *File) KeyValueMetadata() []format.KeyValue { return f.metadata.KeyValueMetadata }

// NumRows returns the number of rows in this row group.
func (g *RowGroup) NumRows() int64 { return g.meta.NumRows }

// SortingColumns returns the row group's declared sort order, if any,
// passed through unmodified.
func (g *RowGroup) SortingColumns() []format.SortingColumn { return g.meta.SortingColumns }

// ColumnChunkDecoder returns a decoder reading the given physical
// column's chunk within this row group.
func (g *RowGroup) ColumnChunkDecoder(column *PhysicalColumn) (*ColumnChunkDecoder, error) {
	cc, ok := g.columns[PathKey(column.Path)]
	if !ok {
		return nil, fmt.Errorf("%w: row group has no column chunk for path %q", ErrFormat, PathKey(column.Path))
	}

	meta := &cc.MetaData
	start := firstOffset(meta)
	pages := NewPageReader(g.file.source, start, meta.TotalCompressedSize, meta.Codec, column)
	return NewColumnChunkDecoder(column, pages, WithColumnDictionaryBudget(g.file.config.dictionaryBudget)), nil
}

// firstOffset returns the byte offset at which this column chunk's
// pages begin: the dictionary page if present, else the first data
// page. TotalCompressedSize, per the format, covers the chunk from this
// offset through its end.
func firstOffset(meta *format.ColumnMetaData) int64 {
	if meta.DictionaryPageOffset > 0 && meta.DictionaryPageOffset < meta.DataPageOffset {
		return meta.DictionaryPageOffset
	}
	return meta.DataPageOffset
}

// RowAssembler returns a RowAssembler reconstructing this row group's
// rows according to schema, pulling one ColumnChunkDecoder per physical
// column lazily.
func (g *RowGroup) RowAssembler(schema *Schema) (*RowAssembler, error) {
	chunks := make(ColumnChunkSet, len(schema.Physical))
	for _, col := range schema.Physical {
		dec, err := g.ColumnChunkDecoder(col)
		if err != nil {
			return nil, err
		}
		chunks[PathKey(col.Path)] = dec
	}
	return NewRowAssembler(schema, chunks), nil
}

// FilteredRows returns a FilteredRowIterator over this row group's rows,
// applying filter (or the File's default Filter from WithFilter, if
// filter is nil) after each row is fully assembled.
func (g *RowGroup) FilteredRows(schema *Schema, filter Filter) (*FilteredRowIterator, error) {
	assembler, err := g.RowAssembler(schema)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = g.file.config.filter
	}
	return NewFilteredRowIterator(assembler, filter), nil
}
