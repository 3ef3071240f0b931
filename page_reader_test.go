package parquet

import (
	"bytes"
	"testing"

	"github.com/segmentio/encoding/thrift"

	"github.com/colbyte/parquet-go/format"
)

func marshalHeader(t *testing.T, h *format.PageHeader) []byte {
	t.Helper()
	protocol := &thrift.CompactProtocol{}
	b, err := thrift.Marshal(protocol, h)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestPageReaderDataPageV1Uncompressed(t *testing.T) {
	column := &PhysicalColumn{PhysicalType: format.Int32, MaxDef: 1, MaxRep: 0}

	values := []byte{1, 2, 3, 4}
	defLevels := []byte{0xAA}
	var body []byte
	body = append(body, 1, 0, 0, 0) // def-level section length prefix
	body = append(body, defLevels...)
	body = append(body, values...)

	header := &format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(len(body)),
		CompressedPageSize:   int32(len(body)),
		DataPageHeader: format.DataPageHeader{
			NumValues: 4,
			Encoding:  format.Plain,
		},
	}

	var buf bytes.Buffer
	buf.Write(marshalHeader(t, header))
	buf.Write(body)

	source := NewMemoryChunkSource(buf.Bytes())
	r := NewPageReader(source, 0, int64(buf.Len()), format.Uncompressed, column)

	page, ok := r.Next()
	if !ok {
		t.Fatalf("expected a page, got error: %v", r.Err())
	}
	if page.Kind != DataPageV1Kind {
		t.Fatalf("want DataPageV1Kind, got %v", page.Kind)
	}
	if page.NumValues != 4 {
		t.Fatalf("want 4 values, got %d", page.NumValues)
	}
	if !bytes.Equal(page.DefinitionLevels, defLevels) {
		t.Fatalf("want def levels %v, got %v", defLevels, page.DefinitionLevels)
	}
	if !bytes.Equal(page.Values, values) {
		t.Fatalf("want values %v, got %v", values, page.Values)
	}
	if page.RepetitionLevels != nil {
		t.Fatalf("expected no repetition levels, got %v", page.RepetitionLevels)
	}

	if _, ok := r.Next(); ok {
		t.Fatal("expected only one page")
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error at end of chunk: %v", r.Err())
	}
}

func TestPageReaderDataPageV2Uncompressed(t *testing.T) {
	column := &PhysicalColumn{PhysicalType: format.Int32, MaxDef: 1, MaxRep: 0}

	repLevels := []byte{}
	defLevels := []byte{0xFF}
	values := []byte{9, 9, 9, 9}
	dataBytes := append(append(append([]byte{}, repLevels...), defLevels...), values...)

	header := &format.PageHeader{
		Type:                 format.DataPageV2,
		UncompressedPageSize: int32(len(dataBytes)),
		CompressedPageSize:   int32(len(dataBytes)),
		DataPageHeaderV2: format.DataPageHeaderV2{
			NumValues:                  4,
			NumNulls:                   0,
			NumRows:                    4,
			Encoding:                   format.Plain,
			DefinitionLevelsByteLength: int32(len(defLevels)),
			RepetitionLevelsByteLength: int32(len(repLevels)),
			IsCompressed:               false,
		},
	}

	var buf bytes.Buffer
	buf.Write(marshalHeader(t, header))
	buf.Write(dataBytes)

	source := NewMemoryChunkSource(buf.Bytes())
	r := NewPageReader(source, 0, int64(buf.Len()), format.Uncompressed, column)

	page, ok := r.Next()
	if !ok {
		t.Fatalf("expected a page, got error: %v", r.Err())
	}
	if page.Kind != DataPageV2Kind {
		t.Fatalf("want DataPageV2Kind, got %v", page.Kind)
	}
	if !bytes.Equal(page.Values, values) {
		t.Fatalf("want values %v, got %v", values, page.Values)
	}
	if !bytes.Equal(page.DefinitionLevels, defLevels) {
		t.Fatalf("want def levels %v, got %v", defLevels, page.DefinitionLevels)
	}
}

func TestPageReaderDictionaryPage(t *testing.T) {
	column := &PhysicalColumn{PhysicalType: format.ByteArray}
	values := []byte{3, 0, 0, 0, 'f', 'o', 'o'}

	header := &format.PageHeader{
		Type:                 format.DictionaryPage,
		UncompressedPageSize: int32(len(values)),
		CompressedPageSize:   int32(len(values)),
		DictionaryPageHeader: format.DictionaryPageHeader{
			NumValues: 1,
			Encoding:  format.Plain,
		},
	}

	var buf bytes.Buffer
	buf.Write(marshalHeader(t, header))
	buf.Write(values)

	source := NewMemoryChunkSource(buf.Bytes())
	r := NewPageReader(source, 0, int64(buf.Len()), format.Uncompressed, column)

	page, ok := r.Next()
	if !ok {
		t.Fatalf("expected a page, got error: %v", r.Err())
	}
	if page.Kind != DictionaryPageKind {
		t.Fatalf("want DictionaryPageKind, got %v", page.Kind)
	}
	if page.NumValues != 1 {
		t.Fatalf("want 1 value, got %d", page.NumValues)
	}
	if !bytes.Equal(page.Values, values) {
		t.Fatalf("want values %v, got %v", values, page.Values)
	}
}
