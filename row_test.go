package parquet

import (
	"testing"

	"github.com/colbyte/parquet-go/format"
)

// newFakeChunkDecoder feeds a RowAssembler a fixed sequence of
// LeveledValues without needing a real PageReader/ChunkSource behind it.
func newFakeChunkDecoder(values []LeveledValue) *ColumnChunkDecoder {
	return &ColumnChunkDecoder{pending: values, done: true}
}

func TestRowAssemblerPrimitiveStruct(t *testing.T) {
	root, err := NewSchema([]format.SchemaElement{
		elem("root", format.Required, 2, format.Type(0)),
		elem("id", format.Required, 0, format.Int64),
		elem("name", format.Optional, 0, format.ByteArray),
	})
	if err != nil {
		t.Fatal(err)
	}

	idCol := root.Physical[0]
	nameCol := root.Physical[1]

	idDecoder := newFakeChunkDecoder([]LeveledValue{
		{RepetitionLevel: 0, DefinitionLevel: 0, Value: Int64ColumnValue(1)},
		{RepetitionLevel: 0, DefinitionLevel: 0, Value: Int64ColumnValue(2)},
	})
	nameDecoder := newFakeChunkDecoder([]LeveledValue{
		{RepetitionLevel: 0, DefinitionLevel: 1, Value: BytesColumnValue([]byte("alice"))},
		{RepetitionLevel: 0, DefinitionLevel: 0, Value: NullValue()},
	})

	chunks := ColumnChunkSet{
		PathKey(idCol.Path):   idDecoder,
		PathKey(nameCol.Path): nameDecoder,
	}
	assembler := NewRowAssembler(root, chunks)

	row1, ok := assembler.Next()
	if !ok {
		t.Fatalf("expected a row, err=%v", assembler.Err())
	}
	if len(row1) != 2 || row1[0].Int64() != 1 || string(row1[1].Bytes()) != "alice" {
		t.Fatalf("unexpected row: %+v", row1)
	}

	row2, ok := assembler.Next()
	if !ok {
		t.Fatalf("expected a second row, err=%v", assembler.Err())
	}
	if row2[0].Int64() != 2 || !row2[1].IsNull() {
		t.Fatalf("unexpected second row: %+v", row2)
	}

	if _, ok := assembler.Next(); ok {
		t.Fatal("expected the row group to be exhausted")
	}
	if assembler.Err() != nil {
		t.Fatalf("unexpected error: %v", assembler.Err())
	}
}

func TestRowAssemblerMapReconstruction(t *testing.T) {
	elements := []format.SchemaElement{
		elem("root", format.Required, 1, format.Type(0)),
		elem("contacts", format.Optional, 1, format.Type(0)),
		elem("key_value", format.Repeated, 2, format.Type(0)),
		elem("key", format.Required, 0, format.ByteArray),
		elem("value", format.Optional, 0, format.ByteArray),
	}
	root, err := NewSchema(elements)
	if err != nil {
		t.Fatal(err)
	}
	mapCol := root.Logical[0]
	if mapCol.Kind != LogicalMap {
		t.Fatalf("expected a map logical column, got %v", mapCol.Kind)
	}
	keyMaxDef := mapCol.Key.MaxDef   // 2 (optional contacts + repeated key_value)
	valMaxDef := mapCol.Value.MaxDef // 3 (+ optional value)

	// Row 0: map absent (def 0). Row 1: map present, empty (def keyMaxDef-1).
	// Row 2: two entries, first value present, second value null.
	keyDecoder := newFakeChunkDecoder([]LeveledValue{
		{RepetitionLevel: 0, DefinitionLevel: 0, Value: NullValue()},
		{RepetitionLevel: 0, DefinitionLevel: keyMaxDef - 1, Value: NullValue()},
		{RepetitionLevel: 0, DefinitionLevel: keyMaxDef, Value: BytesColumnValue([]byte("a"))},
		{RepetitionLevel: 1, DefinitionLevel: keyMaxDef, Value: BytesColumnValue([]byte("b"))},
	})
	valDecoder := newFakeChunkDecoder([]LeveledValue{
		{RepetitionLevel: 0, DefinitionLevel: 0, Value: NullValue()},
		{RepetitionLevel: 0, DefinitionLevel: keyMaxDef - 1, Value: NullValue()},
		{RepetitionLevel: 0, DefinitionLevel: valMaxDef, Value: BytesColumnValue([]byte("1"))},
		{RepetitionLevel: 1, DefinitionLevel: valMaxDef - 1, Value: NullValue()},
	})

	chunks := ColumnChunkSet{
		PathKey(mapCol.Key.Path):   keyDecoder,
		PathKey(mapCol.Value.Path): valDecoder,
	}
	assembler := NewRowAssembler(root, chunks)

	row0, ok := assembler.Next()
	if !ok {
		t.Fatalf("row 0: err=%v", assembler.Err())
	}
	if !row0[0].IsNull() {
		t.Fatalf("row 0: expected a null map, got %v", row0[0])
	}

	row1, ok := assembler.Next()
	if !ok {
		t.Fatalf("row 1: err=%v", assembler.Err())
	}
	if row1[0].Kind() != MapValue || len(row1[0].Entries()) != 0 {
		t.Fatalf("row 1: expected an empty map, got %v", row1[0])
	}

	row2, ok := assembler.Next()
	if !ok {
		t.Fatalf("row 2: err=%v", assembler.Err())
	}
	entries := row2[0].Entries()
	if len(entries) != 2 {
		t.Fatalf("row 2: expected 2 entries, got %d", len(entries))
	}
	if string(entries[0].Key.Bytes()) != "a" || string(entries[0].Value.Bytes()) != "1" {
		t.Fatalf("row 2: unexpected first entry: %+v", entries[0])
	}
	if string(entries[1].Key.Bytes()) != "b" || !entries[1].Value.IsNull() {
		t.Fatalf("row 2: unexpected second entry: %+v", entries[1])
	}

	if _, ok := assembler.Next(); ok {
		t.Fatal("expected the row group to be exhausted")
	}
}
