package parquet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/colbyte/parquet-go/format"
)

func writeAndReopen(t *testing.T, elements []format.SchemaElement, rows []Row, opts ...FileWriterOption) *File {
	t.Helper()

	var buf bytes.Buffer
	fw, err := NewFileWriter(&buf, elements, opts...)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}
	for i, row := range rows {
		if err := fw.WriteRow(row); err != nil {
			t.Fatalf("WriteRow(%d): %v", i, err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := OpenFile(NewMemoryChunkSource(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	return f
}

func TestFileWriterRoundTripPrimitives(t *testing.T) {
	elements := []format.SchemaElement{
		elem("root", format.Required, 2, 0),
		elem("id", format.Required, 0, format.Int64),
		elem("name", format.Optional, 0, format.ByteArray),
	}
	rows := []Row{
		{Int64ColumnValue(1), BytesColumnValue([]byte("alice"))},
		{Int64ColumnValue(2), NullValue()},
		{Int64ColumnValue(3), BytesColumnValue([]byte("carol"))},
	}

	f := writeAndReopen(t, elements, rows)
	if f.NumRows() != int64(len(rows)) {
		t.Fatalf("want %d rows, got %d", len(rows), f.NumRows())
	}
	if len(f.RowGroups()) != 1 {
		t.Fatalf("want 1 row group, got %d", len(f.RowGroups()))
	}

	assembler, err := f.RowGroups()[0].RowAssembler(f.Schema())
	if err != nil {
		t.Fatal(err)
	}

	var got []Row
	for {
		row, ok := assembler.Next()
		if !ok {
			break
		}
		got = append(got, row)
	}
	if assembler.Err() != nil {
		t.Fatalf("assembling rows: %v", assembler.Err())
	}
	if len(got) != len(rows) {
		t.Fatalf("want %d rows back, got %d", len(rows), len(got))
	}
	for i, row := range got {
		if row[0].Int64() != rows[i][0].Int64() {
			t.Fatalf("row %d: id mismatch: want %d, got %d", i, rows[i][0].Int64(), row[0].Int64())
		}
		wantNull := rows[i][1].IsNull()
		if row[1].IsNull() != wantNull {
			t.Fatalf("row %d: name null mismatch: want null=%v, got null=%v", i, wantNull, row[1].IsNull())
		}
		if !wantNull && string(row[1].Bytes()) != string(rows[i][1].Bytes()) {
			t.Fatalf("row %d: name mismatch: want %q, got %q", i, rows[i][1].Bytes(), row[1].Bytes())
		}
	}
}

func TestFileWriterRoundTripMap(t *testing.T) {
	elements := []format.SchemaElement{
		elem("root", format.Required, 1, 0),
		elem("contacts", format.Optional, 1, 0),
		elem("key_value", format.Repeated, 2, 0),
		elem("key", format.Required, 0, format.ByteArray),
		elem("value", format.Optional, 0, format.ByteArray),
	}

	rows := []Row{
		{MapColumnValue([]MapEntry{
			{Key: BytesColumnValue([]byte("a")), Value: BytesColumnValue([]byte("1"))},
			{Key: BytesColumnValue([]byte("b")), Value: NullValue()},
		})},
		{NullValue()},
		{MapColumnValue(nil)},
	}

	f := writeAndReopen(t, elements, rows)
	assembler, err := f.RowGroups()[0].RowAssembler(f.Schema())
	if err != nil {
		t.Fatal(err)
	}

	var got []Row
	for {
		row, ok := assembler.Next()
		if !ok {
			break
		}
		got = append(got, row)
	}
	if assembler.Err() != nil {
		t.Fatalf("assembling rows: %v", assembler.Err())
	}
	if len(got) != 3 {
		t.Fatalf("want 3 rows, got %d", len(got))
	}

	if got[0][0].IsNull() {
		t.Fatalf("row 0: want a non-null map")
	}
	entries := got[0][0].Entries()
	if len(entries) != 2 {
		t.Fatalf("row 0: want 2 entries, got %d", len(entries))
	}
	if string(entries[0].Key.Bytes()) != "a" || string(entries[0].Value.Bytes()) != "1" {
		t.Fatalf("row 0: entry 0 mismatch: %+v", entries[0])
	}
	if string(entries[1].Key.Bytes()) != "b" || !entries[1].Value.IsNull() {
		t.Fatalf("row 0: entry 1 mismatch: %+v", entries[1])
	}

	if !got[1][0].IsNull() {
		t.Fatalf("row 1: want a null map")
	}

	if got[2][0].IsNull() || got[2][0].Kind() != MapValue || len(got[2][0].Entries()) != 0 {
		t.Fatalf("row 2: want a present, empty map, got %+v", got[2][0])
	}
}

func TestFileWriterRejectsNullInRequiredColumn(t *testing.T) {
	elements := []format.SchemaElement{
		elem("root", format.Required, 1, 0),
		elem("id", format.Required, 0, format.Int64),
	}

	var buf bytes.Buffer
	fw, err := NewFileWriter(&buf, elements)
	if err != nil {
		t.Fatal(err)
	}
	err = fw.WriteRow(Row{NullValue()})
	if err == nil {
		t.Fatal("want an error writing null into a required column")
	}
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("want ErrSchemaViolation, got %v", err)
	}
}

func TestFileWriterDictionaryEncodedRoundTrip(t *testing.T) {
	elements := []format.SchemaElement{
		elem("root", format.Required, 1, 0),
		elem("id", format.Required, 0, format.Int32),
	}

	var buf bytes.Buffer
	fw, err := NewFileWriter(&buf, elements, WithRowGroupByteLimit(1<<30))
	if err != nil {
		t.Fatal(err)
	}
	for i := int32(0); i < 10; i++ {
		if err := fw.WriteRow(Row{Int32ColumnValue(i)}); err != nil {
			t.Fatalf("WriteRow(%d): %v", i, err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := OpenFile(NewMemoryChunkSource(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	assembler, err := f.RowGroups()[0].RowAssembler(f.Schema())
	if err != nil {
		t.Fatal(err)
	}
	var i int32
	for {
		row, ok := assembler.Next()
		if !ok {
			break
		}
		if row[0].Int32() != i {
			t.Fatalf("row %d: want %d, got %d", i, i, row[0].Int32())
		}
		i++
	}
	if assembler.Err() != nil {
		t.Fatal(assembler.Err())
	}
	if i != 10 {
		t.Fatalf("want 10 rows, got %d", i)
	}
}

