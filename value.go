package parquet

import "fmt"

// ValueKind discriminates the ColumnValue tagged union.
type ValueKind int

const (
	Null ValueKind = iota
	BoolValue
	Int32Value
	Int64Value
	Int96Value
	FloatValue
	DoubleValue
	BytesValue
	FixedBytesValue
	MapValue
	ListValue
	StructValue
)

func (k ValueKind) String() string {
	switch k {
	case Null:
		return "NULL"
	case BoolValue:
		return "BOOL"
	case Int32Value:
		return "INT32"
	case Int64Value:
		return "INT64"
	case Int96Value:
		return "INT96"
	case FloatValue:
		return "FLOAT"
	case DoubleValue:
		return "DOUBLE"
	case BytesValue:
		return "BYTES"
	case FixedBytesValue:
		return "FIXED_BYTES"
	case MapValue:
		return "MAP"
	case ListValue:
		return "LIST"
	case StructValue:
		return "STRUCT"
	default:
		return "UNKNOWN"
	}
}

// MapEntry is one key/value pair of a reconstructed ColumnValue of kind
// MapValue.
type MapEntry struct {
	Key   ColumnValue
	Value ColumnValue
}

// ColumnValue is a single logical row value: null, a scalar, or — for
// Map/List logical columns — an ordered collection built from child
// values. It is the unit the RowAssembler emits and the ColumnWriter
// consumes.
type ColumnValue struct {
	kind    ValueKind
	boolean bool
	i32     int32
	i64     int64
	i96     [12]byte
	f32     float32
	f64     float64
	bytes   []byte
	entries []MapEntry
	list    []ColumnValue
}

func (v ColumnValue) Kind() ValueKind { return v.kind }
func (v ColumnValue) IsNull() bool    { return v.kind == Null }

func NullValue() ColumnValue { return ColumnValue{kind: Null} }

func BoolColumnValue(b bool) ColumnValue { return ColumnValue{kind: BoolValue, boolean: b} }
func Int32ColumnValue(i int32) ColumnValue { return ColumnValue{kind: Int32Value, i32: i} }
func Int64ColumnValue(i int64) ColumnValue { return ColumnValue{kind: Int64Value, i64: i} }

func Int96ColumnValue(b [12]byte) ColumnValue { return ColumnValue{kind: Int96Value, i96: b} }

func FloatColumnValue(f float32) ColumnValue  { return ColumnValue{kind: FloatValue, f32: f} }
func DoubleColumnValue(f float64) ColumnValue { return ColumnValue{kind: DoubleValue, f64: f} }

func BytesColumnValue(b []byte) ColumnValue { return ColumnValue{kind: BytesValue, bytes: b} }

func FixedBytesColumnValue(b []byte) ColumnValue {
	return ColumnValue{kind: FixedBytesValue, bytes: b}
}

func MapColumnValue(entries []MapEntry) ColumnValue {
	return ColumnValue{kind: MapValue, entries: entries}
}

func ListColumnValue(values []ColumnValue) ColumnValue {
	return ColumnValue{kind: ListValue, list: values}
}

// StructColumnValue builds a StructValue from its fields, in the same
// order as the owning LogicalColumn's Fields.
func StructColumnValue(fields []ColumnValue) ColumnValue {
	return ColumnValue{kind: StructValue, list: fields}
}

func (v ColumnValue) Bool() bool    { return v.boolean }
func (v ColumnValue) Int32() int32  { return v.i32 }
func (v ColumnValue) Int64() int64  { return v.i64 }
func (v ColumnValue) Int96() [12]byte { return v.i96 }
func (v ColumnValue) Float() float32  { return v.f32 }
func (v ColumnValue) Double() float64 { return v.f64 }
func (v ColumnValue) Bytes() []byte   { return v.bytes }
func (v ColumnValue) Entries() []MapEntry { return v.entries }
func (v ColumnValue) List() []ColumnValue { return v.list }

// Fields returns a StructValue's field values, in LogicalColumn.Fields
// order. It is an alias over the same backing storage as List.
func (v ColumnValue) Fields() []ColumnValue { return v.list }

func (v ColumnValue) String() string {
	switch v.kind {
	case Null:
		return "null"
	case BoolValue:
		return fmt.Sprintf("%v", v.boolean)
	case Int32Value:
		return fmt.Sprintf("%d", v.i32)
	case Int64Value:
		return fmt.Sprintf("%d", v.i64)
	case Int96Value:
		return fmt.Sprintf("%x", v.i96)
	case FloatValue:
		return fmt.Sprintf("%g", v.f32)
	case DoubleValue:
		return fmt.Sprintf("%g", v.f64)
	case BytesValue, FixedBytesValue:
		return fmt.Sprintf("%q", v.bytes)
	case MapValue:
		return fmt.Sprintf("map[%d entries]", len(v.entries))
	case ListValue:
		return fmt.Sprintf("list[%d elements]", len(v.list))
	case StructValue:
		return fmt.Sprintf("struct[%d fields]", len(v.list))
	default:
		return "<invalid>"
	}
}

// Row is an ordered vector of logical-column values, one per top-level
// LogicalColumn of a Schema.
type Row []ColumnValue
