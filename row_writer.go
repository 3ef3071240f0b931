package parquet

import "fmt"

// RowWriter translates Rows into per-physical-column ColumnWriter.Append
// calls, the writer-side mirror of RowAssembler: where RowAssembler pulls
// leveled entries out of ColumnChunkDecoders and assembles them into
// nested ColumnValues, RowWriter takes nested ColumnValues apart and
// pushes leveled entries in. It implements the same scope RowAssembler
// does — Primitive, Struct, and Map logical columns; List is not yet
// implemented on either path (see ErrUnsupportedFeature below).
type RowWriter struct {
	schema  *Schema
	columns map[string]*ColumnWriter
}

// NewRowWriter builds a RowWriter over schema, appending into columns
// (one ColumnWriter per physical column path, keyed by PathKey).
func NewRowWriter(schema *Schema, columns map[string]*ColumnWriter) *RowWriter {
	return &RowWriter{schema: schema, columns: columns}
}

func (w *RowWriter) columnFor(col *PhysicalColumn) (*ColumnWriter, error) {
	key := PathKey(col.Path)
	cw, ok := w.columns[key]
	if !ok {
		return nil, fmt.Errorf("%w: no column writer for path %q", ErrFormat, key)
	}
	return cw, nil
}

// WriteRow appends one row's values into their columns' buffered levels
// and values.
func (w *RowWriter) WriteRow(row Row) error {
	if len(row) != len(w.schema.Logical) {
		return fmt.Errorf("%w: row has %d values, schema has %d top-level columns", ErrSchemaViolation, len(row), len(w.schema.Logical))
	}
	for i, col := range w.schema.Logical {
		if err := w.writeColumn(col, row[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *RowWriter) writeColumn(col *LogicalColumn, value ColumnValue) error {
	switch col.Kind {
	case LogicalPrimitive:
		return w.writePrimitive(col.Primitive, value)
	case LogicalStruct:
		return w.writeStruct(col, value)
	case LogicalMap:
		return w.writeMap(col, value)
	case LogicalList:
		return fmt.Errorf("%w: list logical columns", ErrUnsupportedFeature)
	default:
		return fmt.Errorf("%w: logical column kind %d", ErrUnsupportedFeature, col.Kind)
	}
}

// writePrimitive appends a top-level scalar column's value. A null value
// is valid only when the column's schema ancestry grants it one spare
// definition level (MaxDef > 0); a required column (MaxDef == 0) rejects
// a null outright rather than silently encoding an unreadable level,
// per the module's schema-violation policy.
func (w *RowWriter) writePrimitive(pc *PhysicalColumn, value ColumnValue) error {
	cw, err := w.columnFor(pc)
	if err != nil {
		return err
	}
	if value.IsNull() {
		if pc.MaxDef == 0 {
			return fmt.Errorf("%w: column %q: required column cannot be null", ErrSchemaViolation, pc)
		}
		return cw.Append(0, pc.MaxDef-1, NullValue())
	}
	return cw.Append(0, pc.MaxDef, value)
}

func (w *RowWriter) writeStruct(col *LogicalColumn, value ColumnValue) error {
	if value.Kind() != StructValue {
		return fmt.Errorf("%w: struct %q: expected a STRUCT value, got %s", ErrSchemaViolation, col.Name, value.Kind())
	}
	fields := value.Fields()
	if len(fields) != len(col.Fields) {
		return fmt.Errorf("%w: struct %q: expected %d fields, got %d", ErrSchemaViolation, col.Name, len(col.Fields), len(fields))
	}
	for i, field := range col.Fields {
		if err := w.writeColumn(field, fields[i]); err != nil {
			return err
		}
	}
	return nil
}

// writeMap appends one Map logical column's value, inverting
// RowAssembler.assembleMap's three cases: a null map writes a single
// definition-level-0 entry to both key and value columns; a present but
// empty map writes a single entry at keyMaxDef-1; a non-empty map writes
// one entry per pair, repetition level 0 on the first and 1 on the rest.
func (w *RowWriter) writeMap(col *LogicalColumn, value ColumnValue) error {
	if col.Value == nil {
		return fmt.Errorf("%w: map %q has no leaf value column", ErrUnsupportedFeature, col.Name)
	}
	keyCW, err := w.columnFor(col.Key)
	if err != nil {
		return err
	}
	valCW, err := w.columnFor(col.Value)
	if err != nil {
		return err
	}
	keyMaxDef := col.Key.MaxDef

	switch value.Kind() {
	case Null:
		if err := keyCW.Append(0, 0, NullValue()); err != nil {
			return err
		}
		return valCW.Append(0, 0, NullValue())
	case MapValue:
		entries := value.Entries()
		if len(entries) == 0 {
			if err := keyCW.Append(0, keyMaxDef-1, NullValue()); err != nil {
				return err
			}
			return valCW.Append(0, keyMaxDef-1, NullValue())
		}
		for i, entry := range entries {
			rep := 0
			if i > 0 {
				rep = 1
			}
			if entry.Key.IsNull() {
				return fmt.Errorf("%w: map %q: key cannot be null", ErrSchemaViolation, col.Name)
			}
			if err := keyCW.Append(rep, keyMaxDef, entry.Key); err != nil {
				return err
			}
			if entry.Value.IsNull() {
				if col.Value.MaxDef == keyMaxDef {
					return fmt.Errorf("%w: map %q: value column is required but entry has a null value", ErrSchemaViolation, col.Name)
				}
				if err := valCW.Append(rep, col.Value.MaxDef-1, NullValue()); err != nil {
					return err
				}
			} else {
				if err := valCW.Append(rep, col.Value.MaxDef, entry.Value); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: map %q: expected a MAP or null value, got %s", ErrSchemaViolation, col.Name, value.Kind())
	}
}
