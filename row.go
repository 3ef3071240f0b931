package parquet

import (
	"fmt"
	"strings"
)

// PathKey returns the map key a RowAssembler uses to find the column
// chunk decoder for a physical column's path.
func PathKey(path []string) string { return strings.Join(path, ".") }

// ColumnChunkSet maps a physical column's path (PathKey) to the decoder
// reading that column's chunk for the current row group.
type ColumnChunkSet map[string]*ColumnChunkDecoder

// leveledStream wraps a ColumnChunkDecoder with one entry of lookahead,
// which RowAssembler needs to detect a Map's next repetition-level-0
// boundary before consuming it.
type leveledStream struct {
	dec *ColumnChunkDecoder
	has bool
	cur LeveledValue
	err error
}

func newLeveledStream(dec *ColumnChunkDecoder) *leveledStream {
	s := &leveledStream{dec: dec}
	s.advance()
	return s
}

func (s *leveledStream) advance() {
	if s.err != nil {
		s.has = false
		return
	}
	lv, ok := s.dec.Next()
	if !ok {
		s.err = s.dec.Err()
		s.has = false
		return
	}
	s.cur = lv
	s.has = true
}

func (s *leveledStream) Peek() (LeveledValue, bool) { return s.cur, s.has }

func (s *leveledStream) Take() (LeveledValue, bool) {
	if !s.has {
		return LeveledValue{}, false
	}
	v := s.cur
	s.advance()
	return v, true
}

// RowAssembler reconstructs Rows from a Schema's logical columns, pulling
// lazily from one ColumnChunkDecoder per physical column so memory stays
// bounded regardless of row group size. It covers Primitive, Struct, and
// Map logical columns; List logical columns are not yet implemented (see
// ErrUnsupportedFeature below).
type RowAssembler struct {
	schema  *Schema
	streams map[string]*leveledStream
	err     error
}

// NewRowAssembler builds a RowAssembler over schema, reading from chunks
// (one ColumnChunkDecoder per physical column path).
func NewRowAssembler(schema *Schema, chunks ColumnChunkSet) *RowAssembler {
	streams := make(map[string]*leveledStream, len(chunks))
	for key, dec := range chunks {
		streams[key] = newLeveledStream(dec)
	}
	return &RowAssembler{schema: schema, streams: streams}
}

// Err returns the error that halted assembly, if any.
func (a *RowAssembler) Err() error { return a.err }

func (a *RowAssembler) streamFor(col *PhysicalColumn) (*leveledStream, error) {
	key := PathKey(col.Path)
	s, ok := a.streams[key]
	if !ok {
		return nil, fmt.Errorf("%w: no column chunk decoder for path %q", ErrFormat, key)
	}
	return s, nil
}

// Next returns the next reconstructed row, or (nil, false) once the row
// group is exhausted or an error occurred (distinguish via Err).
func (a *RowAssembler) Next() (Row, bool) {
	if a.err != nil || len(a.schema.Logical) == 0 {
		return nil, false
	}

	row := make(Row, len(a.schema.Logical))
	for i, col := range a.schema.Logical {
		v, ok, err := a.assembleColumn(col)
		if err != nil {
			a.err = err
			return nil, false
		}
		if !ok {
			if i != 0 {
				a.err = fmt.Errorf("%w: column %q exhausted before its row-mates", ErrFormat, col.Name)
				return nil, false
			}
			return nil, false
		}
		row[i] = v
	}
	return row, true
}

func (a *RowAssembler) assembleColumn(col *LogicalColumn) (ColumnValue, bool, error) {
	switch col.Kind {
	case LogicalPrimitive:
		return a.assemblePrimitive(col)
	case LogicalStruct:
		return a.assembleStruct(col)
	case LogicalMap:
		return a.assembleMap(col)
	case LogicalList:
		return ColumnValue{}, false, fmt.Errorf("%w: list logical columns", ErrUnsupportedFeature)
	default:
		return ColumnValue{}, false, fmt.Errorf("%w: logical column kind %d", ErrUnsupportedFeature, col.Kind)
	}
}

func (a *RowAssembler) assemblePrimitive(col *LogicalColumn) (ColumnValue, bool, error) {
	s, err := a.streamFor(col.Primitive)
	if err != nil {
		return ColumnValue{}, false, err
	}
	lv, ok := s.Take()
	if !ok {
		return ColumnValue{}, false, s.err
	}
	return lv.Value, true, nil
}

func (a *RowAssembler) assembleStruct(col *LogicalColumn) (ColumnValue, bool, error) {
	fields := make([]ColumnValue, len(col.Fields))
	for i, field := range col.Fields {
		v, ok, err := a.assembleColumn(field)
		if err != nil {
			return ColumnValue{}, false, err
		}
		if !ok {
			if i != 0 {
				return ColumnValue{}, false, fmt.Errorf("%w: struct field %q exhausted before its row-mates", ErrFormat, field.Name)
			}
			return ColumnValue{}, false, nil
		}
		fields[i] = v
	}
	return StructColumnValue(fields), true, nil
}

// assembleMap implements the Map reconstruction rule: a definition level
// of 0 on the key stream means the whole map is null for this row; a
// definition level of keyMaxDef-1 means the map is present but has no
// entries; otherwise a repetition level of 0 starts the row's first
// entry and subsequent entries carry repetition level 1, until the next
// repetition level 0 (which belongs to the following row) or the stream
// is exhausted.
func (a *RowAssembler) assembleMap(col *LogicalColumn) (ColumnValue, bool, error) {
	if col.Value == nil {
		return ColumnValue{}, false, fmt.Errorf("%w: map %q has no leaf value column", ErrUnsupportedFeature, col.Name)
	}

	keyStream, err := a.streamFor(col.Key)
	if err != nil {
		return ColumnValue{}, false, err
	}
	valStream, err := a.streamFor(col.Value)
	if err != nil {
		return ColumnValue{}, false, err
	}

	head, ok := keyStream.Peek()
	if !ok {
		return ColumnValue{}, false, keyStream.err
	}
	if head.RepetitionLevel != 0 {
		return ColumnValue{}, false, fmt.Errorf("%w: map %q: expected repetition level 0 at row start, got %d", ErrFormat, col.Name, head.RepetitionLevel)
	}

	keyMaxDef := col.Key.MaxDef

	if head.DefinitionLevel == 0 {
		keyStream.Take()
		if _, ok := valStream.Take(); !ok {
			return ColumnValue{}, false, fmt.Errorf("%w: map %q: value stream shorter than key stream", ErrFormat, col.Name)
		}
		return NullValue(), true, nil
	}
	if head.DefinitionLevel == keyMaxDef-1 {
		keyStream.Take()
		if _, ok := valStream.Take(); !ok {
			return ColumnValue{}, false, fmt.Errorf("%w: map %q: value stream shorter than key stream", ErrFormat, col.Name)
		}
		return MapColumnValue(nil), true, nil
	}

	var entries []MapEntry
	first := true
	for {
		next, ok := keyStream.Peek()
		if !ok {
			break
		}
		if !first && next.RepetitionLevel == 0 {
			break
		}
		keyLv, _ := keyStream.Take()
		valLv, ok := valStream.Take()
		if !ok {
			return ColumnValue{}, false, fmt.Errorf("%w: map %q: value stream shorter than key stream", ErrFormat, col.Name)
		}
		entries = append(entries, MapEntry{Key: keyLv.Value, Value: valLv.Value})
		first = false
	}
	return MapColumnValue(entries), true, nil
}
