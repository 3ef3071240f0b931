package parquet

import (
	"bytes"
	"fmt"

	"github.com/colbyte/parquet-go/encoding/rle"
	"github.com/colbyte/parquet-go/format"
)

// ColumnWriter accumulates one physical column's repetition levels,
// definition levels, and non-null values for the row group currently
// being built, and turns them into a dictionary page (optional) plus one
// data page on Flush. It is the writer-side mirror of ColumnChunkDecoder.
type ColumnWriter struct {
	column *PhysicalColumn
	codec  format.CompressionCodec

	// dictionary is nil when dictionary encoding is disabled for this
	// column, and always for INT96 (legacy timestamps, written PLAIN).
	dictionary *dictionaryBuilder

	repLevels []int32
	defLevels []int32
	values    []ColumnValue

	minValue, maxValue ColumnValue
	haveBounds         bool
	nullCount          int64
}

func newColumnWriter(column *PhysicalColumn, cfg writerConfig) *ColumnWriter {
	w := &ColumnWriter{column: column, codec: cfg.codec}
	if cfg.useDictionary && column.PhysicalType != format.Int96 {
		w.dictionary = newDictionaryBuilder(column.PhysicalType, column.TypeLength)
	}
	return w
}

// Append buffers one leveled entry: repLevel/defLevel per this column's
// schema ancestry, and value only when defLevel equals the column's
// MaxDef (a null entry at any lesser definition level carries no value).
func (w *ColumnWriter) Append(repLevel, defLevel int, value ColumnValue) error {
	if defLevel > w.column.MaxDef || defLevel < 0 {
		return fmt.Errorf("%w: column %q: definition level %d out of range [0,%d]", ErrSchemaViolation, w.column, defLevel, w.column.MaxDef)
	}
	if repLevel > w.column.MaxRep || repLevel < 0 {
		return fmt.Errorf("%w: column %q: repetition level %d out of range [0,%d]", ErrSchemaViolation, w.column, repLevel, w.column.MaxRep)
	}

	present := defLevel == w.column.MaxDef
	if present && value.IsNull() {
		return fmt.Errorf("%w: column %q: value required at definition level %d but got null", ErrSchemaViolation, w.column, defLevel)
	}
	if !present && !value.IsNull() {
		return fmt.Errorf("%w: column %q: definition level %d is null but a value was given", ErrSchemaViolation, w.column, defLevel)
	}

	w.repLevels = append(w.repLevels, int32(repLevel))
	w.defLevels = append(w.defLevels, int32(defLevel))
	if present {
		w.values = append(w.values, value)
		w.updateBounds(value)
	} else {
		w.nullCount++
	}
	return nil
}

func (w *ColumnWriter) updateBounds(v ColumnValue) {
	if !w.haveBounds {
		w.minValue, w.maxValue = v, v
		w.haveBounds = true
		return
	}
	if compareColumnValues(v, w.minValue) < 0 {
		w.minValue = v
	}
	if compareColumnValues(v, w.maxValue) > 0 {
		w.maxValue = v
	}
}

// NumValues returns the number of leveled entries buffered so far
// (including nulls).
func (w *ColumnWriter) NumValues() int { return len(w.repLevels) }

// EncodedSize approximates the uncompressed bytes this column's pending
// data would occupy, for FileWriter's row-group byte threshold check. It
// need not be exact: over-estimating splits row groups a little early,
// under-estimating a little late, and neither affects correctness.
func (w *ColumnWriter) EncodedSize() int64 {
	n := int64(len(w.repLevels))
	size := n * 2 // rough per-entry level overhead
	size += int64(len(w.values)) * int64(approxValueWidth(w.column.PhysicalType, w.column.TypeLength))
	return size
}

func approxValueWidth(t format.Type, typeLength int) int {
	switch t {
	case format.Boolean:
		return 1
	case format.Int32, format.Float:
		return 4
	case format.Int64, format.Double:
		return 8
	case format.Int96:
		return 12
	case format.FixedLenByteArray:
		return typeLength
	default: // ByteArray: unknown length ahead of encoding, guess generously
		return 16
	}
}

// Flush encodes this column's buffered levels and values into a
// columnChunkBytes, returning its Statistics and total value count for
// the caller's ColumnMetaData, then resets the writer for the next row
// group.
func (w *ColumnWriter) Flush() (columnChunkBytes, format.Statistics, int64, error) {
	chunk, err := w.flushPages()
	if err != nil {
		return columnChunkBytes{}, format.Statistics{}, 0, err
	}
	stats := columnStatistics(w)
	numValues := int64(len(w.repLevels))
	w.reset()
	return chunk, stats, numValues, nil
}

// reset clears all buffered state for the next row group, including the
// dictionary: each row group's column chunk carries at most one
// dictionary page of its own.
func (w *ColumnWriter) reset() {
	w.repLevels = w.repLevels[:0]
	w.defLevels = w.defLevels[:0]
	w.values = w.values[:0]
	w.haveBounds = false
	w.nullCount = 0
	if w.dictionary != nil {
		w.dictionary.reset()
	}
}

// compareColumnValues orders two non-null ColumnValues of the same kind,
// for min/max statistics tracking. Map/List/Struct values have no
// natural order and are never passed here (only primitive leaf columns
// accumulate bounds).
func compareColumnValues(a, b ColumnValue) int {
	switch a.Kind() {
	case BoolValue:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	case Int32Value:
		switch {
		case a.Int32() < b.Int32():
			return -1
		case a.Int32() > b.Int32():
			return 1
		default:
			return 0
		}
	case Int64Value:
		switch {
		case a.Int64() < b.Int64():
			return -1
		case a.Int64() > b.Int64():
			return 1
		default:
			return 0
		}
	case FloatValue:
		switch {
		case a.Float() < b.Float():
			return -1
		case a.Float() > b.Float():
			return 1
		default:
			return 0
		}
	case DoubleValue:
		switch {
		case a.Double() < b.Double():
			return -1
		case a.Double() > b.Double():
			return 1
		default:
			return 0
		}
	case BytesValue, FixedBytesValue:
		return bytes.Compare(a.Bytes(), b.Bytes())
	default:
		return 0
	}
}

// encodeValueSection encodes w.values (the column's non-null values)
// into the data page's value section. When dictionary encoding is
// enabled it inserts every value into the dictionary as it goes; if the
// dictionary would grow past MaxDictionarySize it falls back to PLAIN
// for this flush instead, so the same budget bounds both paths. The
// returned Encoding tells Flush whether a dictionary page must precede
// the data page.
func (w *ColumnWriter) encodeValueSection() (format.Encoding, []byte, error) {
	if w.dictionary == nil {
		body, err := encodePlainValues(nil, w.column.PhysicalType, w.values, w.column.TypeLength)
		return format.Plain, body, err
	}

	indices := make([]int32, len(w.values))
	for i, v := range w.values {
		idx, err := w.dictionary.indexOf(v)
		if err != nil {
			return 0, nil, err
		}
		indices[i] = idx
	}

	if w.dictionary.Len() > MaxDictionarySize {
		body, err := encodePlainValues(nil, w.column.PhysicalType, w.values, w.column.TypeLength)
		return format.Plain, body, err
	}

	bitWidth := dictionaryIndexBitWidth(w.dictionary.Len())
	body := []byte{byte(bitWidth)}
	body = rle.EncodeInt32(body, indices, bitWidth)
	return format.RLEDictionary, body, nil
}

// dictionaryIndexBitWidth returns the bit width needed to pack an index
// into a dictionary of the given size, matching rle.BitWidthForMaxLevel's
// "ceil(log2(n))" shape but over a value count rather than a level.
func dictionaryIndexBitWidth(size int) uint {
	if size <= 1 {
		return 0
	}
	return rle.BitWidthForMaxLevel(size - 1)
}
