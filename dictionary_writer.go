package parquet

import "github.com/colbyte/parquet-go/format"

// dictionaryBuilder accumulates a column chunk's distinct values in
// first-seen order, the writer-side mirror of Dictionary: ColumnWriter
// consults it to turn each written value into a dictionary index, and
// Flush encodes its ordered values into the chunk's dictionary page.
type dictionaryBuilder struct {
	physicalType format.Type
	typeLength   int
	index        map[string]int32
	values       []ColumnValue
}

func newDictionaryBuilder(physicalType format.Type, typeLength int) *dictionaryBuilder {
	return &dictionaryBuilder{
		physicalType: physicalType,
		typeLength:   typeLength,
		index:        make(map[string]int32),
	}
}

// indexOf returns v's dictionary index, inserting it if this is the
// first time v has been seen.
func (b *dictionaryBuilder) indexOf(v ColumnValue) (int32, error) {
	key, err := plainValueKey(b.physicalType, v, b.typeLength)
	if err != nil {
		return 0, err
	}
	if idx, ok := b.index[key]; ok {
		return idx, nil
	}
	idx := int32(len(b.values))
	b.values = append(b.values, v)
	b.index[key] = idx
	return idx, nil
}

// Len returns the number of distinct values accumulated so far.
func (b *dictionaryBuilder) Len() int { return len(b.values) }

// encode returns the PLAIN encoding of the dictionary's distinct values,
// in first-seen order, suitable for a dictionary page body.
func (b *dictionaryBuilder) encode() ([]byte, error) {
	return encodePlainValues(nil, b.physicalType, b.values, b.typeLength)
}

// reset drops all accumulated values, for reuse across row groups: each
// row group's column chunk gets a fresh dictionary page.
func (b *dictionaryBuilder) reset() {
	b.index = make(map[string]int32)
	b.values = b.values[:0]
}
