package parquet

import (
	"fmt"

	"github.com/colbyte/parquet-go/encoding/plain"
	"github.com/colbyte/parquet-go/format"
)

// MaxDictionarySize bounds the number of values a dictionary page may
// hold; a column chunk declaring a dictionary page larger than this
// fails with ErrOversizedDictionary rather than allocating unbounded
// memory for malformed input.
const MaxDictionarySize = 1 << 20

// ErrOversizedDictionary reports a dictionary page whose declared value
// count exceeds MaxDictionarySize.
var ErrOversizedDictionary = fmt.Errorf("%w: dictionary page exceeds %d values", ErrFormat, MaxDictionarySize)

// Dictionary holds the distinct values of a column chunk's dictionary
// page, indexable by the integer indices a data page's RLE_DICTIONARY or
// PLAIN_DICTIONARY value stream carries.
type Dictionary struct {
	physicalType format.Type
	values       []ColumnValue
}

// DecodeDictionaryPage builds a Dictionary from a decompressed
// DictionaryPageKind page. The page's encoding must be PLAIN or
// PLAIN_DICTIONARY (the only encodings the format allows for dictionary
// pages). maxDictionarySize overrides MaxDictionarySize when given
// (via WithColumnDictionaryBudget); omit it to use the default budget.
func DecodeDictionaryPage(page *Page, column *PhysicalColumn, maxDictionarySize ...int) (*Dictionary, error) {
	budget := MaxDictionarySize
	if len(maxDictionarySize) > 0 {
		budget = maxDictionarySize[0]
	}
	if page.Kind != DictionaryPageKind {
		return nil, fmt.Errorf("%w: expected a dictionary page", ErrFormat)
	}
	if page.Encoding != format.Plain && page.Encoding != format.PlainDictionary {
		return nil, fmt.Errorf("%w: dictionary page encoding %s", ErrUnsupportedFeature, page.Encoding)
	}
	if page.NumValues > budget {
		return nil, ErrOversizedDictionary
	}

	values, err := decodePlainValues(column.PhysicalType, page.Values, page.NumValues, column.TypeLength)
	if err != nil {
		return nil, fmt.Errorf("dictionary page: %w", err)
	}
	return &Dictionary{physicalType: column.PhysicalType, values: values}, nil
}

// Len returns the number of distinct values in the dictionary.
func (d *Dictionary) Len() int { return len(d.values) }

// Lookup returns the value at index i, or an error if i is out of
// range.
func (d *Dictionary) Lookup(i int32) (ColumnValue, error) {
	if i < 0 || int(i) >= len(d.values) {
		return ColumnValue{}, fmt.Errorf("%w: dictionary index %d, size %d", ErrOverflow, i, len(d.values))
	}
	return d.values[i], nil
}

// decodePlainValues decodes n PLAIN-encoded values of the given physical
// type from src into ColumnValues.
func decodePlainValues(physicalType format.Type, src []byte, n int, typeLength int) ([]ColumnValue, error) {
	out := make([]ColumnValue, 0, n)

	switch physicalType {
	case format.Boolean:
		values, err := plain.DecodeBoolean(nil, src, n)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			out = append(out, BoolColumnValue(v))
		}

	case format.Int32:
		values, err := plain.DecodeInt32(nil, src, n)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			out = append(out, Int32ColumnValue(v))
		}

	case format.Int64:
		values, err := plain.DecodeInt64(nil, src, n)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			out = append(out, Int64ColumnValue(v))
		}

	case format.Int96:
		values, err := plain.DecodeInt96(nil, src, n)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			out = append(out, Int96ColumnValue(v))
		}

	case format.Float:
		values, err := plain.DecodeFloat(nil, src, n)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			out = append(out, FloatColumnValue(v))
		}

	case format.Double:
		values, err := plain.DecodeDouble(nil, src, n)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			out = append(out, DoubleColumnValue(v))
		}

	case format.ByteArray:
		values, err := plain.DecodeByteArray(src, n)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			out = append(out, BytesColumnValue(v))
		}

	case format.FixedLenByteArray:
		values, err := plain.DecodeFixedLenByteArray(src, n, typeLength)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			out = append(out, FixedBytesColumnValue(v))
		}

	default:
		return nil, fmt.Errorf("%w: physical type %s", ErrUnsupportedFeature, physicalType)
	}

	return out, nil
}

// encodePlainValues appends the PLAIN encoding of values (all non-null)
// to dst, the inverse of decodePlainValues. It is used by ColumnWriter
// for both a column's data page values and a dictionary page's distinct
// values.
func encodePlainValues(dst []byte, physicalType format.Type, values []ColumnValue, typeLength int) ([]byte, error) {
	switch physicalType {
	case format.Boolean:
		bools := make([]bool, len(values))
		for i, v := range values {
			bools[i] = v.Bool()
		}
		return plain.EncodeBoolean(dst, bools), nil

	case format.Int32:
		ints := make([]int32, len(values))
		for i, v := range values {
			ints[i] = v.Int32()
		}
		return plain.EncodeInt32(dst, ints), nil

	case format.Int64:
		ints := make([]int64, len(values))
		for i, v := range values {
			ints[i] = v.Int64()
		}
		return plain.EncodeInt64(dst, ints), nil

	case format.Int96:
		for _, v := range values {
			b := v.Int96()
			dst = append(dst, b[:]...)
		}
		return dst, nil

	case format.Float:
		floats := make([]float32, len(values))
		for i, v := range values {
			floats[i] = v.Float()
		}
		return plain.EncodeFloat(dst, floats), nil

	case format.Double:
		doubles := make([]float64, len(values))
		for i, v := range values {
			doubles[i] = v.Double()
		}
		return plain.EncodeDouble(dst, doubles), nil

	case format.ByteArray:
		byteValues := make([][]byte, len(values))
		for i, v := range values {
			byteValues[i] = v.Bytes()
		}
		return plain.EncodeByteArray(dst, byteValues), nil

	case format.FixedLenByteArray:
		byteValues := make([][]byte, len(values))
		for i, v := range values {
			byteValues[i] = v.Bytes()
		}
		return plain.EncodeFixedLenByteArray(dst, byteValues, typeLength), nil

	default:
		return nil, fmt.Errorf("%w: physical type %s", ErrUnsupportedFeature, physicalType)
	}
}

// plainValueKey returns a byte representation of v suitable as a
// dictionaryBuilder lookup key: equal values always produce equal keys,
// for every physical type PLAIN can encode.
func plainValueKey(physicalType format.Type, v ColumnValue, typeLength int) (string, error) {
	b, err := encodePlainValues(nil, physicalType, []ColumnValue{v}, typeLength)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
