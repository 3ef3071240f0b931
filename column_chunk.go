package parquet

import (
	"fmt"

	"github.com/colbyte/parquet-go/encoding/bytestreamsplit"
	"github.com/colbyte/parquet-go/encoding/delta"
	"github.com/colbyte/parquet-go/encoding/rle"
	"github.com/colbyte/parquet-go/format"
)

// LeveledValue is one entry of a column chunk's null-expanded output
// stream: a repetition level, a definition level, and — when def equals
// the column's MaxDef — the decoded value.
type LeveledValue struct {
	RepetitionLevel int
	DefinitionLevel int
	Value           ColumnValue
}

// ColumnChunkDecoder assembles a physical column's logical values: it
// pulls pages from a PageReader, decodes levels and values per page,
// resolves dictionary indices, and expands null positions, producing the
// synchronized repLevel/defLevel/value stream the RowAssembler consumes.
type ColumnChunkDecoder struct {
	column *PhysicalColumn
	pages  *PageReader
	dict   *Dictionary

	dictionaryBudget int

	pending []LeveledValue
	pos     int
	err     error
	done    bool
}

// ColumnOption configures a single ColumnChunkDecoder's behavior.
type ColumnOption func(*columnChunkConfig)

type columnChunkConfig struct {
	dictionaryBudget int
}

// WithColumnDictionaryBudget overrides MaxDictionarySize for one
// ColumnChunkDecoder, surfacing ErrOversizedDictionary at a
// caller-chosen threshold instead of the package default.
func WithColumnDictionaryBudget(n int) ColumnOption {
	return func(c *columnChunkConfig) { c.dictionaryBudget = n }
}

// NewColumnChunkDecoder wraps pages for column.
func NewColumnChunkDecoder(column *PhysicalColumn, pages *PageReader, opts ...ColumnOption) *ColumnChunkDecoder {
	cfg := columnChunkConfig{dictionaryBudget: MaxDictionarySize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ColumnChunkDecoder{column: column, pages: pages, dictionaryBudget: cfg.dictionaryBudget}
}

// Err returns the error that halted decoding, if any.
func (d *ColumnChunkDecoder) Err() error { return d.err }

// Next returns the next leveled value, pulling and decoding further
// pages as needed. Returns (zero, false) once the chunk is exhausted or
// an error occurred (distinguish via Err).
func (d *ColumnChunkDecoder) Next() (LeveledValue, bool) {
	for d.pos >= len(d.pending) {
		if d.err != nil || d.done {
			return LeveledValue{}, false
		}
		if !d.fillNextPage() {
			return LeveledValue{}, false
		}
	}
	v := d.pending[d.pos]
	d.pos++
	return v, true
}

func (d *ColumnChunkDecoder) fillNextPage() bool {
	page, ok := d.pages.Next()
	if !ok {
		if err := d.pages.Err(); err != nil {
			d.err = err
		} else {
			d.done = true
		}
		return false
	}

	if page.Kind == DictionaryPageKind {
		dict, err := DecodeDictionaryPage(page, d.column, d.dictionaryBudget)
		if err != nil {
			d.err = err
			return false
		}
		d.dict = dict
		return d.fillNextPage()
	}

	values, err := d.decodeDataPage(page)
	if err != nil {
		d.err = err
		return false
	}
	d.pending = values
	d.pos = 0
	return true
}

func (d *ColumnChunkDecoder) decodeDataPage(page *Page) ([]LeveledValue, error) {
	numValues := page.NumValues

	repLevels, err := decodeLevels(page.RepetitionLevels, d.column.MaxRep, numValues)
	if err != nil {
		return nil, fmt.Errorf("repetition levels: %w", err)
	}
	defLevels, err := decodeLevels(page.DefinitionLevels, d.column.MaxDef, numValues)
	if err != nil {
		return nil, fmt.Errorf("definition levels: %w", err)
	}

	nonNull := 0
	for _, def := range defLevels {
		if def == d.column.MaxDef {
			nonNull++
		}
	}

	values, err := d.decodeValues(page, nonNull)
	if err != nil {
		return nil, fmt.Errorf("values: %w", err)
	}
	if len(values) != nonNull {
		return nil, fmt.Errorf("%w: expected %d non-null values, decoded %d", ErrUnderflow, nonNull, len(values))
	}

	out := make([]LeveledValue, numValues)
	vi := 0
	for i := 0; i < numValues; i++ {
		out[i] = LeveledValue{RepetitionLevel: repLevels[i], DefinitionLevel: defLevels[i]}
		if defLevels[i] == d.column.MaxDef {
			out[i].Value = values[vi]
			vi++
		} else {
			out[i].Value = NullValue()
		}
	}
	return out, nil
}

// decodeLevels decodes a level stream, or synthesizes one when the
// column's max level is zero (the stream is always empty/absent in that
// case). The page's level sections already have
// their 4-byte length prefixes stripped by splitDataPageV1/decodePage,
// so src is always a bare hybrid RLE/bit-packed stream here.
func decodeLevels(src []byte, maxLevel, numValues int) ([]int, error) {
	if maxLevel == 0 {
		return make([]int, numValues), nil
	}

	bitWidth := rle.BitWidthForMaxLevel(maxLevel)
	raw, err := rle.DecodeInt32(nil, src, bitWidth, numValues)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}
	return out, nil
}

func (d *ColumnChunkDecoder) decodeValues(page *Page, n int) ([]ColumnValue, error) {
	switch page.Encoding {
	case format.Plain:
		return decodePlainValues(d.column.PhysicalType, page.Values, n, d.column.TypeLength)

	case format.PlainDictionary, format.RLEDictionary:
		if d.dict == nil {
			return nil, fmt.Errorf("%w: dictionary-encoded page with no preceding dictionary page", ErrFormat)
		}
		if len(page.Values) == 0 {
			if n == 0 {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: empty dictionary index stream", ErrTruncatedInput)
		}
		bitWidth := uint(page.Values[0])
		indices, err := rle.DecodeInt32(nil, page.Values[1:], bitWidth, n)
		if err != nil {
			return nil, err
		}
		out := make([]ColumnValue, n)
		for i, idx := range indices {
			v, err := d.dict.Lookup(idx)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case format.DeltaBinaryPacked:
		switch d.column.PhysicalType {
		case format.Int32:
			values, _, err := delta.DecodeInt32(nil, page.Values, n)
			if err != nil {
				return nil, err
			}
			out := make([]ColumnValue, n)
			for i, v := range values {
				out[i] = Int32ColumnValue(v)
			}
			return out, nil
		case format.Int64:
			values, _, err := delta.DecodeInt64(nil, page.Values, n)
			if err != nil {
				return nil, err
			}
			out := make([]ColumnValue, n)
			for i, v := range values {
				out[i] = Int64ColumnValue(v)
			}
			return out, nil
		default:
			return nil, fmt.Errorf("%w: DELTA_BINARY_PACKED on %s", ErrUnsupportedFeature, d.column.PhysicalType)
		}

	case format.DeltaLengthByteArray:
		values, err := delta.DecodeLengthByteArray(page.Values, n)
		if err != nil {
			return nil, err
		}
		out := make([]ColumnValue, n)
		for i, v := range values {
			out[i] = BytesColumnValue(v)
		}
		return out, nil

	case format.DeltaByteArray:
		values, err := delta.DecodeByteArray(page.Values, n)
		if err != nil {
			return nil, err
		}
		out := make([]ColumnValue, n)
		for i, v := range values {
			out[i] = BytesColumnValue(v)
		}
		return out, nil

	case format.ByteStreamSplit:
		switch d.column.PhysicalType {
		case format.Float:
			values, err := bytestreamsplit.DecodeFloat(nil, page.Values, n)
			if err != nil {
				return nil, err
			}
			out := make([]ColumnValue, n)
			for i, v := range values {
				out[i] = FloatColumnValue(v)
			}
			return out, nil
		case format.Double:
			values, err := bytestreamsplit.DecodeDouble(nil, page.Values, n)
			if err != nil {
				return nil, err
			}
			out := make([]ColumnValue, n)
			for i, v := range values {
				out[i] = DoubleColumnValue(v)
			}
			return out, nil
		default:
			return nil, fmt.Errorf("%w: BYTE_STREAM_SPLIT on %s", ErrUnsupportedFeature, d.column.PhysicalType)
		}

	default:
		return nil, fmt.Errorf("%w: value encoding %s", ErrUnsupportedFeature, page.Encoding)
	}
}
