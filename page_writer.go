package parquet

import (
	"fmt"

	"github.com/segmentio/encoding/thrift"

	"github.com/colbyte/parquet-go/encoding/rle"
	"github.com/colbyte/parquet-go/format"
)

// columnChunkBytes is the encoded form of one row group's worth of a
// physical column: an optional leading dictionary page followed by
// exactly one data page, ready to be appended to a FileWriter's output
// stream.
type columnChunkBytes struct {
	bytes                 []byte
	dictionaryPageLen     int64 // 0 when no dictionary page was written
	totalUncompressedSize int64
	totalCompressedSize   int64
	encoding              format.Encoding
}

// flushPages encodes w's buffered levels and values into a
// columnChunkBytes: levels as the hybrid RLE/bit-packed stream (bit
// width 0 omitting the stream entirely), values as PLAIN or
// RLE_DICTIONARY, each page's uncompressed V1 layout being
// "u32 LE repLen, repData, u32 LE defLen, defData, valuesData" before
// the whole page is compressed with the configured codec.
func (w *ColumnWriter) flushPages() (columnChunkBytes, error) {
	valueEncoding, valueBody, err := w.encodeValueSection()
	if err != nil {
		return columnChunkBytes{}, fmt.Errorf("column %q: encoding values: %w", w.column, err)
	}

	var out []byte
	var dictionaryPageLen int64
	var totalUncompressed int64

	if valueEncoding == format.RLEDictionary {
		dictBody, err := w.dictionary.encode()
		if err != nil {
			return columnChunkBytes{}, fmt.Errorf("column %q: encoding dictionary: %w", w.column, err)
		}
		dictPage, uSize, err := encodeDictionaryPage(w.column, w.codec, dictBody, w.dictionary.Len())
		if err != nil {
			return columnChunkBytes{}, err
		}
		out = append(out, dictPage...)
		dictionaryPageLen = int64(len(dictPage))
		totalUncompressed += uSize
	}

	dataPage, uSize, err := encodeDataPageV1(w, valueEncoding, valueBody)
	if err != nil {
		return columnChunkBytes{}, err
	}
	out = append(out, dataPage...)
	totalUncompressed += uSize

	return columnChunkBytes{
		bytes:                 out,
		dictionaryPageLen:     dictionaryPageLen,
		totalUncompressedSize: totalUncompressed,
		totalCompressedSize:   int64(len(out)),
		encoding:              valueEncoding,
	}, nil
}

func encodeDictionaryPage(column *PhysicalColumn, codec format.CompressionCodec, body []byte, numValues int) (pageBytes []byte, uncompressedSize int64, err error) {
	var reg CodecRegistry
	compressed, err := reg.Compress(nil, body, codec)
	if err != nil {
		return nil, 0, fmt.Errorf("column %q: compressing dictionary page: %w", column, err)
	}

	header := &format.PageHeader{
		Type:                 format.DictionaryPage,
		UncompressedPageSize: int32(len(body)),
		CompressedPageSize:   int32(len(compressed)),
		DictionaryPageHeader: format.DictionaryPageHeader{
			NumValues: int32(numValues),
			Encoding:  format.Plain,
		},
	}
	headerBytes, err := marshalPageHeader(header)
	if err != nil {
		return nil, 0, fmt.Errorf("column %q: marshaling dictionary page header: %w", column, err)
	}

	pageBytes = append(headerBytes, compressed...)
	return pageBytes, int64(len(body)), nil
}

func encodeDataPageV1(cw *ColumnWriter, valueEncoding format.Encoding, valueBody []byte) (pageBytes []byte, uncompressedSize int64, err error) {
	column := cw.column
	var body []byte

	if column.MaxRep > 0 {
		bitWidth := rle.BitWidthForMaxLevel(column.MaxRep)
		body = rle.EncodeLengthPrefixed(body, cw.repLevels, bitWidth)
	}
	if column.MaxDef > 0 {
		bitWidth := rle.BitWidthForMaxLevel(column.MaxDef)
		body = rle.EncodeLengthPrefixed(body, cw.defLevels, bitWidth)
	}
	body = append(body, valueBody...)

	var reg CodecRegistry
	compressed, err := reg.Compress(nil, body, cw.codec)
	if err != nil {
		return nil, 0, fmt.Errorf("column %q: compressing data page: %w", column, err)
	}

	header := &format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(len(body)),
		CompressedPageSize:   int32(len(compressed)),
		DataPageHeader: format.DataPageHeader{
			NumValues:               int32(len(cw.repLevels)),
			Encoding:                valueEncoding,
			DefinitionLevelEncoding: format.RLE,
			RepetitionLevelEncoding: format.RLE,
			Statistics:              columnStatistics(cw),
		},
	}
	headerBytes, err := marshalPageHeader(header)
	if err != nil {
		return nil, 0, fmt.Errorf("column %q: marshaling data page header: %w", column, err)
	}

	pageBytes = append(headerBytes, compressed...)
	return pageBytes, int64(len(body)), nil
}

func marshalPageHeader(h *format.PageHeader) ([]byte, error) {
	protocol := &thrift.CompactProtocol{}
	return thrift.Marshal(protocol, h)
}

// columnStatistics builds a format.Statistics from a ColumnWriter's
// accumulated bounds and null count. Bounds are carried as the PLAIN
// encoding of the min/max ColumnValue, mirroring how the format stores
// Statistics.MinValue/MaxValue for every physical type.
func columnStatistics(cw *ColumnWriter) format.Statistics {
	stats := format.Statistics{NullCount: cw.nullCount}
	if !cw.haveBounds {
		return stats
	}
	if min, err := encodePlainValues(nil, cw.column.PhysicalType, []ColumnValue{cw.minValue}, cw.column.TypeLength); err == nil {
		stats.MinValue = min
		stats.Min = min
	}
	if max, err := encodePlainValues(nil, cw.column.PhysicalType, []ColumnValue{cw.maxValue}, cw.column.TypeLength); err == nil {
		stats.MaxValue = max
		stats.Max = max
	}
	return stats
}
