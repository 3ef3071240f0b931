// Package format defines the Thrift Compact Protocol structures that make
// up a parquet file's footer metadata and per-page headers, together with
// the enums those structures reference.
//
// The struct tags follow the convention consumed by
// github.com/segmentio/encoding/thrift: "<field-id>,required" or
// "<field-id>,optional".
package format

import "sort"

// Type is the physical storage type of a column, as recorded in the
// file's schema tree.
type Type int32

const (
	Boolean           Type = 0
	Int32             Type = 1
	Int64             Type = 2
	Int96             Type = 3
	Float             Type = 4
	Double            Type = 5
	ByteArray         Type = 6
	FixedLenByteArray Type = 7
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// FieldRepetitionType records whether a schema element is required,
// optional, or repeated relative to its parent.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = 0
	Optional FieldRepetitionType = 1
	Repeated FieldRepetitionType = 2
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

// Encoding identifies how a page's values (or levels, or dictionary
// indices) are laid out on disk.
type Encoding int32

const (
	Plain                Encoding = 0
	PlainDictionary      Encoding = 2
	RLE                  Encoding = 3
	BitPacked            Encoding = 4
	DeltaBinaryPacked    Encoding = 5
	DeltaLengthByteArray Encoding = 6
	DeltaByteArray       Encoding = 7
	RLEDictionary        Encoding = 8
	ByteStreamSplit      Encoding = 9
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPacked:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "UNKNOWN"
	}
}

// CompressionCodec identifies the compression applied to a page's bytes.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = 0
	Snappy       CompressionCodec = 1
	Gzip         CompressionCodec = 2
	Lzo          CompressionCodec = 3
	Brotli       CompressionCodec = 4
	Lz4          CompressionCodec = 5
	Zstd         CompressionCodec = 6
	Lz4Raw       CompressionCodec = 7
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case Lzo:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case Lz4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN"
	}
}

// PageType discriminates the kind of page a PageHeader introduces.
type PageType int32

const (
	DataPage       PageType = 0
	IndexPage      PageType = 1
	DictionaryPage PageType = 2
	DataPageV2     PageType = 3
)

func (t PageType) String() string {
	switch t {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "UNKNOWN"
	}
}

// ConvertedType annotates a SchemaElement with the semantic meaning of
// its physical storage; this module carries the value as opaque
// pass-through metadata.
type ConvertedType int32

// SchemaElement is one node of the flattened schema tree stored in the
// file footer.
type SchemaElement struct {
	Type           Type                `thrift:"1,optional"`
	TypeLength     int32               `thrift:"2,optional"`
	RepetitionType FieldRepetitionType `thrift:"3,optional"`
	Name           string              `thrift:"4,required"`
	NumChildren    int32               `thrift:"5,optional"`
	ConvertedType  ConvertedType       `thrift:"6,optional"`
	Scale          int32               `thrift:"7,optional"`
	Precision      int32               `thrift:"8,optional"`
	FieldID        int32               `thrift:"9,optional"`
}

// KeyValue is a single entry of a FileMetaData's free-form metadata map.
type KeyValue struct {
	Key   string `thrift:"1,required"`
	Value string `thrift:"2,optional"`
}

// SortKeyValueMetadata sorts the slice of key/value metadata entries by
// key, then value, for deterministic footer output.
func SortKeyValueMetadata(kv []KeyValue) {
	sort.Slice(kv, func(i, j int) bool {
		switch {
		case kv[i].Key < kv[j].Key:
			return true
		case kv[i].Key > kv[j].Key:
			return false
		default:
			return kv[i].Value < kv[j].Value
		}
	})
}

// SortingColumn records that a row group's rows are physically sorted by
// the named column.
type SortingColumn struct {
	ColumnIdx  int32 `thrift:"1,required"`
	Descending bool  `thrift:"2,required"`
	NullsFirst bool  `thrift:"3,required"`
}

// Statistics carries optional per-column-chunk summary values.
type Statistics struct {
	Max           []byte `thrift:"1,optional"`
	Min           []byte `thrift:"2,optional"`
	NullCount     int64  `thrift:"3,optional"`
	DistinctCount int64  `thrift:"4,optional"`
	MaxValue      []byte `thrift:"5,optional"`
	MinValue      []byte `thrift:"6,optional"`
}

// PageEncodingStats counts how many pages of each (pageType, encoding)
// pair a column chunk contains.
type PageEncodingStats struct {
	PageType PageType `thrift:"1,required"`
	Encoding Encoding `thrift:"2,required"`
	Count    int32    `thrift:"3,required"`
}

// ColumnMetaData describes one column chunk's storage within a row group.
type ColumnMetaData struct {
	Type                  Type                `thrift:"1,required"`
	Encodings             []Encoding          `thrift:"2,required"`
	PathInSchema          []string            `thrift:"3,required"`
	Codec                 CompressionCodec    `thrift:"4,required"`
	NumValues             int64               `thrift:"5,required"`
	TotalUncompressedSize int64               `thrift:"6,required"`
	TotalCompressedSize   int64               `thrift:"7,required"`
	KeyValueMetadata      []KeyValue          `thrift:"8,optional"`
	DataPageOffset        int64               `thrift:"9,required"`
	IndexPageOffset       int64               `thrift:"10,optional"`
	DictionaryPageOffset  int64               `thrift:"11,optional"`
	Statistics            Statistics          `thrift:"12,optional"`
	EncodingStats         []PageEncodingStats `thrift:"13,optional"`
}

// ColumnChunk is a row group's reference to one column's ColumnMetaData,
// either inline or (rarely) in a separate file.
type ColumnChunk struct {
	FilePath   string         `thrift:"1,optional"`
	FileOffset int64          `thrift:"2,required"`
	MetaData   ColumnMetaData `thrift:"3,optional"`
}

// RowGroup is a horizontal partition of the table: one ColumnChunk per
// column, all sharing the same row range.
type RowGroup struct {
	Columns             []ColumnChunk   `thrift:"1,required"`
	TotalByteSize       int64           `thrift:"2,required"`
	NumRows             int64           `thrift:"3,required"`
	SortingColumns      []SortingColumn `thrift:"4,optional"`
	FileOffset          int64           `thrift:"5,optional"`
	TotalCompressedSize int64           `thrift:"6,optional"`
	Ordinal             int16           `thrift:"7,optional"`
}

// FileMetaData is the root of the Thrift-encoded footer.
type FileMetaData struct {
	Version          int32           `thrift:"1,required"`
	Schema           []SchemaElement `thrift:"2,required"`
	NumRows          int64           `thrift:"3,required"`
	RowGroups        []RowGroup      `thrift:"4,required"`
	KeyValueMetadata []KeyValue      `thrift:"5,optional"`
	CreatedBy        string          `thrift:"6,optional"`
}

// DataPageHeader is the V1 data page header: levels live inside the
// (possibly compressed) page body, each prefixed by a 4-byte length.
type DataPageHeader struct {
	NumValues               int32      `thrift:"1,required"`
	Encoding                Encoding   `thrift:"2,required"`
	DefinitionLevelEncoding Encoding   `thrift:"3,required"`
	RepetitionLevelEncoding Encoding   `thrift:"4,required"`
	Statistics              Statistics `thrift:"5,optional"`
}

// DataPageHeaderV2 is the V2 data page header: levels are always
// uncompressed and their byte lengths are given explicitly, so a reader
// never needs to decompress to find them.
type DataPageHeaderV2 struct {
	NumValues                  int32      `thrift:"1,required"`
	NumNulls                   int32      `thrift:"2,required"`
	NumRows                    int32      `thrift:"3,required"`
	Encoding                   Encoding   `thrift:"4,required"`
	DefinitionLevelsByteLength int32      `thrift:"5,required"`
	RepetitionLevelsByteLength int32      `thrift:"6,required"`
	IsCompressed               bool       `thrift:"7,optional"`
	Statistics                 Statistics `thrift:"8,optional"`
}

// DictionaryPageHeader describes the one dictionary page a column chunk
// may carry before its data pages.
type DictionaryPageHeader struct {
	NumValues int32    `thrift:"1,required"`
	Encoding  Encoding `thrift:"2,required"`
	IsSorted  bool     `thrift:"3,optional"`
}

// PageHeader is the Thrift struct prefixing every page in a column chunk.
// Exactly one of DataPageHeader, DictionaryPageHeader, or DataPageHeaderV2
// is populated, selected by Type.
type PageHeader struct {
	Type                 PageType             `thrift:"1,required"`
	UncompressedPageSize int32                `thrift:"2,required"`
	CompressedPageSize   int32                `thrift:"3,required"`
	CRC                  int32                `thrift:"4,optional"`
	DataPageHeader       DataPageHeader       `thrift:"5,optional"`
	DictionaryPageHeader DictionaryPageHeader `thrift:"7,optional"`
	DataPageHeaderV2     DataPageHeaderV2     `thrift:"8,optional"`
}
