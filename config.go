package parquet

import "github.com/colbyte/parquet-go/format"

// fileConfig collects the options OpenFile accepts, following the
// functional-options convention used throughout this module's reader
// and writer construction.
type fileConfig struct {
	dictionaryBudget int
	filter           Filter
}

// FileOption configures OpenFile's behavior.
type FileOption func(*fileConfig)

// WithDictionaryBudget overrides MaxDictionarySize for every column
// chunk decoder this File's row groups produce.
func WithDictionaryBudget(n int) FileOption {
	return func(c *fileConfig) { c.dictionaryBudget = n }
}

// WithFilter installs a default Filter, applied by
// RowGroup.FilteredRows when no per-call filter is given.
func WithFilter(f Filter) FileOption {
	return func(c *fileConfig) { c.filter = f }
}

func newFileConfig(opts []FileOption) fileConfig {
	c := fileConfig{dictionaryBudget: MaxDictionarySize}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// writerConfig collects the options NewFileWriter accepts.
type writerConfig struct {
	codec             format.CompressionCodec
	rowGroupByteLimit int64
	useDictionary     bool
	createdBy         string
}

// defaultRowGroupByteLimit is the uncompressed-byte budget a row group
// accumulates before FileWriter starts a new one.
const defaultRowGroupByteLimit = 128 << 20

// FileWriterOption configures a FileWriter's behavior.
type FileWriterOption func(*writerConfig)

// WithCompressionCodec sets the codec every column chunk is compressed
// with. The default is SNAPPY.
func WithCompressionCodec(codec format.CompressionCodec) FileWriterOption {
	return func(c *writerConfig) { c.codec = codec }
}

// WithRowGroupByteLimit overrides defaultRowGroupByteLimit.
func WithRowGroupByteLimit(n int64) FileWriterOption {
	return func(c *writerConfig) { c.rowGroupByteLimit = n }
}

// WithDictionaryEncoding toggles RLE_DICTIONARY value encoding. Enabled
// by default; INT96 columns are always written PLAIN regardless of this
// setting, since no dictionary is built for INT96.
func WithDictionaryEncoding(enabled bool) FileWriterOption {
	return func(c *writerConfig) { c.useDictionary = enabled }
}

// WithCreatedBy sets the footer's CreatedBy string.
func WithCreatedBy(who string) FileWriterOption {
	return func(c *writerConfig) { c.createdBy = who }
}

func newWriterConfig(opts []FileWriterOption) writerConfig {
	c := writerConfig{
		codec:             format.Snappy,
		rowGroupByteLimit: defaultRowGroupByteLimit,
		useDictionary:     true,
		createdBy:         "github.com/colbyte/parquet-go",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
