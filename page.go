package parquet

import (
	"encoding/binary"
	"fmt"

	"github.com/colbyte/parquet-go/format"
)

// PageKind discriminates the Page tagged variant.
type PageKind int

const (
	DataPageV1Kind PageKind = iota
	DataPageV2Kind
	DictionaryPageKind
)

// Page is one decompressed page pulled from a column chunk: either a
// data page (V1 or V2) carrying values plus their repetition/definition
// levels, or a dictionary page carrying the column's distinct values.
type Page struct {
	Kind      PageKind
	Encoding  format.Encoding
	NumValues int
	NumNulls  int
	NumRows   int

	// RepetitionLevels and DefinitionLevels hold the raw RLE/bit-packed
	// level streams (still undecoded), present on data pages whose
	// column has a non-zero MaxRep/MaxDef respectively.
	RepetitionLevels []byte
	DefinitionLevels []byte

	// Values holds the page's value section: for DataPageV1/V2, the
	// section that follows the level sections (dictionary indices or
	// plain/delta/etc.-encoded values); for DictionaryPageKind, the
	// full decompressed dictionary body.
	Values []byte
}

// splitDataPageV1 separates a decompressed DataPageV1 body into its
// optional repetition-level section, optional definition-level section,
// and the remaining value bytes. V1 sections are each prefixed by a
// 4-byte little-endian byte length when present, and a section is
// present only when the owning physical column's MaxRep (for
// repetition) or MaxDef (for definition) is greater than zero.
func splitDataPageV1(body []byte, maxRep, maxDef int) (repLevels, defLevels, values []byte, err error) {
	rest := body

	if maxRep > 0 {
		repLevels, rest, err = readLengthPrefixedSection(rest)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("repetition levels: %w", err)
		}
	}
	if maxDef > 0 {
		defLevels, rest, err = readLengthPrefixedSection(rest)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("definition levels: %w", err)
		}
	}
	return repLevels, defLevels, rest, nil
}

func readLengthPrefixedSection(buf []byte) (section, rest []byte, err error) {
	if len(buf) < 4 {
		return nil, nil, fmt.Errorf("%w: need 4-byte length prefix, have %d bytes", ErrTruncatedInput, len(buf))
	}
	length := int(binary.LittleEndian.Uint32(buf))
	if length < 0 || 4+length > len(buf) {
		return nil, nil, fmt.Errorf("%w: section declares %d bytes, only %d available", ErrTruncatedInput, length, len(buf)-4)
	}
	return buf[4 : 4+length], buf[4+length:], nil
}
