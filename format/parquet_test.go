package format_test

import (
	"reflect"
	"testing"

	"github.com/colbyte/parquet-go/format"
	"github.com/segmentio/encoding/thrift"
)

func TestMarshalUnmarshalFileMetaData(t *testing.T) {
	protocol := &thrift.CompactProtocol{}
	metadata := &format.FileMetaData{
		Version: 1,
		Schema: []format.SchemaElement{
			{Name: "hello"},
		},
		RowGroups: []format.RowGroup{},
	}

	b, err := thrift.Marshal(protocol, metadata)
	if err != nil {
		t.Fatal(err)
	}

	decoded := &format.FileMetaData{}
	if err := thrift.Unmarshal(protocol, b, decoded); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(metadata, decoded) {
		t.Errorf("values mismatch:\nexpected:\n%#v\nfound:\n%#v", metadata, decoded)
	}
}

func TestMarshalUnmarshalPageHeader(t *testing.T) {
	protocol := &thrift.CompactProtocol{}
	header := &format.PageHeader{
		Type:                 format.DataPageV2,
		UncompressedPageSize: 128,
		CompressedPageSize:   96,
		DataPageHeaderV2: format.DataPageHeaderV2{
			NumValues:                  10,
			NumNulls:                   2,
			NumRows:                    10,
			Encoding:                   format.Plain,
			DefinitionLevelsByteLength: 4,
			RepetitionLevelsByteLength: 0,
			IsCompressed:               true,
		},
	}

	b, err := thrift.Marshal(protocol, header)
	if err != nil {
		t.Fatal(err)
	}

	decoded := &format.PageHeader{}
	if err := thrift.Unmarshal(protocol, b, decoded); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(header, decoded) {
		t.Errorf("values mismatch:\nexpected:\n%#v\nfound:\n%#v", header, decoded)
	}
}
