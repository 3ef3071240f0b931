package parquet

import (
	"bytes"
	"testing"

	"github.com/colbyte/parquet-go/format"
)

func TestCodecRegistryDecompressHadoopLz4(t *testing.T) {
	// A Hadoop-framed LZ4 chunk: a 4-byte little-endian compressed
	// length followed by one raw block that decompresses to "hello".
	// The block is literal-only (token 0x50, five literal bytes).
	block := append([]byte{0x50}, []byte("hello")...)
	src := append([]byte{byte(len(block)), 0x00, 0x00, 0x00}, block...)

	var reg CodecRegistry
	got, err := reg.Decompress(nil, src, format.Lz4, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("want %q, got %q", "hello", got)
	}
}

func TestCodecRegistryRoundTripHadoopLz4(t *testing.T) {
	var reg CodecRegistry
	original := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog"), 200)

	compressed, err := reg.Compress(nil, original, format.Lz4)
	if err != nil {
		t.Fatal(err)
	}

	decompressed, err := reg.Decompress(nil, compressed, format.Lz4, len(original))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Fatal("round trip through Hadoop-framed lz4 did not reproduce the original bytes")
	}
}

func TestCodecRegistryRawLz4NeverFramed(t *testing.T) {
	var reg CodecRegistry
	original := []byte("a short value that does not need framing")

	compressed, err := reg.Compress(nil, original, format.Lz4Raw)
	if err != nil {
		t.Fatal(err)
	}

	decompressed, err := reg.Decompress(nil, compressed, format.Lz4Raw, len(original))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, original) {
		t.Fatal("round trip through raw lz4 did not reproduce the original bytes")
	}
}

func TestCodecRegistryRoundTripEachCodec(t *testing.T) {
	var reg CodecRegistry
	original := bytes.Repeat([]byte("parquet column values compress well when repetitive"), 64)

	for _, codec := range []format.CompressionCodec{
		format.Uncompressed,
		format.Snappy,
		format.Gzip,
		format.Brotli,
		format.Zstd,
	} {
		t.Run(codec.String(), func(t *testing.T) {
			compressed, err := reg.Compress(nil, original, codec)
			if err != nil {
				t.Fatal(err)
			}
			decompressed, err := reg.Decompress(nil, compressed, codec, len(original))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(decompressed, original) {
				t.Fatalf("round trip through %s did not reproduce the original bytes", codec)
			}
		})
	}
}

func TestCodecRegistryLookupUnsupported(t *testing.T) {
	var reg CodecRegistry
	c := reg.Lookup(format.Lzo)
	if _, err := c.NewReader(nil); err != nil {
		t.Fatal(err)
	}
	r, _ := c.NewReader(nil)
	if _, err := r.Read(make([]byte, 1)); err == nil {
		t.Fatal("expected an unsupported-feature error for LZO")
	}
}
