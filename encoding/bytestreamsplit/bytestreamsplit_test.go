package bytestreamsplit_test

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/colbyte/parquet-go/encoding/bytestreamsplit"
)

func TestFloatRoundTrip(t *testing.T) {
	values := []float32{0, 1, -1, 3.14159, -2.71828, 1e30, -1e-30}
	encoded := bytestreamsplit.EncodeFloat(nil, values)
	if len(encoded) != len(values)*4 {
		t.Fatalf("expected %d bytes, got %d", len(values)*4, len(encoded))
	}
	decoded, err := bytestreamsplit.DecodeFloat(nil, encoded, len(values))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(values, decoded) {
		t.Fatalf("want %v, got %v", values, decoded)
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	prng := rand.New(rand.NewSource(5))
	values := make([]float64, 64)
	for i := range values {
		values[i] = prng.NormFloat64() * 1e6
	}
	encoded := bytestreamsplit.EncodeDouble(nil, values)
	if len(encoded) != len(values)*8 {
		t.Fatalf("expected %d bytes, got %d", len(values)*8, len(encoded))
	}
	decoded, err := bytestreamsplit.DecodeDouble(nil, encoded, len(values))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(values, decoded) {
		t.Fatalf("want %v, got %v", values, decoded)
	}
}

func TestTransposedLayout(t *testing.T) {
	// Four values of width 2: bytes should appear as all-first-bytes
	// then all-second-bytes, not interleaved.
	values := [][]byte{{0x01, 0xAA}, {0x02, 0xBB}, {0x03, 0xCC}, {0x04, 0xDD}}
	encoded := bytestreamsplit.Encode(nil, values, 2)
	want := []byte{0x01, 0x02, 0x03, 0x04, 0xAA, 0xBB, 0xCC, 0xDD}
	if !reflect.DeepEqual(encoded, want) {
		t.Fatalf("want %v, got %v", want, encoded)
	}

	decoded, err := bytestreamsplit.Decode(encoded, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range values {
		if !reflect.DeepEqual(values[i], decoded[i]) {
			t.Fatalf("index %d: want %v, got %v", i, values[i], decoded[i])
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	if _, err := bytestreamsplit.Decode([]byte{1, 2, 3}, 1, 4); err == nil {
		t.Fatal("expected an error for a truncated stream")
	}
}
