package delta_test

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/colbyte/parquet-go/encoding/delta"
	"github.com/colbyte/parquet-go/internal/bytecursor"
)

func TestDecodeInt32AllZeroMiniBlocks(t *testing.T) {
	// S3: header block=128, miniBlocks=4, total=4, first=0; one block,
	// minDelta=1, all mini-block bit widths 0 -> [0,1,2,3].
	var buf []byte
	buf = bytecursor.AppendUnsignedVarint(buf, 128)
	buf = bytecursor.AppendUnsignedVarint(buf, 4)
	buf = bytecursor.AppendUnsignedVarint(buf, 4)
	buf = bytecursor.AppendZigzagVarint(buf, 0)
	buf = bytecursor.AppendZigzagVarint(buf, 1)
	buf = append(buf, 0, 0, 0, 0)

	got, n, err := delta.DecodeInt32(nil, buf, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{0, 1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	if n != len(buf) {
		t.Fatalf("expected the whole %d-byte header+block to be consumed, consumed %d", len(buf), n)
	}
}

func TestEncodeDecodeInt32RoundTrip(t *testing.T) {
	prng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 4, 127, 128, 129, 500} {
		values := make([]int32, n)
		v := int32(0)
		for i := range values {
			v += prng.Int31n(2001) - 1000
			values[i] = v
		}

		encoded := delta.EncodeInt32(nil, values)
		decoded, consumed, err := delta.DecodeInt32(nil, encoded, n)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if consumed != len(encoded) {
			t.Fatalf("n=%d: consumed %d of %d encoded bytes", n, consumed, len(encoded))
		}
		if len(decoded) != n {
			t.Fatalf("n=%d: decoded %d values", n, len(decoded))
		}
		if n > 0 && !reflect.DeepEqual(values, decoded) {
			t.Fatalf("n=%d: want %v, got %v", n, values, decoded)
		}
	}
}

func TestEncodeDecodeInt64RoundTrip(t *testing.T) {
	prng := rand.New(rand.NewSource(11))
	values := make([]int64, 300)
	v := int64(0)
	for i := range values {
		v += prng.Int63n(1_000_000) - 500_000
		values[i] = v
	}

	encoded := delta.EncodeInt64(nil, values)
	decoded, consumed, err := delta.DecodeInt64(nil, encoded, len(values))
	if err != nil {
		t.Fatal(err)
	}
	if consumed != len(encoded) {
		t.Fatalf("consumed %d of %d encoded bytes", consumed, len(encoded))
	}
	if !reflect.DeepEqual(values, decoded) {
		t.Fatalf("want %v, got %v", values, decoded)
	}
}

func TestCursorInvariantEnablesBackToBackStreams(t *testing.T) {
	// Two independent DELTA_BINARY_PACKED streams concatenated back to
	// back, as in DELTA_BYTE_ARRAY's prefix/suffix length streams: the
	// second decode must start exactly where the first left off.
	first := []int32{0, 1, 1, 2, 3, 5, 8}
	second := []int32{10, 9, 8, 7}

	var buf []byte
	buf = delta.EncodeInt32(buf, first)
	boundary := len(buf)
	buf = delta.EncodeInt32(buf, second)

	gotFirst, n, err := delta.DecodeInt32(nil, buf, len(first))
	if err != nil {
		t.Fatal(err)
	}
	if n != boundary {
		t.Fatalf("first stream should consume exactly %d bytes, consumed %d", boundary, n)
	}
	if !reflect.DeepEqual(gotFirst, first) {
		t.Fatalf("want %v, got %v", first, gotFirst)
	}

	gotSecond, _, err := delta.DecodeInt32(nil, buf[n:], len(second))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotSecond, second) {
		t.Fatalf("want %v, got %v", second, gotSecond)
	}
}
