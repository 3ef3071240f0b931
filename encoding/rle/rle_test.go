package rle_test

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/colbyte/parquet-go/encoding/rle"
)

func TestDecodeRLERun(t *testing.T) {
	// S1: 0x06 0x01 decoded with w=2, total=3 -> [1,1,1], cursor advances 2 bytes.
	src := []byte{0x06, 0x01}
	got, err := rle.DecodeInt32(nil, src, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{1, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestDecodeBitPackedRun(t *testing.T) {
	// S2: 0x03 0xE4 0xE4 decoded with w=2, total=8 -> [0,1,2,3,0,1,2,3].
	src := []byte{0x03, 0xE4, 0xE4}
	got, err := rle.DecodeInt32(nil, src, 2, 8)
	if err != nil {
		t.Fatal(err)
	}
	want := []int32{0, 1, 2, 3, 0, 1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, bitWidth := range []uint{1, 2, 3, 4, 7, 8, 13, 32} {
		bitWidth := bitWidth
		t.Run("", func(t *testing.T) {
			prng := rand.New(rand.NewSource(int64(bitWidth)))
			mask := int32(1)
			if bitWidth < 32 {
				mask = (int32(1) << bitWidth) - 1
			} else {
				mask = -1
			}

			for _, n := range []int{0, 1, 7, 8, 9, 100, 257} {
				values := make([]int32, n)
				for i := range values {
					values[i] = prng.Int31() & mask
				}

				encoded := rle.EncodeInt32(nil, values, bitWidth)
				decoded, err := rle.DecodeInt32(nil, encoded, bitWidth, n)
				if err != nil {
					t.Fatalf("bitWidth=%d n=%d: %v", bitWidth, n, err)
				}
				if len(decoded) != n {
					t.Fatalf("bitWidth=%d n=%d: decoded %d values", bitWidth, n, len(decoded))
				}
				if n > 0 && !reflect.DeepEqual(values, decoded) {
					t.Fatalf("bitWidth=%d n=%d: want %v, got %v", bitWidth, n, values, decoded)
				}
			}
		})
	}
}

func TestEncodeEmptyDecodesToEmpty(t *testing.T) {
	encoded := rle.EncodeInt32(nil, nil, 3)
	if len(encoded) != 0 {
		t.Fatalf("expected no bytes emitted for an empty input, got %d", len(encoded))
	}
	decoded, err := rle.DecodeInt32(nil, encoded, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected zero decoded values, got %d", len(decoded))
	}
}

func TestBitWidthForMaxLevel(t *testing.T) {
	cases := []struct {
		maxLevel int
		want     uint
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{255, 8},
	}
	for _, c := range cases {
		if got := rle.BitWidthForMaxLevel(c.maxLevel); got != c.want {
			t.Errorf("BitWidthForMaxLevel(%d) = %d, want %d", c.maxLevel, got, c.want)
		}
	}
}
