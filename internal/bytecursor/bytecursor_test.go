package bytecursor_test

import (
	"math/rand"
	"testing"

	"github.com/colbyte/parquet-go/internal/bytecursor"
)

func TestZigzagVarlongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 1<<62 - 1, -(1 << 62), -1 << 63, 1<<63 - 1}

	prng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		values = append(values, int64(prng.Uint64()))
	}

	for _, v := range values {
		buf := bytecursor.AppendZigzagVarint(nil, v)
		if len(buf) > 10 {
			t.Fatalf("encoded length %d exceeds 10 bytes for value %d", len(buf), v)
		}
		c := bytecursor.New(buf)
		got, err := c.ReadZigzagVarlong()
		if err != nil {
			t.Fatalf("decoding %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip mismatch: want %d, got %d", v, got)
		}
		if c.Len() != 0 {
			t.Fatalf("cursor did not consume the whole varint: %d bytes left", c.Len())
		}
	}
}

func TestReadUnsignedVarintTruncated(t *testing.T) {
	// A single continuation byte with nothing following is a truncated
	// varint, not a valid zero-shift value.
	c := bytecursor.New([]byte{0x80})
	if _, err := c.ReadUnsignedVarint(); err == nil {
		t.Fatal("expected an error for a varint ending mid-group")
	}
}

func TestReadUnsignedVarintAtBufferEnd(t *testing.T) {
	// A varint whose final, non-continuation byte is also the last byte
	// of the buffer is valid.
	buf := bytecursor.AppendUnsignedVarint(nil, 300)
	c := bytecursor.New(buf)
	v, err := c.ReadUnsignedVarint()
	if err != nil {
		t.Fatal(err)
	}
	if v != 300 {
		t.Fatalf("want 300, got %d", v)
	}
	if c.Len() != 0 {
		t.Fatalf("expected cursor to be exhausted, %d bytes remain", c.Len())
	}
}

func TestReadUnsignedVarintOverflow(t *testing.T) {
	buf := make([]byte, 6)
	for i := range buf {
		buf[i] = 0x80
	}
	buf[5] = 0x01
	c := bytecursor.New(buf)
	if _, err := c.ReadUnsignedVarint(); err == nil {
		t.Fatal("expected an overflow error for a 32-bit varint longer than 5 bytes")
	}
}

func TestReadBytesAliasesBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	c := bytecursor.New(buf)
	if _, err := c.ReadU8(); err != nil {
		t.Fatal(err)
	}
	got, err := c.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	if &got[0] != &buf[1] {
		t.Fatal("ReadBytes should return a slice aliasing the source buffer")
	}
}
