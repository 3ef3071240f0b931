package parquet

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDColumnValueRoundTrip(t *testing.T) {
	want := uuid.New()
	v := UUIDColumnValue(want)
	if v.Kind() != FixedBytesValue {
		t.Fatalf("want FixedBytesValue, got %s", v.Kind())
	}
	got, err := v.UUID()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}

func TestUUIDParsesNonRawForm(t *testing.T) {
	want := uuid.New()
	v := FixedBytesColumnValue([]byte(want.String()))
	got, err := v.UUID()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("want %s, got %s", want, got)
	}
}
