package parquet

import "github.com/google/uuid"

// UUIDColumnValue builds a FixedBytesColumnValue holding u's 16 raw bytes,
// for FIXED_LEN_BYTE_ARRAY(16) columns whose ConvertedType/LogicalType
// marks them UUID.
func UUIDColumnValue(u uuid.UUID) ColumnValue {
	b := make([]byte, 16)
	copy(b, u[:])
	return FixedBytesColumnValue(b)
}

// UUID interprets a FixedBytesValue as a UUID. A 16-byte value is taken
// as the raw form; anything else falls back to uuid.ParseBytes, so
// columns carrying the textual form still resolve.
func (v ColumnValue) UUID() (uuid.UUID, error) {
	b := v.Bytes()
	if len(b) == 16 {
		var u uuid.UUID
		copy(u[:], b)
		return u, nil
	}
	return uuid.ParseBytes(b)
}
