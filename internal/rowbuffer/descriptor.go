// Package rowbuffer implements the in-memory, per-channel row buffer that
// accumulates inserted rows as Arrow columnar vectors between flushes.
package rowbuffer

import "strings"

// LogicalType is the Snowflake logical column type, as surfaced by the
// channel's open-channel response (column metadata).
type LogicalType string

const (
	LogicalFixed         LogicalType = "FIXED"
	LogicalAny           LogicalType = "ANY"
	LogicalArray         LogicalType = "ARRAY"
	LogicalChar          LogicalType = "CHAR"
	LogicalText          LogicalType = "TEXT"
	LogicalObject        LogicalType = "OBJECT"
	LogicalVariant       LogicalType = "VARIANT"
	LogicalTimestampLTZ  LogicalType = "TIMESTAMP_LTZ"
	LogicalTimestampNTZ  LogicalType = "TIMESTAMP_NTZ"
	LogicalTimestampTZ   LogicalType = "TIMESTAMP_TZ"
	LogicalDate          LogicalType = "DATE"
	LogicalTime          LogicalType = "TIME"
	LogicalBoolean       LogicalType = "BOOLEAN"
	LogicalBinary        LogicalType = "BINARY"
	LogicalReal          LogicalType = "REAL"
)

// PhysicalType is the on-wire physical storage width for a column.
type PhysicalType string

const (
	PhysicalRowIndex PhysicalType = "ROWINDEX"
	PhysicalDouble   PhysicalType = "DOUBLE"
	PhysicalSB1      PhysicalType = "SB1"
	PhysicalSB2      PhysicalType = "SB2"
	PhysicalSB4      PhysicalType = "SB4"
	PhysicalSB8      PhysicalType = "SB8"
	PhysicalSB16     PhysicalType = "SB16"
	PhysicalLOB      PhysicalType = "LOB"
	PhysicalBinary   PhysicalType = "BINARY"
	PhysicalRow      PhysicalType = "ROW"
)

// ColumnMetadata is the wire shape of a single column as returned by the
// channel's open-channel response. Precision, Scale, ByteLength, and
// CharLength are optional and only meaningful for a subset of type pairs.
type ColumnMetadata struct {
	Name         string
	Nullable     bool
	LogicalType  string
	PhysicalType string
	Precision    *int
	Scale        *int
	ByteLength   *int
	CharLength   *int
}

// ColumnDescriptor is the materialized, validated form of ColumnMetadata
// used by the schema builder and value encoder. Name has already been
// through NormalizeColumnName.
type ColumnDescriptor struct {
	Name         string
	Nullable     bool
	LogicalType  LogicalType
	PhysicalType PhysicalType
	Precision    *int
	Scale        *int
	ByteLength   *int
	CharLength   *int
}

// NormalizeColumnName applies Snowflake's identifier case-folding: a
// quoted identifier ("Foo") is preserved verbatim with the quotes
// stripped; an unquoted identifier is upper-cased. The same rule is
// applied to schema column names at setup and to row keys at encode
// time, so the two always agree on a lookup key.
func NormalizeColumnName(name string) string {
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		return name[1 : len(name)-1]
	}
	return strings.ToUpper(name)
}
