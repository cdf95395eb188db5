package rowbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thalesmg/snowflake-ingest-streaming/internal/ingesterr"
)

func TestSetupSchemaTypeMatrix(t *testing.T) {
	cases := []struct {
		name string
		col  ColumnMetadata
		kind VectorKind
	}{
		{"FIXED SB1 scale 0", ColumnMetadata{Name: "A", LogicalType: "FIXED", PhysicalType: "SB1", Scale: intPtr(0)}, KindFixedWidth1},
		{"FIXED SB2 scale 0", ColumnMetadata{Name: "B", LogicalType: "FIXED", PhysicalType: "SB2", Scale: intPtr(0)}, KindFixedWidth2},
		{"FIXED SB4 scale 0", ColumnMetadata{Name: "C", LogicalType: "FIXED", PhysicalType: "SB4", Scale: intPtr(0)}, KindFixedWidth4},
		{"FIXED SB8 scale 0", ColumnMetadata{Name: "D", LogicalType: "FIXED", PhysicalType: "SB8", Scale: intPtr(0)}, KindFixedWidth8},
		{"FIXED SB4 scale 2 decimal", ColumnMetadata{Name: "E", LogicalType: "FIXED", PhysicalType: "SB4", Scale: intPtr(2), Precision: intPtr(9)}, KindDecimal128},
		{"FIXED SB16 always decimal", ColumnMetadata{Name: "F", LogicalType: "FIXED", PhysicalType: "SB16", Scale: intPtr(0), Precision: intPtr(38)}, KindDecimal128},
		{"TEXT", ColumnMetadata{Name: "G", LogicalType: "TEXT", PhysicalType: "LOB"}, KindVarUtf8},
		{"VARIANT", ColumnMetadata{Name: "H", LogicalType: "VARIANT", PhysicalType: "LOB"}, KindVarUtf8},
		{"TIMESTAMP_NTZ SB8", ColumnMetadata{Name: "I", LogicalType: "TIMESTAMP_NTZ", PhysicalType: "SB8", Scale: intPtr(6)}, KindFixedWidth8},
		{"TIMESTAMP_LTZ SB16", ColumnMetadata{Name: "J", LogicalType: "TIMESTAMP_LTZ", PhysicalType: "SB16", Scale: intPtr(9)}, KindStruct},
		{"DATE", ColumnMetadata{Name: "K", LogicalType: "DATE", PhysicalType: "SB4"}, KindDate},
		{"TIME SB4", ColumnMetadata{Name: "L", LogicalType: "TIME", PhysicalType: "SB4", Scale: intPtr(0)}, KindFixedWidth4},
		{"TIME SB8", ColumnMetadata{Name: "M", LogicalType: "TIME", PhysicalType: "SB8", Scale: intPtr(9)}, KindFixedWidth8},
		{"BOOLEAN", ColumnMetadata{Name: "N", LogicalType: "BOOLEAN", PhysicalType: "SB1"}, KindBoolean},
		{"BINARY", ColumnMetadata{Name: "O", LogicalType: "BINARY", PhysicalType: "LOB"}, KindVarBinary},
		{"REAL", ColumnMetadata{Name: "P", LogicalType: "REAL", PhysicalType: "DOUBLE"}, KindFloat8},
	}

	channel := newTestChannel("db.schema.table")
	b := NewRowBuffer(channel)

	cols := make([]ColumnMetadata, 0, len(cases))
	for _, tc := range cases {
		cols = append(cols, tc.col)
	}
	require.NoError(t, b.SetupSchema(cols))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vec, ok := b.vectors[NormalizeColumnName(tc.col.Name)]
			require.True(t, ok)
			assert.Equal(t, tc.kind, vec.Kind())
		})
	}
}

func TestSetupSchemaRejectsUnknownType(t *testing.T) {
	channel := newTestChannel("db.schema.table")
	b := NewRowBuffer(channel)

	err := b.SetupSchema([]ColumnMetadata{
		{Name: "BAD", LogicalType: "TIMESTAMP_TZ", PhysicalType: "SB16"},
	})
	require.Error(t, err)
	assert.True(t, ingesterr.Is(err, ingesterr.UnknownDataType))
}

func TestSetupSchemaPreservesOrder(t *testing.T) {
	channel := newTestChannel("db.schema.table")
	b := NewRowBuffer(channel)

	require.NoError(t, b.SetupSchema([]ColumnMetadata{
		{Name: "Z", LogicalType: "BOOLEAN", PhysicalType: "SB1"},
		{Name: "A", LogicalType: "BOOLEAN", PhysicalType: "SB1"},
		{Name: "M", LogicalType: "BOOLEAN", PhysicalType: "SB1"},
	}))

	assert.Equal(t, []string{"Z", "A", "M"}, b.order)
}
