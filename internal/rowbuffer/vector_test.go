package rowbuffer

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnVectorAppendAndFinalize(t *testing.T) {
	mem := memory.NewGoAllocator()
	field := arrow.Field{Name: "N", Type: arrow.PrimitiveTypes.Int32, Nullable: true}
	vec := newColumnVector(mem, KindFixedWidth4, field)
	defer vec.Release()

	vec.int32Builder().Append(1)
	vec.AppendNull()
	vec.int32Builder().Append(3)

	require.Equal(t, 3, vec.Len())

	arr := vec.NewArray()
	defer arr.Release()

	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, 0, vec.Len(), "builder resets after NewArray")
}

func TestColumnVectorStructAppendNull(t *testing.T) {
	mem := memory.NewGoAllocator()
	structType := arrow.StructOf(
		arrow.Field{Name: fieldEpoch, Type: arrow.PrimitiveTypes.Int64},
		arrow.Field{Name: fieldFraction, Type: arrow.PrimitiveTypes.Int32},
	)
	field := arrow.Field{Name: "TS", Type: structType, Nullable: true}
	vec := newColumnVector(mem, KindStruct, field)
	defer vec.Release()

	vec.structBuilder().Append(true)
	vec.structBuilder().FieldBuilder(0).(*array.Int64Builder).Append(5)
	vec.structBuilder().FieldBuilder(1).(*array.Int32Builder).Append(6)
	vec.AppendNull()

	require.Equal(t, 2, vec.Len())
}
