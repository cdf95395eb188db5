package rowbuffer

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// VectorKind tags the underlying Arrow builder a ColumnVector wraps, so
// callers can recover the concrete builder type without a type switch on
// arrow.DataType at every call site.
type VectorKind int

const (
	KindFixedWidth1 VectorKind = iota
	KindFixedWidth2
	KindFixedWidth4
	KindFixedWidth8
	KindFloat8
	KindVarUtf8
	KindVarBinary
	KindBoolean
	KindDate
	KindDecimal128
	KindStruct
)

// ColumnVector pairs an Arrow field (type + per-column metadata) with the
// builder accumulating its values across inserted rows. One ColumnVector
// exists per schema column for the life of the owning RowBuffer; flush
// finalizes its builder into an arrow.Array and the builder starts
// accumulating the next epoch's rows.
type ColumnVector struct {
	kind    VectorKind
	field   arrow.Field
	builder array.Builder
}

func newColumnVector(mem memory.Allocator, kind VectorKind, field arrow.Field) *ColumnVector {
	return &ColumnVector{
		kind:    kind,
		field:   field,
		builder: array.NewBuilder(mem, field.Type),
	}
}

func (v *ColumnVector) Kind() VectorKind   { return v.kind }
func (v *ColumnVector) Field() arrow.Field { return v.field }
func (v *ColumnVector) Len() int           { return v.builder.Len() }

// AppendNull appends a null at the current row position. For a struct
// vector this also nulls out the epoch/fraction children, matching
// array.StructBuilder's AppendNull semantics.
func (v *ColumnVector) AppendNull() {
	v.builder.AppendNull()
}

// Release frees the builder's underlying buffers. Called from
// RowBuffer.Close for every vector, including rows never flushed.
func (v *ColumnVector) Release() {
	v.builder.Release()
}

// NewArray finalizes the values accumulated so far into an immutable
// Arrow array and resets the builder to accept the next epoch's rows.
// This is the Go analog of Arrow Java's TransferPair.transfer(): the
// builder below is freshly reset once NewArray returns.
func (v *ColumnVector) NewArray() arrow.Array {
	return v.builder.NewArray()
}

func (v *ColumnVector) int8Builder() *array.Int8Builder     { return v.builder.(*array.Int8Builder) }
func (v *ColumnVector) int16Builder() *array.Int16Builder   { return v.builder.(*array.Int16Builder) }
func (v *ColumnVector) int32Builder() *array.Int32Builder   { return v.builder.(*array.Int32Builder) }
func (v *ColumnVector) int64Builder() *array.Int64Builder   { return v.builder.(*array.Int64Builder) }
func (v *ColumnVector) float64Builder() *array.Float64Builder {
	return v.builder.(*array.Float64Builder)
}
func (v *ColumnVector) stringBuilder() *array.StringBuilder { return v.builder.(*array.StringBuilder) }
func (v *ColumnVector) binaryBuilder() *array.BinaryBuilder { return v.builder.(*array.BinaryBuilder) }
func (v *ColumnVector) booleanBuilder() *array.BooleanBuilder {
	return v.builder.(*array.BooleanBuilder)
}
func (v *ColumnVector) decimal128Builder() *array.Decimal128Builder {
	return v.builder.(*array.Decimal128Builder)
}
func (v *ColumnVector) date32Builder() *array.Date32Builder { return v.builder.(*array.Date32Builder) }
func (v *ColumnVector) structBuilder() *array.StructBuilder { return v.builder.(*array.StructBuilder) }
