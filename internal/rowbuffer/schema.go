package rowbuffer

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/thalesmg/snowflake-ingest-streaming/internal/ingesterr"
)

// Arrow field metadata keys, mirroring the teacher's FieldType metadata
// maps one for one.
const (
	metaLogicalType  = "logicalType"
	metaPhysicalType = "physicalType"
	metaPrecision    = "precision"
	metaScale        = "scale"
	metaByteLength   = "byteLength"
	metaCharLength   = "charLength"
)

// Struct child field names for the TIMESTAMP_LTZ/NTZ SB16 representation.
const (
	fieldEpoch    = "epoch"
	fieldFraction = "fraction"
)

// buildDescriptor normalizes a single column's wire metadata into a
// ColumnDescriptor. It does no validation; the type pair is checked by
// buildField.
func buildDescriptor(col ColumnMetadata) ColumnDescriptor {
	return ColumnDescriptor{
		Name:         NormalizeColumnName(col.Name),
		Nullable:     col.Nullable,
		LogicalType:  LogicalType(col.LogicalType),
		PhysicalType: PhysicalType(col.PhysicalType),
		Precision:    col.Precision,
		Scale:        col.Scale,
		ByteLength:   col.ByteLength,
		CharLength:   col.CharLength,
	}
}

// buildField maps one ColumnDescriptor to its Arrow type, vector kind,
// and field metadata, per the logical x physical type matrix. Any pair
// outside the matrix is rejected with UNKNOWN_DATA_TYPE.
func buildField(d ColumnDescriptor) (arrow.Field, VectorKind, error) {
	meta := buildMetadata(d)

	switch d.LogicalType {
	case LogicalFixed:
		return buildFixedField(d, meta)
	case LogicalAny, LogicalArray, LogicalChar, LogicalText, LogicalObject, LogicalVariant:
		return arrow.Field{Name: d.Name, Type: arrow.BinaryTypes.String, Nullable: d.Nullable, Metadata: meta}, KindVarUtf8, nil
	case LogicalTimestampLTZ, LogicalTimestampNTZ:
		return buildTimestampField(d, meta)
	case LogicalDate:
		return arrow.Field{Name: d.Name, Type: arrow.FixedWidthTypes.Date32, Nullable: d.Nullable, Metadata: meta}, KindDate, nil
	case LogicalTime:
		return buildTimeField(d, meta)
	case LogicalBoolean:
		return arrow.Field{Name: d.Name, Type: arrow.FixedWidthTypes.Boolean, Nullable: d.Nullable, Metadata: meta}, KindBoolean, nil
	case LogicalBinary:
		return arrow.Field{Name: d.Name, Type: arrow.BinaryTypes.Binary, Nullable: d.Nullable, Metadata: meta}, KindVarBinary, nil
	case LogicalReal:
		return arrow.Field{Name: d.Name, Type: arrow.PrimitiveTypes.Float64, Nullable: d.Nullable, Metadata: meta}, KindFloat8, nil
	default:
		return arrow.Field{}, 0, ingesterr.UnknownType(string(d.LogicalType), string(d.PhysicalType))
	}
}

func buildFixedField(d ColumnDescriptor, meta arrow.Metadata) (arrow.Field, VectorKind, error) {
	scale := 0
	if d.Scale != nil {
		scale = *d.Scale
	}

	if d.PhysicalType == PhysicalSB16 || scale != 0 {
		return buildDecimalField(d, meta)
	}

	switch d.PhysicalType {
	case PhysicalSB1:
		return arrow.Field{Name: d.Name, Type: arrow.PrimitiveTypes.Int8, Nullable: d.Nullable, Metadata: meta}, KindFixedWidth1, nil
	case PhysicalSB2:
		return arrow.Field{Name: d.Name, Type: arrow.PrimitiveTypes.Int16, Nullable: d.Nullable, Metadata: meta}, KindFixedWidth2, nil
	case PhysicalSB4:
		return arrow.Field{Name: d.Name, Type: arrow.PrimitiveTypes.Int32, Nullable: d.Nullable, Metadata: meta}, KindFixedWidth4, nil
	case PhysicalSB8:
		return arrow.Field{Name: d.Name, Type: arrow.PrimitiveTypes.Int64, Nullable: d.Nullable, Metadata: meta}, KindFixedWidth8, nil
	default:
		return arrow.Field{}, 0, ingesterr.UnknownType(string(d.LogicalType), string(d.PhysicalType))
	}
}

func buildDecimalField(d ColumnDescriptor, meta arrow.Metadata) (arrow.Field, VectorKind, error) {
	precision := 38
	if d.Precision != nil {
		precision = *d.Precision
	}
	scale := 0
	if d.Scale != nil {
		scale = *d.Scale
	}
	dt := &arrow.Decimal128Type{Precision: int32(precision), Scale: int32(scale)}
	return arrow.Field{Name: d.Name, Type: dt, Nullable: d.Nullable, Metadata: meta}, KindDecimal128, nil
}

func buildTimestampField(d ColumnDescriptor, meta arrow.Metadata) (arrow.Field, VectorKind, error) {
	switch d.PhysicalType {
	case PhysicalSB8:
		return arrow.Field{Name: d.Name, Type: arrow.PrimitiveTypes.Int64, Nullable: d.Nullable, Metadata: meta}, KindFixedWidth8, nil
	case PhysicalSB16:
		structType := arrow.StructOf(
			arrow.Field{Name: fieldEpoch, Type: arrow.PrimitiveTypes.Int64, Nullable: d.Nullable, Metadata: meta},
			arrow.Field{Name: fieldFraction, Type: arrow.PrimitiveTypes.Int32, Nullable: d.Nullable, Metadata: meta},
		)
		return arrow.Field{Name: d.Name, Type: structType, Nullable: d.Nullable, Metadata: meta}, KindStruct, nil
	default:
		return arrow.Field{}, 0, ingesterr.UnknownType(string(d.LogicalType), string(d.PhysicalType))
	}
}

func buildTimeField(d ColumnDescriptor, meta arrow.Metadata) (arrow.Field, VectorKind, error) {
	switch d.PhysicalType {
	case PhysicalSB4:
		return arrow.Field{Name: d.Name, Type: arrow.PrimitiveTypes.Int32, Nullable: d.Nullable, Metadata: meta}, KindFixedWidth4, nil
	case PhysicalSB8:
		return arrow.Field{Name: d.Name, Type: arrow.PrimitiveTypes.Int64, Nullable: d.Nullable, Metadata: meta}, KindFixedWidth8, nil
	default:
		return arrow.Field{}, 0, ingesterr.UnknownType(string(d.LogicalType), string(d.PhysicalType))
	}
}

func buildMetadata(d ColumnDescriptor) arrow.Metadata {
	keys := []string{metaLogicalType, metaPhysicalType}
	vals := []string{string(d.LogicalType), string(d.PhysicalType)}
	if d.Precision != nil {
		keys = append(keys, metaPrecision)
		vals = append(vals, strconv.Itoa(*d.Precision))
	}
	if d.Scale != nil {
		keys = append(keys, metaScale)
		vals = append(vals, strconv.Itoa(*d.Scale))
	}
	if d.ByteLength != nil {
		keys = append(keys, metaByteLength)
		vals = append(vals, strconv.Itoa(*d.ByteLength))
	}
	if d.CharLength != nil {
		keys = append(keys, metaCharLength)
		vals = append(vals, strconv.Itoa(*d.CharLength))
	}
	return arrow.NewMetadata(keys, vals)
}

// SetupSchema builds the vector/descriptor/stats triple for every column
// and records the schema order, matching the order columns are supplied
// in (the order ChannelData later reports vectors back in).
func (b *RowBuffer) SetupSchema(columns []ColumnMetadata) error {
	for _, col := range columns {
		d := buildDescriptor(col)
		field, kind, err := buildField(d)
		if err != nil {
			return err
		}
		b.fields[d.Name] = &d
		b.vectors[d.Name] = newColumnVector(b.mem, kind, field)
		b.statsMap[d.Name] = newRowBufferStats()
		b.order = append(b.order, d.Name)
	}
	return nil
}
