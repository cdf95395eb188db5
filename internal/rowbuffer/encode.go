package rowbuffer

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/shopspring/decimal"

	"github.com/thalesmg/snowflake-ingest-streaming/internal/ingesterr"
)

var pow10Table = [10]int64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000}

func pow10(n int) int64 {
	if n < 0 {
		return 1
	}
	if n > 9 {
		n = 9
	}
	return pow10Table[n]
}

// getStringValue coerces an inserted value to its string form, the way
// callers passing java.lang.Object.toString() results are handled: a
// native string is used verbatim, a decimal.Decimal or fmt.Stringer uses
// its own String(), everything else falls back to fmt.Sprintf.
func getStringValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case decimal.Decimal:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

// asInt64 accepts any Go integer kind and returns it widened to int64.
// Values outside int64's range (large uint64) are rejected.
func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

// timeInScale parses value as an arbitrary-precision decimal and returns
// round(value * 10^scale) as an integer, the Go analog of the original's
// BigDecimal.multiply(Power10.bigDecimalTable[scale]) then toBigInteger.
func timeInScale(value string, scale int) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return d.Shift(int32(scale)).Round(0).BigInt(), nil
}

func splitDecimalString(s string) (whole, frac string) {
	parts := strings.SplitN(s, ".", 2)
	whole = parts[0]
	if len(parts) == 2 {
		frac = parts[1]
	}
	return whole, frac
}

// convertRowToArrow encodes one row into the schema's vectors, updating
// bufferSize and per-column stats as it goes. bufferSize is only bumped
// for keys actually present in the row, per the buffer's accounting rule;
// columns the row omits are null-filled afterwards by alignVectors, with
// no effect on bufferSize or null counts, since that fill exists only to
// satisfy Arrow's requirement that sibling arrays share a length, not
// because the row said anything about that column.
func (b *RowBuffer) convertRowToArrow(row map[string]interface{}) error {
	for key, value := range row {
		b.bufferSize += 0.125

		name := NormalizeColumnName(key)
		descriptor, ok := b.fields[name]
		if !ok {
			return ingesterr.Newf(ingesterr.InternalError, "no such column field: %s", name)
		}
		vec, ok := b.vectors[name]
		if !ok {
			return ingesterr.Newf(ingesterr.InternalError, "no such column vector: %s", name)
		}
		stats, ok := b.statsMap[name]
		if !ok {
			return ingesterr.Newf(ingesterr.InternalError, "no such column stats: %s", name)
		}

		if value == nil {
			appendNullValue(vec, stats)
			continue
		}

		if err := b.appendValue(vec, descriptor, stats, value); err != nil {
			return err
		}
	}
	return nil
}

func appendNullValue(vec *ColumnVector, stats *RowBufferStats) {
	if vec.Kind() == KindStruct {
		vec.structBuilder().AppendNull()
	} else {
		vec.AppendNull()
	}
	stats.IncCurrentNullCount()
}

func (b *RowBuffer) appendValue(vec *ColumnVector, d *ColumnDescriptor, stats *RowBufferStats, value interface{}) error {
	switch d.LogicalType {
	case LogicalFixed:
		return b.appendFixed(vec, d, stats, value)
	case LogicalAny, LogicalArray, LogicalChar, LogicalText, LogicalObject, LogicalVariant:
		return b.appendText(vec, stats, value)
	case LogicalTimestampLTZ, LogicalTimestampNTZ:
		return b.appendTimestamp(vec, d, stats, value)
	case LogicalDate:
		return b.appendDate(vec, stats, value)
	case LogicalTime:
		return b.appendTime(vec, d, stats, value)
	case LogicalBoolean:
		return b.appendBoolean(vec, stats, value)
	case LogicalBinary:
		return b.appendBinary(vec, stats, value)
	case LogicalReal:
		return b.appendReal(vec, stats, value)
	default:
		return ingesterr.UnknownType(string(d.LogicalType), string(d.PhysicalType))
	}
}

func (b *RowBuffer) appendFixed(vec *ColumnVector, d *ColumnDescriptor, stats *RowBufferStats, value interface{}) error {
	scale := 0
	if d.Scale != nil {
		scale = *d.Scale
	}
	if d.PhysicalType == PhysicalSB16 || scale != 0 {
		return b.appendDecimal(vec, stats, value, scale)
	}

	n, ok := asInt64(value)
	if !ok {
		return ingesterr.Newf(ingesterr.InvalidRow, "expected integer value for FIXED column %s, got %T", d.Name, value)
	}

	switch d.PhysicalType {
	case PhysicalSB1:
		if n < math.MinInt8 || n > math.MaxInt8 {
			return ingesterr.Newf(ingesterr.InvalidRow, "value %d out of range for SB1 column %s", n, d.Name)
		}
		vec.int8Builder().Append(int8(n))
		b.bufferSize += 1
	case PhysicalSB2:
		if n < math.MinInt16 || n > math.MaxInt16 {
			return ingesterr.Newf(ingesterr.InvalidRow, "value %d out of range for SB2 column %s", n, d.Name)
		}
		vec.int16Builder().Append(int16(n))
		b.bufferSize += 2
	case PhysicalSB4:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return ingesterr.Newf(ingesterr.InvalidRow, "value %d out of range for SB4 column %s", n, d.Name)
		}
		vec.int32Builder().Append(int32(n))
		b.bufferSize += 4
	case PhysicalSB8:
		vec.int64Builder().Append(n)
		b.bufferSize += 8
	default:
		return ingesterr.UnknownType(string(d.LogicalType), string(d.PhysicalType))
	}
	stats.AddIntValue(big.NewInt(n))
	return nil
}

func (b *RowBuffer) appendDecimal(vec *ColumnVector, stats *RowBufferStats, value interface{}, scale int) error {
	parsed, err := decimal.NewFromString(getStringValue(value))
	if err != nil {
		return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to parse decimal value")
	}

	unscaled := parsed.Shift(int32(scale)).Round(0).BigInt()
	if unscaled.BitLen() > 127 {
		return ingesterr.New(ingesterr.InvalidRow, "decimal value overflows column precision")
	}
	num := decimal128.FromBigInt(unscaled)

	vec.decimal128Builder().Append(num)
	b.bufferSize += 16
	stats.AddIntValue(parsed.Truncate(0).BigInt())
	return nil
}

func (b *RowBuffer) appendText(vec *ColumnVector, stats *RowBufferStats, value interface{}) error {
	str := getStringValue(value)
	vec.stringBuilder().Append(str)
	n := int64(len(str))
	stats.SetCurrentMaxLength(n)
	stats.AddStrValue(str)
	b.bufferSize += float64(n)
	return nil
}

func (b *RowBuffer) appendTimestamp(vec *ColumnVector, d *ColumnDescriptor, stats *RowBufferStats, value interface{}) error {
	scale := 0
	if d.Scale != nil {
		scale = *d.Scale
	}
	str := getStringValue(value)

	switch d.PhysicalType {
	case PhysicalSB8:
		ts, err := timeInScale(str, scale)
		if err != nil {
			return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to parse timestamp value")
		}
		if !ts.IsInt64() {
			return ingesterr.Newf(ingesterr.InvalidRow, "timestamp value out of range for column %s", d.Name)
		}
		vec.int64Builder().Append(ts.Int64())
		b.bufferSize += 8
		stats.AddIntValue(ts)
		return nil

	case PhysicalSB16:
		whole, frac := splitDecimalString(str)
		epoch, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to parse timestamp epoch seconds")
		}

		var fraction int64
		if l := len(frac); l > 0 {
			fracInt, err := strconv.ParseInt(frac, 10, 64)
			if err != nil {
				return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to parse timestamp fraction")
			}
			if l < 9 {
				fraction = fracInt * pow10(9-l)
			} else {
				fraction = fracInt
			}
		}

		mod := pow10(9 - scale)
		if fraction%mod != 0 {
			return ingesterr.Newf(ingesterr.InvalidRow, "value has accuracy greater than column scale for column %s", d.Name)
		}
		// The original parses this substring with Java's 32-bit
		// Integer.parseInt and lets it throw on overflow; a fraction
		// string with more than 9 digits (l >= 9 above leaves it
		// unscaled) can exceed int32 range here, which the mod check
		// alone does not catch. Reject it explicitly
		// instead of silently wrapping through int32(fraction).
		if fraction < 0 || fraction > math.MaxInt32 {
			return ingesterr.Newf(ingesterr.InvalidRow, "timestamp fraction out of range for column %s", d.Name)
		}

		sb := vec.structBuilder()
		sb.Append(true)
		sb.FieldBuilder(0).(*array.Int64Builder).Append(epoch)
		sb.FieldBuilder(1).(*array.Int32Builder).Append(int32(fraction))
		// 8 bytes epoch + 4 bytes fraction + one null bitmap bit per child.
		b.bufferSize += 12.25

		full, err := timeInScale(str, scale)
		if err != nil {
			return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to parse timestamp value")
		}
		stats.AddIntValue(full)
		return nil

	default:
		return ingesterr.UnknownType(string(d.LogicalType), string(d.PhysicalType))
	}
}

func (b *RowBuffer) appendDate(vec *ColumnVector, stats *RowBufferStats, value interface{}) error {
	str, ok := value.(string)
	if !ok {
		return ingesterr.Newf(ingesterr.InvalidRow, "expected string value for DATE column, got %T", value)
	}
	n, err := strconv.ParseInt(str, 10, 32)
	if err != nil {
		return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to parse date value")
	}
	vec.date32Builder().Append(arrow.Date32(int32(n)))
	b.bufferSize += 4
	stats.AddIntValue(big.NewInt(n))
	return nil
}

func (b *RowBuffer) appendTime(vec *ColumnVector, d *ColumnDescriptor, stats *RowBufferStats, value interface{}) error {
	scale := 0
	if d.Scale != nil {
		scale = *d.Scale
	}
	str := getStringValue(value)
	ts, err := timeInScale(str, scale)
	if err != nil {
		return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to parse time value")
	}

	switch d.PhysicalType {
	case PhysicalSB4:
		if !ts.IsInt64() || ts.Int64() < math.MinInt32 || ts.Int64() > math.MaxInt32 {
			return ingesterr.Newf(ingesterr.InvalidRow, "time value out of range for column %s", d.Name)
		}
		stats.AddIntValue(ts)
		vec.int32Builder().Append(int32(ts.Int64()))
		stats.AddIntValue(ts)
		b.bufferSize += 4
	case PhysicalSB8:
		if !ts.IsInt64() {
			return ingesterr.Newf(ingesterr.InvalidRow, "time value out of range for column %s", d.Name)
		}
		vec.int64Builder().Append(ts.Int64())
		stats.AddIntValue(ts)
		b.bufferSize += 8
	default:
		return ingesterr.UnknownType(string(d.LogicalType), string(d.PhysicalType))
	}
	return nil
}

func (b *RowBuffer) appendBoolean(vec *ColumnVector, stats *RowBufferStats, value interface{}) error {
	truthy, err := coerceBoolean(value)
	if err != nil {
		return err
	}
	vec.booleanBuilder().Append(truthy)
	b.bufferSize += 0.125
	n := int64(0)
	if truthy {
		n = 1
	}
	stats.AddIntValue(big.NewInt(n))
	return nil
}

func coerceBoolean(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "1", "yes", "y", "t", "true", "on":
			return true, nil
		default:
			return false, nil
		}
	default:
		f, ok := asFloat64(value)
		if !ok {
			return false, ingesterr.Newf(ingesterr.InvalidRow, "cannot coerce %T to BOOLEAN", value)
		}
		return f > 0, nil
	}
}

func asFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		if n, ok := asInt64(value); ok {
			return float64(n), true
		}
		return 0, false
	}
}

func (b *RowBuffer) appendBinary(vec *ColumnVector, stats *RowBufferStats, value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		decoded, err := hex.DecodeString(v)
		if err != nil {
			return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to decode hex-encoded binary value")
		}
		data = decoded
	default:
		return ingesterr.Newf(ingesterr.InvalidRow, "expected []byte or hex string for BINARY column, got %T", value)
	}

	vec.binaryBuilder().Append(data)
	n := int64(len(data))
	stats.SetCurrentMaxLength(n)
	b.bufferSize += float64(n)
	return nil
}

func (b *RowBuffer) appendReal(vec *ColumnVector, stats *RowBufferStats, value interface{}) error {
	var f float64
	switch v := value.(type) {
	case float32:
		f = float64(v)
	case float64:
		f = v
	case decimal.Decimal:
		val, _ := v.Float64()
		f = val
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to parse REAL value")
		}
		f = parsed
	default:
		return ingesterr.Newf(ingesterr.InvalidRow, "expected float, decimal, or string for REAL column, got %T", value)
	}

	vec.float64Builder().Append(f)
	stats.AddRealValue(f)
	b.bufferSize += 8
	return nil
}
