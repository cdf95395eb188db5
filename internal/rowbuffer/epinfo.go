package rowbuffer

import "math/big"

// FileColumnProperties is the per-column statistics snapshot shipped
// alongside a flushed blob, enabling server-side pruning without reading
// the blob's contents.
type FileColumnProperties struct {
	MinIntValue     *big.Int
	MaxIntValue     *big.Int
	MinStrValue     string
	MaxStrValue     string
	HasStrValue     bool
	MaxLength       int64
	NullCount       int64
	DistinctValues  int64
}

// EpInfo bundles the row count of an epoch with per-column properties.
type EpInfo struct {
	RowCount  int64
	ColumnEps map[string]FileColumnProperties
}

// buildEpInfoFromStats is a pure transformation: it copies each column's
// stats snapshot into a FileColumnProperties, with no side effects on the
// stats themselves.
func buildEpInfoFromStats(rowCount int64, statsMap map[string]*RowBufferStats) EpInfo {
	columnEps := make(map[string]FileColumnProperties, len(statsMap))
	for name, stats := range statsMap {
		props := FileColumnProperties{
			MaxLength:      stats.MaxLength(),
			NullCount:      stats.NullCount(),
			DistinctValues: stats.DistinctValues(),
		}
		if minInt, ok := stats.MinInt(); ok {
			props.MinIntValue = minInt
		}
		if maxInt, ok := stats.MaxInt(); ok {
			props.MaxIntValue = maxInt
		}
		if minStr, ok := stats.MinStr(); ok {
			props.MinStrValue = minStr
			props.HasStrValue = true
		}
		if maxStr, ok := stats.MaxStr(); ok {
			props.MaxStrValue = maxStr
		}
		columnEps[name] = props
	}
	return EpInfo{RowCount: rowCount, ColumnEps: columnEps}
}
