package rowbuffer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEpInfoFromStats(t *testing.T) {
	stats := newRowBufferStats()
	stats.AddIntValue(big.NewInt(1))
	stats.AddIntValue(big.NewInt(9))
	stats.IncCurrentNullCount()

	statsMap := map[string]*RowBufferStats{"A": stats}

	info := buildEpInfoFromStats(42, statsMap)

	assert.EqualValues(t, 42, info.RowCount)
	assert.Contains(t, info.ColumnEps, "A")

	props := info.ColumnEps["A"]
	assert.Equal(t, big.NewInt(1), props.MinIntValue)
	assert.Equal(t, big.NewInt(9), props.MaxIntValue)
	assert.EqualValues(t, 1, props.NullCount)
}

func TestBuildEpInfoFromStatsIsPure(t *testing.T) {
	stats := newRowBufferStats()
	stats.AddStrValue("x")
	statsMap := map[string]*RowBufferStats{"A": stats}

	_ = buildEpInfoFromStats(1, statsMap)

	// stats map and its contents are unmodified by the transformation.
	min, ok := statsMap["A"].MinStr()
	assert.True(t, ok)
	assert.Equal(t, "x", min)
}
