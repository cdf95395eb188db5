package rowbuffer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColumns() []ColumnMetadata {
	return []ColumnMetadata{
		{Name: "ID", LogicalType: "FIXED", PhysicalType: "SB4", Scale: intPtr(0)},
		{Name: "NAME", LogicalType: "TEXT", PhysicalType: "LOB", Nullable: true},
	}
}

func TestInsertRowsAndFlush(t *testing.T) {
	channel := newTestChannel("db.schema.table")
	b := NewRowBuffer(channel)
	require.NoError(t, b.SetupSchema(testColumns()))

	rows := []map[string]interface{}{
		{"id": 1, "name": "alice"},
		{"id": 2, "name": "bob"},
		{"id": 3, "name": "carol"},
	}
	require.NoError(t, b.InsertRows(rows, "token-1"))
	assert.EqualValues(t, 3, b.RowCount())
	assert.Equal(t, "token-1", channel.OffsetToken())

	data := b.Flush()
	require.NotNil(t, data)
	assert.EqualValues(t, 3, data.RowCount)
	assert.Equal(t, "token-1", data.OffsetToken)
	assert.EqualValues(t, 1, data.RowSequencer)
	require.Len(t, data.Vectors, 2)
	for _, v := range data.Vectors {
		assert.Equal(t, 3, v.Array.Len())
		v.Array.Release()
	}

	assert.EqualValues(t, 0, b.RowCount())
	assert.Nil(t, b.Flush())
}

func TestInsertRowsMissingColumnIsNullFilled(t *testing.T) {
	channel := newTestChannel("db.schema.table")
	b := NewRowBuffer(channel)
	require.NoError(t, b.SetupSchema(testColumns()))

	rows := []map[string]interface{}{
		{"id": 1, "name": "alice"},
		{"id": 2}, // name omitted
	}
	require.NoError(t, b.InsertRows(rows, "token-1"))

	nameVec := b.vectors["NAME"]
	idVec := b.vectors["ID"]
	assert.Equal(t, 2, nameVec.Len())
	assert.Equal(t, 2, idVec.Len())
}

func TestInsertRowsInvalidRowFailsBatch(t *testing.T) {
	channel := newTestChannel("db.schema.table")
	b := NewRowBuffer(channel)
	require.NoError(t, b.SetupSchema(testColumns()))

	rows := []map[string]interface{}{
		{"id": 1, "name": "alice"},
		{"id": "not-an-int", "name": "bob"},
	}
	err := b.InsertRows(rows, "token-1")
	require.Error(t, err)
}

func TestInsertRowsQuotedVsUnquotedNames(t *testing.T) {
	channel := newTestChannel("db.schema.table")
	b := NewRowBuffer(channel)
	require.NoError(t, b.SetupSchema([]ColumnMetadata{
		{Name: `"foo"`, LogicalType: "TEXT", PhysicalType: "LOB", Nullable: true},
		{Name: "FOO", LogicalType: "TEXT", PhysicalType: "LOB", Nullable: true},
	}))

	require.NoError(t, b.InsertRows([]map[string]interface{}{
		{`"foo"`: "a", "FOO": "b"},
	}, "t1"))
	require.NoError(t, b.InsertRows([]map[string]interface{}{
		{`"foo"`: "c", "foo": "d"},
	}, "t2"))

	fooMin, _ := b.statsMap["foo"].MinStr()
	FOOMax, _ := b.statsMap["FOO"].MaxStr()
	assert.Equal(t, "a", fooMin)
	assert.Equal(t, "d", FOOMax)
}

func TestFlushWithNoRowsReturnsNil(t *testing.T) {
	channel := newTestChannel("db.schema.table")
	b := NewRowBuffer(channel)
	require.NoError(t, b.SetupSchema(testColumns()))

	assert.Nil(t, b.Flush())
}

func TestConcurrentInsertAndFlush(t *testing.T) {
	channel := newTestChannel("db.schema.table")
	b := NewRowBuffer(channel)
	require.NoError(t, b.SetupSchema(testColumns()))

	const writers = 8
	const rowsPerWriter = 20

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rowsPerWriter; i++ {
				row := []map[string]interface{}{
					{"id": w*rowsPerWriter + i, "name": fmt.Sprintf("row-%d-%d", w, i)},
				}
				_ = b.InsertRows(row, fmt.Sprintf("token-%d-%d", w, i))
			}
		}(w)
	}

	var flushed int64
	var flushWG sync.WaitGroup
	flushWG.Add(1)
	go func() {
		defer flushWG.Done()
		for i := 0; i < 50; i++ {
			if data := b.Flush(); data != nil {
				flushed += data.RowCount
				for _, v := range data.Vectors {
					v.Array.Release()
				}
			}
		}
	}()

	wg.Wait()
	flushWG.Wait()

	if data := b.Flush(); data != nil {
		flushed += data.RowCount
		for _, v := range data.Vectors {
			v.Array.Release()
		}
	}

	assert.EqualValues(t, writers*rowsPerWriter, flushed)
}
