package rowbuffer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/thalesmg/snowflake-ingest-streaming/internal/ingesterr"
	"github.com/thalesmg/snowflake-ingest-streaming/pkg/logger"
	"github.com/thalesmg/snowflake-ingest-streaming/pkg/metrics"
	"github.com/thalesmg/snowflake-ingest-streaming/pkg/tracing"
)

// RowBuffer accumulates inserted rows into per-column Arrow vectors
// between flushes. One RowBuffer is owned by exactly one Channel; it
// performs no I/O of its own.
type RowBuffer struct {
	mem     memory.Allocator
	channel Channel

	flushLock sync.Mutex

	vectors  map[string]*ColumnVector
	fields   map[string]*ColumnDescriptor
	statsMap map[string]*RowBufferStats
	order    []string

	// rowCount, curRowIndex, and bufferSize are written only under
	// flushLock. rowCount is also read with sync/atomic outside the lock
	// (RowCount and Flush's early-out check). curRowIndex and bufferSize
	// are only read under the lock; BufferSize takes flushLock.
	rowCount    int64
	curRowIndex int64
	bufferSize  float64
}

// NewRowBuffer constructs an empty RowBuffer for the given channel. Call
// SetupSchema before inserting any rows.
func NewRowBuffer(channel Channel) *RowBuffer {
	return &RowBuffer{
		mem:      channel.Allocator(),
		channel:  channel,
		vectors:  make(map[string]*ColumnVector),
		fields:   make(map[string]*ColumnDescriptor),
		statsMap: make(map[string]*RowBufferStats),
	}
}

// RowCount returns the number of rows accumulated since the last flush.
// Safe to call without holding flushLock; may be stale by the time the
// caller acts on it.
func (b *RowBuffer) RowCount() int64 {
	return atomic.LoadInt64(&b.rowCount)
}

// BufferSize returns the estimated encoded byte size accumulated since
// the last flush. Unlike RowCount it takes flushLock, so it waits for an
// in-progress InsertRows or Flush; the value may still be stale by the
// time the caller acts on it.
func (b *RowBuffer) BufferSize() float64 {
	b.flushLock.Lock()
	defer b.flushLock.Unlock()
	return b.bufferSize
}

// InsertRows encodes every row in rows into the schema's vectors, then
// records offsetToken as the channel's new offset token. rows stands in
// for the original's lazily-iterated row sequence; a slice is its
// natural Go equivalent, matching how the teacher's writers take a
// []*models.Record rather than an iterator.
//
// On any row's encode failure, the whole call fails with INVALID_ROW
// wrapping the underlying cause. Vectors touched by prior rows in this
// call keep whatever was appended to them; the buffer's state for this
// batch must be considered indeterminate by the caller (see the owning
// channel's retry/reopen policy).
func (b *RowBuffer) InsertRows(rows []map[string]interface{}, offsetToken string) error {
	name := b.channel.FullyQualifiedName()

	_, span := tracing.Tracer().Start(context.Background(), "rowbuffer.insert_rows")
	span.SetAttributes(
		attribute.String("channel", name),
		attribute.Int("rows", len(rows)),
	)
	defer span.End()

	b.flushLock.Lock()
	defer b.flushLock.Unlock()

	logger.Get().Debug("row buffer insert rows starting",
		zap.String("channel", name),
		zap.Int("rows", len(rows)))

	for _, row := range rows {
		if err := b.convertRowToArrow(row); err != nil {
			return ingesterr.Wrap(err, ingesterr.InvalidRow, "failed to insert row")
		}
		b.curRowIndex++
		atomic.AddInt64(&b.rowCount, 1)
		b.alignVectors()
	}

	b.channel.SetOffsetToken(offsetToken)

	metrics.RowCount.WithLabelValues(name).Set(float64(b.rowCount))
	metrics.BufferSize.WithLabelValues(name).Set(b.bufferSize)

	logger.Get().Debug("row buffer insert rows done",
		zap.String("channel", name),
		zap.Int64("rowCount", b.rowCount))
	return nil
}

// alignVectors null-fills any column a just-processed row didn't touch,
// so every vector's length stays equal to curRowIndex. Arrow's
// append-only builders have no random-access setNull(idx) the way the
// original's index-addressed vectors do, so a skipped column must be
// caught up explicitly rather than left at whatever length it was.
func (b *RowBuffer) alignVectors() {
	for _, name := range b.order {
		vec := b.vectors[name]
		for int64(vec.Len()) < b.curRowIndex {
			vec.AppendNull()
		}
	}
}

// Flush finalizes the current epoch's vectors into a ChannelData bundle
// and resets the buffer for the next epoch. Returns nil if there was
// nothing to flush.
func (b *RowBuffer) Flush() *ChannelData {
	if atomic.LoadInt64(&b.rowCount) == 0 {
		return nil
	}

	name := b.channel.FullyQualifiedName()
	_, span := tracing.Tracer().Start(context.Background(), "rowbuffer.flush")
	span.SetAttributes(attribute.String("channel", name))
	defer span.End()

	b.flushLock.Lock()
	defer b.flushLock.Unlock()

	if b.rowCount == 0 {
		return nil
	}

	logger.Get().Debug("row buffer flush starting",
		zap.String("channel", name),
		zap.Int64("rowCount", b.rowCount))

	vectors := make([]FlushedVector, 0, len(b.order))
	for _, name := range b.order {
		vec := b.vectors[name]
		vectors = append(vectors, FlushedVector{Field: vec.Field(), Array: vec.NewArray()})
	}

	rowCount := b.rowCount
	bufferSize := b.bufferSize
	statsSnapshot := make(map[string]*RowBufferStats, len(b.statsMap))
	for name, stats := range b.statsMap {
		statsSnapshot[name] = stats
	}
	offsetToken := b.channel.OffsetToken()
	rowSequencer := b.channel.IncrementAndGetRowSequencer()

	data := &ChannelData{
		Vectors:      vectors,
		RowCount:     rowCount,
		BufferSize:   bufferSize,
		Channel:      b.channel,
		RowSequencer: rowSequencer,
		OffsetToken:  offsetToken,
		ColumnEps:    buildEpInfoFromStats(rowCount, statsSnapshot),
	}

	b.resetLocked()
	metrics.Reset(name)
	metrics.FlushedRows.WithLabelValues(name).Add(float64(rowCount))
	span.SetAttributes(attribute.Int64("rowCount", rowCount))

	logger.Get().Debug("row buffer flush done",
		zap.String("channel", name),
		zap.Int64("rowCount", rowCount))
	return data
}

// resetLocked zeroes the counters and replaces every column's stats with
// a fresh record. It does not touch the vectors: Flush's NewArray calls
// have already reset each builder. Only called from Flush, always under
// flushLock.
func (b *RowBuffer) resetLocked() {
	atomic.StoreInt64(&b.rowCount, 0)
	b.curRowIndex = 0
	b.bufferSize = 0
	for name := range b.statsMap {
		b.statsMap[name] = newRowBufferStats()
	}
}

// Close releases every vector's builder and clears the buffer's maps.
// The caller must guarantee no concurrent InsertRows/Flush is in flight.
func (b *RowBuffer) Close() {
	for _, vec := range b.vectors {
		vec.Release()
	}
	b.vectors = make(map[string]*ColumnVector)
	b.fields = make(map[string]*ColumnDescriptor)
	b.statsMap = make(map[string]*RowBufferStats)
	b.order = nil
}
