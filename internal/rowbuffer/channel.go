package rowbuffer

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Channel is the collaborator contract RowBuffer consumes from its owning
// streaming ingest channel. The buffer never constructs a Channel itself;
// it is handed one at construction time.
type Channel interface {
	// Allocator returns an allocator handle valid for the lifetime of the
	// buffer.
	Allocator() memory.Allocator
	// IncrementAndGetRowSequencer atomically increments and returns the
	// channel's monotonic row sequencer.
	IncrementAndGetRowSequencer() int64
	// OffsetToken returns the last offset token durably set on this
	// channel.
	OffsetToken() string
	// SetOffsetToken durably records the given offset token, last-write-wins.
	SetOffsetToken(string)
	// FullyQualifiedName identifies the channel for logging only.
	FullyQualifiedName() string
}

// FlushedVector is one column's finalized, immutable data for a flushed
// epoch: the Arrow array transferred out of the buffer's builder, paired
// with the field carrying its encoding metadata.
type FlushedVector struct {
	Field arrow.Field
	Array arrow.Array
}

// ChannelData is the value produced by a successful Flush: a snapshot of
// everything the flush service needs to build and ship a blob for one
// epoch of inserted rows. The caller owns every Vectors[i].Array and must
// Release it once the blob has been written.
type ChannelData struct {
	Vectors      []FlushedVector
	RowCount     int64
	BufferSize   float64
	Channel      Channel
	RowSequencer int64
	OffsetToken  string
	ColumnEps    EpInfo
}
