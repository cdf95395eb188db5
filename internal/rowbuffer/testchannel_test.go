package rowbuffer

import (
	"sync"
	"sync/atomic"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// testChannel is a minimal Channel implementation used across the test
// suite, standing in for the real streaming ingest channel.
type testChannel struct {
	mem  memory.Allocator
	name string

	seq int64

	mu    sync.Mutex
	token string
}

func newTestChannel(name string) *testChannel {
	return &testChannel{mem: memory.NewGoAllocator(), name: name}
}

func (c *testChannel) Allocator() memory.Allocator { return c.mem }

func (c *testChannel) IncrementAndGetRowSequencer() int64 {
	return atomic.AddInt64(&c.seq, 1)
}

func (c *testChannel) OffsetToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *testChannel) SetOffsetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *testChannel) FullyQualifiedName() string { return c.name }

func intPtr(n int) *int { return &n }
