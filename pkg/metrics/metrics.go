// Package metrics exposes the row buffer's lock-free lifecycle counters
// (spec §5's rowCount/bufferSize "best-effort metrics" surface) as
// Prometheus gauges and counters, labeled per channel.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "snowflake_ingest"
	subsystem = "row_buffer"
)

var (
	// RowCount is the number of rows accumulated in a channel's row
	// buffer since its last flush.
	RowCount = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "row_count",
		Help:      "Current number of rows accumulated in a channel's row buffer since the last flush.",
	}, []string{"channel"})

	// BufferSize is the estimated encoded byte size accumulated in a
	// channel's row buffer since its last flush.
	BufferSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "buffer_size_bytes",
		Help:      "Estimated encoded byte size accumulated in a channel's row buffer since the last flush.",
	}, []string{"channel"})

	// FlushedRows counts rows handed off to a flushed ChannelData,
	// across the channel's whole lifetime.
	FlushedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "flushed_rows_total",
		Help:      "Total rows flushed out of a channel's row buffer.",
	}, []string{"channel"})
)

// Reset zeroes the row count and buffer size gauges for a channel,
// mirroring RowBuffer.resetLocked's in-memory reset after a flush.
func Reset(channel string) {
	RowCount.WithLabelValues(channel).Set(0)
	BufferSize.WithLabelValues(channel).Set(0)
}
