// Package tracing provides the row buffer's OpenTelemetry instrumentation.
// It holds no exporter or provider configuration of its own — that's the
// embedding application's concern, set via otel.SetTracerProvider — and
// falls back to otel's no-op tracer until one is configured, the same way
// the teacher's pkg/observability wraps a package-level tracer around
// whatever global provider the host process installs.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/thalesmg/snowflake-ingest-streaming/internal/rowbuffer")

// Tracer returns the row buffer's tracer.
func Tracer() trace.Tracer {
	return tracer
}
