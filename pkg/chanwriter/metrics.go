package chanwriter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vnykmshr/gosink/pkg/metrics"
)

// MetricsWriter wraps a Writer with Prometheus metrics collection.
// It forwards every operation and derives metric updates from the
// writer's statistics, so instrumented and plain writers behave
// identically.
type MetricsWriter struct {
	writer   *Writer
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new writer with metrics enabled.
func NewWithMetrics(s Sender, name string) *MetricsWriter {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewMetricsWriter(New(s), name, config)
}

// NewMetricsWriter wraps an existing writer with custom metrics configuration.
func NewMetricsWriter(w *Writer, name string, metricsConfig metrics.Config) *MetricsWriter {
	mw := &MetricsWriter{
		writer:  w,
		name:    name,
		enabled: metricsConfig.Enabled,
	}

	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		mw.registry = metrics.NewRegistry(metricsConfig.Registry)
	} else {
		mw.registry = metrics.DefaultRegistry
	}

	return mw
}

// Write appends p to the internal buffer.
func (mw *MetricsWriter) Write(p []byte) (int, error) {
	n, err := mw.writer.Write(p)
	mw.updateBuffered()
	return n, err
}

// WriteString appends s to the internal buffer.
func (mw *MetricsWriter) WriteString(s string) (int, error) {
	n, err := mw.writer.WriteString(s)
	mw.updateBuffered()
	return n, err
}

// Flush hands the entire buffer to the channel as one batch.
func (mw *MetricsWriter) Flush() error {
	before := mw.writer.Stats()
	err := mw.writer.Flush()
	mw.observe(before)
	return err
}

// TryFlush hands the entire buffer to the channel, reporting every outcome.
func (mw *MetricsWriter) TryFlush() error {
	before := mw.writer.Stats()
	err := mw.writer.TryFlush()
	mw.observe(before)
	return err
}

// Close flushes the buffer with TryFlush semantics.
func (mw *MetricsWriter) Close() error {
	before := mw.writer.Stats()
	err := mw.writer.Close()
	mw.observe(before)
	return err
}

// Encode serializes m into the buffer and flushes.
func (mw *MetricsWriter) Encode(m Encodable) error {
	before := mw.writer.Stats()
	err := mw.writer.Encode(m)
	mw.observe(before)
	return err
}

// Clone returns an instrumented writer sharing the same channel with a
// fresh buffer. The clone reports under the same writer name.
func (mw *MetricsWriter) Clone() *MetricsWriter {
	return &MetricsWriter{
		writer:   mw.writer.Clone(),
		name:     mw.name,
		registry: mw.registry,
		enabled:  mw.enabled,
	}
}

// Buffered returns the number of bytes currently buffered.
func (mw *MetricsWriter) Buffered() int {
	return mw.writer.Buffered()
}

// Stats returns a snapshot of writer statistics.
func (mw *MetricsWriter) Stats() Stats {
	return mw.writer.Stats()
}

// observe publishes the counter movement since before.
func (mw *MetricsWriter) observe(before Stats) {
	if !mw.enabled {
		return
	}

	after := mw.writer.Stats()
	labels := prometheus.Labels{"writer_name": mw.name}

	mw.registry.WriterFlushes.With(labels).Add(float64(after.BatchesSent - before.BatchesSent))
	mw.registry.WriterFlushBytes.With(labels).Add(float64(after.BytesSent - before.BytesSent))
	mw.registry.WriterDeferrals.With(labels).Add(float64(after.Deferrals - before.Deferrals))
	mw.registry.WriterDroppedBytes.With(labels).Add(float64(after.DroppedBytes - before.DroppedBytes))
	mw.registry.WriterEncodes.With(labels).Add(float64(after.EncodeCount - before.EncodeCount))
	mw.registry.WriterEncodeErrors.With(labels).Add(float64(after.EncodeErrors - before.EncodeErrors))
	mw.registry.WriterBuffered.With(labels).Set(float64(after.Buffered))
}

// updateBuffered refreshes the buffered-bytes gauge.
func (mw *MetricsWriter) updateBuffered() {
	if !mw.enabled {
		return
	}
	mw.registry.WriterBuffered.WithLabelValues(mw.name).Set(float64(mw.writer.Buffered()))
}

// EnableMetrics enables metrics collection.
func (mw *MetricsWriter) EnableMetrics(config metrics.Config) error {
	mw.enabled = config.Enabled

	if config.Registry != nil {
		mw.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mw *MetricsWriter) DisableMetrics() {
	mw.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mw *MetricsWriter) MetricsEnabled() bool {
	return mw.enabled
}
