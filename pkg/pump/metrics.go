package pump

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/gosink/pkg/metrics"
)

// MetricsPump wraps a Pump with Prometheus metrics collection. Writes are
// observed through the pump's OnWrite hook, so an instrumented pump behaves
// identically to a plain one.
//
// Unlike MetricsWriter, the collection setting is fixed at construction:
// the pump loop observes writes from its own goroutine, so there is no
// safe moment to toggle it while the pump runs.
type MetricsPump struct {
	pump     *Pump
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new pump with metrics enabled.
func NewWithMetrics(src Receiver, dst io.Writer, name string) *MetricsPump {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewMetricsPump(src, dst, Config{}, name, config)
}

// NewMetricsPump creates an instrumented pump with custom pump and metrics
// configuration. A caller-supplied OnWrite callback still fires after the
// metrics are recorded.
func NewMetricsPump(src Receiver, dst io.Writer, config Config, name string, metricsConfig metrics.Config) *MetricsPump {
	mp := &MetricsPump{
		name:    name,
		enabled: metricsConfig.Enabled,
	}

	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		mp.registry = metrics.NewRegistry(metricsConfig.Registry)
	} else {
		mp.registry = metrics.DefaultRegistry
	}

	userOnWrite := config.OnWrite
	config.OnWrite = func(n int, err error) {
		mp.observeWrite(n, err)
		if userOnWrite != nil {
			userOnWrite(n, err)
		}
	}

	mp.pump = NewWithConfig(src, dst, config)
	return mp
}

// Start launches the pump loop.
func (mp *MetricsPump) Start(ctx context.Context) error {
	return mp.pump.Start(ctx)
}

// Stop cancels the pump loop. The returned channel closes once the loop
// has fully exited.
func (mp *MetricsPump) Stop() <-chan struct{} {
	return mp.pump.Stop()
}

// Wait blocks until the pump loop exits and returns its terminal error.
func (mp *MetricsPump) Wait() error {
	return mp.pump.Wait()
}

// Stats returns a snapshot of pump statistics.
func (mp *MetricsPump) Stats() Stats {
	return mp.pump.Stats()
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mp *MetricsPump) MetricsEnabled() bool {
	return mp.enabled
}

// observeWrite records one destination write outcome.
func (mp *MetricsPump) observeWrite(n int, err error) {
	if !mp.enabled {
		return
	}

	labels := prometheus.Labels{"pump_name": mp.name}
	if err != nil {
		mp.registry.PumpErrors.With(labels).Inc()
		return
	}
	mp.registry.PumpBatches.With(labels).Inc()
	mp.registry.PumpBytes.With(labels).Add(float64(n))
}
