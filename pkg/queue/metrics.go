package queue

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	gserrors "github.com/vnykmshr/gosink/pkg/common/errors"
	"github.com/vnykmshr/gosink/pkg/metrics"
)

// MetricsQueue wraps a Queue with Prometheus metrics collection.
type MetricsQueue[T any] struct {
	queue    *Queue[T]
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewWithMetrics creates a new queue with metrics enabled.
func NewWithMetrics[T any](bufferSize int, name string) *MetricsQueue[T] {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	queueConfig := DefaultConfig()
	queueConfig.BufferSize = bufferSize

	return NewWithConfigAndMetrics[T](queueConfig, name, config)
}

// NewWithConfigAndMetrics creates a new queue with custom config and metrics.
func NewWithConfigAndMetrics[T any](config Config, name string, metricsConfig metrics.Config) *MetricsQueue[T] {
	mq := &MetricsQueue[T]{
		queue:   NewWithConfig[T](config),
		name:    name,
		enabled: metricsConfig.Enabled,
	}

	if metricsConfig.Registry != nil {
		// Create custom registry if provided
		mq.registry = metrics.NewRegistry(metricsConfig.Registry)
	} else {
		mq.registry = metrics.DefaultRegistry
	}

	if mq.enabled {
		mq.registry.QueueCapacity.WithLabelValues(mq.name).Set(float64(mq.queue.Cap()))
		mq.registry.QueueDepth.WithLabelValues(mq.name).Set(0)
	}

	return mq
}

// Send adds a value to the queue, blocking while the queue is full.
func (mq *MetricsQueue[T]) Send(ctx context.Context, value T) error {
	err := mq.queue.Send(ctx, value)

	if mq.enabled && err == nil {
		mq.registry.QueueSends.WithLabelValues(mq.name).Inc()
		mq.updateDepth()
	}

	return err
}

// TrySend attempts to add a value without blocking.
func (mq *MetricsQueue[T]) TrySend(value T) error {
	err := mq.queue.TrySend(value)

	if mq.enabled {
		switch {
		case err == nil:
			mq.registry.QueueSends.WithLabelValues(mq.name).Inc()
			mq.updateDepth()
		case errors.Is(err, gserrors.ErrFull):
			mq.registry.QueueRejected.WithLabelValues(mq.name).Inc()
		}
	}

	return err
}

// Receive removes and returns the oldest value, blocking while the queue is empty.
func (mq *MetricsQueue[T]) Receive(ctx context.Context) (T, error) {
	value, err := mq.queue.Receive(ctx)

	if mq.enabled && err == nil {
		mq.registry.QueueReceives.WithLabelValues(mq.name).Inc()
		mq.updateDepth()
	}

	return value, err
}

// TryReceive attempts to remove a value without blocking.
func (mq *MetricsQueue[T]) TryReceive() (T, bool, error) {
	value, ok, err := mq.queue.TryReceive()

	if mq.enabled && ok {
		mq.registry.QueueReceives.WithLabelValues(mq.name).Inc()
		mq.updateDepth()
	}

	return value, ok, err
}

// Close closes the queue for sending.
func (mq *MetricsQueue[T]) Close() error {
	return mq.queue.Close()
}

// IsClosed returns true if the queue is closed.
func (mq *MetricsQueue[T]) IsClosed() bool {
	return mq.queue.IsClosed()
}

// Len returns the current number of buffered elements.
func (mq *MetricsQueue[T]) Len() int {
	return mq.queue.Len()
}

// Cap returns the buffer capacity.
func (mq *MetricsQueue[T]) Cap() int {
	return mq.queue.Cap()
}

// Stats returns a snapshot of queue statistics.
func (mq *MetricsQueue[T]) Stats() Stats {
	return mq.queue.Stats()
}

// updateDepth refreshes the depth gauge from the current queue length.
func (mq *MetricsQueue[T]) updateDepth() {
	mq.registry.QueueDepth.WithLabelValues(mq.name).Set(float64(mq.queue.Len()))
}

// EnableMetrics enables metrics collection.
func (mq *MetricsQueue[T]) EnableMetrics(config metrics.Config) error {
	mq.enabled = config.Enabled

	if config.Registry != nil {
		mq.registry = metrics.NewRegistry(config.Registry)
	}

	return nil
}

// DisableMetrics disables metrics collection.
func (mq *MetricsQueue[T]) DisableMetrics() {
	mq.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (mq *MetricsQueue[T]) MetricsEnabled() bool {
	return mq.enabled
}
