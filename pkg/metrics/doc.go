// Package metrics provides Prometheus instrumentation for gosink components.
//
// This package enables monitoring and observability for gosink's buffered
// writers and bounded queues through Prometheus metrics.
//
// # Overview
//
// The metrics package provides automatic instrumentation for:
//   - Buffered writers (flushes, flushed bytes, deferrals, dropped bytes, encodes)
//   - Bounded queues (depth, capacity, sends, receives, rejected sends)
//   - Pumps (batches written, bytes written, write errors)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructors:
//
//	// Buffered writer with metrics
//	w := chanwriter.NewWithMetrics(q, "chat_writer")
//
//	// Bounded queue with metrics
//	q := queue.NewWithMetrics[[]byte](16, "chat_outbound")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//
//	w := chanwriter.NewMetricsWriter(chanwriter.New(q), "chat_writer", config)
//
// # Available Metrics
//
// ## Writer Metrics
//
//   - gosink_writer_flushes_total: Total number of flushed batches accepted by the channel
//   - gosink_writer_flushed_bytes_total: Total bytes handed to the channel in accepted batches
//   - gosink_writer_deferrals_total: Total number of flushes deferred because the channel was full
//   - gosink_writer_dropped_bytes_total: Total bytes dropped on flushes against a closed channel
//   - gosink_writer_encodes_total: Total number of successful message encodes
//   - gosink_writer_encode_errors_total: Total number of failed message encodes
//   - gosink_writer_buffered_bytes: Bytes currently buffered and awaiting a flush
//
// ## Queue Metrics
//
//   - gosink_queue_depth: Current number of batches buffered in the queue
//   - gosink_queue_capacity: Queue buffer capacity
//   - gosink_queue_sends_total: Total number of batches accepted by the queue
//   - gosink_queue_receives_total: Total number of batches taken from the queue
//   - gosink_queue_rejected_sends_total: Total number of non-blocking sends rejected at capacity
//
// ## Pump Metrics
//
//   - gosink_pump_batches_written_total: Total number of batches written to the destination
//   - gosink_pump_written_bytes_total: Total bytes written to the destination
//   - gosink_pump_write_errors_total: Total number of destination write failures
//
// # Labels
//
// Metrics include relevant labels for filtering and aggregation:
//
//   - writer_name: User-provided name for the writer instance
//   - queue_name: User-provided name for the queue instance
//   - pump_name: User-provided name for the pump instance
//
// # Configuration
//
// Metrics can be configured globally or per-component:
//
//	config := metrics.Config{
//		Enabled:   true,                           // Enable/disable metrics
//		Registry:  prometheus.DefaultRegisterer,   // Custom registry
//		Namespace: "myapp",                        // Override default "gosink"
//		Labels:    prometheus.Labels{"version": "1.0"}, // Additional labels
//	}
//
// # Runtime Control
//
// Components implementing the Instrumentable interface support runtime control:
//
//	w := chanwriter.NewWithMetrics(q, "chat_writer")
//	w.DisableMetrics()            // Stop collecting metrics
//	w.EnableMetrics(config)       // Re-enable with new config
//	enabled := w.MetricsEnabled() // Check current state
//
// # Performance
//
// Metrics collection is designed for minimal overhead:
//   - Metrics are updated only when operations occur
//   - No background goroutines or timers
//   - Efficient label handling with pre-computed label values
//   - Conditional metrics updates based on enabled state
package metrics
