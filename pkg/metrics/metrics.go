package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for gosink components.
type Registry struct {
	// Writer Metrics
	WriterFlushes      *prometheus.CounterVec
	WriterFlushBytes   *prometheus.CounterVec
	WriterDeferrals    *prometheus.CounterVec
	WriterDroppedBytes *prometheus.CounterVec
	WriterEncodes      *prometheus.CounterVec
	WriterEncodeErrors *prometheus.CounterVec
	WriterBuffered     *prometheus.GaugeVec

	// Queue Metrics
	QueueDepth    *prometheus.GaugeVec
	QueueCapacity *prometheus.GaugeVec
	QueueSends    *prometheus.CounterVec
	QueueReceives *prometheus.CounterVec
	QueueRejected *prometheus.CounterVec

	// Pump Metrics
	PumpBatches *prometheus.CounterVec
	PumpBytes   *prometheus.CounterVec
	PumpErrors  *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by gosink components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		// Writer Metrics
		WriterFlushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "writer",
				Name:      "flushes_total",
				Help:      "Total number of flushed batches accepted by the channel",
			},
			[]string{"writer_name"},
		),

		WriterFlushBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "writer",
				Name:      "flushed_bytes_total",
				Help:      "Total bytes handed to the channel in accepted batches",
			},
			[]string{"writer_name"},
		),

		WriterDeferrals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "writer",
				Name:      "deferrals_total",
				Help:      "Total number of flushes deferred because the channel was full",
			},
			[]string{"writer_name"},
		),

		WriterDroppedBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "writer",
				Name:      "dropped_bytes_total",
				Help:      "Total bytes dropped on flushes against a closed channel",
			},
			[]string{"writer_name"},
		),

		WriterEncodes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "writer",
				Name:      "encodes_total",
				Help:      "Total number of successful message encodes",
			},
			[]string{"writer_name"},
		),

		WriterEncodeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "writer",
				Name:      "encode_errors_total",
				Help:      "Total number of failed message encodes",
			},
			[]string{"writer_name"},
		),

		WriterBuffered: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gosink",
				Subsystem: "writer",
				Name:      "buffered_bytes",
				Help:      "Bytes currently buffered and awaiting a flush",
			},
			[]string{"writer_name"},
		),

		// Queue Metrics
		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gosink",
				Subsystem: "queue",
				Name:      "depth",
				Help:      "Current number of batches buffered in the queue",
			},
			[]string{"queue_name"},
		),

		QueueCapacity: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "gosink",
				Subsystem: "queue",
				Name:      "capacity",
				Help:      "Queue buffer capacity",
			},
			[]string{"queue_name"},
		),

		QueueSends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "queue",
				Name:      "sends_total",
				Help:      "Total number of batches accepted by the queue",
			},
			[]string{"queue_name"},
		),

		QueueReceives: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "queue",
				Name:      "receives_total",
				Help:      "Total number of batches taken from the queue",
			},
			[]string{"queue_name"},
		),

		QueueRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "queue",
				Name:      "rejected_sends_total",
				Help:      "Total number of non-blocking sends rejected at capacity",
			},
			[]string{"queue_name"},
		),

		// Pump Metrics
		PumpBatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "pump",
				Name:      "batches_written_total",
				Help:      "Total number of batches written to the destination",
			},
			[]string{"pump_name"},
		),

		PumpBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "pump",
				Name:      "written_bytes_total",
				Help:      "Total bytes written to the destination",
			},
			[]string{"pump_name"},
		),

		PumpErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gosink",
				Subsystem: "pump",
				Name:      "write_errors_total",
				Help:      "Total number of destination write failures",
			},
			[]string{"pump_name"},
		),
	}
}
