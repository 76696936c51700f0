/*
Package queue provides a bounded FIFO queue for decoupling producers from
consumers in concurrent applications.

The queue package implements the transport underneath gosink's buffered
writers: a fixed-capacity ring buffer, safe for concurrent producers and
consumers, with both blocking and non-blocking access and a close-then-drain
lifecycle.

Core Features:

Bounded queues address the common problem in producer-consumer pipelines
where producers outpace the consumer: the buffer absorbs bursts, blocking
sends provide natural flow control, and non-blocking sends let producers
react to a full buffer instead of waiting.

Key Components:
  - Queue: Generic bounded queue with blocking and non-blocking operations
  - MetricsQueue: Queue wrapper with Prometheus instrumentation
  - Sentinel-based error reporting via pkg/common/errors
  - Context-aware blocking operations
  - Statistics for monitoring utilization and rejections

Basic Usage:

Creating Queues:

	// Simple queue with default configuration
	q := queue.New[[]byte](100)
	defer q.Close()

	// Queue with custom configuration
	config := queue.Config{
		BufferSize: 50,
		OnReject: func() {
			log.Println("batch rejected: queue full")
		},
	}
	q := queue.NewWithConfig[[]byte](config)
	defer q.Close()

Sending and Receiving:

	ctx := context.Background()

	// Blocking send/receive
	err := q.Send(ctx, batch)
	batch, err := q.Receive(ctx)

	// Non-blocking send/receive
	err := q.TrySend(batch)
	batch, ok, err := q.TryReceive()
	if !ok {
		// No data available
	}

Error Handling:

Non-blocking operations report capacity and lifecycle conditions through
the shared sentinels in pkg/common/errors:

	err := q.TrySend(batch)
	switch {
	case err == nil:
		// Accepted
	case errors.Is(err, gserrors.ErrFull):
		// Buffer at capacity, value not taken
	case errors.Is(err, gserrors.ErrClosed):
		// Queue closed, no further sends possible
	}

Close Semantics:

Close stops the queue from accepting new values but preserves what is
already buffered. Receivers drain the remaining elements and then observe
errors.ErrClosed:

	q.Close()

	for {
		batch, err := q.Receive(ctx)
		if errors.Is(err, gserrors.ErrClosed) {
			break // Fully drained
		}
		process(batch)
	}

Close is idempotent and never fails.

Context Support:

Blocking operations honor context cancellation, waking promptly when the
context is done:

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := q.Send(ctx, batch)
	if errors.Is(err, context.DeadlineExceeded) {
		// Gave up waiting for space
	}

Monitoring:

The queue tracks activity counters for observability:

	stats := q.Stats()
	fmt.Printf("Sends: %d\n", stats.SendCount)
	fmt.Printf("Receives: %d\n", stats.ReceiveCount)
	fmt.Printf("Rejected: %d\n", stats.RejectedCount)
	fmt.Printf("Utilization: %.1f%%\n", stats.BufferUtilization*100)

For Prometheus integration, use MetricsQueue:

	q := queue.NewWithMetrics[[]byte](100, "chat_outbound")

Thread Safety:

All operations are safe for concurrent use from multiple goroutines. The
implementation uses a single mutex with separate condition variables for
senders and receivers, keeping contention low under mixed workloads.
*/
package queue
