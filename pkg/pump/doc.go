/*
Package pump moves batches from a channel to an io.Writer.

A pump is the consuming half of a buffered-writer pipeline: producers flush
batches into a channel through chanwriter, and a single pump goroutine drains
the channel into the real destination. Each batch becomes exactly one Write
call on the destination, so batch boundaries survive all the way to
destinations where they matter (datagram sockets, framed protocols,
line-oriented logs).

# Basic Usage

	q := queue.New[[]byte](64)

	p := pump.New(q, conn)
	if err := p.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	// ... producers write and flush through chanwriter ...

	q.Close()            // no more batches; let the pump drain
	if err := p.Wait(); err != nil {
		log.Printf("pump failed: %v", err)
	}

# Shutdown

There are two ways to end a pump, with different guarantees:

  - Close the channel: the pump drains every remaining batch, then Wait
    returns nil. Use this for graceful shutdown.
  - Cancel the context or call Stop: the pump exits as soon as the current
    write finishes. Batches still buffered in the channel stay there, and
    Wait returns nil.

A destination write failure ends the pump immediately; Wait returns the
write error wrapped in an OperationError. Decide in OnError whether to
rebuild the pipeline or drop the stream.

# Configuration

	p := pump.NewWithConfig(q, conn, pump.Config{
		OnWrite: func(n int, err error) {
			log.Printf("wrote %d bytes: %v", n, err)
		},
		OnError: func(err error) {
			log.Printf("destination failed: %v", err)
		},
	})

# Statistics

	stats := p.Stats()
	fmt.Printf("batches: %d, bytes: %d, write errors: %d\n",
		stats.BatchesWritten, stats.BytesWritten, stats.WriteErrors)

Zero-length batches (flushes of empty buffers) are counted in EmptyBatches
and skipped without touching the destination.

# Metrics

MetricsPump publishes the same activity as Prometheus counters under the
gosink_pump_* names:

	p := pump.NewWithMetrics(q, conn, "outbound")

# Thread Safety

A pump runs a single goroutine, so the destination writer needs no locking
of its own even when many producers feed the channel. Start, Stop, Wait,
and Stats are safe to call from any goroutine.
*/
package pump
