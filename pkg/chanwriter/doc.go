/*
Package chanwriter provides a channel-backed buffered writer for batching
outbound data.

Writer accumulates bytes in memory and hands them to a channel in
whole-buffer batches. Writes are synchronous and infallible; delivery
happens on flush, as a single non-blocking send of everything buffered
since the last accepted flush. The consumer on the other side of the
channel decides what batches mean: socket frames, Redis entries, log
lines.

# Quick Start

	q := queue.New[[]byte](16)
	w := chanwriter.New(q)

	w.WriteString("PASS secret\r\n")
	w.WriteString("NICK justinfan123\r\n")
	w.Flush() // both lines leave as one batch

	batch, _ := q.Receive(ctx) // consumer side

# Flush Semantics

A flush always takes the entire buffer and attempts exactly one
non-blocking send. Three outcomes are possible:

	err := w.TryFlush()
	switch {
	case err == nil:
		// Batch accepted; the buffer is empty.
	case errors.Is(err, chanwriter.ErrFlushPending):
		// Channel full; the buffer is retained. Try again later.
	case errors.Is(err, chanwriter.ErrWriterClosed):
		// Channel closed; the batch was dropped. Terminal.
	}

Flush differs from TryFlush in one way: it treats a full channel as
success and quietly keeps the data for a later flush. That makes it safe
to call on every message without error handling, at the cost of not
observing deferrals. Use TryFlush where delivery pressure matters.

A flush of an empty buffer still sends a zero-length batch, so consumers
observe the flush itself.

# Closing

The writer owns no resources: Close is TryFlush under another name. The
channel is closed by its owner (typically the consumer side shutting
down), at which point every writer sharing it starts returning
ErrWriterClosed:

	if err := w.Close(); errors.Is(err, chanwriter.ErrWriterClosed) {
		// Consumer is gone; buffered bytes were dropped.
	}

ErrWriterClosed is terminal, ErrFlushPending is transient. Both wrap the
shared sentinels in pkg/common/errors, so errors.IsTerminal and
errors.IsTransient classify them.

# Multiple Producers

A Writer is not safe for concurrent use. The multi-producer pattern is
one Clone per goroutine: clones share the channel while keeping private
buffers, so each goroutine's batches stay intact:

	for i := 0; i < workers; i++ {
		go produce(w.Clone())
	}

Bytes buffered in the original at clone time stay in the original.

# Encoding Messages

Encode serializes a message into the buffer and flushes in one call:

	type join struct{ channel string }

	func (j join) Encode(w io.Writer) error {
		_, err := fmt.Fprintf(w, "JOIN #%s\r\n", j.channel)
		return err
	}

	err := w.Encode(join{channel: "gopher"})

An encode error is returned verbatim and leaves any partially written
bytes in the buffer. Bytes, String, and JSON cover common payloads
without a custom type.

# Senders

The Sender interface decouples the writer from the channel
implementation. queue.Queue is the natural fit; ChanSender adapts a plain
Go channel; SenderFunc adapts a function:

	ch := make(chan []byte, 16)
	w := chanwriter.New(chanwriter.ChanSender(ch))

# Monitoring

Callbacks report flush outcomes as they happen:

	config := chanwriter.Config{
		OnFlush: func(batchBytes int, err error) {
			log.Printf("flush %d bytes: %v", batchBytes, err)
		},
		OnDrop: func(droppedBytes int) {
			log.Printf("dropped %d bytes on closed channel", droppedBytes)
		},
	}
	w := chanwriter.NewWithConfig(q, config)

Stats returns cumulative counters, and MetricsWriter exposes them as
Prometheus metrics:

	w := chanwriter.NewWithMetrics(q, "chat_writer")

# Performance Notes

  - An accepted flush hands the buffer to the channel without copying;
    the writer allocates a fresh buffer on the next write.
  - InitialCapacity avoids regrowth when typical batch sizes are known.
  - Deferred flushes retain the buffer in place; nothing is copied.

See example tests for more usage patterns.
*/
package chanwriter
