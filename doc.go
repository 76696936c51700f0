/*
Package gosink provides buffered writing over channels: producers buffer
small writes, flush them as indivisible batches into a channel, and a
single consumer drains the channel into the real destination.

Core Pipeline:
  - chanwriter: Buffering io.Writer that flushes whole batches into a channel
  - queue: Bounded generic channel with blocking and non-blocking operations
  - pump: Consumer loop moving batches from a channel to an io.Writer

Supporting Packages:
  - autoflush: Interval and cron-based flushing for passive producers
  - redistream: Channel consumer that appends batches to a Redis stream
  - metrics: Prometheus instrumentation shared by the wrappers

Example usage:

	import (
		"github.com/vnykmshr/gosink/pkg/chanwriter"
		"github.com/vnykmshr/gosink/pkg/pump"
		"github.com/vnykmshr/gosink/pkg/queue"
	)

	q := queue.New[[]byte](64)

	p := pump.New(q, conn) // one goroutine owns the connection
	p.Start(ctx)

	w := chanwriter.New(q) // one clone per producer goroutine
	fmt.Fprintf(w, "NICK %s\r\n", nick)
	w.Flush()

	q.Close() // drain and shut down
	p.Wait()
*/
package gosink
