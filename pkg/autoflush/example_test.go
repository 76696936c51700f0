package autoflush

import (
	"context"
	"fmt"
	"time"

	"github.com/vnykmshr/gosink/pkg/chanwriter"
	"github.com/vnykmshr/gosink/pkg/queue"
)

// Example demonstrates periodic flushing of a buffered writer.
func Example() {
	q := queue.New[[]byte](16)
	defer q.Close()

	w := chanwriter.New(q)
	w.WriteString("buffered line\n")

	g := NewWithConfig(Config{TickInterval: 10 * time.Millisecond})
	defer func() { <-g.Stop() }()

	_ = g.Add("events", w, 20*time.Millisecond)
	_ = g.Start()

	// The group flushes within one interval; receive the batch.
	batch, _ := q.Receive(context.Background())
	fmt.Printf("received %d bytes\n", len(batch))

	// Output:
	// received 14 bytes
}

// Example_entryManagement shows inspection and removal of registered entries.
func Example_entryManagement() {
	q := queue.New[[]byte](16)
	defer q.Close()

	g := New()
	_ = g.Add("fast", chanwriter.New(q), time.Second)
	_ = g.Add("slow", chanwriter.New(q), time.Hour)

	for _, e := range g.List() {
		fmt.Printf("%s every %v\n", e.ID, e.Interval)
	}

	g.Remove("fast")
	fmt.Println("remaining:", len(g.List()))

	// Output:
	// fast every 1s
	// slow every 1h0m0s
	// remaining: 1
}
