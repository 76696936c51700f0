// Package autoflush flushes buffering writers on a schedule.
//
// A Group runs one ticker goroutine and drives TryFlush on every registered
// writer, either at a fixed interval or on a cron schedule. It exists for
// producers that buffer small writes and cannot guarantee timely Flush calls
// of their own: register the writer once and batches leave the buffer within
// a bounded delay.
//
// Basic Usage:
//
//	group := autoflush.New()
//	if err := group.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer func() { <-group.Stop() }()
//
//	w := chanwriter.New(q)
//	group.Add("events", w, 100*time.Millisecond)
//
//	// Producers just write; the group flushes every 100ms.
//	fmt.Fprintf(w, "event %d\n", 1)
//
// Flush Outcomes:
//
// The group reschedules entries based on what TryFlush reports:
//
//   - nil: the batch entered the channel; the entry is rescheduled for its
//     next interval or cron occurrence.
//   - transient errors (flush pending): the batch stayed in the buffer; the
//     entry remains due and is retried on the very next tick.
//   - terminal errors (writer closed): the entry is removed from the group,
//     since no future flush can succeed.
//
// Entries with an empty buffer are skipped entirely, so idle writers do not
// push zero-length batches into their channels.
//
// Shared Writers:
//
// The group calls Buffered and TryFlush from its own goroutine. A writer that
// a producer goroutine also uses must be wrapped so both sides serialize:
//
//	var mu sync.Mutex
//	w := chanwriter.New(q)
//	group.Add("shared", autoflush.Locked(w, &mu), 50*time.Millisecond)
//
//	// Producer side: hold the same mutex around writes.
//	mu.Lock()
//	w.WriteString("payload")
//	mu.Unlock()
//
// Writers used only through the group need no wrapping.
//
// Cron Schedules:
//
// Cron entries use six-field expressions with a leading seconds field:
//
//	group.AddCron("hourly-report", w, "0 0 * * * *")   // top of every hour
//	group.AddCron("burst", w, "*/5 * * * * *")         // every five seconds
//
// Configuration:
//
//	group := autoflush.NewWithConfig(autoflush.Config{
//		TickInterval: 25 * time.Millisecond,
//		MaxEntries:   100,
//		OnFlush: func(id string, err error) {
//			if err != nil {
//				log.Printf("flush %s: %v", id, err)
//			}
//		},
//	})
//
// OnFlush fires after every flush attempt, including successful ones, so it
// doubles as a flush-cadence log. Skipped (empty) entries do not fire it.
//
// Entry Management:
//
//	entries := group.List() // sorted by next flush time
//	for _, e := range entries {
//		fmt.Printf("%s due %v\n", e.ID, e.NextFlush)
//	}
//
//	group.Remove("events")
//	group.RemoveAll()
//
// Lifecycle:
//
// Start launches the ticker loop; Stop halts it and the returned channel
// closes once the loop has exited. Entries survive Stop, so a stopped group
// can be started again:
//
//	if err := group.Start(); err != nil {
//		log.Fatal(err)
//	}
//	<-group.Stop()
//
// Thread Safety:
//
// All Group operations are safe for concurrent use from multiple goroutines.
// Flush attempts run on the group's goroutine, one entry at a time.
package autoflush
