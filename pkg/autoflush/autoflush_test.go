package autoflush

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vnykmshr/gosink/internal/testutil"
	"github.com/vnykmshr/gosink/pkg/chanwriter"
	gserrors "github.com/vnykmshr/gosink/pkg/common/errors"
	"github.com/vnykmshr/gosink/pkg/queue"
)

func testGroup(cfg Config) *Group {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = 10 * time.Millisecond
	}
	return NewWithConfig(cfg)
}

func TestGroup_IntervalFlush(t *testing.T) {
	q := queue.New[[]byte](8)
	defer q.Close()

	w := chanwriter.New(q)
	w.WriteString("hello")

	g := testGroup(Config{})
	defer func() { <-g.Stop() }()

	if err := g.Add("writer", w, 25*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	testutil.AssertEventually(t, func() bool { return q.Len() > 0 })

	batch, ok, err := q.TryReceive()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, true)
	testutil.AssertEqual(t, string(batch), "hello")
}

func TestGroup_SkipsEmptyWriters(t *testing.T) {
	q := queue.New[[]byte](8)
	defer q.Close()

	onFlush := testutil.NewCallbackTracker()
	g := testGroup(Config{
		OnFlush: func(id string, err error) { onFlush.Mark(err) },
	})
	defer func() { <-g.Stop() }()

	if err := g.Add("idle", chanwriter.New(q), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	// Give the loop a good number of ticks; an idle writer must not
	// produce flushes or zero-length batches.
	time.Sleep(100 * time.Millisecond)

	testutil.AssertEqual(t, q.Len(), 0)
	onFlush.AssertNotCalled(t)
}

func TestGroup_TransientErrorRetriesNextTick(t *testing.T) {
	q := queue.New[[]byte](1)
	defer q.Close()

	// Occupy the only slot so flushes defer.
	testutil.AssertNoError(t, q.TrySend([]byte("occupant")))

	w := chanwriter.New(q)
	w.WriteString("data")

	onFlush := testutil.NewCallbackTracker()
	g := testGroup(Config{
		OnFlush: func(id string, err error) { onFlush.Mark(err) },
	})
	defer func() { <-g.Stop() }()

	if err := g.Add("blocked", w, 20*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	// The entry stays due, so deferrals pile up tick after tick.
	testutil.AssertEventually(t, func() bool { return onFlush.CallCount() >= 2 })

	if err, ok := onFlush.Value().(error); !ok || !gserrors.IsTransient(err) {
		t.Fatalf("OnFlush reported %v, want a transient error", onFlush.Value())
	}

	// Free the slot; the retried flush delivers the same batch.
	_, ok, err := q.TryReceive()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, true)

	testutil.AssertEventually(t, func() bool {
		batch, ok, err := q.TryReceive()
		return err == nil && ok && string(batch) == "data"
	})
}

func TestGroup_TerminalErrorRemovesEntry(t *testing.T) {
	q := queue.New[[]byte](8)

	w := chanwriter.New(q)
	w.WriteString("doomed")
	testutil.AssertNoError(t, q.Close())

	onFlush := testutil.NewCallbackTracker()
	g := testGroup(Config{
		OnFlush: func(id string, err error) { onFlush.Mark(err) },
	})
	defer func() { <-g.Stop() }()

	if err := g.Add("doomed", w, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	testutil.AssertEventually(t, func() bool { return onFlush.CallCount() == 1 })

	testutil.AssertEqual(t, len(g.List()), 0)
	if err, ok := onFlush.Value().(error); !ok || !errors.Is(err, gserrors.ErrClosed) {
		t.Fatalf("OnFlush reported %v, want a closed error", onFlush.Value())
	}
}

func TestGroup_CronFlush(t *testing.T) {
	q := queue.New[[]byte](8)
	defer q.Close()

	w := chanwriter.New(q)
	w.WriteString("tick")

	g := testGroup(Config{TickInterval: 50 * time.Millisecond})
	defer func() { <-g.Stop() }()

	// Every second.
	if err := g.AddCron("cron", w, "* * * * * *"); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, func() bool {
		return q.Len() > 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestGroup_EntryManagement(t *testing.T) {
	q := queue.New[[]byte](8)
	defer q.Close()

	g := New()
	w := chanwriter.New(q)

	if err := g.Add("dup", w, time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := g.Add("dup", w, time.Hour); err == nil {
		t.Error("should not allow duplicate entry IDs")
	}

	entries := g.List()
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID != "dup" || entries[0].Interval != time.Hour {
		t.Errorf("unexpected entry: %+v", entries[0])
	}

	if !g.Remove("dup") {
		t.Error("should successfully remove existing entry")
	}
	if g.Remove("nonexistent") {
		t.Error("should return false for nonexistent entry")
	}

	if err := g.Add("a", w, time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := g.Add("b", w, time.Minute); err != nil {
		t.Fatal(err)
	}

	entries = g.List()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Sorted by next flush time: the minute entry comes first.
	testutil.AssertEqual(t, entries[0].ID, "b")

	g.RemoveAll()
	if len(g.List()) != 0 {
		t.Error("expected no entries after RemoveAll")
	}
}

func TestGroup_InputValidation(t *testing.T) {
	q := queue.New[[]byte](8)
	defer q.Close()

	g := New()
	w := chanwriter.New(q)

	tests := []struct {
		name string
		fn   func() error
	}{
		{
			"empty ID",
			func() error { return g.Add("", w, time.Second) },
		},
		{
			"oversized ID",
			func() error { return g.Add(strings.Repeat("x", 256), w, time.Second) },
		},
		{
			"nil flusher",
			func() error { return g.Add("test", nil, time.Second) },
		},
		{
			"zero interval",
			func() error { return g.Add("test", w, 0) },
		},
		{
			"negative interval",
			func() error { return g.Add("test", w, -time.Second) },
		},
		{
			"empty cron expression",
			func() error { return g.AddCron("test", w, "") },
		},
		{
			"invalid cron expression",
			func() error { return g.AddCron("test", w, "invalid") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGroup_MaxEntries(t *testing.T) {
	q := queue.New[[]byte](8)
	defer q.Close()

	g := NewWithConfig(Config{MaxEntries: 2})
	w := chanwriter.New(q)

	testutil.AssertNoError(t, g.Add("one", w, time.Hour))
	testutil.AssertNoError(t, g.Add("two", w, time.Hour))
	testutil.AssertError(t, g.Add("three", w, time.Hour))
}

func TestGroup_StartStop(t *testing.T) {
	g := New()

	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err == nil {
		t.Error("second Start should fail while running")
	}

	select {
	case <-g.Stop():
	case <-time.After(testutil.TestTimeout):
		t.Fatal("Stop did not complete")
	}

	// Entries survive Stop and the group can run again.
	if err := g.Start(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	<-g.Stop()
}

func TestGroup_StopBeforeStart(t *testing.T) {
	g := New()
	select {
	case <-g.Stop():
	case <-time.After(testutil.TestTimeout):
		t.Fatal("Stop on a never-started group did not complete")
	}
}

func TestGroup_LockedFlusher(t *testing.T) {
	q := queue.New[[]byte](64)
	defer q.Close()

	w := chanwriter.New(q)
	var mu sync.Mutex

	g := testGroup(Config{})
	defer func() { <-g.Stop() }()

	if err := g.Add("shared", Locked(w, &mu), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	// Producer writes under the same mutex the group flushes under.
	go func() {
		for i := 0; i < 20; i++ {
			mu.Lock()
			w.WriteString("x")
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
		}
	}()

	total := 0
	testutil.AssertEventually(t, func() bool {
		for {
			batch, ok, err := q.TryReceive()
			if err != nil || !ok {
				break
			}
			total += len(batch)
		}
		return total == 20
	})
}
