package autoflush

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	gserrors "github.com/vnykmshr/gosink/pkg/common/errors"
)

// Flusher is a buffering writer that can be flushed without blocking and
// report how much it currently buffers. *chanwriter.Writer and
// *chanwriter.MetricsWriter satisfy Flusher directly.
//
// The group calls Buffered and TryFlush from its own goroutine. A writer
// that is also used by a producer goroutine must be wrapped with Locked
// (or an equivalent) so the two sides do not race.
type Flusher interface {
	TryFlush() error
	Buffered() int
}

// Locked wraps a Flusher so that every Buffered and TryFlush call holds mu.
// Producers sharing the writer must hold the same mutex around their writes.
func Locked(f Flusher, mu *sync.Mutex) Flusher {
	return &lockedFlusher{f: f, mu: mu}
}

type lockedFlusher struct {
	f  Flusher
	mu *sync.Mutex
}

func (lf *lockedFlusher) TryFlush() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	return lf.f.TryFlush()
}

func (lf *lockedFlusher) Buffered() int {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	return lf.f.Buffered()
}

// Entry describes a registered flusher.
type Entry struct {
	ID        string
	NextFlush time.Time
	Interval  time.Duration // Zero for cron entries
	Created   time.Time
}

// Config holds group configuration.
type Config struct {
	Location     *time.Location // For cron schedules
	TickInterval time.Duration  // How often to check for due entries (default: 50ms)
	MaxEntries   int            // Maximum number of registered entries (default: 10000)

	// OnFlush is called after every flush attempt with the entry ID and
	// the TryFlush outcome. Skipped entries (nothing buffered) do not
	// trigger the callback.
	OnFlush func(id string, err error)
}

type entry struct {
	id           string
	flusher      Flusher
	nextFlush    time.Time
	interval     time.Duration
	cronSchedule cron.Schedule
	created      time.Time
}

// Group flushes registered writers on a shared ticker. Interval entries
// flush every interval, cron entries on their schedule. An entry whose
// flush defers (channel full) stays due and is retried on the next tick;
// an entry whose channel has closed is removed.
type Group struct {
	location     *time.Location
	tickInterval time.Duration
	maxEntries   int
	cronParser   cron.Parser
	onFlush      func(id string, err error)

	mu       sync.RWMutex
	entries  map[string]*entry
	ticker   *time.Ticker
	done     chan struct{}
	loopDone chan struct{}
	running  bool
}

// New creates a group with default configuration.
func New() *Group {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a group with custom configuration.
func NewWithConfig(cfg Config) *Group {
	location := cfg.Location
	if location == nil {
		location = time.Local
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond // Reasonable default
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000 // Reasonable default
	}

	return &Group{
		location:     location,
		tickInterval: tickInterval,
		maxEntries:   maxEntries,
		cronParser:   cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
		onFlush:      cfg.OnFlush,
		entries:      make(map[string]*entry),
	}
}

// Add registers f for flushing every interval, starting one interval from now.
func (g *Group) Add(id string, f Flusher, interval time.Duration) error {
	if id == "" {
		return fmt.Errorf("entry ID cannot be empty")
	}
	if len(id) > 255 {
		return fmt.Errorf("entry ID too long (max 255 characters)")
	}
	if f == nil {
		return fmt.Errorf("flusher cannot be nil")
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", interval)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.entries[id]; exists {
		return fmt.Errorf("entry with ID %q already exists, use a different ID or remove the existing entry first", id)
	}

	if len(g.entries) >= g.maxEntries {
		return fmt.Errorf("cannot add entry: maximum number of entries (%d) reached", g.maxEntries)
	}

	now := time.Now()
	g.entries[id] = &entry{
		id:        id,
		flusher:   f,
		nextFlush: now.Add(interval),
		interval:  interval,
		created:   now,
	}

	return nil
}

// AddCron registers f for flushing on a cron schedule. Expressions use six
// fields with a leading seconds field, e.g. "*/5 * * * * *" for every five
// seconds.
func (g *Group) AddCron(id string, f Flusher, cronExpr string) error {
	if id == "" {
		return fmt.Errorf("entry ID cannot be empty")
	}
	if len(id) > 255 {
		return fmt.Errorf("entry ID too long (max 255 characters)")
	}
	if f == nil {
		return fmt.Errorf("flusher cannot be nil")
	}
	if cronExpr == "" {
		return fmt.Errorf("cron expression cannot be empty")
	}

	schedule, err := g.cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.entries[id]; exists {
		return fmt.Errorf("entry with ID %q already exists, use a different ID or remove the existing entry first", id)
	}

	if len(g.entries) >= g.maxEntries {
		return fmt.Errorf("cannot add entry: maximum number of entries (%d) reached", g.maxEntries)
	}

	now := time.Now()
	g.entries[id] = &entry{
		id:           id,
		flusher:      f,
		nextFlush:    schedule.Next(now.In(g.location)),
		cronSchedule: schedule,
		created:      now,
	}

	return nil
}

// Remove unregisters the entry with the given ID, reporting whether it existed.
func (g *Group) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.entries[id]; exists {
		delete(g.entries, id)
		return true
	}
	return false
}

// RemoveAll unregisters every entry.
func (g *Group) RemoveAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entries = make(map[string]*entry)
}

// List returns the registered entries sorted by next flush time.
func (g *Group) List() []Entry {
	g.mu.RLock()
	defer g.mu.RUnlock()

	entries := make([]Entry, 0, len(g.entries))
	for _, e := range g.entries {
		entries = append(entries, Entry{
			ID:        e.id,
			NextFlush: e.nextFlush,
			Interval:  e.interval,
			Created:   e.created,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].NextFlush.Before(entries[j].NextFlush)
	})

	return entries
}

// Start launches the flush loop.
func (g *Group) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return fmt.Errorf("autoflush group already running, call Stop() first")
	}

	g.running = true
	g.ticker = time.NewTicker(g.tickInterval)
	g.done = make(chan struct{})
	g.loopDone = make(chan struct{})

	go g.run(g.ticker, g.done, g.loopDone)
	return nil
}

// Stop halts the flush loop. The returned channel closes once the loop has
// fully exited. Entries stay registered, so the group can be started again.
func (g *Group) Stop() <-chan struct{} {
	g.mu.Lock()
	var loopDone chan struct{}
	if g.running {
		g.running = false
		close(g.done)
		if g.ticker != nil {
			g.ticker.Stop()
		}
		loopDone = g.loopDone
	}
	g.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if loopDone != nil {
			<-loopDone
		}
	}()

	return stopped
}

func (g *Group) run(ticker *time.Ticker, done, loopDone chan struct{}) {
	defer close(loopDone)
	defer func() {
		ticker.Stop()
		if r := recover(); r != nil {
			// Still close loopDone so Stop waiters are not stranded.
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						// Keep ticking past a panic in one entry.
					}
				}()
				g.processDue()
			}()
		}
	}
}

func (g *Group) processDue() {
	now := time.Now()

	g.mu.RLock()
	if len(g.entries) == 0 {
		g.mu.RUnlock()
		return // Quick exit if no entries
	}

	due := make([]*entry, 0, len(g.entries))
	for _, e := range g.entries {
		if !e.nextFlush.After(now) {
			due = append(due, e)
		}
	}
	g.mu.RUnlock()

	for _, e := range due {
		g.flushEntry(e, now)
	}
}

// flushEntry attempts one flush and reschedules based on the outcome.
func (g *Group) flushEntry(e *entry, now time.Time) {
	// Nothing buffered means nothing to flush: an empty flush would still
	// push a zero-length batch into the channel.
	if e.flusher.Buffered() == 0 {
		g.reschedule(e, now)
		return
	}

	err := e.flusher.TryFlush()

	switch {
	case err == nil:
		g.reschedule(e, now)
	case gserrors.IsTerminal(err):
		// The channel is gone; the entry can never flush again.
		g.mu.Lock()
		delete(g.entries, e.id)
		g.mu.Unlock()
	case gserrors.IsTransient(err):
		// Leave the entry due so the next tick retries the same batch.
	default:
		g.reschedule(e, now)
	}

	if g.onFlush != nil {
		g.onFlush(e.id, err)
	}
}

func (g *Group) reschedule(e *entry, now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e.interval > 0 {
		e.nextFlush = now.Add(e.interval)
	} else if e.cronSchedule != nil {
		e.nextFlush = e.cronSchedule.Next(now.In(g.location))
	}
}
