package redistream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	commoncontext "github.com/vnykmshr/gosink/pkg/common/context"
	gserrors "github.com/vnykmshr/gosink/pkg/common/errors"
	"github.com/vnykmshr/gosink/pkg/common/validation"
)

// Receiver is the consuming half of a channel: it blocks until a batch is
// available, the context is done, or the channel is closed and drained.
// *queue.Queue[[]byte] and *queue.MetricsQueue[[]byte] satisfy Receiver
// directly.
type Receiver interface {
	Receive(ctx context.Context) ([]byte, error)
}

// Config holds sink configuration.
type Config struct {
	// Redis client for stream appends.
	Redis redis.UniversalClient

	// Stream is the Redis stream key batches are appended to.
	Stream string

	// MaxLen caps the stream length with approximate trimming.
	// Zero disables trimming.
	MaxLen int64

	// InstanceID identifies this producer in entry fields. Defaults to a
	// generated host-scoped identifier.
	InstanceID string

	// RedisTimeout bounds each append operation (default: 500ms).
	RedisTimeout time.Duration

	// OnError is called when an append fails. The failed batch is dropped
	// and the sink keeps running.
	OnError func(error)
}

// DefaultConfig returns a default sink configuration. The Redis client and
// stream key must still be set.
func DefaultConfig() Config {
	return Config{
		InstanceID:   generateInstanceID(),
		RedisTimeout: 500 * time.Millisecond,
	}
}

// Stats holds statistics about sink activity.
type Stats struct {
	// BatchesReceived is the total number of batches taken from the channel.
	BatchesReceived int64

	// EntriesAppended is the number of entries successfully appended.
	EntriesAppended int64

	// BytesAppended is the total payload bytes appended.
	BytesAppended int64

	// EmptyBatches is the number of zero-length batches received and skipped.
	EmptyBatches int64

	// AppendErrors is the number of failed append operations.
	AppendErrors int64

	// DroppedBatches is the number of batches dropped after append failures.
	DroppedBatches int64
}

// Sink drains a channel into a Redis stream. Each batch becomes one stream
// entry with the payload, the producer instance ID, and a per-producer
// sequence number, so consumers can detect gaps and attribute entries.
//
// Unlike a destination write failure in pump, a failed append does not end
// the sink: the batch is dropped, OnError fires, and the loop continues.
// Redis outages therefore cost data, not the pipeline.
//
// A sink runs once: Start it, then Stop it or wait for the channel to
// drain. Create a new sink to run again.
type Sink struct {
	src    Receiver
	config Config
	seq    int64

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	group   *errgroup.Group

	stats   Stats
	statsMu sync.RWMutex
}

// New creates a sink that appends batches from src to the configured stream.
func New(src Receiver, config Config) (*Sink, error) {
	if err := validation.ValidateNotNil("redistream", "src", src); err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return &Sink{
		src:    src,
		config: applyConfigDefaults(config),
	}, nil
}

// validateConfig validates the sink configuration.
func validateConfig(config Config) error {
	if err := validation.ValidateNotNil("redistream", "Redis", config.Redis); err != nil {
		return err
	}
	if err := validation.ValidateNotEmpty("redistream", "Stream", config.Stream); err != nil {
		return err
	}
	return validation.ValidateNonNegative("redistream", "MaxLen", config.MaxLen)
}

// applyConfigDefaults sets default values for unspecified config fields.
func applyConfigDefaults(config Config) Config {
	if config.InstanceID == "" {
		config.InstanceID = generateInstanceID()
	}
	if config.RedisTimeout == 0 {
		config.RedisTimeout = 500 * time.Millisecond
	}
	return config
}

// Start launches the sink loop. The loop runs until the channel is closed
// and drained or the context is canceled.
func (s *Sink) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("sink already started, create a new sink to run again")
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	g, gctx := errgroup.WithContext(runCtx)
	s.group = g
	g.Go(func() error {
		defer cancel()
		return s.run(gctx)
	})

	return nil
}

// Stop cancels the sink loop. The returned channel closes once the loop
// has fully exited. Batches still buffered in the channel are left there;
// close the channel instead of stopping for a graceful drain.
func (s *Sink) Stop() <-chan struct{} {
	s.mu.Lock()
	cancel := s.cancel
	group := s.group
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if group != nil {
			_ = group.Wait()
		}
	}()

	return stopped
}

// Wait blocks until the sink loop exits and returns its terminal error:
// nil after a graceful drain or shutdown. Wait on a never-started sink
// returns nil.
func (s *Sink) Wait() error {
	s.mu.Lock()
	group := s.group
	s.mu.Unlock()

	if group == nil {
		return nil
	}
	return group.Wait()
}

// Stats returns a snapshot of sink statistics.
func (s *Sink) Stats() Stats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.stats
}

// run is the sink loop: receive a batch, append it, repeat.
func (s *Sink) run(ctx context.Context) error {
	for {
		batch, err := s.src.Receive(ctx)
		if err != nil {
			if errors.Is(err, gserrors.ErrClosed) {
				return nil // channel closed and fully drained
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil // caller-driven shutdown
			}
			return gserrors.NewOperationError("redistream", "Receive", err)
		}

		s.updateStats(func(st *Stats) { st.BatchesReceived++ })

		if len(batch) == 0 {
			s.updateStats(func(st *Stats) { st.EmptyBatches++ })
			continue
		}

		if err := s.append(ctx, batch); err != nil {
			s.updateStats(func(st *Stats) {
				st.AppendErrors++
				st.DroppedBatches++
			})
			if s.config.OnError != nil {
				s.config.OnError(err)
			}
			continue
		}

		s.updateStats(func(st *Stats) {
			st.EntriesAppended++
			st.BytesAppended += int64(len(batch))
		})
	}
}

// append adds one batch to the stream as a single entry.
func (s *Sink) append(ctx context.Context, batch []byte) error {
	ctx, cancel := commoncontext.WithTimeoutOrCancel(ctx, s.config.RedisTimeout)
	defer cancel()

	seq := atomic.AddInt64(&s.seq, 1)
	err := s.config.Redis.XAdd(ctx, &redis.XAddArgs{
		Stream: s.config.Stream,
		MaxLen: s.config.MaxLen,
		Approx: s.config.MaxLen > 0,
		ID:     "*",
		Values: map[string]interface{}{
			"data":     batch,
			"producer": s.config.InstanceID,
			"seq":      seq,
		},
	}).Err()
	if err != nil {
		return gserrors.NewOperationError("redistream", "XAdd", err)
	}

	return nil
}

// updateStats safely updates statistics.
func (s *Sink) updateStats(updater func(*Stats)) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	updater(&s.stats)
}
