package pump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	gserrors "github.com/vnykmshr/gosink/pkg/common/errors"
)

// Receiver is the consuming half of a channel: it blocks until a batch is
// available, the context is done, or the channel is closed and drained.
// *queue.Queue[[]byte] and *queue.MetricsQueue[[]byte] satisfy Receiver
// directly.
type Receiver interface {
	Receive(ctx context.Context) ([]byte, error)
}

// Stats holds statistics about pump activity.
type Stats struct {
	// BatchesReceived is the total number of batches taken from the channel.
	BatchesReceived int64

	// BatchesWritten is the number of non-empty batches written to the destination.
	BatchesWritten int64

	// BytesWritten is the total bytes written to the destination.
	BytesWritten int64

	// EmptyBatches is the number of zero-length batches received and skipped.
	EmptyBatches int64

	// WriteErrors is the number of destination write failures.
	WriteErrors int64
}

// Config holds configuration options for a Pump.
type Config struct {
	// OnWrite is called after each destination write with the byte count
	// and outcome.
	OnWrite func(n int, err error)

	// OnError is called when a destination write fails.
	OnError func(error)
}

// Pump moves batches from a channel to an io.Writer, one Write call per
// batch, preserving batch boundaries for destinations where they matter
// (datagram sockets, framed protocols, line-oriented logs).
//
// A pump runs once: Start it, then Stop it or wait for the channel to
// drain. Create a new pump to run again.
type Pump struct {
	src    Receiver
	dst    io.Writer
	config Config

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	group   *errgroup.Group

	stats   Stats
	statsMu sync.RWMutex
}

// New creates a pump from src to dst with default configuration.
// New panics if src or dst is nil.
func New(src Receiver, dst io.Writer) *Pump {
	return NewWithConfig(src, dst, Config{})
}

// NewWithConfig creates a pump with the specified configuration.
// NewWithConfig panics if src or dst is nil.
func NewWithConfig(src Receiver, dst io.Writer, config Config) *Pump {
	if src == nil {
		panic("pump: nil source")
	}
	if dst == nil {
		panic("pump: nil destination")
	}

	return &Pump{
		src:    src,
		dst:    dst,
		config: config,
	}
}

// Start launches the pump loop. The loop runs until the channel is closed
// and drained, the context is canceled, or a destination write fails.
func (p *Pump) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("pump already started, create a new pump to run again")
	}
	p.started = true

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	g, gctx := errgroup.WithContext(runCtx)
	p.group = g
	g.Go(func() error {
		defer cancel()
		return p.run(gctx)
	})

	return nil
}

// Stop cancels the pump loop. The returned channel closes once the loop
// has fully exited. Batches still buffered in the channel are left there;
// close the channel instead of stopping for a graceful drain.
func (p *Pump) Stop() <-chan struct{} {
	p.mu.Lock()
	cancel := p.cancel
	group := p.group
	p.mu.Unlock()

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

// Wait blocks until the pump loop exits and returns its terminal error:
// nil after a graceful drain or shutdown, the write error otherwise.
// Wait on a never-started pump returns nil.
func (p *Pump) Wait() error {
	p.mu.Lock()
	group := p.group
	p.mu.Unlock()

	if group == nil {
		return nil
	}
	return group.Wait()
}

// Stats returns a snapshot of pump statistics.
func (p *Pump) Stats() Stats {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()
	return p.stats
}

// run is the pump loop: receive a batch, write it, repeat.
func (p *Pump) run(ctx context.Context) error {
	for {
		batch, err := p.src.Receive(ctx)
		if err != nil {
			if errors.Is(err, gserrors.ErrClosed) {
				return nil // channel closed and fully drained
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil // caller-driven shutdown
			}
			return gserrors.NewOperationError("pump", "Receive", err)
		}

		p.updateStats(func(s *Stats) { s.BatchesReceived++ })

		// Zero-length batches mark flushes of empty buffers; there is
		// nothing to write.
		if len(batch) == 0 {
			p.updateStats(func(s *Stats) { s.EmptyBatches++ })
			continue
		}

		n, werr := p.dst.Write(batch)
		if werr == nil && n < len(batch) {
			werr = io.ErrShortWrite
		}

		if p.config.OnWrite != nil {
			p.config.OnWrite(n, werr)
		}

		if werr != nil {
			p.updateStats(func(s *Stats) { s.WriteErrors++ })
			if p.config.OnError != nil {
				p.config.OnError(werr)
			}
			return gserrors.NewOperationError("pump", "Write", werr)
		}

		p.updateStats(func(s *Stats) {
			s.BatchesWritten++
			s.BytesWritten += int64(n)
		})
	}
}

// updateStats safely updates statistics.
func (p *Pump) updateStats(updater func(*Stats)) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	updater(&p.stats)
}
