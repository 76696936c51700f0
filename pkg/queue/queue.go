package queue

import (
	"context"
	"sync"
	"sync/atomic"

	gserrors "github.com/vnykmshr/gosink/pkg/common/errors"
)

// Stats holds statistics about queue activity.
type Stats struct {
	// SendCount is the total number of accepted sends.
	SendCount int64

	// ReceiveCount is the total number of completed receives.
	ReceiveCount int64

	// RejectedCount is the total number of non-blocking sends rejected at capacity.
	RejectedCount int64

	// BlockedSends is the number of blocking sends that had to wait for space.
	BlockedSends int64

	// BufferUtilization is the current buffer utilization (0.0 to 1.0).
	BufferUtilization float64
}

// Config holds configuration for a Queue.
type Config struct {
	// BufferSize is the number of elements the queue can hold.
	BufferSize int

	// OnBlock is called when a blocking send has to wait for space.
	OnBlock func()

	// OnReject is called when a non-blocking send is rejected at capacity.
	OnReject func()
}

// DefaultConfig returns a default queue configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize: 100,
	}
}

// Queue is a bounded FIFO queue safe for concurrent producers and consumers.
//
// Non-blocking operations report a full or closed queue through the
// errors.ErrFull and errors.ErrClosed sentinels from pkg/common/errors.
// After Close, buffered elements remain receivable until drained.
type Queue[T any] struct {
	config Config
	buffer []T
	mu     sync.RWMutex

	head   int
	tail   int
	count  int
	closed int32

	sendCond *sync.Cond
	recvCond *sync.Cond

	stats   Stats
	statsMu sync.RWMutex
}

// New creates a queue with the given buffer size.
func New[T any](bufferSize int) *Queue[T] {
	config := DefaultConfig()
	config.BufferSize = bufferSize
	return NewWithConfig[T](config)
}

// NewWithConfig creates a queue with the specified configuration.
func NewWithConfig[T any](config Config) *Queue[T] {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultConfig().BufferSize
	}

	q := &Queue[T]{
		config: config,
		buffer: make([]T, config.BufferSize),
	}

	q.sendCond = sync.NewCond(&q.mu)
	q.recvCond = sync.NewCond(&q.mu)

	return q
}

// Send adds a value to the queue, blocking while the queue is full.
// It returns errors.ErrClosed if the queue is or becomes closed, or the
// context error if ctx is done before space becomes available.
func (q *Queue[T]) Send(ctx context.Context, value T) error {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.sendCond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count >= len(q.buffer) && atomic.LoadInt32(&q.closed) == 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if q.config.OnBlock != nil {
			q.config.OnBlock()
		}
		q.updateStats(func(s *Stats) { s.BlockedSends++ })
		q.sendCond.Wait()
	}

	if atomic.LoadInt32(&q.closed) != 0 {
		return gserrors.ErrClosed
	}

	q.addLocked(value)
	q.updateStats(func(s *Stats) { s.SendCount++ })
	q.recvCond.Signal()

	return nil
}

// TrySend attempts to add a value without blocking. It returns
// errors.ErrClosed if the queue is closed and errors.ErrFull if the
// buffer is at capacity.
func (q *Queue[T]) TrySend(value T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if atomic.LoadInt32(&q.closed) != 0 {
		return gserrors.ErrClosed
	}

	if q.count >= len(q.buffer) {
		q.updateStats(func(s *Stats) { s.RejectedCount++ })
		if q.config.OnReject != nil {
			q.config.OnReject()
		}
		return gserrors.ErrFull
	}

	q.addLocked(value)
	q.updateStats(func(s *Stats) { s.SendCount++ })
	q.recvCond.Signal()

	return nil
}

// Receive removes and returns the oldest value, blocking while the queue
// is empty. After Close, remaining buffered values are still returned;
// once drained, Receive returns errors.ErrClosed. If ctx is done before
// a value arrives, the context error is returned.
func (q *Queue[T]) Receive(ctx context.Context) (T, error) {
	var zero T

	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.recvCond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && atomic.LoadInt32(&q.closed) == 0 {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		q.recvCond.Wait()
	}

	if q.count == 0 {
		return zero, gserrors.ErrClosed
	}

	value := q.removeLocked()
	q.updateStats(func(s *Stats) { s.ReceiveCount++ })
	q.sendCond.Signal()

	return value, nil
}

// TryReceive attempts to remove a value without blocking. The boolean
// reports whether a value was returned. An empty open queue yields
// (zero, false, nil); an empty closed queue yields errors.ErrClosed.
func (q *Queue[T]) TryReceive() (T, bool, error) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		if atomic.LoadInt32(&q.closed) != 0 {
			return zero, false, gserrors.ErrClosed
		}
		return zero, false, nil
	}

	value := q.removeLocked()
	q.updateStats(func(s *Stats) { s.ReceiveCount++ })
	q.sendCond.Signal()

	return value, true, nil
}

// Close closes the queue for sending. Buffered values remain receivable.
// Close is idempotent.
func (q *Queue[T]) Close() error {
	if !atomic.CompareAndSwapInt32(&q.closed, 0, 1) {
		return nil // Already closed
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	q.sendCond.Broadcast()
	q.recvCond.Broadcast()

	return nil
}

// IsClosed returns true if the queue is closed.
func (q *Queue[T]) IsClosed() bool {
	return atomic.LoadInt32(&q.closed) != 0
}

// Len returns the current number of buffered elements.
func (q *Queue[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.count
}

// Cap returns the buffer capacity.
func (q *Queue[T]) Cap() int {
	return len(q.buffer)
}

// Stats returns a snapshot of queue statistics.
func (q *Queue[T]) Stats() Stats {
	q.statsMu.RLock()
	stats := q.stats
	q.statsMu.RUnlock()

	q.mu.RLock()
	if len(q.buffer) > 0 {
		stats.BufferUtilization = float64(q.count) / float64(len(q.buffer))
	}
	q.mu.RUnlock()

	return stats
}

// addLocked adds a value to the ring buffer (must hold lock).
func (q *Queue[T]) addLocked(value T) {
	q.buffer[q.tail] = value
	q.tail = (q.tail + 1) % len(q.buffer)
	q.count++
}

// removeLocked removes the oldest value from the ring buffer (must hold lock).
func (q *Queue[T]) removeLocked() T {
	value := q.buffer[q.head]
	var zero T
	q.buffer[q.head] = zero // Clear reference
	q.head = (q.head + 1) % len(q.buffer)
	q.count--
	return value
}

// updateStats safely updates statistics.
func (q *Queue[T]) updateStats(updater func(*Stats)) {
	q.statsMu.Lock()
	defer q.statsMu.Unlock()
	updater(&q.stats)
}
