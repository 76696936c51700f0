package chanwriter

import (
	"errors"
	"fmt"

	gserrors "github.com/vnykmshr/gosink/pkg/common/errors"
)

// ErrWriterClosed is returned once the destination channel is closed.
// The condition is terminal: buffered data handed to a flush after this
// point is dropped, never delivered.
var ErrWriterClosed = fmt.Errorf("writer is closed: %w", gserrors.ErrClosed)

// ErrFlushPending is returned by TryFlush and Close when the channel is
// full. The buffered data is retained and the call should be repeated
// once the consumer has drained capacity.
var ErrFlushPending = fmt.Errorf("flush pending: %w", gserrors.ErrFull)

// Stats holds statistics about writer activity.
type Stats struct {
	// WriteCount is the total number of write operations.
	WriteCount int64

	// BytesWritten is the total number of bytes appended to the buffer.
	BytesWritten int64

	// FlushCount is the total number of flush attempts.
	FlushCount int64

	// BatchesSent is the number of batches accepted by the channel.
	BatchesSent int64

	// BytesSent is the total bytes in accepted batches.
	BytesSent int64

	// Deferrals is the number of flushes deferred because the channel was full.
	Deferrals int64

	// DroppedBatches is the number of batches dropped against a closed channel.
	DroppedBatches int64

	// DroppedBytes is the total bytes in dropped batches.
	DroppedBytes int64

	// EncodeCount is the number of successful message encodes.
	EncodeCount int64

	// EncodeErrors is the number of failed message encodes.
	EncodeErrors int64

	// Buffered is the current number of buffered bytes awaiting flush.
	Buffered int64
}

// Config holds configuration options for a Writer.
type Config struct {
	// InitialCapacity preallocates each fresh buffer, in bytes. An accepted
	// flush hands the buffer to the channel, so the writer starts a new
	// buffer afterwards. 0 allocates on first write.
	InitialCapacity int

	// OnFlush is called after every flush attempt with the batch size and
	// the outcome: nil for accepted, ErrFlushPending for deferred, and
	// ErrWriterClosed for dropped. The outcome is reported the same way
	// for Flush and TryFlush even though Flush hides deferrals from its
	// caller.
	OnFlush func(batchBytes int, err error)

	// OnDrop is called when a flush drops a batch against a closed channel.
	OnDrop func(droppedBytes int)
}

// DefaultConfig returns a default writer configuration.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: 0,
	}
}

// Writer accumulates bytes in memory and hands them to a channel in
// whole-buffer batches. Writes always succeed immediately; delivery
// happens on flush, as a single non-blocking send of everything buffered
// since the last accepted flush.
//
// A Writer is not safe for concurrent use. The intended multi-producer
// pattern is one Clone per goroutine: clones share the channel while
// keeping private buffers, so batches stay intact under concurrency.
type Writer struct {
	sender Sender
	config Config
	buf    []byte
	stats  Stats
}

// New creates a writer that flushes into s. New panics if s is nil.
func New(s Sender) *Writer {
	return NewWithConfig(s, DefaultConfig())
}

// NewWithConfig creates a writer with the specified configuration.
// NewWithConfig panics if s is nil.
func NewWithConfig(s Sender, config Config) *Writer {
	if s == nil {
		panic("chanwriter: nil sender")
	}
	if config.InitialCapacity < 0 {
		config.InitialCapacity = 0
	}

	return &Writer{
		sender: s,
		config: config,
	}
}

// Write appends p to the internal buffer. It always reports the full
// length of p and never fails: buffering is unconditional, and channel
// conditions surface only on flush. Implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.ensureBuffer()
	w.buf = append(w.buf, p...)
	w.stats.WriteCount++
	w.stats.BytesWritten += int64(len(p))
	return len(p), nil
}

// WriteString appends s to the internal buffer. Implements io.StringWriter.
func (w *Writer) WriteString(s string) (int, error) {
	w.ensureBuffer()
	w.buf = append(w.buf, s...)
	w.stats.WriteCount++
	w.stats.BytesWritten += int64(len(s))
	return len(s), nil
}

// Flush hands the entire buffer to the channel as one batch.
//
// When the channel is full, the buffer is retained untouched and Flush
// still returns nil; the data goes out with a later flush. Callers that
// need to observe deferrals should use TryFlush. A closed channel drops
// the batch and returns ErrWriterClosed.
func (w *Writer) Flush() error {
	return w.flush(nil)
}

// TryFlush hands the entire buffer to the channel as one batch, reporting
// every outcome. A full channel retains the buffer and returns
// ErrFlushPending; the call should be repeated later. A closed channel
// drops the batch and returns ErrWriterClosed.
func (w *Writer) TryFlush() error {
	return w.flush(ErrFlushPending)
}

// Close flushes the buffer with TryFlush semantics. The writer owns no
// resources of its own, so closing is flushing: a full channel returns
// ErrFlushPending and Close should be repeated, a closed channel returns
// ErrWriterClosed. The channel itself is closed by its owner, not the
// writer. Implements io.Closer.
func (w *Writer) Close() error {
	return w.TryFlush()
}

// Encode serializes m into the buffer and flushes. An encode error is
// returned verbatim and leaves any partially written bytes in the buffer,
// where a later flush will deliver them alongside subsequent writes.
func (w *Writer) Encode(m Encodable) error {
	if err := m.Encode(w); err != nil {
		w.stats.EncodeErrors++
		return err
	}
	w.stats.EncodeCount++
	return w.Flush()
}

// Clone returns a writer sharing the same channel with a fresh empty
// buffer and fresh statistics. Bytes buffered in w stay in w.
func (w *Writer) Clone() *Writer {
	return &Writer{
		sender: w.sender,
		config: w.config,
	}
}

// Buffered returns the number of bytes currently buffered.
func (w *Writer) Buffered() int {
	return len(w.buf)
}

// Stats returns a snapshot of writer statistics.
func (w *Writer) Stats() Stats {
	stats := w.stats
	stats.Buffered = int64(len(w.buf))
	return stats
}

// flush takes the whole buffer and attempts one non-blocking send.
// onFull is what the caller reports when the channel is full; the two
// flush variants differ only there.
func (w *Writer) flush(onFull error) error {
	batch := w.buf
	w.buf = nil
	w.stats.FlushCount++

	err := w.sender.TrySend(batch)
	switch {
	case err == nil:
		// The channel owns batch now; the buffer must not be reused.
		w.stats.BatchesSent++
		w.stats.BytesSent += int64(len(batch))
		w.notifyFlush(len(batch), nil)
		return nil

	case errors.Is(err, gserrors.ErrFull):
		w.buf = batch
		w.stats.Deferrals++
		w.notifyFlush(len(batch), ErrFlushPending)
		return onFull

	case errors.Is(err, gserrors.ErrClosed):
		w.stats.DroppedBatches++
		w.stats.DroppedBytes += int64(len(batch))
		w.notifyFlush(len(batch), ErrWriterClosed)
		if w.config.OnDrop != nil {
			w.config.OnDrop(len(batch))
		}
		return ErrWriterClosed

	default:
		// Sender returned outside its vocabulary: treat the batch as not
		// taken and surface the error unchanged.
		w.buf = batch
		w.notifyFlush(len(batch), err)
		return err
	}
}

// ensureBuffer applies the configured preallocation to a fresh buffer.
func (w *Writer) ensureBuffer() {
	if w.buf == nil && w.config.InitialCapacity > 0 {
		w.buf = make([]byte, 0, w.config.InitialCapacity)
	}
}

func (w *Writer) notifyFlush(batchBytes int, err error) {
	if w.config.OnFlush != nil {
		w.config.OnFlush(batchBytes, err)
	}
}
