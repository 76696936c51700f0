package chanwriter

import (
	gserrors "github.com/vnykmshr/gosink/pkg/common/errors"
)

// Sender is the channel half a Writer flushes into. Implementations must
// not block: TrySend either takes the batch immediately or reports why it
// could not.
//
// The error vocabulary uses the sentinels from pkg/common/errors:
//
//   - nil: the batch was accepted and now belongs to the consumer.
//   - errors.ErrFull: the channel is at capacity; the batch was not taken.
//   - errors.ErrClosed: the channel is closed; no batch will ever be taken.
//
// Any other error is treated like a full channel (batch not taken) and
// surfaced to the flush caller unchanged.
//
// *queue.Queue[[]byte] and *queue.MetricsQueue[[]byte] satisfy Sender
// directly.
type Sender interface {
	TrySend(batch []byte) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(batch []byte) error

// TrySend calls f(batch).
func (f SenderFunc) TrySend(batch []byte) error {
	return f(batch)
}

// ChanSender adapts a plain Go channel to the Sender interface. A full
// channel reports errors.ErrFull. Sending on a closed channel panics in
// Go; the adapter recovers that panic and reports errors.ErrClosed, so
// the owner may close ch at any time.
func ChanSender(ch chan<- []byte) Sender {
	return chanSender{ch: ch}
}

type chanSender struct {
	ch chan<- []byte
}

func (cs chanSender) TrySend(batch []byte) (err error) {
	defer func() {
		if recover() != nil {
			err = gserrors.ErrClosed
		}
	}()

	select {
	case cs.ch <- batch:
		return nil
	default:
		return gserrors.ErrFull
	}
}
