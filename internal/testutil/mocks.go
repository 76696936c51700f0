package testutil

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// MockWriter is a test writer that can simulate various write conditions
// including delays, errors, and write counting.
type MockWriter struct {
	buf         *bytes.Buffer
	mu          sync.Mutex
	writeDelay  time.Duration
	errorOnNth  int
	writeCount  int
	shouldError bool
	err         error
}

// NewMockWriter creates a new MockWriter.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		buf: &bytes.Buffer{},
	}
}

// Write implements io.Writer interface with configurable behavior.
func (mw *MockWriter) Write(p []byte) (int, error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	mw.writeCount++

	if mw.writeDelay > 0 {
		time.Sleep(mw.writeDelay)
	}

	if mw.shouldError {
		return 0, mw.err
	}

	if mw.errorOnNth > 0 && mw.writeCount == mw.errorOnNth {
		return 0, errors.New("simulated error")
	}

	return mw.buf.Write(p)
}

// String returns the current buffer contents.
func (mw *MockWriter) String() string {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.String()
}

// Len returns the current buffer length.
func (mw *MockWriter) Len() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.buf.Len()
}

// WriteCount returns the number of Write calls.
func (mw *MockWriter) WriteCount() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return mw.writeCount
}

// SetWriteDelay configures a delay for each write operation.
func (mw *MockWriter) SetWriteDelay(delay time.Duration) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.writeDelay = delay
}

// SetErrorOnNth configures the writer to error on the nth write.
func (mw *MockWriter) SetErrorOnNth(n int) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.errorOnNth = n
}

// SetAlwaysError configures the writer to always return the given error.
func (mw *MockWriter) SetAlwaysError(err error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.shouldError = true
	mw.err = err
}

// Reset clears the buffer and resets counters.
func (mw *MockWriter) Reset() {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.buf.Reset()
	mw.writeCount = 0
	mw.shouldError = false
	mw.errorOnNth = 0
	mw.writeDelay = 0
	mw.err = nil
}

// ScriptedSender is a sender whose TrySend outcomes follow a fixed script.
// The nth call returns the nth script entry; a nil entry accepts the batch
// and records it. Calls past the end of the script accept. Safe for
// concurrent use.
type ScriptedSender struct {
	mu       sync.Mutex
	script   []error
	calls    int
	accepted [][]byte
}

// NewScriptedSender creates a sender that plays back the given outcomes.
func NewScriptedSender(script ...error) *ScriptedSender {
	return &ScriptedSender{script: script}
}

// TrySend returns the next scripted outcome, recording the batch on accept.
func (ss *ScriptedSender) TrySend(batch []byte) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	var err error
	if ss.calls < len(ss.script) {
		err = ss.script[ss.calls]
	}
	ss.calls++

	if err != nil {
		return err
	}
	ss.accepted = append(ss.accepted, batch)
	return nil
}

// Accepted returns the batches accepted so far, in order.
func (ss *ScriptedSender) Accepted() [][]byte {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	out := make([][]byte, len(ss.accepted))
	copy(out, ss.accepted)
	return out
}

// CallCount returns the number of TrySend calls.
func (ss *ScriptedSender) CallCount() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.calls
}
