package testutil

import (
	"errors"
	"testing"
	"time"
)

func TestMockWriter(t *testing.T) {
	t.Run("records writes", func(t *testing.T) {
		mw := NewMockWriter()

		n, err := mw.Write([]byte("hello"))
		AssertNoError(t, err)
		AssertEqual(t, n, 5)
		AssertEqual(t, mw.String(), "hello")
		AssertEqual(t, mw.WriteCount(), 1)
	})

	t.Run("error on nth write", func(t *testing.T) {
		mw := NewMockWriter()
		mw.SetErrorOnNth(2)

		_, err := mw.Write([]byte("a"))
		AssertNoError(t, err)

		_, err = mw.Write([]byte("b"))
		AssertError(t, err)

		_, err = mw.Write([]byte("c"))
		AssertNoError(t, err)
	})

	t.Run("always error", func(t *testing.T) {
		mw := NewMockWriter()
		sentinel := errors.New("disk full")
		mw.SetAlwaysError(sentinel)

		_, err := mw.Write([]byte("x"))
		if !errors.Is(err, sentinel) {
			t.Fatalf("err = %v, want %v", err, sentinel)
		}
	})

	t.Run("reset", func(t *testing.T) {
		mw := NewMockWriter()
		mw.SetWriteDelay(time.Millisecond)
		_, _ = mw.Write([]byte("x"))

		mw.Reset()

		AssertEqual(t, mw.Len(), 0)
		AssertEqual(t, mw.WriteCount(), 0)
	})
}

func TestScriptedSender(t *testing.T) {
	t.Run("accepts by default", func(t *testing.T) {
		ss := NewScriptedSender()

		AssertNoError(t, ss.TrySend([]byte("one")))
		AssertNoError(t, ss.TrySend([]byte("two")))

		accepted := ss.Accepted()
		AssertEqual(t, len(accepted), 2)
		AssertEqual(t, string(accepted[0]), "one")
		AssertEqual(t, string(accepted[1]), "two")
		AssertEqual(t, ss.CallCount(), 2)
	})

	t.Run("plays back script", func(t *testing.T) {
		full := errors.New("full")
		ss := NewScriptedSender(nil, full, nil)

		AssertNoError(t, ss.TrySend([]byte("a")))

		err := ss.TrySend([]byte("b"))
		if !errors.Is(err, full) {
			t.Fatalf("err = %v, want %v", err, full)
		}

		AssertNoError(t, ss.TrySend([]byte("c")))

		// Rejected batches are not recorded.
		accepted := ss.Accepted()
		AssertEqual(t, len(accepted), 2)
		AssertEqual(t, string(accepted[0]), "a")
		AssertEqual(t, string(accepted[1]), "c")
	})

	t.Run("exhausted script accepts", func(t *testing.T) {
		ss := NewScriptedSender(errors.New("boom"))

		AssertError(t, ss.TrySend([]byte("a")))
		AssertNoError(t, ss.TrySend([]byte("b")))
		AssertEqual(t, len(ss.Accepted()), 1)
	})
}
