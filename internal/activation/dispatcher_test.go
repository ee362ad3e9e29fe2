package activation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDispatcher(t *testing.T) {
	t.Run("delivers each notification exactly once", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop().Sugar(), nil, 8)
		defer d.Close()

		received := make(chan Request, 8)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go d.Run(ctx, func(req Request) { received <- req })

		d.Notify(Request{Hotkey: "ctrl+shift+p"})

		select {
		case req := <-received:
			assert.Equal(t, "ctrl+shift+p", req.Hotkey)
		case <-time.After(time.Second):
			t.Fatal("notification never delivered")
		}

		select {
		case <-received:
			t.Fatal("notification delivered twice")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("notify never blocks when queue is full", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop().Sugar(), nil, 1)
		defer d.Close()

		// No consumer running: the first fills the queue, the rest must
		// drop without blocking
		done := make(chan struct{})
		go func() {
			for i := 0; i < 100; i++ {
				d.Notify(Request{})
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Notify blocked on a full queue")
		}
	})

	t.Run("notify after close drops silently", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop().Sugar(), nil, 8)
		d.Close()

		assert.NotPanics(t, func() {
			d.Notify(Request{Hotkey: "ctrl+shift+p"})
		})
	})

	t.Run("run returns on context cancellation", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop().Sugar(), nil, 8)
		defer d.Close()

		ctx, cancel := context.WithCancel(context.Background())
		returned := make(chan struct{})
		go func() {
			d.Run(ctx, func(Request) {})
			close(returned)
		}()

		cancel()
		select {
		case <-returned:
		case <-time.After(time.Second):
			t.Fatal("Run did not return after cancellation")
		}
	})

	t.Run("run returns on close", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop().Sugar(), nil, 8)

		returned := make(chan struct{})
		go func() {
			d.Run(context.Background(), func(Request) {})
			close(returned)
		}()

		d.Close()
		select {
		case <-returned:
		case <-time.After(time.Second):
			t.Fatal("Run did not return after Close")
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		d := NewDispatcher(zap.NewNop().Sugar(), nil, 8)
		assert.NotPanics(t, func() {
			d.Close()
			d.Close()
		})
	})
}
