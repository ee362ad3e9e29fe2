package activation

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/promptsync/promptsync-go/internal/observability"
)

// Dispatcher marshals validated requests from listener workers onto the
// application's single UI execution context. Workers enqueue without
// blocking; the UI goroutine consumes via Run. Activation is best-effort:
// if the UI context is unavailable or saturated, the notification is
// dropped, never retried.
type Dispatcher struct {
	logger  *zap.SugaredLogger
	metrics *observability.Metrics
	queue   chan Request
	done    chan struct{}
	once    sync.Once
}

// NewDispatcher creates a dispatcher with the given hand-off queue capacity
func NewDispatcher(logger *zap.SugaredLogger, metrics *observability.Metrics, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 16
	}
	return &Dispatcher{
		logger:  logger,
		metrics: metrics,
		queue:   make(chan Request, buffer),
		done:    make(chan struct{}),
	}
}

// Notify enqueues a notification for the UI context. It never blocks the
// calling worker: if the dispatcher is closed or the queue is full the
// notification is dropped silently.
func (d *Dispatcher) Notify(req Request) {
	select {
	case <-d.done:
		d.metrics.RecordDispatchDropped()
		return
	default:
	}

	select {
	case d.queue <- req:
		d.metrics.RecordDispatched()
	default:
		d.logger.Debugw("UI queue full, dropping activation notification",
			"hotkey", req.Hotkey)
		d.metrics.RecordDispatchDropped()
	}
}

// Run consumes notifications on the calling goroutine, which is by
// convention the UI execution context, invoking fn exactly once per
// delivered notification. It returns when ctx is cancelled or the
// dispatcher is closed.
func (d *Dispatcher) Run(ctx context.Context, fn func(Request)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.done:
			return
		case req := <-d.queue:
			fn(req)
		}
	}
}

// Close stops the dispatcher. Pending notifications are discarded.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.done)
	})
}
