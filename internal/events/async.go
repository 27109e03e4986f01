package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// handlerTimeout bounds how long one handler may spend on one event.
const handlerTimeout = 5 * time.Second

// AsyncEmitter decorates an EventEmitter with a bounded queue and a pool of
// worker goroutines, so slow delivery handlers never block the request that
// produced the event. A full queue drops the event; notifications are
// durable in the store before they reach the emitter, so a drop only skips
// the live push.
type AsyncEmitter struct {
	inner   EventEmitter
	queue   chan *NotificationEvent
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	started bool
	mu      sync.Mutex
}

// AsyncEmitterConfig holds configuration options for the async emitter.
type AsyncEmitterConfig struct {
	// WorkerCount determines how many delivery goroutines to start.
	// Zero or negative defaults to 2.
	WorkerCount int

	// QueueSize is the event buffer capacity. Zero or negative defaults
	// to 64.
	QueueSize int
}

// NewAsyncEmitter wraps inner with asynchronous dispatch. Call Start before
// emitting and Stop during shutdown.
func NewAsyncEmitter(inner EventEmitter, cfg AsyncEmitterConfig, logger *slog.Logger) *AsyncEmitter {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &AsyncEmitter{
		inner:  inner,
		queue:  make(chan *NotificationEvent, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("component", "async_emitter"),
	}
	e.start(cfg.WorkerCount)
	return e
}

func (e *AsyncEmitter) start(workers int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true

	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.worker(i)
	}
	e.logger.Debug("started delivery workers", "worker_count", workers)
}

func (e *AsyncEmitter) worker(id int) {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case event, ok := <-e.queue:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(e.ctx, handlerTimeout)
			if err := e.inner.EmitEvent(ctx, event); err != nil {
				e.logger.Warn("event delivery failed",
					"error", err,
					"worker_id", id,
					"event_id", event.ID,
					"event_type", event.Type)
			}
			cancel()
		}
	}
}

// EmitEvent enqueues the event for background delivery. It never blocks; a
// full queue drops the event with a warning.
func (e *AsyncEmitter) EmitEvent(_ context.Context, event *NotificationEvent) error {
	select {
	case e.queue <- event:
		return nil
	default:
		e.logger.Warn("event queue full, dropping event",
			"event_id", event.ID,
			"event_type", event.Type)
		return nil
	}
}

// Stop drains in-flight deliveries and stops the workers. Events still
// queued are abandoned.
func (e *AsyncEmitter) Stop() {
	e.cancel()
	e.wg.Wait()
}
