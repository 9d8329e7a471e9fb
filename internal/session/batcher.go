package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultFlushWindow is the minimum interval between completed flushes.
	DefaultFlushWindow = 2 * time.Second
)

// Batcher accumulates closed sessions and writes them to the store at a
// bounded rate. A flush is deferred until at least the flush window has
// passed since the last completed flush, with at most one timer armed at
// a time. A failed flush keeps the pending batch so the next flush retries
// the same records.
type Batcher struct {
	store  Store
	window time.Duration
	logger *slog.Logger

	now      func() time.Time
	schedule func(time.Duration, func())

	mu        sync.Mutex
	pending   []Session
	armed     bool
	lastFlush time.Time
}

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher)

// WithFlushWindow sets the minimum interval between completed flushes.
func WithFlushWindow(w time.Duration) BatcherOption {
	return func(b *Batcher) {
		if w > 0 {
			b.window = w
		}
	}
}

// WithBatcherLogger configures structured logging for the batcher.
func WithBatcherLogger(logger *slog.Logger) BatcherOption {
	return func(b *Batcher) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) BatcherOption {
	return func(b *Batcher) {
		if now != nil {
			b.now = now
		}
	}
}

// WithTimer overrides how deferred flushes are scheduled. The default is
// time.AfterFunc. Used by tests to drive the debounce deterministically.
func WithTimer(schedule func(time.Duration, func())) BatcherOption {
	return func(b *Batcher) {
		if schedule != nil {
			b.schedule = schedule
		}
	}
}

// NewBatcher creates a Batcher writing to store.
func NewBatcher(store Store, opts ...BatcherOption) *Batcher {
	b := &Batcher{
		store:  store,
		window: DefaultFlushWindow,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	b.schedule = func(d time.Duration, fn func()) {
		time.AfterFunc(d, fn)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Enqueue appends a closed session to the pending batch and arms a flush
// if one is not already armed.
func (b *Batcher) Enqueue(s Session) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, s)
	if b.armed {
		return
	}
	b.armed = true

	delay := time.Duration(0)
	if next := b.lastFlush.Add(b.window); next.After(b.now()) {
		delay = next.Sub(b.now())
	}
	b.schedule(delay, b.timerFired)
}

func (b *Batcher) timerFired() {
	// Failures are logged inside Flush; the batch stays queued for the
	// next flush.
	_ = b.Flush(context.Background())
}

// Flush writes the pending batch through the store. It is a no-op when the
// batch is empty. On failure the batch is retained and the error returned;
// the records are retried by the next flush (at-least-once delivery).
// At most one flush runs at a time.
func (b *Batcher) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.armed = false
	if len(b.pending) == 0 {
		return nil
	}

	if err := b.store.Append(ctx, b.pending); err != nil {
		b.logger.Error("flush failed, retaining batch",
			slog.Int("pending", len(b.pending)),
			slog.String("error", err.Error()))
		return err
	}

	b.logger.Debug("flushed sessions", slog.Int("count", len(b.pending)))
	b.pending = nil
	b.lastFlush = b.now()
	return nil
}

// Pending returns the number of sessions waiting to be flushed.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
