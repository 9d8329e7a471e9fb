package browser

import (
	"context"
	"io"
	"log/slog"

	"tabtime/internal/session"
)

// DefaultEventBuffer is the default capacity of the adapter's event channel.
const DefaultEventBuffer = 100

// Adapter maps host browsing events onto tracker operations. Events are
// consumed from a buffered channel one at a time, so tracker state is
// never mutated by two events concurrently and arrival order is
// preserved. Errors raised while resolving a tab are logged and the event
// skipped; they never reach the tracker.
type Adapter struct {
	tracker *session.Tracker
	tabs    Tabs
	logger  *slog.Logger
	events  chan Event
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithAdapterLogger configures structured logging for the adapter.
func WithAdapterLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithEventBuffer sets the event channel capacity.
func WithEventBuffer(size int) AdapterOption {
	return func(a *Adapter) {
		if size > 0 {
			a.events = make(chan Event, size)
		}
	}
}

// NewAdapter creates an Adapter feeding tracker and resolving tab state
// through tabs.
func NewAdapter(tracker *session.Tracker, tabs Tabs, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		tracker: tracker,
		tabs:    tabs,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		events:  make(chan Event, DefaultEventBuffer),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dispatch queues an event for processing. It blocks if the buffer is
// full, applying backpressure to the ingest surface during event storms.
func (a *Adapter) Dispatch(ev Event) {
	a.events <- ev
}

// Run consumes events until ctx is cancelled, then tears the tracker
// down (closing the open session and forcing a flush) before returning.
func (a *Adapter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.tracker.Teardown(context.Background())
			return ctx.Err()
		case ev := <-a.events:
			a.handle(ctx, ev)
		}
	}
}

// handle applies one event to the tracker.
func (a *Adapter) handle(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventTabActivated, EventTabCreated, EventTabMoved,
		EventTabAttached, EventTabDetached, EventTabReplaced:
		tab, err := a.tabs.Get(ctx, ev.TabID)
		if err != nil {
			a.logger.Warn("skipping event, tab resolution failed",
				slog.String("type", string(ev.Type)),
				slog.Int("tab", ev.TabID),
				slog.String("error", err.Error()))
			return
		}
		if !tab.Active {
			return
		}
		a.tracker.HandleFocusChange(ctx, tab.URL, tab.ID, string(ev.Type))

	case EventTabUpdated:
		if ev.Status != StatusComplete {
			return
		}
		tab, err := a.tabs.Get(ctx, ev.TabID)
		if err != nil {
			a.logger.Warn("skipping navigation, tab resolution failed",
				slog.Int("tab", ev.TabID),
				slog.String("error", err.Error()))
			return
		}
		if !tab.Active {
			return
		}
		url := ev.URL
		if url == "" {
			url = tab.URL
		}
		a.tracker.HandleFocusChange(ctx, url, tab.ID, session.ReasonNavigation)

	case EventTabRemoved:
		if a.tracker.OwnsTab(ev.TabID) {
			a.tracker.EndSession(session.ReasonTabClosed)
		}

	case EventWindowFocusChanged:
		if ev.WindowID == WindowNone {
			a.tracker.EndSession(session.ReasonWindowBlur)
			return
		}
		tab, err := a.tabs.ActiveInWindow(ctx, ev.WindowID)
		if err != nil {
			a.logger.Warn("skipping focus change, no resolvable tab",
				slog.Int("window", ev.WindowID),
				slog.String("error", err.Error()))
			return
		}
		a.tracker.HandleFocusChange(ctx, tab.URL, tab.ID, session.ReasonWindowFocus)

	case EventStartup, EventInstalled:
		tab, err := a.tabs.Active(ctx)
		if err != nil {
			a.logger.Warn("skipping startup resolve, no active tab",
				slog.String("error", err.Error()))
			return
		}
		a.tracker.HandleFocusChange(ctx, tab.URL, tab.ID, session.ReasonStartup)

	case EventSuspend:
		a.tracker.Teardown(ctx)

	default:
		a.logger.Warn("unknown event type", slog.String("type", string(ev.Type)))
	}
}
