package session

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"time"

	"tabtime/internal/domain"
)

// Tracker is the session lifecycle state machine. It holds at most one
// open session and decides when to close and open sessions in response to
// focus-change and end events.
//
// Tracker is not safe for concurrent use: all calls must come from a
// single event loop so that no two events mutate the current session at
// the same time (the browser adapter guarantees this).
type Tracker struct {
	batcher *Batcher
	meta    MetadataFetcher
	logger  *slog.Logger
	now     func() time.Time

	current *Session
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTrackerLogger configures structured logging for the tracker.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithTrackerClock overrides the time source. Used by tests.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates a Tracker that hands closed sessions to batcher and
// enriches new sessions through meta.
func NewTracker(batcher *Batcher, meta MetadataFetcher, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		batcher: batcher,
		meta:    meta,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HandleFocusChange processes the effectively-focused tab having changed
// to rawURL in tabID. URLs without a usable domain are ignored. A focus
// change to the same (domain, tab) pair as the open session is a no-op so
// redundant host events (tab reorders, repeated update signals) do not
// fragment the session. Otherwise the open session is closed and enqueued
// before the new one opens; metadata fetch failure degrades to the default
// favicon rather than aborting session creation.
func (t *Tracker) HandleFocusChange(ctx context.Context, rawURL string, tabID int, reason string) {
	d := domain.Extract(rawURL)
	if d == "" {
		return
	}
	if t.current != nil && t.current.Domain == d && t.current.TabID == tabID {
		return
	}

	t.closeCurrent(reason)

	md, err := t.meta.Fetch(ctx, tabID)
	if err != nil {
		t.logger.Debug("metadata fetch degraded",
			slog.Int("tab", tabID),
			slog.String("error", err.Error()))
		md = Metadata{}
	}
	if md.Favicon == "" {
		md.Favicon = fallbackFavicon(rawURL)
	}

	t.current = &Session{
		Domain:      d,
		StartAt:     t.now().UnixMilli(),
		TabID:       tabID,
		Favicon:     md.Favicon,
		Title:       md.Title,
		Description: md.Description,
	}
	t.logger.Info("session opened",
		slog.String("domain", d),
		slog.Int("tab", tabID),
		slog.String("reason", reason))
}

// EndSession closes the open session, if any, and enqueues it for
// persistence. Calling it with no open session is a no-op.
func (t *Tracker) EndSession(reason string) {
	t.closeCurrent(reason)
}

// Teardown closes the open session and forces an immediate flush of the
// pending batch, bypassing the debounce. Called before the host process
// may be killed.
func (t *Tracker) Teardown(ctx context.Context) {
	t.closeCurrent(ReasonShutdown)
	if err := t.batcher.Flush(ctx); err != nil {
		t.logger.Error("teardown flush failed", slog.String("error", err.Error()))
	}
}

// Current returns a copy of the open session, or nil if none is open.
func (t *Tracker) Current() *Session {
	if t.current == nil {
		return nil
	}
	s := *t.current
	return &s
}

// OwnsTab reports whether the open session belongs to tabID.
func (t *Tracker) OwnsTab(tabID int) bool {
	return t.current != nil && t.current.TabID == tabID
}

func (t *Tracker) closeCurrent(reason string) {
	if t.current == nil {
		return
	}
	s := *t.current
	t.current = nil

	s.EndAt = t.now().UnixMilli()
	if s.EndAt < s.StartAt {
		s.EndAt = s.StartAt
	}
	t.batcher.Enqueue(s)
	t.logger.Info("session closed",
		slog.String("domain", s.Domain),
		slog.Int("tab", s.TabID),
		slog.Int64("duration_ms", s.Duration()),
		slog.String("reason", reason))
}

// fallbackFavicon derives the conventional favicon location for a URL,
// used when metadata collection yields nothing.
func fallbackFavicon(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico"
}
