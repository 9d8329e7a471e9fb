// Package session implements the session lifecycle tracker and the
// debounced batch writer behind it. A session is one contiguous interval
// of a tab being the focused presence on a domain.
package session

import "context"

// Close reasons recorded for diagnostics when a session ends.
const (
	ReasonNavigation  = "navigation"
	ReasonTabSwitch   = "tab_switch"
	ReasonTabClosed   = "tab_closed"
	ReasonWindowBlur  = "window_blur"
	ReasonWindowFocus = "window_focus"
	ReasonStartup     = "startup"
	ReasonShutdown    = "shutdown"
)

// Session is the sole persisted entity. Timestamps are milliseconds since
// the Unix epoch. EndAt is zero while the session is open; once set it is
// never changed again.
type Session struct {
	Domain      string `json:"domain"`
	StartAt     int64  `json:"startAt"`
	EndAt       int64  `json:"endAt,omitempty"`
	TabID       int    `json:"tabId"`
	Favicon     string `json:"favicon,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Closed reports whether the session has ended.
func (s Session) Closed() bool {
	return s.EndAt != 0
}

// Duration returns the session length in milliseconds, or 0 while open.
func (s Session) Duration() int64 {
	if !s.Closed() {
		return 0
	}
	return s.EndAt - s.StartAt
}

// Metadata carries the best-effort page enrichment fields collected when
// a session opens.
type Metadata struct {
	Favicon     string
	Title       string
	Description string
}

// MetadataFetcher queries the page context of a tab. Implementations must
// fail soft: the target context may already be gone.
type MetadataFetcher interface {
	Fetch(ctx context.Context, tabID int) (Metadata, error)
}

// Store persists closed sessions. Append merges a batch into the stored
// sequence in order, enforcing the retention cap.
type Store interface {
	Append(ctx context.Context, batch []Session) error
}
