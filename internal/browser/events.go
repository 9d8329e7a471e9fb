// Package browser adapts the host browser's eventing surface into the
// small internal vocabulary the session tracker consumes, and answers
// tab/metadata queries from last-reported tab state.
package browser

// EventType identifies a host browsing signal.
type EventType string

const (
	EventTabActivated       EventType = "tab_activated"
	EventTabUpdated         EventType = "tab_updated"
	EventTabCreated         EventType = "tab_created"
	EventTabMoved           EventType = "tab_moved"
	EventTabAttached        EventType = "tab_attached"
	EventTabDetached        EventType = "tab_detached"
	EventTabRemoved         EventType = "tab_removed"
	EventTabReplaced        EventType = "tab_replaced"
	EventWindowFocusChanged EventType = "window_focus_changed"
	EventStartup            EventType = "startup"
	EventInstalled          EventType = "installed"
	EventSuspend            EventType = "suspend"
)

// WindowNone is the window id reported when all browser windows have lost
// focus.
const WindowNone = -1

// StatusComplete marks a tab_updated event whose navigation has finished
// loading.
const StatusComplete = "complete"

// Event is one host browsing signal as reported by the extension. Fields
// beyond Type are populated where the host makes them available; the
// adapter resolves the rest through tab queries.
type Event struct {
	Type     EventType `json:"type"`
	TabID    int       `json:"tabId,omitempty"`
	WindowID int       `json:"windowId,omitempty"`
	URL      string    `json:"url,omitempty"`
	Status   string    `json:"status,omitempty"`
	Active   bool      `json:"active,omitempty"`

	// Page context reported alongside the event, kept in the registry
	// for metadata queries.
	Title       string `json:"title,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
	Description string `json:"description,omitempty"`

	// ReplacedTabID is the id of the tab this one replaced (tab_replaced).
	ReplacedTabID int `json:"replacedTabId,omitempty"`
}
