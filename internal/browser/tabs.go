package browser

import (
	"context"
	"fmt"
	"sync"

	"tabtime/internal/session"
)

// Tab is the last-known state of one browser tab.
type Tab struct {
	ID          int
	WindowID    int
	URL         string
	Title       string
	Favicon     string
	Description string
	Active      bool
}

// Tabs resolves tab state when a triggering event doesn't carry a URL
// directly. Implementations must tolerate the tab no longer existing.
type Tabs interface {
	// Get returns the tab with the given id.
	Get(ctx context.Context, id int) (Tab, error)
	// ActiveInWindow returns the active tab of the given window.
	ActiveInWindow(ctx context.Context, windowID int) (Tab, error)
	// Active returns the active tab of the currently focused window.
	Active(ctx context.Context) (Tab, error)
}

// Registry tracks tab state reported by the extension's event stream. It
// implements Tabs and session.MetadataFetcher so the tracker can resolve
// URLs and page metadata without a round trip back to the browser.
//
// Registry is safe for concurrent use: the ingest surface applies events
// while the adapter loop queries.
type Registry struct {
	mu            sync.RWMutex
	tabs          map[int]Tab
	activeByWin   map[int]int
	focusedWindow int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tabs:          make(map[int]Tab),
		activeByWin:   make(map[int]int),
		focusedWindow: WindowNone,
	}
}

// Apply folds one host event into the registry state. Unknown event types
// are ignored.
func (r *Registry) Apply(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Type {
	case EventTabCreated, EventTabUpdated:
		r.upsert(ev)
	case EventTabActivated:
		r.upsert(ev)
		tab := r.tabs[ev.TabID]
		tab.Active = true
		r.tabs[ev.TabID] = tab
		r.activeByWin[tab.WindowID] = ev.TabID
		for id, other := range r.tabs {
			if id != ev.TabID && other.WindowID == tab.WindowID && other.Active {
				other.Active = false
				r.tabs[id] = other
			}
		}
	case EventTabAttached, EventTabDetached, EventTabMoved:
		r.upsert(ev)
	case EventTabRemoved:
		tab, ok := r.tabs[ev.TabID]
		delete(r.tabs, ev.TabID)
		if ok && r.activeByWin[tab.WindowID] == ev.TabID {
			delete(r.activeByWin, tab.WindowID)
		}
	case EventTabReplaced:
		// The new tab inherits the replaced tab's record until its own
		// events arrive.
		if old, ok := r.tabs[ev.ReplacedTabID]; ok {
			delete(r.tabs, ev.ReplacedTabID)
			old.ID = ev.TabID
			r.tabs[ev.TabID] = old
			if r.activeByWin[old.WindowID] == ev.ReplacedTabID {
				r.activeByWin[old.WindowID] = ev.TabID
			}
		}
		r.upsert(ev)
	case EventWindowFocusChanged:
		r.focusedWindow = ev.WindowID
	}
}

// upsert merges non-empty event fields into the tab record. Callers must
// hold r.mu.
func (r *Registry) upsert(ev Event) {
	tab := r.tabs[ev.TabID]
	tab.ID = ev.TabID
	if ev.WindowID != 0 {
		tab.WindowID = ev.WindowID
	}
	if ev.URL != "" {
		tab.URL = ev.URL
	}
	if ev.Title != "" {
		tab.Title = ev.Title
	}
	if ev.Favicon != "" {
		tab.Favicon = ev.Favicon
	}
	if ev.Description != "" {
		tab.Description = ev.Description
	}
	if ev.Active {
		tab.Active = true
		r.activeByWin[tab.WindowID] = tab.ID
	}
	r.tabs[ev.TabID] = tab
}

// Get implements Tabs.
func (r *Registry) Get(ctx context.Context, id int) (Tab, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tab, ok := r.tabs[id]
	if !ok {
		return Tab{}, fmt.Errorf("tab %d not found", id)
	}
	return tab, nil
}

// ActiveInWindow implements Tabs.
func (r *Registry) ActiveInWindow(ctx context.Context, windowID int) (Tab, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.activeByWin[windowID]
	if !ok {
		return Tab{}, fmt.Errorf("no active tab in window %d", windowID)
	}
	tab, ok := r.tabs[id]
	if !ok {
		return Tab{}, fmt.Errorf("tab %d not found", id)
	}
	return tab, nil
}

// Active implements Tabs: the active tab of the focused window, falling
// back to any active tab when no window is focused.
func (r *Registry) Active(ctx context.Context) (Tab, error) {
	r.mu.RLock()
	focused := r.focusedWindow
	r.mu.RUnlock()

	if focused != WindowNone {
		return r.ActiveInWindow(ctx, focused)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tab := range r.tabs {
		if tab.Active {
			return tab, nil
		}
	}
	return Tab{}, fmt.Errorf("no active tab")
}

// Fetch implements session.MetadataFetcher from last-reported tab state.
func (r *Registry) Fetch(ctx context.Context, tabID int) (session.Metadata, error) {
	tab, err := r.Get(ctx, tabID)
	if err != nil {
		return session.Metadata{}, err
	}
	return session.Metadata{
		Favicon:     tab.Favicon,
		Title:       tab.Title,
		Description: tab.Description,
	}, nil
}
