package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabtime/internal/browser"
	"tabtime/internal/config"
)

// recordingDispatcher captures dispatched events in order.
type recordingDispatcher struct {
	events []browser.Event
}

func (d *recordingDispatcher) Dispatch(ev browser.Event) {
	d.events = append(d.events, ev)
}

func newTestServer(t *testing.T, cfg config.DaemonConfig) (*httptest.Server, *browser.Registry, *recordingDispatcher) {
	t.Helper()
	registry := browser.NewRegistry()
	dispatcher := &recordingDispatcher{}
	srv := httptest.NewServer(New(cfg, registry, dispatcher, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, registry, dispatcher
}

func postEvents(t *testing.T, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/events", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_AcceptsBatch(t *testing.T) {
	srv, registry, dispatcher := newTestServer(t, config.DaemonConfig{})

	resp := postEvents(t, srv.URL, "", `{
		"events": [
			{"type": "tab_created", "tabId": 1, "windowId": 10, "url": "https://example.com", "title": "Example"},
			{"type": "tab_activated", "tabId": 1, "windowId": 10}
		]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out["accepted"])

	// Events reached the dispatcher in order.
	require.Len(t, dispatcher.events, 2)
	assert.Equal(t, browser.EventTabCreated, dispatcher.events[0].Type)
	assert.Equal(t, browser.EventTabActivated, dispatcher.events[1].Type)

	// And the registry was updated before dispatch.
	tab, err := registry.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", tab.URL)
	assert.True(t, tab.Active)
}

func TestServer_RejectsInvalidJSON(t *testing.T) {
	srv, _, dispatcher := newTestServer(t, config.DaemonConfig{})

	resp := postEvents(t, srv.URL, "", `{"events": [`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, dispatcher.events)
}

func TestServer_RejectsWrongMethod(t *testing.T) {
	srv, _, _ := newTestServer(t, config.DaemonConfig{})

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServer_AuthToken(t *testing.T) {
	srv, _, dispatcher := newTestServer(t, config.DaemonConfig{AuthToken: "sekret"})

	resp := postEvents(t, srv.URL, "", `{"events": []}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postEvents(t, srv.URL, "wrong", `{"events": []}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postEvents(t, srv.URL, "sekret", `{"events": []}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, dispatcher.events)
}

func TestServer_BodySizeLimit(t *testing.T) {
	srv, _, _ := newTestServer(t, config.DaemonConfig{MaxRequestSize: 64})

	var big bytes.Buffer
	big.WriteString(`{"events": [`)
	for i := 0; i < 100; i++ {
		if i > 0 {
			big.WriteString(",")
		}
		big.WriteString(`{"type": "tab_created", "tabId": 1, "url": "https://example.com/padding"}`)
	}
	big.WriteString(`]}`)

	resp := postEvents(t, srv.URL, "", big.String())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Healthz(t *testing.T) {
	srv, _, _ := newTestServer(t, config.DaemonConfig{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
