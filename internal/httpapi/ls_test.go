package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoro-99/crbl-logger/internal/discovery"
	"github.com/zoro-99/crbl-logger/internal/indexer"
)

func TestHandleLsLocalTextPlain(t *testing.T) {
	self := discovery.Peer{Host: "h", IP: "127.0.0.1", Port: 7777}
	srv, dir := newTestServer(t, self)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.log"), []byte("x"), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/ls", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a.log ")
	assert.Contains(t, w.Body.String(), "b.log ")
}

func TestHandleLsLocalJSON(t *testing.T) {
	self := discovery.Peer{Host: "h", IP: "127.0.0.1", Port: 7777}
	srv, _ := newTestServer(t, self)

	req := httptest.NewRequest(http.MethodGet, "/ls", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var payload localLsPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "127.0.0.1", payload.IP)
	assert.Equal(t, 7777, payload.Port)
	assert.Equal(t, []string{"a.log"}, payload.Files)
}

func TestHandleLsClusterJSON(t *testing.T) {
	self := discovery.Peer{Host: "h", IP: "127.0.0.1", Port: 7777}
	srv, _ := newTestServer(t, self)
	srv.idx = &fakeIndex{peers: indexer.PeerFiles{
		"10.0.0.1:7777": {"a.log"},
		"10.0.0.2:7777": {"b.log", "c.log"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/ls?g=true", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var entries []clusterLsEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)

	byIP := map[string][]string{}
	for _, e := range entries {
		byIP[e.IP] = e.Files
	}
	assert.Equal(t, []string{"a.log"}, byIP["10.0.0.1"])
	assert.Equal(t, []string{"b.log", "c.log"}, byIP["10.0.0.2"])
}

func TestHandleLsClusterTextPlain(t *testing.T) {
	self := discovery.Peer{Host: "h", IP: "127.0.0.1", Port: 7777}
	srv, _ := newTestServer(t, self)
	srv.idx = &fakeIndex{peers: indexer.PeerFiles{
		"10.0.0.1:7777": {"a.log"},
	}}

	req := httptest.NewRequest(http.MethodGet, "/ls?g=t", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "10.0.0.1:7777:\n")
	assert.Contains(t, body, "a.log\n")
}

func TestHandleLsDirectoryNotFound(t *testing.T) {
	self := discovery.Peer{Host: "h", IP: "127.0.0.1", Port: 7777}
	srv, _ := newTestServer(t, self)

	req := httptest.NewRequest(http.MethodGet, "/ls?fn=nope", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "was not found")
}

func TestUnmatchedRouteMessage(t *testing.T) {
	self := discovery.Peer{Host: "h", IP: "127.0.0.1", Port: 7777}
	srv, _ := newTestServer(t, self)

	req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/unknown method not allowed for the requested URL.\n", w.Body.String())
}
