package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdeck/fleetdeck/internal/fleet"
)

type stubModel struct {
	records  []fleet.NodeViewRecord
	snapshot fleet.FleetSnapshot
	conn     fleet.ConnState
	fetchErr error
}

func (m *stubModel) Records() []fleet.NodeViewRecord { return m.records }
func (m *stubModel) Snapshot() fleet.FleetSnapshot   { return m.snapshot }
func (m *stubModel) ConnState() fleet.ConnState      { return m.conn }
func (m *stubModel) LastFetchError() error           { return m.fetchErr }

func doGET(t *testing.T, model ReadModel, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New("127.0.0.1:0", model, nil)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doGET(t, &stubModel{conn: fleet.ConnConnected}, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["feed"])
	_, hasErr := body["last_fetch_error"]
	assert.False(t, hasErr)
}

func TestHealthz_SurfacesFetchError(t *testing.T) {
	model := &stubModel{
		conn:     fleet.ConnDisconnected,
		fetchErr: errors.New("backend unreachable"),
	}
	w := doGET(t, model, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "disconnected", body["feed"])
	assert.Contains(t, body["last_fetch_error"], "backend unreachable")
}

func TestFleetSnapshot(t *testing.T) {
	model := &stubModel{
		snapshot: fleet.FleetSnapshot{
			Total: 3, Online: 2, Offline: 1,
			Groups:     []string{"prod"},
			NetUpSpeed: 1024,
		},
	}
	w := doGET(t, model, "/api/fleet")
	require.Equal(t, http.StatusOK, w.Code)

	var snap fleet.FleetSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, model.snapshot, snap)
}

func TestNodes_NormalizesRegionOnTheWire(t *testing.T) {
	model := &stubModel{
		records: []fleet.NodeViewRecord{
			{
				Node:   fleet.Node{UUID: "a", Name: "alpha", Region: "🇹🇼 Taipei"},
				Status: fleet.StatusOnline,
				Stats:  &fleet.NodeStats{CPU: 12},
			},
			{
				Node:   fleet.Node{UUID: "b", Name: "beta", Region: "🇩🇪 Frankfurt"},
				Status: fleet.StatusOffline,
			},
		},
	}
	w := doGET(t, model, "/api/nodes")
	require.Equal(t, http.StatusOK, w.Code)

	var views []struct {
		Node struct {
			UUID   string `json:"uuid"`
			Region string `json:"region"`
		} `json:"node"`
		Stats  *fleet.NodeStats `json:"stats"`
		Status string           `json:"status"`
		Region string           `json:"region"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 2)

	assert.Equal(t, "🇺🇳 Taipei", views[0].Region)
	// The record itself keeps the raw value; only the display field changes.
	assert.Equal(t, "🇹🇼 Taipei", views[0].Node.Region)
	assert.Equal(t, "online", views[0].Status)
	require.NotNil(t, views[0].Stats)
	assert.Equal(t, 12.0, views[0].Stats.CPU)

	assert.Equal(t, "🇩🇪 Frankfurt", views[1].Region)
	assert.Equal(t, "offline", views[1].Status)
	assert.Nil(t, views[1].Stats)
}

func TestNodes_EmptyFleetIsEmptyList(t *testing.T) {
	w := doGET(t, &stubModel{}, "/api/nodes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestUnknownRouteIs404(t *testing.T) {
	w := doGET(t, &stubModel{}, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
