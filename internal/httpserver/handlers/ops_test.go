package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/islandhop/internal/domain"
)

func TestHealthz(t *testing.T) {
	d := testDeps(t, &fakeAPI{})
	d.StartTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d.TimeNow = func() time.Time { return d.StartTime.Add(90 * time.Second) }
	d.Version = "1.2.3"

	rec := httptest.NewRecorder()
	Healthz(d)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp healthzResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.InDelta(t, 90.0, resp.UptimeSeconds, 0.001)
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name    string
		pingErr error
		want    int
	}{
		{"api reachable", nil, http.StatusOK},
		{"api down", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testDeps(t, &fakeAPI{pingErr: tt.pingErr})
			rec := httptest.NewRecorder()
			Readyz(d)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestInfraWithoutRedis(t *testing.T) {
	d := testDeps(t, &fakeAPI{})
	d.MemoryIndex.UpdateIslands([]domain.Island{{ID: 1, Name: "Mahé"}})

	rec := httptest.NewRecorder()
	Infra(d)(rec, httptest.NewRequest(http.MethodGet, "/infra", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp infraResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Mode)
	assert.True(t, resp.Components["api"].OK)
	assert.False(t, resp.Components["redis"].OK)
	require.NotNil(t, resp.Components["islands"].IslandsLoaded)
	assert.Equal(t, 1, *resp.Components["islands"].IslandsLoaded)
}

func TestInfraAPIDownIsCritical(t *testing.T) {
	d := testDeps(t, &fakeAPI{pingErr: errors.New("down")})

	rec := httptest.NewRecorder()
	Infra(d)(rec, httptest.NewRequest(http.MethodGet, "/infra", nil))

	var resp infraResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "critical", resp.Mode)
}

func TestReloadTrigger(t *testing.T) {
	d := testDeps(t, &fakeAPI{})
	h := Reload(d)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)

	// the trigger is buffered by one; a second request finds it pending
	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	<-d.ReloadTrigger
}
