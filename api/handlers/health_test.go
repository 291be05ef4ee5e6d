package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/imagegate/api"
)

func newHealthHandler() *HealthHandler {
	return NewHealthHandler(api.VersionInfo{Version: "1.2.3", BuildTime: "today", GitCommit: "abc123"}, zap.NewNop())
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := newHealthHandler()
	for _, fn := range []http.HandlerFunc{h.HandleHealth, h.HandleHealthz} {
		w := httptest.NewRecorder()
		fn(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var status HealthStatus
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, "healthy", status.Status)
		assert.False(t, status.Timestamp.IsZero())
	}
}

func TestHealthHandler_HandleReady(t *testing.T) {
	tests := []struct {
		name       string
		checks     []HealthCheck
		wantStatus int
		wantState  string
	}{
		{"no checks", nil, http.StatusOK, "healthy"},
		{"store up", []HealthCheck{
			NewPingCheck("config_store", func(context.Context) error { return nil }),
		}, http.StatusOK, "healthy"},
		{"store down", []HealthCheck{
			NewPingCheck("config_store", func(context.Context) error { return errors.New("connection refused") }),
			NewPingCheck("database", func(context.Context) error { return nil }),
		}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHealthHandler()
			for _, c := range tt.checks {
				h.RegisterCheck(c)
			}

			w := httptest.NewRecorder()
			h.HandleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var status HealthStatus
			require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
			assert.Equal(t, tt.wantState, status.Status)
			assert.Len(t, status.Checks, len(tt.checks))
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "fail", status.Checks["config_store"].Status)
				assert.Equal(t, "connection refused", status.Checks["config_store"].Message)
				assert.Equal(t, "pass", status.Checks["database"].Status)
			}
		})
	}
}

func TestHealthHandler_ReadyRunsChecksConcurrently(t *testing.T) {
	h := newHealthHandler()
	var running, peak atomic.Int32
	for _, name := range []string{"a", "b", "c"} {
		h.RegisterCheck(NewPingCheck(name, func(context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			running.Add(-1)
			return nil
		}))
	}

	w := httptest.NewRecorder()
	h.HandleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Greater(t, peak.Load(), int32(1))
}

func TestHealthHandler_HandleVersion(t *testing.T) {
	w := httptest.NewRecorder()
	newHealthHandler().HandleVersion(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool            `json:"success"`
		Data    api.VersionInfo `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "1.2.3", resp.Data.Version)
	assert.Equal(t, "abc123", resp.Data.GitCommit)
}
