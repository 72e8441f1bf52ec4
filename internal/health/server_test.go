package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/courtside/internal/logger"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLiveAlwaysOK(t *testing.T) {
	s := NewServer("courtside", "0", logger.NewNopLogger())

	rec := httptest.NewRecorder()
	s.handleLive(rec, httptest.NewRequest("GET", "/live", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestReadyBeforeStartup(t *testing.T) {
	s := NewServer("courtside", "0", logger.NewNopLogger())

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest("GET", "/ready", nil))

	assert.Equal(t, 503, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "not_ready", body["status"])
}

func TestReadyWithPassingProbes(t *testing.T) {
	s := NewServer("courtside", "0", logger.NewNopLogger())
	s.AddProbe("database", func(ctx context.Context) error { return nil })
	s.AddProbe("model_store", func(ctx context.Context) error { return nil })
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest("GET", "/ready", nil))

	assert.Equal(t, 200, rec.Code)
	body := decodeBody(t, rec)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "ok", checks["model_store"])
}

func TestReadyWithFailingProbe(t *testing.T) {
	s := NewServer("courtside", "0", logger.NewNopLogger())
	s.AddProbe("database", func(ctx context.Context) error { return errors.New("connection refused") })
	s.SetReady(true)

	rec := httptest.NewRecorder()
	s.handleReady(rec, httptest.NewRequest("GET", "/ready", nil))

	assert.Equal(t, 503, rec.Code)
	body := decodeBody(t, rec)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["service"])
	assert.Contains(t, checks["database"], "connection refused")
}

func TestSetReadyToggle(t *testing.T) {
	s := NewServer("courtside", "0", logger.NewNopLogger())
	assert.False(t, s.IsReady())
	s.SetReady(true)
	assert.True(t, s.IsReady())
	s.SetReady(false)
	assert.False(t, s.IsReady())
}

func TestDefaultPort(t *testing.T) {
	s := NewServer("courtside", "", logger.NewNopLogger())
	assert.Equal(t, "8081", s.port)
}
