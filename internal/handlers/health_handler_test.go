package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabeliss/kandidly/internal/testhelpers"
)

func TestHealthz(t *testing.T) {
	handler := NewHealthHandler(nil, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rr := httptest.NewRecorder()
	handler.HealthzHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestReadyzWithDatabase(t *testing.T) {
	handler := NewHealthHandler(testhelpers.SetupTestDB(t), nil)

	req := httptest.NewRequest("GET", "/readyz", nil)
	rr := httptest.NewRecorder()
	handler.ReadyzHandler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"].Status)
	// missing analysis provider is reported but never blocks readiness
	assert.Equal(t, "failed", resp.Checks["analysis"].Status)
}

func TestReadyzWithoutDatabase(t *testing.T) {
	handler := NewHealthHandler(nil, nil)

	req := httptest.NewRequest("GET", "/readyz", nil)
	rr := httptest.NewRecorder()
	handler.ReadyzHandler(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
