package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewServer("prop-edge", "test", ":0", log)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer()

	recorder := httptest.NewRecorder()
	server.handleHealth(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	var body statusResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "prop-edge", body.Service)
}

func TestReadyNotReadyByDefault(t *testing.T) {
	server := newTestServer()

	recorder := httptest.NewRecorder()
	server.handleReady(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	server.SetReady(true)
	recorder = httptest.NewRecorder()
	server.handleReady(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestReadyFailingCheck(t *testing.T) {
	server := newTestServer()
	server.SetReady(true)
	server.RegisterCheck("store", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	recorder := httptest.NewRecorder()
	server.handleReady(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	var body readyResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Contains(t, body.Checks["store"], "connection refused")
}
