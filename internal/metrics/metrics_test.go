package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ObserveRequest(t *testing.T) {
	reg := NewRegistry()
	m := NewClient(reg)

	m.ObserveRequest(http.MethodGet, http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodGet, http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodPost, http.StatusUnauthorized, time.Millisecond)
	m.ObserveRequest(http.MethodPost, 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("POST", "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NetworkErrors.WithLabelValues("POST")))
}

func TestNilMetricsAreNoop(t *testing.T) {
	var c *Client
	var s *Server
	assert.NotPanics(t, func() {
		c.ObserveRequest("GET", 200, time.Second)
		s.ObserveRequest("GET", "/", 200, time.Second)
	})
}

func TestHandlerFor(t *testing.T) {
	reg := NewRegistry()
	m := NewServer(reg)
	m.ObserveRequest(http.MethodGet, "/api/workshops", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	HandlerFor(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "workshops_api_requests_total"))
}
