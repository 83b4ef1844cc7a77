package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/straye-as/chirps-api/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandler_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.InstrumentHandler("/metrics"))
	r.Get("/api/v1/chirps/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", metrics.Handler())

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/chirps/"+strings.Repeat("a", i+1), nil))
		require.Equal(t, http.StatusTeapot, rr.Code)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `chirps_http_requests_total{method="GET",route="/api/v1/chirps/{id}",status="418"} 2`)
	assert.NotContains(t, body, `route="/metrics"`)
}

func TestDomainCounters(t *testing.T) {
	t.Run("reactions are labelled by type", func(t *testing.T) {
		before := testutil.CollectAndCount(metrics.Registry, "chirps_reactions_set_total")
		metrics.RecordReaction("wow")
		after := testutil.CollectAndCount(metrics.Registry, "chirps_reactions_set_total")
		assert.GreaterOrEqual(t, after, before)
		assert.GreaterOrEqual(t, after, 1)
	})

	t.Run("purge ignores zero counts", func(t *testing.T) {
		assert.NotPanics(t, func() {
			metrics.RecordNotificationsPurged(0)
			metrics.RecordNotificationsPurged(3)
		})
	})

	t.Run("job runs tolerate empty names", func(t *testing.T) {
		metrics.RecordJobRun("", 0, true)
		count := testutil.CollectAndCount(metrics.Registry, "chirps_jobs_runs_total")
		assert.GreaterOrEqual(t, count, 1)
	})

	t.Run("websocket gauge moves both ways", func(t *testing.T) {
		start := testutil.ToFloat64(metrics.WebsocketConnections)
		metrics.WebsocketConnections.Inc()
		assert.Equal(t, start+1, testutil.ToFloat64(metrics.WebsocketConnections))
		metrics.WebsocketConnections.Dec()
		assert.Equal(t, start, testutil.ToFloat64(metrics.WebsocketConnections))
	})
}
