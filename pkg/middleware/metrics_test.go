package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectMetric extracts the metric matching labels from a collector.
func collectMetric(t *testing.T, c prometheus.Collector, labels map[string]string) *dto.Metric {
	t.Helper()
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}
		match := true
		for k, v := range labels {
			found := false
			for _, lp := range d.GetLabel() {
				if lp.GetName() == k && lp.GetValue() == v {
					found = true
					break
				}
			}
			if !found {
				match = false
				break
			}
		}
		if match {
			return d
		}
	}
	return nil
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-route-test"))
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
	}

	m := collectMetric(t, httpRequestsTotal, map[string]string{
		"service": "metrics-route-test",
		"path":    "/products/{id}",
		"status":  "404",
	})
	require.NotNil(t, m)
	assert.Equal(t, float64(2), m.GetCounter().GetValue())
}

func TestPrometheusMetrics_DefaultStatusCode(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-default-test"))
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	m := collectMetric(t, httpRequestDuration, map[string]string{
		"service": "metrics-default-test",
		"status":  "200",
	})
	require.NotNil(t, m)
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
}

type hijackableRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestStatusRecorder_Hijack_DelegatesToUnderlying(t *testing.T) {
	under := &hijackableRecorder{ResponseRecorder: httptest.NewRecorder()}
	rec := newStatusRecorder(under)

	_, _, err := rec.Hijack()
	require.NoError(t, err)
	assert.True(t, under.hijacked)
	assert.Equal(t, http.StatusSwitchingProtocols, rec.statusCode)
}

func TestStatusRecorder_Hijack_ErrorWhenNotSupported(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	_, _, err := rec.Hijack()
	assert.Error(t, err)
}

func TestStatusRecorder_Flush(t *testing.T) {
	under := httptest.NewRecorder()
	rec := newStatusRecorder(under)
	rec.Flush()
	assert.True(t, under.Flushed)
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusAccepted)
	rec.WriteHeader(http.StatusInternalServerError)
	assert.Equal(t, http.StatusAccepted, rec.statusCode)
}
