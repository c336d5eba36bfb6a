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

// findMetric drains a collector and returns the first metric whose labels
// are a superset of the given ones, or nil.
func findMetric(c prometheus.Collector, labels map[string]string) *dto.Metric {
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}
		if metricHasLabels(d, labels) {
			return d
		}
	}
	return nil
}

func metricHasLabels(d *dto.Metric, labels map[string]string) bool {
	for k, v := range labels {
		found := false
		for _, lp := range d.GetLabel() {
			if lp.GetName() == k && lp.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// metricsRouter wires the middleware through chi so RoutePattern is populated.
func metricsRouter(serviceName string, handler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(serviceName))
	r.Get("/test", handler)
	return r
}

// ---------------------------------------------------------------------------
// collection
// ---------------------------------------------------------------------------

func TestPrometheusMetrics_RequestCounting(t *testing.T) {
	handler := metricsRouter("test-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	labels := map[string]string{"service": "test-svc", "method": "GET", "path": "/test", "status": "200"}
	m := findMetric(httpRequestsTotal, labels)
	require.NotNil(t, m, "counter metric should exist for test-svc GET /test 200")
	assert.GreaterOrEqual(t, m.GetCounter().GetValue(), float64(3))
}

func TestPrometheusMetrics_DurationHistogram(t *testing.T) {
	handler := metricsRouter("hist-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)

	labels := map[string]string{"service": "hist-svc", "method": "GET", "path": "/test", "status": "201"}
	m := findMetric(httpRequestDuration, labels)
	require.NotNil(t, m, "histogram metric should exist")
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	inFlightSeen := float64(-1)
	handler := metricsRouter("inflight-svc", func(w http.ResponseWriter, r *http.Request) {
		if m := findMetric(httpRequestsInFlight, map[string]string{"service": "inflight-svc"}); m != nil {
			inFlightSeen = m.GetGauge().GetValue()
		}
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.GreaterOrEqual(t, inFlightSeen, float64(1), "in-flight gauge should be at least 1 during request")
}

func TestPrometheusMetrics_StatusCodeCapture(t *testing.T) {
	for _, code := range []int{http.StatusOK, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			handler := metricsRouter("status-"+http.StatusText(code), func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			})

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, code, rr.Code)
		})
	}
}

func TestPrometheusMetrics_DefaultStatusCode(t *testing.T) {
	handler := metricsRouter("default-status-svc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))

	labels := map[string]string{"service": "default-status-svc", "status": "200"}
	m := findMetric(httpRequestsTotal, labels)
	require.NotNil(t, m, "should record status 200 when WriteHeader not called explicitly")
}

// ---------------------------------------------------------------------------
// response writer delegation
// ---------------------------------------------------------------------------

type flusherWriter struct {
	http.ResponseWriter
	flushed bool
}

func (f *flusherWriter) Flush() { f.flushed = true }

type hijackerWriter struct {
	http.ResponseWriter
	hijacked bool
}

func (h *hijackerWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

// bareWriter implements only the core ResponseWriter interface.
type bareWriter struct {
	header http.Header
}

func (b *bareWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}

func (b *bareWriter) Write(p []byte) (int, error) { return len(p), nil }

func (b *bareWriter) WriteHeader(int) {}

func TestMetricsResponseWriter_FlushDelegates(t *testing.T) {
	inner := &flusherWriter{ResponseWriter: httptest.NewRecorder()}
	rw := &metricsResponseWriter{ResponseWriter: inner, statusCode: http.StatusOK}

	rw.Flush()
	assert.True(t, inner.flushed)
}

func TestMetricsResponseWriter_FlushNoOpWhenUnsupported(t *testing.T) {
	rw := &metricsResponseWriter{ResponseWriter: &bareWriter{}, statusCode: http.StatusOK}
	rw.Flush()
}

func TestMetricsResponseWriter_HijackDelegates(t *testing.T) {
	inner := &hijackerWriter{ResponseWriter: httptest.NewRecorder()}
	rw := &metricsResponseWriter{ResponseWriter: inner, statusCode: http.StatusOK}

	_, _, err := rw.Hijack()
	assert.NoError(t, err)
	assert.True(t, inner.hijacked)
}

func TestMetricsResponseWriter_HijackErrorWhenUnsupported(t *testing.T) {
	rw := &metricsResponseWriter{ResponseWriter: &bareWriter{}, statusCode: http.StatusOK}

	_, _, err := rw.Hijack()
	assert.ErrorIs(t, err, http.ErrNotSupported)
}

func TestMetricsResponseWriter_Interfaces(t *testing.T) {
	rw := &metricsResponseWriter{ResponseWriter: httptest.NewRecorder()}

	_, isFlusher := interface{}(rw).(http.Flusher)
	_, isHijacker := interface{}(rw).(http.Hijacker)
	assert.True(t, isFlusher)
	assert.True(t, isHijacker)
}
