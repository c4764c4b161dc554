package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serve(t *testing.T, m *Metrics, status int) {
	t.Helper()
	h := RequestMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/videos", nil))
	if rec.Code != status {
		t.Fatalf("middleware altered status: got %d, want %d", rec.Code, status)
	}
}

func TestRequestMiddleware_counts_and_times_requests(t *testing.T) {
	m := New()

	serve(t, m, http.StatusOK)
	serve(t, m, http.StatusNotFound)
	serve(t, m, http.StatusInternalServerError)

	if got := testutil.ToFloat64(m.requestsTotal); got != 3 {
		t.Errorf("requests_total = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.errorsTotal); got != 2 {
		t.Errorf("errors_total = %v, want 2 (404 and 500)", got)
	}

	// Every request, including failed ones, contributes a latency sample.
	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var samples uint64
	for _, mf := range families {
		if mf.GetName() == "videohub_request_duration_seconds" {
			samples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	if samples != 3 {
		t.Errorf("duration samples = %d, want 3", samples)
	}
}

func TestRequestMiddleware_success_not_counted_as_error(t *testing.T) {
	m := New()
	serve(t, m, http.StatusCreated)

	if got := testutil.ToFloat64(m.errorsTotal); got != 0 {
		t.Errorf("errors_total = %v, want 0 after a 201", got)
	}
}
