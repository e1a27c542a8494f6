package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterAndLabels(t *testing.T) {
	r := New()
	r.Counter(WithLabels("jobs_total", "status", "completed"), "Jobs by status").Inc()
	r.Counter(WithLabels("jobs_total", "status", "completed"), "").Inc()
	r.Counter(WithLabels("jobs_total", "status", "failed"), "").Add(3)

	out := r.Render()
	if !strings.Contains(out, `jobs_total{status="completed"} 2`) {
		t.Fatalf("missing completed series:\n%s", out)
	}
	if !strings.Contains(out, `jobs_total{status="failed"} 3`) {
		t.Fatalf("missing failed series:\n%s", out)
	}
	if strings.Count(out, "# TYPE jobs_total counter") != 1 {
		t.Fatalf("base metric should be typed exactly once:\n%s", out)
	}
}

func TestGauge(t *testing.T) {
	r := New()
	g := r.Gauge("jobs_running", "Jobs currently executing")
	g.Inc()
	g.Inc()
	g.Dec()
	if g.Value() != 1 {
		t.Fatalf("unexpected gauge value %d", g.Value())
	}
}

func TestHistogram(t *testing.T) {
	r := New()
	h := r.Histogram("job_duration_seconds", "Job wall time", []float64{1, 10})
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(100)

	out := r.Render()
	for _, want := range []string{
		`job_duration_seconds_bucket{le="1"} 1`,
		`job_duration_seconds_bucket{le="10"} 2`,
		`job_duration_seconds_bucket{le="+Inf"} 3`,
		`job_duration_seconds_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("requests_total", "").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "requests_total 1") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestWithLabelsOddPairs(t *testing.T) {
	if got := WithLabels("m", "only_key"); got != "m" {
		t.Fatalf("odd label pairs should be ignored, got %q", got)
	}
}
