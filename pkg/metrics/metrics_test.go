package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cspalloc/vmallocator/pkg/metrics"
)

func TestObserveGeneration(t *testing.T) {
	problem := "metrics-test-generation"

	metrics.ObserveGeneration(problem, 100, 350.5, 400)
	metrics.ObserveGeneration(problem, 100, 349.5, 380)

	if got := testutil.ToFloat64(metrics.GenerationsTotal.WithLabelValues(problem)); got != 2 {
		t.Errorf("generations_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.EvaluationsTotal.WithLabelValues(problem)); got != 200 {
		t.Errorf("fitness_evaluations_total = %v, want 200", got)
	}
	if got := testutil.ToFloat64(metrics.BestFitness.WithLabelValues(problem)); got != 349.5 {
		t.Errorf("best_fitness = %v, want 349.5", got)
	}
	if got := testutil.ToFloat64(metrics.MeanFitness.WithLabelValues(problem)); got != 380 {
		t.Errorf("mean_fitness = %v, want 380", got)
	}
}

func TestHandlerExposesRuns(t *testing.T) {
	metrics.ObserveRun("metrics-test-handler", 0.25)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`vmallocator_runs_total{problem="metrics-test-handler"} 1`,
		"vmallocator_run_duration_seconds_bucket",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
