/*
Copyright 2026 The VM Allocator Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vmallocator"

// Registry holds every allocator collector. It is separate from the default
// registry so tests and embedders get a clean set.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Number of completed optimization runs",
	}, []string{"problem"})

	GenerationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generations_total",
		Help:      "Number of evaluated generations",
	}, []string{"problem"})

	EvaluationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fitness_evaluations_total",
		Help:      "Number of chromosome fitness evaluations",
	}, []string{"problem"})

	BestFitness = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "best_fitness",
		Help:      "Lowest fitness in the most recently evaluated generation",
	}, []string{"problem"})

	MeanFitness = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mean_fitness",
		Help:      "Mean fitness of the most recently evaluated generation",
	}, []string{"problem"})

	RunDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full optimization run",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"problem"})
)

// ObserveGeneration records the statistics of one evaluated generation.
func ObserveGeneration(problem string, evaluations int, best, mean float64) {
	GenerationsTotal.WithLabelValues(problem).Inc()
	EvaluationsTotal.WithLabelValues(problem).Add(float64(evaluations))
	BestFitness.WithLabelValues(problem).Set(best)
	MeanFitness.WithLabelValues(problem).Set(mean)
}

// ObserveRun records a finished run.
func ObserveRun(problem string, seconds float64) {
	RunsTotal.WithLabelValues(problem).Inc()
	RunDuration.WithLabelValues(problem).Observe(seconds)
}

// Handler serves the allocator registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
