package benchmarks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/cspalloc/vmallocator/pkg/allocation"
	"github.com/cspalloc/vmallocator/pkg/allocation/algorithms"
	"github.com/cspalloc/vmallocator/pkg/allocation/objectives/weighted"
	"github.com/cspalloc/vmallocator/pkg/allocation/util"
)

// TestSuite runs a set of allocation scenarios
type TestSuite struct {
	scenarios []Scenario
	config    algorithms.Config
	weights   weighted.Weights
}

// Outcome summarizes one scenario run
type Outcome struct {
	Scenario    string
	Fitness     float64
	SeedFitness float64
	// Optimum is the exact minimum, valid only when OptimumKnown.
	Optimum      float64
	OptimumKnown bool
	Result       *allocation.Result
}

// Gap is how far the run ended above the exact optimum.
func (o Outcome) Gap() float64 {
	if !o.OptimumKnown {
		return 0
	}
	return o.Fitness - o.Optimum
}

// NewTestSuite creates a new scenario suite
func NewTestSuite(config algorithms.Config) *TestSuite {
	return &TestSuite{
		config:  config,
		weights: weighted.DefaultWeights(),
	}
}

// AddScenario adds a scenario to the test suite
func (ts *TestSuite) AddScenario(s Scenario) {
	ts.scenarios = append(ts.scenarios, s)
}

// AddStandardScenarios adds every built-in scenario
func (ts *TestSuite) AddStandardScenarios() {
	for _, s := range StandardScenarios() {
		ts.AddScenario(s)
	}
}

// Run executes every scenario. When outputDir is set a convergence chart is
// written there per scenario.
func (ts *TestSuite) Run(ctx context.Context, outputDir string) ([]Outcome, error) {
	logger := klog.FromContext(ctx)
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	outcomes := make([]Outcome, 0, len(ts.scenarios))
	for _, s := range ts.scenarios {
		logger.Info("Running scenario", "scenario", s.Name, "vms", s.NumVMs, "csps", len(s.CSPs))

		allocator, err := allocation.New(ctx, &allocation.Args{
			Name:      s.Name,
			CSPs:      s.CSPs,
			VMs:       s.VMs(),
			Weights:   ts.weights,
			Algorithm: ts.config,
		})
		if err != nil {
			return outcomes, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		result := allocator.Allocate(ctx)

		outcome := Outcome{
			Scenario:    s.Name,
			Fitness:     result.Fitness,
			SeedFitness: result.SeedFitness,
			Result:      result,
		}
		outcome.Optimum, _, outcome.OptimumKnown = Optimum(s.NumVMs, len(s.CSPs), weighted.Objective(s.CSPs, ts.weights))
		outcomes = append(outcomes, outcome)

		if outputDir != "" {
			plotFile := filepath.Join(outputDir, fmt.Sprintf("%s_%s_convergence.html", s.Name, algorithms.Name))
			if err := util.PlotConvergence(result.Run.History, s.Name, plotFile); err != nil {
				logger.Error(err, "Failed to plot convergence", "scenario", s.Name)
			}
		}

		if outcome.OptimumKnown {
			logger.Info("Scenario complete", "scenario", s.Name,
				"fitness", outcome.Fitness, "seedFitness", outcome.SeedFitness,
				"optimum", outcome.Optimum, "gap", outcome.Gap())
		} else {
			logger.Info("Scenario complete", "scenario", s.Name,
				"fitness", outcome.Fitness, "seedFitness", outcome.SeedFitness)
		}
	}

	return outcomes, nil
}
