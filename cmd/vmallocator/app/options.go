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

package app

import (
	"fmt"

	"github.com/spf13/pflag"
	"k8s.io/utils/ptr"

	"github.com/cspalloc/vmallocator/pkg/allocation/benchmarks"
	"github.com/cspalloc/vmallocator/pkg/api/v1alpha1"
	"github.com/cspalloc/vmallocator/pkg/tracing"
)

// AllocatorOptions holds the command line configuration.
type AllocatorOptions struct {
	PolicyFile string
	Scenario   string

	PopulationSize     int32
	MaxGenerations     int32
	MutationRate       float64
	TournamentSize     int32
	Seed               uint64
	SeedStrategy       string
	Elitism            int32
	ParallelEvaluation bool
	Crossover          string

	PlotOutput         string
	MetricsBindAddress string
	Tracing            tracing.Options
}

// NewOptions returns options with their defaults.
func NewOptions() *AllocatorOptions {
	return &AllocatorOptions{
		Scenario:       benchmarks.Sample().Name,
		PopulationSize: v1alpha1.DefaultPopulationSize,
		MaxGenerations: v1alpha1.DefaultMaxGenerations,
		MutationRate:   v1alpha1.DefaultMutationRate,
		TournamentSize: v1alpha1.DefaultTournamentSize,
		SeedStrategy:   v1alpha1.DefaultSeedStrategy,
		Crossover:      v1alpha1.DefaultCrossover,
		Tracing: tracing.Options{
			ServiceName: tracing.DefaultServiceName,
			SampleRate:  1,
		},
	}
}

// AddFlags adds flags for the allocator to the specified FlagSet.
func (o *AllocatorOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.PolicyFile, "policy", o.PolicyFile, "File with the AllocationPolicy to solve. Takes precedence over --scenario.")
	fs.StringVar(&o.Scenario, "scenario", o.Scenario, "Built-in scenario to solve when no policy file is given.")

	fs.Int32Var(&o.PopulationSize, "population-size", o.PopulationSize, "Number of chromosomes per generation.")
	fs.Int32Var(&o.MaxGenerations, "max-generations", o.MaxGenerations, "Number of generations to evolve.")
	fs.Float64Var(&o.MutationRate, "mutation-rate", o.MutationRate, "Per-gene mutation probability.")
	fs.Int32Var(&o.TournamentSize, "tournament-size", o.TournamentSize, "Members drawn per tournament selection.")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Random seed. A time-based seed is used when unset.")
	fs.StringVar(&o.SeedStrategy, "seed-strategy", o.SeedStrategy, "How the even split seeds the population: Clone or Shuffle.")
	fs.Int32Var(&o.Elitism, "elitism", o.Elitism, "Best chromosomes carried unchanged into the next generation.")
	fs.BoolVar(&o.ParallelEvaluation, "parallel-evaluation", o.ParallelEvaluation, "Evaluate fitness concurrently.")
	fs.StringVar(&o.Crossover, "crossover", o.Crossover, "Crossover operator: OnePoint, TwoPoint, Uniform, KPoint or CSPAware.")

	fs.StringVar(&o.PlotOutput, "plot-output", o.PlotOutput, "Write a convergence chart (HTML) to this path.")
	fs.StringVar(&o.MetricsBindAddress, "metrics-bind-address", o.MetricsBindAddress, "Address to serve /metrics on while running, e.g. :8080. Disabled when empty.")
	fs.StringVar(&o.Tracing.CollectorEndpoint, "otel-collector-endpoint", o.Tracing.CollectorEndpoint, "OTLP gRPC collector endpoint. Tracing is disabled when empty.")
	fs.Float64Var(&o.Tracing.SampleRate, "otel-sample-rate", o.Tracing.SampleRate, "Fraction of runs to trace.")
}

// Policy loads the policy file or builds one from the scenario, then applies
// every algorithm flag set explicitly on fs.
func (o *AllocatorOptions) Policy(fs *pflag.FlagSet) (*v1alpha1.AllocationPolicy, error) {
	var policy *v1alpha1.AllocationPolicy
	if o.PolicyFile != "" {
		var err error
		if policy, err = v1alpha1.LoadPolicy(o.PolicyFile); err != nil {
			return nil, err
		}
	} else {
		scenario, err := benchmarks.ScenarioByName(o.Scenario)
		if err != nil {
			return nil, err
		}
		policy = PolicyForScenario(scenario)
	}

	args := &policy.Algorithm
	if fs.Changed("population-size") {
		args.PopulationSize = o.PopulationSize
	}
	if fs.Changed("max-generations") {
		args.MaxGenerations = ptr.To(o.MaxGenerations)
	}
	if fs.Changed("mutation-rate") {
		args.MutationRate = ptr.To(o.MutationRate)
	}
	if fs.Changed("tournament-size") {
		args.TournamentSize = o.TournamentSize
	}
	if fs.Changed("seed") {
		args.Seed = ptr.To(o.Seed)
	}
	if fs.Changed("seed-strategy") {
		args.SeedStrategy = o.SeedStrategy
	}
	if fs.Changed("elitism") {
		args.Elitism = o.Elitism
	}
	if fs.Changed("parallel-evaluation") {
		args.ParallelEvaluation = o.ParallelEvaluation
	}
	if fs.Changed("crossover") {
		args.Crossover = o.Crossover
	}

	v1alpha1.SetDefaults_AllocationPolicy(policy)
	if err := v1alpha1.ValidateAllocationPolicy(policy); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	return policy, nil
}

// PolicyForScenario converts a built-in scenario into a defaulted policy.
func PolicyForScenario(s benchmarks.Scenario) *v1alpha1.AllocationPolicy {
	policy := &v1alpha1.AllocationPolicy{
		VMCount: int32(s.NumVMs),
	}
	for _, csp := range s.CSPs {
		policy.CSPs = append(policy.CSPs, v1alpha1.CSP{
			Name:        csp.Name,
			Cost:        csp.Cost,
			Reliability: csp.Reliability,
			Latency:     csp.Latency,
		})
	}
	v1alpha1.SetDefaults_AllocationPolicy(policy)
	return policy
}
