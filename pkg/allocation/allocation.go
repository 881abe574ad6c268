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

package allocation

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"

	"github.com/cspalloc/vmallocator/pkg/allocation/algorithms"
	"github.com/cspalloc/vmallocator/pkg/allocation/constraints"
	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
	"github.com/cspalloc/vmallocator/pkg/allocation/objectives/weighted"
	"github.com/cspalloc/vmallocator/pkg/allocation/warmstart"
)

const Name = "VMAllocation"

// ErrInsufficientCapacity is returned when MaxVMsPerCSP leaves no room for every VM.
var ErrInsufficientCapacity = errors.New("maxVMsPerCSP is too small to host every VM")

// Args describes one allocation run.
type Args struct {
	// Name labels logs, metrics and traces. Defaults to Name.
	Name string
	CSPs []framework.CSPInfo
	VMs  []framework.VMInfo
	// Weights of the objective. The zero value selects weighted.DefaultWeights.
	Weights weighted.Weights
	// MaxVMsPerCSP caps how many VMs one CSP may host. Zero means no cap.
	MaxVMsPerCSP int
	SeedStrategy warmstart.SeedStrategy
	Algorithm    algorithms.Config
}

// Problem is the VM-to-CSP assignment problem solved by the genetic algorithm.
type Problem struct {
	name         string
	csps         []framework.CSPInfo
	numVMs       int
	weights      weighted.Weights
	maxVMsPerCSP int
	seedStrategy warmstart.SeedStrategy
}

var _ framework.Problem = &Problem{}

// NewProblem builds the problem for the given providers and VM count.
func NewProblem(name string, csps []framework.CSPInfo, numVMs int, weights weighted.Weights, maxVMsPerCSP int, strategy warmstart.SeedStrategy) *Problem {
	if weights == (weighted.Weights{}) {
		weights = weighted.DefaultWeights()
	}
	if strategy == "" {
		strategy = warmstart.SeedClone
	}
	return &Problem{
		name:         name,
		csps:         csps,
		numVMs:       numVMs,
		weights:      weights,
		maxVMsPerCSP: maxVMsPerCSP,
		seedStrategy: strategy,
	}
}

func (p *Problem) Name() string { return p.name }

func (p *Problem) NumVMs() int { return p.numVMs }

func (p *Problem) NumCSPs() int { return len(p.csps) }

func (p *Problem) Objective() framework.ObjectiveFunc {
	return weighted.Objective(p.csps, p.weights)
}

func (p *Problem) Constraints() []framework.Constraint {
	if p.maxVMsPerCSP <= 0 {
		return nil
	}
	return []framework.Constraint{constraints.MaxVMsPerCSP(len(p.csps), p.maxVMsPerCSP)}
}

// Initialize seeds the population from the even split.
func (p *Problem) Initialize(popSize int, rng *rand.Rand) []*framework.Chromosome {
	genes := warmstart.EvenSplit(p.numVMs, len(p.csps), rng)
	return warmstart.Population(genes, popSize, p.seedStrategy, rng)
}

// Allocator runs the genetic algorithm on one Problem.
type Allocator struct {
	logger  klog.Logger
	args    *Args
	problem *Problem
	ga      *algorithms.GeneticAlgorithm
}

// New validates args and prepares an allocator.
func New(ctx context.Context, args *Args) (*Allocator, error) {
	name := args.Name
	if name == "" {
		name = Name
	}
	logger := klog.FromContext(ctx).WithValues("allocator", name)

	if args.MaxVMsPerCSP > 0 && args.MaxVMsPerCSP*len(args.CSPs) < len(args.VMs) {
		return nil, fmt.Errorf("%q: %w: %d CSPs x %d < %d VMs",
			name, ErrInsufficientCapacity, len(args.CSPs), args.MaxVMsPerCSP, len(args.VMs))
	}

	problem := NewProblem(name, args.CSPs, len(args.VMs), args.Weights, args.MaxVMsPerCSP, args.SeedStrategy)
	ga, err := algorithms.NewGeneticAlgorithm(args.Algorithm, problem)
	if err != nil {
		return nil, fmt.Errorf("failed to create genetic algorithm for %q: %w", name, err)
	}

	return &Allocator{
		logger:  logger,
		args:    args,
		problem: problem,
		ga:      ga,
	}, nil
}

// Problem returns the problem the allocator solves.
func (a *Allocator) Problem() *Problem {
	return a.problem
}

// Allocate runs the full generation budget and returns the winning assignment.
func (a *Allocator) Allocate(ctx context.Context) *Result {
	ctx = klog.NewContext(ctx, a.logger)
	a.logger.V(1).Info("Allocating VMs", "vms", len(a.args.VMs), "csps", len(a.args.CSPs))

	run := a.ga.Run(ctx)

	result := &Result{
		CSPs:        a.args.CSPs,
		VMs:         a.args.VMs,
		Assignment:  run.Best.Genes,
		Fitness:     run.Best.Fitness,
		Totals:      weighted.Totals(run.Best.Genes, a.args.CSPs),
		SeedFitness: run.Seed.Fitness,
		Run:         run,
	}
	a.logger.V(1).Info("Allocation complete", "fitness", result.Fitness, "loads", result.Loads())
	return result
}
