package algorithms_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"
	"k8s.io/klog/v2/ktesting"

	"github.com/cspalloc/vmallocator/pkg/allocation/algorithms"
	"github.com/cspalloc/vmallocator/pkg/allocation/constraints"
	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
	"github.com/cspalloc/vmallocator/pkg/allocation/objectives/weighted"
	"github.com/cspalloc/vmallocator/pkg/allocation/warmstart"
)

// testProblem wires the weighted objective and the even-split seed together.
type testProblem struct {
	name        string
	csps        []framework.CSPInfo
	numVMs      int
	strategy    warmstart.SeedStrategy
	constraints []framework.Constraint
}

func (p *testProblem) Name() string { return p.name }
func (p *testProblem) NumVMs() int { return p.numVMs }
func (p *testProblem) NumCSPs() int { return len(p.csps) }
func (p *testProblem) Objective() framework.ObjectiveFunc {
	return weighted.Objective(p.csps, weighted.DefaultWeights())
}
func (p *testProblem) Constraints() []framework.Constraint { return p.constraints }
func (p *testProblem) Initialize(popSize int, rng *rand.Rand) []*framework.Chromosome {
	genes := warmstart.EvenSplit(p.numVMs, len(p.csps), rng)
	return warmstart.Population(genes, popSize, p.strategy, rng)
}

func sampleProblem() *testProblem {
	return &testProblem{
		name: "sample",
		csps: []framework.CSPInfo{
			{Idx: 0, Name: "CSP1", Cost: 100, Reliability: 0.9, Latency: 10},
			{Idx: 1, Name: "CSP2", Cost: 120, Reliability: 0.95, Latency: 8},
			{Idx: 2, Name: "CSP3", Cost: 150, Reliability: 0.85, Latency: 12},
			{Idx: 3, Name: "CSP4", Cost: 110, Reliability: 0.92, Latency: 9},
			{Idx: 4, Name: "CSP5", Cost: 130, Reliability: 0.88, Latency: 11},
		},
		numVMs:   10,
		strategy: warmstart.SeedClone,
	}
}

func checkGenes(t *testing.T, c *framework.Chromosome, numVMs, numCSPs int) {
	t.Helper()
	if !constraints.AssignmentConstraint(numVMs, numCSPs)(c.Genes) {
		t.Fatalf("invalid assignment %v for %d VMs over %d CSPs", c.Genes, numVMs, numCSPs)
	}
}

func TestGeneticAlgorithmSampleScenario(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	problem := sampleProblem()

	config := algorithms.DefaultConfig()
	config.Seed = 42

	ga, err := algorithms.NewGeneticAlgorithm(config, problem)
	if err != nil {
		t.Fatalf("NewGeneticAlgorithm: %v", err)
	}

	result := ga.Run(ctx)

	checkGenes(t, result.Best, problem.numVMs, problem.NumCSPs())

	// The seed is the even split scored directly.
	seed := warmstart.EvenSplit(10, 5, rand.New(rand.NewSource(0)))
	seedFitness := problem.Objective()(seed)
	if math.Abs(result.Seed.Fitness-seedFitness) > 1e-9 {
		t.Errorf("seed fitness %v, want %v", result.Seed.Fitness, seedFitness)
	}
	if result.Best.Fitness > seedFitness {
		t.Errorf("optimization regressed: best %v > seed %v", result.Best.Fitness, seedFitness)
	}
	if result.BestEver.Fitness > result.Best.Fitness {
		t.Errorf("best ever %v worse than final best %v", result.BestEver.Fitness, result.Best.Fitness)
	}

	// Placing every VM on CSP1 is optimal: 0.3*1000 + 0.2*(1-0.9^10) + 0.5*100.
	optimum := 350 + 0.2*(1-math.Pow(0.9, 10))
	if result.Best.Fitness < optimum-1e-9 {
		t.Errorf("best %v is below the known optimum %v", result.Best.Fitness, optimum)
	}
	t.Logf("seed=%.4f best=%.4f bestEver=%.4f optimum=%.4f", seedFitness, result.Best.Fitness, result.BestEver.Fitness, optimum)

	if got, want := len(result.History), config.MaxGenerations+1; got != want {
		t.Errorf("history length %d, want %d", got, want)
	}
	if result.History[0].Unique != 1 {
		t.Errorf("generation 0 should be identical clones, got %d unique", result.History[0].Unique)
	}
	if ga.Phase() != algorithms.PhaseTerminated {
		t.Errorf("phase after run = %v, want Terminated", ga.Phase())
	}
}

func TestGeneticAlgorithmDeterministic(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	config := algorithms.Config{
		PopulationSize: 30,
		MaxGenerations: 50,
		MutationRate:   0.1,
		TournamentSize: 5,
		Seed:           7,
	}

	run := func(parallel bool) *algorithms.Result {
		c := config
		c.ParallelEvaluation = parallel
		ga, err := algorithms.NewGeneticAlgorithm(c, sampleProblem())
		if err != nil {
			t.Fatalf("NewGeneticAlgorithm: %v", err)
		}
		return ga.Run(ctx)
	}

	first := run(false)
	second := run(false)
	parallel := run(true)

	if diff := cmp.Diff(first.Best.Genes, second.Best.Genes); diff != "" {
		t.Errorf("same seed gave different results (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.History, parallel.History); diff != "" {
		t.Errorf("parallel evaluation changed the run (-sequential +parallel):\n%s", diff)
	}
}

func TestGeneticAlgorithmElitism(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	config := algorithms.Config{
		PopulationSize: 20,
		MaxGenerations: 100,
		MutationRate:   0.3,
		TournamentSize: 3,
		Elitism:        1,
		Seed:           3,
	}
	problem := sampleProblem()
	problem.strategy = warmstart.SeedShuffle

	ga, err := algorithms.NewGeneticAlgorithm(config, problem)
	if err != nil {
		t.Fatalf("NewGeneticAlgorithm: %v", err)
	}
	result := ga.Run(ctx)

	for i := 1; i < len(result.History); i++ {
		if result.History[i].Best > result.History[i-1].Best {
			t.Fatalf("generation %d best %v regressed from %v", i, result.History[i].Best, result.History[i-1].Best)
		}
	}
	if result.Best.Fitness != result.BestEver.Fitness {
		t.Errorf("with elitism final best %v should equal best ever %v", result.Best.Fitness, result.BestEver.Fitness)
	}
}

func TestGeneticAlgorithmZeroGenerations(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	config := algorithms.DefaultConfig()
	config.MaxGenerations = 0

	ga, err := algorithms.NewGeneticAlgorithm(config, sampleProblem())
	if err != nil {
		t.Fatalf("NewGeneticAlgorithm: %v", err)
	}
	result := ga.Run(ctx)

	if diff := cmp.Diff([]int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}, result.Best.Genes); diff != "" {
		t.Errorf("zero generations should return the seed (-want +got):\n%s", diff)
	}
	if len(result.History) != 1 {
		t.Errorf("history length %d, want 1", len(result.History))
	}
}

func TestGeneticAlgorithmPenalizesInfeasible(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)

	problem := sampleProblem()
	// CSP1 is the cheapest; capping it forces the optimizer to spread load.
	problem.constraints = []framework.Constraint{constraints.MaxVMsPerCSP(problem.NumCSPs(), 3)}

	config := algorithms.Config{
		PopulationSize: 50,
		MaxGenerations: 200,
		MutationRate:   0.1,
		TournamentSize: 5,
		Elitism:        2,
		Seed:           11,
	}
	ga, err := algorithms.NewGeneticAlgorithm(config, problem)
	if err != nil {
		t.Fatalf("NewGeneticAlgorithm: %v", err)
	}
	result := ga.Run(ctx)

	if math.IsInf(result.Best.Fitness, 1) {
		t.Fatal("best solution is infeasible")
	}
	if !problem.constraints[0](result.Best.Genes) {
		t.Errorf("best solution %v violates the capacity limit", result.Best.Genes)
	}

	infeasible := framework.NewChromosome([]int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	ga.Evaluate(infeasible)
	if !math.IsInf(infeasible.Fitness, 1) {
		t.Errorf("expected +Inf for infeasible assignment, got %v", infeasible.Fitness)
	}
}

func TestNewGeneticAlgorithmErrors(t *testing.T) {
	noVMs := sampleProblem()
	noVMs.numVMs = 0
	noCSPs := sampleProblem()
	noCSPs.csps = nil

	mutate := func(f func(*algorithms.Config)) algorithms.Config {
		c := algorithms.DefaultConfig()
		f(&c)
		return c
	}

	tests := []struct {
		name    string
		problem *testProblem
		config  algorithms.Config
		wantErr error
	}{
		{name: "NoVMs", problem: noVMs, config: algorithms.DefaultConfig(), wantErr: algorithms.ErrNoVMs},
		{name: "NoCSPs", problem: noCSPs, config: algorithms.DefaultConfig(), wantErr: algorithms.ErrNoCSPs},
		{name: "EmptyPopulation", problem: sampleProblem(), config: mutate(func(c *algorithms.Config) { c.PopulationSize = 0 }), wantErr: algorithms.ErrInvalidConfig},
		{name: "NegativeGenerations", problem: sampleProblem(), config: mutate(func(c *algorithms.Config) { c.MaxGenerations = -1 }), wantErr: algorithms.ErrInvalidConfig},
		{name: "MutationRateAboveOne", problem: sampleProblem(), config: mutate(func(c *algorithms.Config) { c.MutationRate = 1.5 }), wantErr: algorithms.ErrInvalidConfig},
		{name: "TournamentLargerThanPopulation", problem: sampleProblem(), config: mutate(func(c *algorithms.Config) { c.TournamentSize = 101 }), wantErr: algorithms.ErrInvalidConfig},
		{name: "ElitismWholePopulation", problem: sampleProblem(), config: mutate(func(c *algorithms.Config) { c.Elitism = 100 }), wantErr: algorithms.ErrInvalidConfig},
		{name: "Valid", problem: sampleProblem(), config: algorithms.DefaultConfig()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := algorithms.NewGeneticAlgorithm(tt.config, tt.problem)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
