package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/cspalloc/vmallocator/pkg/allocation/constraints"
	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
	"github.com/cspalloc/vmallocator/pkg/metrics"
	"github.com/cspalloc/vmallocator/pkg/tracing"
)

const (
	Name = "GA"

	DefaultPopulationSize = 100
	DefaultMaxGenerations = 1000
	DefaultMutationRate   = 0.1
	DefaultTournamentSize = 5

	// progressInterval is how many generations pass between V(2) progress lines.
	progressInterval = 100
)

var (
	ErrNoVMs         = errors.New("at least one VM is required")
	ErrNoCSPs        = errors.New("at least one CSP is required")
	ErrInvalidConfig = errors.New("invalid genetic algorithm configuration")
)

// Phase is the state of the evolution loop
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseEvaluating
	PhaseBreeding
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhaseEvaluating:
		return "Evaluating"
	case PhaseBreeding:
		return "Breeding"
	case PhaseTerminated:
		return "Terminated"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Config holds configuration parameters for the genetic algorithm
type Config struct {
	PopulationSize int
	MaxGenerations int
	MutationRate   float64
	TournamentSize int
	// Elitism is the number of best chromosomes copied unchanged into the next
	// generation. Zero gives wholesale replacement.
	Elitism int
	Seed    uint64
	// ParallelEvaluation scores chromosomes concurrently. Scoring draws no random
	// numbers, so results match the sequential path for the same seed.
	ParallelEvaluation bool
	// Crossover defaults to OnePointCrossover when nil.
	Crossover CrossoverFunc
}

// DefaultConfig returns the reference parameters
func DefaultConfig() Config {
	return Config{
		PopulationSize: DefaultPopulationSize,
		MaxGenerations: DefaultMaxGenerations,
		MutationRate:   DefaultMutationRate,
		TournamentSize: DefaultTournamentSize,
	}
}

// Validate checks the configuration independently of any problem.
func (c Config) Validate() error {
	switch {
	case c.PopulationSize < 1:
		return fmt.Errorf("%w: population size must be positive, got %d", ErrInvalidConfig, c.PopulationSize)
	case c.MaxGenerations < 0:
		return fmt.Errorf("%w: max generations must not be negative, got %d", ErrInvalidConfig, c.MaxGenerations)
	case c.MutationRate < 0 || c.MutationRate > 1 || math.IsNaN(c.MutationRate):
		return fmt.Errorf("%w: mutation rate must be between 0 and 1, got %v", ErrInvalidConfig, c.MutationRate)
	case c.TournamentSize < 1 || c.TournamentSize > c.PopulationSize:
		return fmt.Errorf("%w: tournament size must be between 1 and population size %d, got %d",
			ErrInvalidConfig, c.PopulationSize, c.TournamentSize)
	case c.Elitism < 0 || c.Elitism >= c.PopulationSize:
		return fmt.Errorf("%w: elitism must be between 0 and population size - 1, got %d", ErrInvalidConfig, c.Elitism)
	}
	return nil
}

// GenerationStats summarizes the fitness of one evaluated generation
type GenerationStats struct {
	Generation int
	Best       float64
	Mean       float64
	StdDev     float64
	Worst      float64
	Unique     int
}

// Result is the outcome of a run
type Result struct {
	// Best is the lowest-fitness member of the final population.
	Best *framework.Chromosome
	// BestEver is the lowest-fitness chromosome seen in any generation. Without
	// elitism it may be better than Best.
	BestEver *framework.Chromosome
	// Seed is the best member of generation 0, before any breeding.
	Seed        *framework.Chromosome
	History     []GenerationStats
	Generations int
	Elapsed     time.Duration
}

// GeneticAlgorithm is a single-population generational GA over integer assignments
type GeneticAlgorithm struct {
	config      Config
	problem     framework.Problem
	objective   framework.ObjectiveFunc
	constraints []framework.Constraint
	crossover   CrossoverFunc

	phase Phase
}

// NewGeneticAlgorithm validates config and problem and returns a ready instance
func NewGeneticAlgorithm(config Config, problem framework.Problem) (*GeneticAlgorithm, error) {
	if problem.NumVMs() < 1 {
		return nil, fmt.Errorf("problem %q: %w", problem.Name(), ErrNoVMs)
	}
	if problem.NumCSPs() < 1 {
		return nil, fmt.Errorf("problem %q: %w", problem.Name(), ErrNoCSPs)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	crossover := config.Crossover
	if crossover == nil {
		crossover = OnePointCrossover
	}

	return &GeneticAlgorithm{
		config:    config,
		problem:   problem,
		objective: problem.Objective(),
		constraints: append(
			[]framework.Constraint{constraints.AssignmentConstraint(problem.NumVMs(), problem.NumCSPs())},
			problem.Constraints()...,
		),
		crossover: crossover,
	}, nil
}

// Phase returns the current loop state.
func (g *GeneticAlgorithm) Phase() Phase {
	return g.phase
}

// Run executes the full generation budget and returns the best chromosome of the
// final population. ctx carries the logger and trace span only; the run always
// completes every generation.
func (g *GeneticAlgorithm) Run(ctx context.Context) *Result {
	startTime := time.Now()
	name := g.problem.Name()

	ctx, span := tracing.Tracer().Start(ctx, "GeneticAlgorithm.Run", trace.WithAttributes(
		attribute.String("problem", name),
		attribute.Int("vms", g.problem.NumVMs()),
		attribute.Int("csps", g.problem.NumCSPs()),
		attribute.Int("populationSize", g.config.PopulationSize),
		attribute.Int("maxGenerations", g.config.MaxGenerations),
	))
	defer span.End()

	logger := klog.FromContext(ctx).WithValues("algorithm", Name, "problem", name)
	logger.Info("Starting evolution",
		"populationSize", g.config.PopulationSize,
		"generations", g.config.MaxGenerations,
		"mutationRate", g.config.MutationRate,
		"tournamentSize", g.config.TournamentSize,
		"elitism", g.config.Elitism,
		"parallelEvaluation", g.config.ParallelEvaluation,
		"seed", g.config.Seed)

	rng := rand.New(rand.NewSource(g.config.Seed))

	g.setPhase(logger, PhaseInitializing)
	population := g.problem.Initialize(g.config.PopulationSize, rng)

	result := &Result{
		History: make([]GenerationStats, 0, g.config.MaxGenerations+1),
	}

	for gen := 0; gen < g.config.MaxGenerations; gen++ {
		g.setPhase(logger, PhaseEvaluating)
		evaluated := g.evaluate(ctx, population)
		stats := g.record(result, gen, population, evaluated)

		if gen%progressInterval == 0 {
			logger.V(2).Info("Generation evaluated",
				"generation", gen, "best", stats.Best, "mean", stats.Mean, "unique", stats.Unique)
		}

		g.setPhase(logger, PhaseBreeding)
		population = g.breed(population, rng)
	}

	// The last bred generation has not been scored yet.
	g.setPhase(logger, PhaseEvaluating)
	evaluated := g.evaluate(ctx, population)
	g.record(result, g.config.MaxGenerations, population, evaluated)

	framework.SortByFitness(population)
	result.Best = population[0]
	result.Generations = g.config.MaxGenerations
	result.Elapsed = time.Since(startTime)
	g.setPhase(logger, PhaseTerminated)

	metrics.ObserveRun(name, result.Elapsed.Seconds())
	span.SetAttributes(
		attribute.Float64("bestFitness", result.Best.Fitness),
		attribute.Float64("seedFitness", result.Seed.Fitness),
	)
	logger.Info("Evolution complete",
		"bestFitness", result.Best.Fitness,
		"bestEverFitness", result.BestEver.Fitness,
		"seedFitness", result.Seed.Fitness,
		"assignment", result.Best.Genes,
		"elapsed", result.Elapsed)
	if g.config.MaxGenerations > 0 {
		logger.V(2).Info("Timing", "perGeneration", result.Elapsed/time.Duration(g.config.MaxGenerations))
	}

	return result
}

func (g *GeneticAlgorithm) setPhase(logger klog.Logger, phase Phase) {
	if g.phase == phase {
		return
	}
	logger.V(6).Info("Phase transition", "from", g.phase, "to", phase)
	g.phase = phase
}

// record appends generation statistics and tracks the seed and best-ever chromosomes.
func (g *GeneticAlgorithm) record(result *Result, gen int, population []*framework.Chromosome, evaluated int) GenerationStats {
	stats := Summarize(gen, population)
	result.History = append(result.History, stats)

	best := Best(population)
	if result.Seed == nil {
		result.Seed = best.Clone()
	}
	if result.BestEver == nil || framework.ByFitness(best, result.BestEver) < 0 {
		result.BestEver = best.Clone()
	}

	metrics.ObserveGeneration(g.problem.Name(), evaluated, stats.Best, stats.Mean)
	return stats
}

// Evaluate scores a single chromosome. Assignments violating a constraint get
// +Inf so selection drives them out.
func (g *GeneticAlgorithm) Evaluate(c *framework.Chromosome) {
	if !constraints.Satisfied(c.Genes, g.constraints) {
		c.SetFitness(math.Inf(1))
		return
	}
	c.SetFitness(g.objective(c.Genes))
}

// evaluate scores every unscored chromosome and returns how many were scored.
func (g *GeneticAlgorithm) evaluate(ctx context.Context, population []*framework.Chromosome) int {
	pending := make([]*framework.Chromosome, 0, len(population))
	for _, c := range population {
		if !c.Evaluated() {
			pending = append(pending, c)
		}
	}

	if !g.config.ParallelEvaluation {
		for _, c := range pending {
			g.Evaluate(c)
		}
		return len(pending)
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for _, c := range pending {
		eg.Go(func() error {
			g.Evaluate(c)
			return nil
		})
	}
	// Evaluate never fails.
	_ = eg.Wait()
	return len(pending)
}

// breed produces the next generation from an evaluated population.
func (g *GeneticAlgorithm) breed(population []*framework.Chromosome, rng *rand.Rand) []*framework.Chromosome {
	next := make([]*framework.Chromosome, 0, g.config.PopulationSize)

	if g.config.Elitism > 0 {
		ranked := slices.Clone(population)
		framework.SortByFitness(ranked)
		for _, elite := range ranked[:min(g.config.Elitism, len(ranked))] {
			next = append(next, elite.Clone())
		}
	}

	numCSPs := g.problem.NumCSPs()
	for len(next) < g.config.PopulationSize {
		parent1 := TournamentSelect(population, g.config.TournamentSize, rng)
		parent2 := TournamentSelect(population, g.config.TournamentSize, rng)

		child := framework.NewChromosome(g.crossover(parent1.Genes, parent2.Genes, rng))
		UniformMutation(child, g.config.MutationRate, numCSPs, rng)

		next = append(next, child)
	}

	return next
}
