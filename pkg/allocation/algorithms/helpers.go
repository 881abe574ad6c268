package algorithms

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
)

// Best returns the lowest-fitness chromosome without reordering the population.
// The earliest member wins ties.
func Best(population []*framework.Chromosome) *framework.Chromosome {
	if len(population) == 0 {
		return nil
	}
	best := population[0]
	for _, c := range population[1:] {
		if framework.ByFitness(c, best) < 0 {
			best = c
		}
	}
	return best
}

// Summarize computes fitness statistics of an evaluated population
func Summarize(gen int, population []*framework.Chromosome) GenerationStats {
	stats := GenerationStats{Generation: gen}
	if len(population) == 0 {
		return stats
	}

	fitness := make([]float64, len(population))
	unique := make(map[string]struct{}, len(population))
	for i, c := range population {
		fitness[i] = c.Fitness
		unique[c.Key()] = struct{}{}
	}

	stats.Best = floats.Min(fitness)
	stats.Worst = floats.Max(fitness)
	stats.Mean, stats.StdDev = stat.PopMeanStdDev(fitness, nil)
	stats.Unique = len(unique)
	return stats
}
