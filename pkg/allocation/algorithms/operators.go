package algorithms

import (
	"golang.org/x/exp/rand"

	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
)

// TournamentSelect draws min(tournamentSize, len(population)) distinct members
// uniformly at random and returns the one with the lowest fitness. The first
// drawn member wins ties. The population slice is not reordered and the winner
// is returned by reference.
func TournamentSelect(population []*framework.Chromosome, tournamentSize int, rng *rand.Rand) *framework.Chromosome {
	n := len(population)
	k := tournamentSize
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}

	var best *framework.Chromosome
	for _, idx := range sampleIndices(n, k, rng) {
		contestant := population[idx]
		if best == nil || framework.ByFitness(contestant, best) < 0 {
			best = contestant
		}
	}

	return best
}

// sampleIndices returns k distinct indices from [0, n) using Floyd's algorithm.
func sampleIndices(n, k int, rng *rand.Rand) []int {
	chosen := make([]int, 0, k)
	for j := n - k; j < n; j++ {
		t := rng.Intn(j + 1)
		if containsInt(chosen, t) {
			t = j
		}
		chosen = append(chosen, t)
	}
	return chosen
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// UniformMutation replaces each gene, with probability rate, by a CSP index drawn
// uniformly from [0, numCSPs). The chromosome is modified in place.
func UniformMutation(c *framework.Chromosome, rate float64, numCSPs int, rng *rand.Rand) {
	for i := range c.Genes {
		if rng.Float64() < rate {
			c.SetGene(i, rng.Intn(numCSPs))
		}
	}
}
