// Package warmstart builds the generation-0 population for the allocation GA.
//
// The canonical seed spreads VMs as evenly as possible over the CSPs: the first
// numVMs%numCSPs providers take one extra VM and positions are filled in order.
// By default every member of the population is a clone of that seed, so the first
// generation has no diversity and variation only appears through crossover and
// mutation. SeedShuffle keeps the per-CSP load of the seed but permutes which VM
// goes where for every member but the first.
package warmstart

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
)

// SeedStrategy selects how the seed assignment is replicated into a population
type SeedStrategy string

const (
	// SeedClone copies the even split into every member.
	SeedClone SeedStrategy = "Clone"
	// SeedShuffle keeps member 0 canonical and permutes the genes of the others.
	SeedShuffle SeedStrategy = "Shuffle"
)

// ParseSeedStrategy accepts the strategy names used in policy files and flags.
func ParseSeedStrategy(s string) (SeedStrategy, error) {
	switch SeedStrategy(s) {
	case "", SeedClone:
		return SeedClone, nil
	case SeedShuffle:
		return SeedShuffle, nil
	}
	return "", fmt.Errorf("unknown seed strategy %q", s)
}

// EvenSplit returns the canonical evenly spread assignment of numVMs VMs over
// numCSPs CSPs. When numCSPs > numVMs only the first numVMs CSPs receive a VM.
func EvenSplit(numVMs, numCSPs int, rng *rand.Rand) []int {
	genes := make([]int, numVMs)
	if numVMs == 0 || numCSPs == 0 {
		return genes
	}

	perCSP := numVMs / numCSPs
	remainder := numVMs % numCSPs

	vmIdx := 0
	for csp := 0; csp < numCSPs; csp++ {
		count := perCSP
		if csp < remainder {
			count++
		}
		for j := 0; j < count; j++ {
			genes[vmIdx%numVMs] = csp
			vmIdx++
		}
	}

	// The counts above always sum to numVMs, so this fallback only runs if that
	// arithmetic is ever changed.
	if vmIdx < numVMs {
		trailing := make([]int, 0, numVMs)
		for i := numCSPs; i < numVMs; i++ {
			trailing = append(trailing, i)
		}
		rng.Shuffle(len(trailing), func(i, j int) {
			trailing[i], trailing[j] = trailing[j], trailing[i]
		})
		for i, k := vmIdx, 0; i < numVMs && k < len(trailing); i, k = i+1, k+1 {
			genes[i] = trailing[k] % numCSPs
		}
	}

	return genes
}

// Population replicates genes into size chromosomes according to strategy.
// Every chromosome owns its own gene slice.
func Population(genes []int, size int, strategy SeedStrategy, rng *rand.Rand) []*framework.Chromosome {
	population := make([]*framework.Chromosome, size)
	for i := range population {
		clone := make([]int, len(genes))
		copy(clone, genes)
		if strategy == SeedShuffle && i > 0 {
			rng.Shuffle(len(clone), func(a, b int) {
				clone[a], clone[b] = clone[b], clone[a]
			})
		}
		population[i] = framework.NewChromosome(clone)
	}
	return population
}

// Loads counts how many VMs each CSP receives in an assignment.
func Loads(genes []int, numCSPs int) []int {
	loads := make([]int, numCSPs)
	for _, csp := range genes {
		loads[csp]++
	}
	return loads
}
