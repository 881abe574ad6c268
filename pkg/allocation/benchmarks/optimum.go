package benchmarks

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
)

// MaxEnumeration bounds how many load vectors Optimum is willing to visit.
const MaxEnumeration = 1_000_000

// Optimum finds the exact minimum of objective for numVMs VMs over numCSPs
// CSPs. The weighted objective only depends on how many VMs each CSP hosts,
// so it enumerates load vectors (stars and bars) instead of assignments.
// ok is false when there are more than MaxEnumeration load vectors.
func Optimum(numVMs, numCSPs int, objective framework.ObjectiveFunc) (best float64, loads []int, ok bool) {
	if numVMs < 1 || numCSPs < 1 {
		return 0, nil, false
	}
	slots, bars := numVMs+numCSPs-1, numCSPs-1
	if combin.GeneralizedBinomial(float64(slots), float64(bars)) > MaxEnumeration {
		return 0, nil, false
	}

	best = math.Inf(1)
	current := make([]int, numCSPs)
	genes := make([]int, numVMs)
	positions := make([]int, bars)

	gen := combin.NewCombinationGenerator(slots, bars)
	for gen.Next() {
		gen.Combination(positions)
		prev := -1
		for j, p := range positions {
			current[j] = p - prev - 1
			prev = p
		}
		current[numCSPs-1] = slots - prev - 1

		fill(genes, current)
		if f := objective(genes); f < best {
			best = f
			loads = append(loads[:0], current...)
		}
	}
	return best, loads, true
}

// fill writes the sequential assignment with the given per-CSP loads.
func fill(genes, loads []int) {
	i := 0
	for csp, n := range loads {
		for range n {
			genes[i] = csp
			i++
		}
	}
}
