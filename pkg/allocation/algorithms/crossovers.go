package algorithms

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// CrossoverFunc recombines two equal-length assignment vectors into one child.
// The parents are never modified.
type CrossoverFunc func(parent1, parent2 []int, rng *rand.Rand) []int

// Crossover operator names accepted in configuration.
const (
	OnePoint = "OnePoint"
	TwoPoint = "TwoPoint"
	Uniform  = "Uniform"
	KPoint   = "KPoint"
	CSPAware = "CSPAware"

	// DefaultCrossoverPoints is the number of cut points of the KPoint operator.
	DefaultCrossoverPoints = 3
)

// ParseCrossover resolves a crossover operator by name. The empty name selects
// one-point crossover.
func ParseCrossover(name string) (CrossoverFunc, error) {
	switch name {
	case "", OnePoint:
		return OnePointCrossover, nil
	case TwoPoint:
		return TwoPointCrossover, nil
	case Uniform:
		return UniformCrossover, nil
	case KPoint:
		return NewKPointCrossover(DefaultCrossoverPoints), nil
	case CSPAware:
		return CSPAwareCrossover, nil
	}
	return nil, fmt.Errorf("unknown crossover %q", name)
}

// Standard Crossover Operators

// OnePointCrossover draws a cut point uniformly in [0, len) and splices the parents there
func OnePointCrossover(p1, p2 []int, rng *rand.Rand) []int {
	return OnePointCrossoverAt(p1, p2, rng.Intn(len(p1)))
}

// OnePointCrossoverAt builds a child whose genes [0, point) come from p1 and
// [point, len) from p2. Point 0 copies p2, point len copies p1.
func OnePointCrossoverAt(p1, p2 []int, point int) []int {
	child := make([]int, len(p1))
	copy(child[:point], p1[:point])
	copy(child[point:], p2[point:])
	return child
}

// TwoPointCrossover takes the segment between two random cut points from p2
func TwoPointCrossover(p1, p2 []int, rng *rand.Rand) []int {
	child := make([]int, len(p1))

	point1 := rng.Intn(len(p1))
	point2 := rng.Intn(len(p1))
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	for i := range p1 {
		if i < point1 || i >= point2 {
			child[i] = p1[i]
		} else {
			child[i] = p2[i]
		}
	}

	return child
}

// UniformCrossover picks each gene from either parent with equal probability
func UniformCrossover(p1, p2 []int, rng *rand.Rand) []int {
	child := make([]int, len(p1))

	for i := range p1 {
		if rng.Float64() < 0.5 {
			child[i] = p1[i]
		} else {
			child[i] = p2[i]
		}
	}

	return child
}

// KPointCrossover alternates between parents at k distinct random cut points.
// k is clamped to len-1.
func KPointCrossover(p1, p2 []int, k int, rng *rand.Rand) []int {
	child := make([]int, len(p1))
	if len(p1) < 2 || k < 1 {
		copy(child, p1)
		return child
	}
	if k > len(p1)-1 {
		k = len(p1) - 1
	}

	// Cut points live in [1, len).
	cut := make([]bool, len(p1))
	for placed := 0; placed < k; {
		point := 1 + rng.Intn(len(p1)-1)
		if !cut[point] {
			cut[point] = true
			placed++
		}
	}

	fromP2 := false
	for i := range p1 {
		if cut[i] {
			fromP2 = !fromP2
		}
		if fromP2 {
			child[i] = p2[i]
		} else {
			child[i] = p1[i]
		}
	}

	return child
}

// NewKPointCrossover binds k so KPointCrossover can be used as a CrossoverFunc.
func NewKPointCrossover(k int) CrossoverFunc {
	return func(p1, p2 []int, rng *rand.Rand) []int {
		return KPointCrossover(p1, p2, k, rng)
	}
}

// Allocation-Specific Crossover Operators

// CSPAwareCrossover keeps VMs that share a CSP in p1 together: each such group
// is inherited as a unit from either p1 or p2.
func CSPAwareCrossover(p1, p2 []int, rng *rand.Rand) []int {
	child := make([]int, len(p1))

	// Group VMs by their CSP in p1, in first-seen order so draws are reproducible.
	var order []int
	groups := make(map[int][]int)
	for vm, csp := range p1 {
		if _, ok := groups[csp]; !ok {
			order = append(order, csp)
		}
		groups[csp] = append(groups[csp], vm)
	}

	for _, csp := range order {
		src := p1
		if rng.Float64() >= 0.5 {
			src = p2
		}
		for _, vm := range groups[csp] {
			child[vm] = src[vm]
		}
	}

	return child
}
