// Package weighted implements the scalarized allocation objective: a weighted sum
// of total cost, unreliability and total latency over every VM's assigned CSP.
package weighted

import (
	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
)

// Weights contains the coefficient of each objective term
type Weights struct {
	Cost          float64
	Unreliability float64
	Latency       float64
}

// DefaultWeights returns the reference weighting 0.3 / 0.2 / 0.5
func DefaultWeights() Weights {
	return Weights{
		Cost:          0.3,
		Unreliability: 0.2,
		Latency:       0.5,
	}
}

// Breakdown contains the aggregates an assignment produces
type Breakdown struct {
	TotalCost        float64
	TotalReliability float64 // product of the reliabilities of every assigned CSP
	TotalLatency     float64
}

// Totals accumulates cost, reliability product and latency for an assignment.
// Genes must be valid CSP indices.
func Totals(genes []int, csps []framework.CSPInfo) Breakdown {
	b := Breakdown{TotalReliability: 1}
	for _, cspIdx := range genes {
		csp := csps[cspIdx]
		b.TotalCost += csp.Cost
		b.TotalReliability *= csp.Reliability
		b.TotalLatency += csp.Latency
	}
	return b
}

// Score combines a breakdown into the scalar fitness. Lower is better.
func (w Weights) Score(b Breakdown) float64 {
	return w.Cost*b.TotalCost + w.Unreliability*(1-b.TotalReliability) + w.Latency*b.TotalLatency
}

// Objective creates the fitness function for the given CSP list
func Objective(csps []framework.CSPInfo, weights Weights) framework.ObjectiveFunc {
	return func(genes []int) float64 {
		return weights.Score(Totals(genes, csps))
	}
}

// Evaluate scores a chromosome in place.
func Evaluate(c *framework.Chromosome, objective framework.ObjectiveFunc) {
	c.SetFitness(objective(c.Genes))
}
