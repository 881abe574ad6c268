package framework

import (
	"cmp"
	"slices"
	"strconv"

	"golang.org/x/exp/rand"
)

// ObjectiveFunc maps an assignment vector to a scalar. Lower is better.
type ObjectiveFunc func(genes []int) float64

// Constraint reports whether an assignment vector is admissible.
type Constraint func(genes []int) bool

// Problem describes one allocation instance as seen by the optimizer.
type Problem interface {
	Name() string
	NumVMs() int
	NumCSPs() int
	Objective() ObjectiveFunc
	Constraints() []Constraint
	// Initialize returns popSize chromosomes for generation 0.
	Initialize(popSize int, rng *rand.Rand) []*Chromosome
}

// Chromosome is a candidate assignment: Genes[i] is the CSP index of VM i.
// Fitness is only meaningful while Evaluated reports true.
type Chromosome struct {
	Genes   []int
	Fitness float64

	evaluated bool
}

// NewChromosome wraps genes without copying them. The result is unscored.
func NewChromosome(genes []int) *Chromosome {
	return &Chromosome{Genes: genes}
}

// Clone returns a deep copy, including the fitness state.
func (c *Chromosome) Clone() *Chromosome {
	return &Chromosome{
		Genes:     slices.Clone(c.Genes),
		Fitness:   c.Fitness,
		evaluated: c.evaluated,
	}
}

// SetGene replaces one gene and invalidates the cached fitness.
func (c *Chromosome) SetGene(i, csp int) {
	if c.Genes[i] == csp {
		return
	}
	c.Genes[i] = csp
	c.evaluated = false
}

// SetFitness stores a freshly computed fitness.
func (c *Chromosome) SetFitness(f float64) {
	c.Fitness = f
	c.evaluated = true
}

// Evaluated reports whether Fitness reflects the current genes.
func (c *Chromosome) Evaluated() bool {
	return c.evaluated
}

// Key returns a string usable to detect duplicate assignments.
func (c *Chromosome) Key() string {
	b := make([]byte, 0, len(c.Genes)*3)
	for i, g := range c.Genes {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(g), 10)
	}
	return string(b)
}

// ByFitness orders chromosomes ascending by fitness.
func ByFitness(a, b *Chromosome) int {
	return cmp.Compare(a.Fitness, b.Fitness)
}

// SortByFitness sorts in place, best first. Equal fitness keeps the input order.
func SortByFitness(population []*Chromosome) {
	slices.SortStableFunc(population, ByFitness)
}

func vmName(i int) string {
	return "VM" + strconv.Itoa(i+1)
}
