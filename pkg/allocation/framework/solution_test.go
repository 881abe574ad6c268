package framework_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
)

func TestChromosomeFitnessState(t *testing.T) {
	c := framework.NewChromosome([]int{0, 1, 2})
	if c.Evaluated() {
		t.Fatal("new chromosome should be unscored")
	}

	c.SetFitness(42)
	if !c.Evaluated() {
		t.Fatal("expected chromosome to be scored after SetFitness")
	}

	// Writing the same value keeps the score.
	c.SetGene(1, 1)
	if !c.Evaluated() {
		t.Error("no-op gene write should not invalidate fitness")
	}

	c.SetGene(1, 0)
	if c.Evaluated() {
		t.Error("gene change should invalidate fitness")
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := framework.NewChromosome([]int{3, 1, 4})
	c.SetFitness(1.5)

	clone := c.Clone()
	clone.Genes[0] = 0

	if c.Genes[0] != 3 {
		t.Errorf("mutating clone changed original: %v", c.Genes)
	}
	if !clone.Evaluated() || clone.Fitness != 1.5 {
		t.Errorf("clone lost fitness state: %+v", clone)
	}
}

func TestSortByFitness(t *testing.T) {
	mk := func(key int, f float64) *framework.Chromosome {
		c := framework.NewChromosome([]int{key})
		c.SetFitness(f)
		return c
	}
	population := []*framework.Chromosome{mk(0, 3), mk(1, 1), mk(2, 2), mk(3, 1)}

	framework.SortByFitness(population)

	got := make([]int, len(population))
	for i, c := range population {
		got[i] = c.Genes[0]
	}
	// 1 and 3 tie; stable order keeps 1 first.
	if diff := cmp.Diff([]int{1, 3, 2, 0}, got); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestKeyAndNewVMs(t *testing.T) {
	if got := framework.NewChromosome([]int{0, 12, 3}).Key(); got != "0,12,3" {
		t.Errorf("Key() = %q", got)
	}

	vms := framework.NewVMs(3)
	want := []framework.VMInfo{{Idx: 0, Name: "VM1"}, {Idx: 1, Name: "VM2"}, {Idx: 2, Name: "VM3"}}
	if diff := cmp.Diff(want, vms); diff != "" {
		t.Errorf("NewVMs mismatch (-want +got):\n%s", diff)
	}
}
