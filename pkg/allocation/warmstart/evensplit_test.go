package warmstart_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"

	"github.com/cspalloc/vmallocator/pkg/allocation/warmstart"
)

func TestEvenSplit(t *testing.T) {
	tests := []struct {
		name      string
		numVMs    int
		numCSPs   int
		want      []int
		wantLoads []int
	}{
		{
			name:      "Sample 10 VMs over 5 CSPs",
			numVMs:    10,
			numCSPs:   5,
			want:      []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4},
			wantLoads: []int{2, 2, 2, 2, 2},
		},
		{
			name:      "Remainder goes to leading CSPs",
			numVMs:    7,
			numCSPs:   3,
			want:      []int{0, 0, 0, 1, 1, 2, 2},
			wantLoads: []int{3, 2, 2},
		},
		{
			name:      "One VM per CSP when counts match",
			numVMs:    4,
			numCSPs:   4,
			want:      []int{0, 1, 2, 3},
			wantLoads: []int{1, 1, 1, 1},
		},
		{
			name:      "Fewer VMs than CSPs only uses leading CSPs",
			numVMs:    3,
			numCSPs:   5,
			want:      []int{0, 1, 2},
			wantLoads: []int{1, 1, 1, 0, 0},
		},
		{
			name:      "Single CSP",
			numVMs:    3,
			numCSPs:   1,
			want:      []int{0, 0, 0},
			wantLoads: []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			got := warmstart.EvenSplit(tt.numVMs, tt.numCSPs, rng)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("EvenSplit mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantLoads, warmstart.Loads(got, tt.numCSPs)); diff != "" {
				t.Errorf("load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPopulationClone(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	genes := warmstart.EvenSplit(10, 5, rng)

	population := warmstart.Population(genes, 100, warmstart.SeedClone, rng)
	if len(population) != 100 {
		t.Fatalf("expected 100 chromosomes, got %d", len(population))
	}

	for i, c := range population {
		if diff := cmp.Diff(genes, c.Genes); diff != "" {
			t.Fatalf("chromosome %d differs from seed (-want +got):\n%s", i, diff)
		}
		if c.Evaluated() {
			t.Fatalf("chromosome %d should start unscored", i)
		}
	}

	// Members must not share backing arrays.
	population[0].Genes[0] = 4
	if population[1].Genes[0] != 0 || genes[0] != 0 {
		t.Error("population members share gene storage")
	}
}

func TestPopulationShuffle(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	genes := warmstart.EvenSplit(12, 4, rng)

	population := warmstart.Population(genes, 30, warmstart.SeedShuffle, rng)

	if diff := cmp.Diff(genes, population[0].Genes); diff != "" {
		t.Errorf("first member should be the canonical seed (-want +got):\n%s", diff)
	}

	unique := make(map[string]bool)
	for _, c := range population {
		unique[c.Key()] = true
		if diff := cmp.Diff([]int{3, 3, 3, 3}, warmstart.Loads(c.Genes, 4)); diff != "" {
			t.Fatalf("shuffled member changed CSP loads (-want +got):\n%s", diff)
		}
	}
	if len(unique) < 2 {
		t.Errorf("expected shuffled population to be diverse, got %d unique members", len(unique))
	}
}

func TestParseSeedStrategy(t *testing.T) {
	for in, want := range map[string]warmstart.SeedStrategy{
		"":        warmstart.SeedClone,
		"Clone":   warmstart.SeedClone,
		"Shuffle": warmstart.SeedShuffle,
	} {
		got, err := warmstart.ParseSeedStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseSeedStrategy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := warmstart.ParseSeedStrategy("Random"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
