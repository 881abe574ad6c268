package util_test

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cspalloc/vmallocator/pkg/allocation/algorithms"
	"github.com/cspalloc/vmallocator/pkg/allocation/util"
)

func history() []algorithms.GenerationStats {
	return []algorithms.GenerationStats{
		{Generation: 0, Best: 400, Mean: 400, Worst: 400, Unique: 1},
		{Generation: 1, Best: 390, Mean: 402.5, Worst: math.Inf(1), Unique: 7},
		{Generation: 2, Best: 385, Mean: 395, Worst: 410, Unique: 9},
	}
}

func TestRenderConvergence(t *testing.T) {
	var buf bytes.Buffer
	if err := util.RenderConvergence(&buf, history(), "sample"); err != nil {
		t.Fatalf("RenderConvergence: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"GA convergence for sample", "Best fitness", "Mean fitness", "Worst fitness"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q", want)
		}
	}
}

func TestPlotConvergence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.html")
	if err := util.PlotConvergence(history(), "sample", path); err != nil {
		t.Fatalf("PlotConvergence: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}

	if err := util.PlotConvergence(nil, "empty", path); err == nil {
		t.Error("expected error for empty history")
	}
}
