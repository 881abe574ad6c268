package benchmarks

import (
	"fmt"

	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
)

// Scenario is a named set of providers and a VM count
type Scenario struct {
	Name   string
	CSPs   []framework.CSPInfo
	NumVMs int
}

// VMs returns the scenario's VMs named VM1..VMn.
func (s Scenario) VMs() []framework.VMInfo {
	return framework.NewVMs(s.NumVMs)
}

func csps(costs, reliabilities, latencies []float64) []framework.CSPInfo {
	out := make([]framework.CSPInfo, len(costs))
	for i := range costs {
		out[i] = framework.CSPInfo{
			Idx:         i,
			Name:        fmt.Sprintf("CSP%d", i+1),
			Cost:        costs[i],
			Reliability: reliabilities[i],
			Latency:     latencies[i],
		}
	}
	return out
}

// Sample is the reference scenario: 5 CSPs and 10 VMs.
func Sample() Scenario {
	return Scenario{
		Name: "Sample",
		CSPs: csps(
			[]float64{100, 120, 150, 110, 130},
			[]float64{0.9, 0.95, 0.85, 0.92, 0.88},
			[]float64{10, 8, 12, 9, 11},
		),
		NumVMs: 10,
	}
}

// EqualCounts has as many VMs as CSPs, so the seed places one VM per CSP.
func EqualCounts() Scenario {
	s := Sample()
	s.Name = "EqualCounts"
	s.NumVMs = len(s.CSPs)
	return s
}

// FewerVMs has fewer VMs than CSPs; the seed leaves the trailing CSPs empty.
func FewerVMs() Scenario {
	s := Sample()
	s.Name = "FewerVMs"
	s.NumVMs = 3
	return s
}

// ReliabilityBound makes the most reliable provider only slightly more
// expensive, so the reliability term decides between near-equal options.
func ReliabilityBound() Scenario {
	return Scenario{
		Name: "ReliabilityBound",
		CSPs: csps(
			[]float64{1, 1.01, 1.5},
			[]float64{0.5, 0.99, 0.7},
			[]float64{1, 1, 1},
		),
		NumVMs: 6,
	}
}

// Large is 8 CSPs and 40 VMs with deterministic attribute spreads.
func Large() Scenario {
	const numCSPs = 8
	costs := make([]float64, numCSPs)
	reliabilities := make([]float64, numCSPs)
	latencies := make([]float64, numCSPs)
	for i := range numCSPs {
		costs[i] = 90 + float64((i*37)%60)
		reliabilities[i] = 0.8 + 0.025*float64((i*3)%8)
		latencies[i] = 5 + float64((i*5)%9)
	}
	return Scenario{
		Name:   "Large",
		CSPs:   csps(costs, reliabilities, latencies),
		NumVMs: 40,
	}
}

// StandardScenarios returns every built-in scenario.
func StandardScenarios() []Scenario {
	return []Scenario{Sample(), EqualCounts(), FewerVMs(), ReliabilityBound(), Large()}
}

// ScenarioByName looks up a built-in scenario.
func ScenarioByName(name string) (Scenario, error) {
	for _, s := range StandardScenarios() {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("unknown scenario %q", name)
}
