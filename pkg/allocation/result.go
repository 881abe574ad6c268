/*
Copyright 2026 The VM Allocator Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package allocation

import (
	"github.com/cspalloc/vmallocator/pkg/allocation/algorithms"
	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
	"github.com/cspalloc/vmallocator/pkg/allocation/objectives/weighted"
	"github.com/cspalloc/vmallocator/pkg/allocation/warmstart"
)

// Result is the best assignment found by a run.
type Result struct {
	CSPs []framework.CSPInfo
	VMs  []framework.VMInfo
	// Assignment[i] is the index in CSPs of the provider hosting VMs[i].
	Assignment  []int
	Fitness     float64
	Totals      weighted.Breakdown
	SeedFitness float64
	Run         *algorithms.Result
}

// CSPOf returns the provider hosting VM i.
func (r *Result) CSPOf(vm int) framework.CSPInfo {
	return r.CSPs[r.Assignment[vm]]
}

// Loads returns how many VMs each CSP hosts.
func (r *Result) Loads() []int {
	return warmstart.Loads(r.Assignment, len(r.CSPs))
}

// VMsByCSP groups VM names by provider, in VM order. CSPs hosting nothing get an
// empty slice.
func (r *Result) VMsByCSP() [][]string {
	groups := make([][]string, len(r.CSPs))
	for i := range groups {
		groups[i] = []string{}
	}
	for vm, csp := range r.Assignment {
		groups[csp] = append(groups[csp], r.VMs[vm].Name)
	}
	return groups
}
