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

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// GroupName is the API group of allocation policy files.
	GroupName = "vmallocator.cspalloc.io"
	// Version is the only supported policy version.
	Version = "v1alpha1"
	// Kind is the kind of an allocation policy file.
	Kind = "AllocationPolicy"
)

// APIVersion is the apiVersion expected at the top of a policy file.
var APIVersion = GroupName + "/" + Version

// AllocationPolicy describes one VM-to-CSP allocation run: the providers, the
// VMs to place and how the genetic algorithm searches for the assignment.
type AllocationPolicy struct {
	metav1.TypeMeta `json:",inline"`

	// CSPs lists the candidate cloud service providers, in index order.
	CSPs []CSP `json:"csps"`

	// VMCount is the number of VMs to place. Defaults to len(VMNames).
	VMCount int32 `json:"vmCount,omitempty"`

	// VMNames optionally names the VMs. When empty VMs are named VM1..VMn.
	VMNames []string `json:"vmNames,omitempty"`

	// MaxVMsPerCSP caps how many VMs a single CSP may host. Zero means no cap.
	MaxVMsPerCSP int32 `json:"maxVMsPerCSP,omitempty"`

	// Weights of the cost, unreliability and latency terms of the fitness.
	Weights *WeightConfig `json:"weights,omitempty"`

	// Algorithm tunes the genetic algorithm.
	Algorithm AlgorithmArgs `json:"algorithm,omitempty"`
}

// CSP is a cloud service provider offering
type CSP struct {
	Name string `json:"name"`

	// Cost per allocated VM, positive.
	Cost float64 `json:"cost"`

	// Reliability is the probability of no failure, in (0, 1].
	Reliability float64 `json:"reliability"`

	// Latency per allocated VM, positive.
	Latency float64 `json:"latency"`
}

// WeightConfig holds the fitness weights
type WeightConfig struct {
	Cost          float64 `json:"cost"`
	Unreliability float64 `json:"unreliability"`
	Latency       float64 `json:"latency"`
}

// AlgorithmArgs holds the genetic algorithm parameters
type AlgorithmArgs struct {
	PopulationSize int32 `json:"populationSize,omitempty"`

	// MaxGenerations is the fixed generation budget. Zero is allowed and returns
	// the seed assignment.
	MaxGenerations *int32 `json:"maxGenerations,omitempty"`

	// MutationRate is the per-gene mutation probability.
	MutationRate *float64 `json:"mutationRate,omitempty"`

	TournamentSize int32 `json:"tournamentSize,omitempty"`

	// Seed of the pseudo-random generator. When unset the caller picks one.
	Seed *uint64 `json:"seed,omitempty"`

	// SeedStrategy is Clone (identical generation 0) or Shuffle.
	SeedStrategy string `json:"seedStrategy,omitempty"`

	// Elitism is how many best chromosomes survive unchanged each generation.
	Elitism int32 `json:"elitism,omitempty"`

	ParallelEvaluation bool `json:"parallelEvaluation,omitempty"`

	// Crossover is OnePoint, TwoPoint, Uniform, KPoint or CSPAware.
	Crossover string `json:"crossover,omitempty"`
}
