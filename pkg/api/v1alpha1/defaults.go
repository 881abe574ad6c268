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
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"
)

const (
	DefaultPopulationSize = 100
	DefaultMaxGenerations = 1000
	DefaultMutationRate   = 0.1
	DefaultTournamentSize = 5
	DefaultSeedStrategy   = "Clone"
	DefaultCrossover      = "OnePoint"
)

// DefaultWeights returns the reference weighting of cost, unreliability and latency.
func DefaultWeights() *WeightConfig {
	return &WeightConfig{
		Cost:          0.3,
		Unreliability: 0.2,
		Latency:       0.5,
	}
}

// SetDefaults_AllocationPolicy fills every unset field with its default.
func SetDefaults_AllocationPolicy(obj *AllocationPolicy) {
	klog.V(5).InfoS("Defaulting allocation policy", "csps", len(obj.CSPs))

	if obj.APIVersion == "" {
		obj.APIVersion = APIVersion
	}
	if obj.Kind == "" {
		obj.Kind = Kind
	}
	if obj.VMCount == 0 {
		obj.VMCount = int32(len(obj.VMNames))
	}
	if obj.Weights == nil {
		obj.Weights = DefaultWeights()
	}
	SetDefaults_AlgorithmArgs(&obj.Algorithm)
}

// SetDefaults_AlgorithmArgs fills unset algorithm parameters.
func SetDefaults_AlgorithmArgs(args *AlgorithmArgs) {
	if args.PopulationSize == 0 {
		args.PopulationSize = DefaultPopulationSize
	}
	if args.MaxGenerations == nil {
		args.MaxGenerations = ptr.To[int32](DefaultMaxGenerations)
	}
	if args.MutationRate == nil {
		args.MutationRate = ptr.To(DefaultMutationRate)
	}
	if args.TournamentSize == 0 {
		args.TournamentSize = DefaultTournamentSize
	}
	if args.SeedStrategy == "" {
		args.SeedStrategy = DefaultSeedStrategy
	}
	if args.Crossover == "" {
		args.Crossover = DefaultCrossover
	}
}
