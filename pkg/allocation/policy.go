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
	"fmt"

	"k8s.io/utils/ptr"

	"github.com/cspalloc/vmallocator/pkg/allocation/algorithms"
	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
	"github.com/cspalloc/vmallocator/pkg/allocation/objectives/weighted"
	"github.com/cspalloc/vmallocator/pkg/allocation/warmstart"
	"github.com/cspalloc/vmallocator/pkg/api/v1alpha1"
)

// ArgsFromPolicy converts a defaulted and validated policy into run arguments.
// A policy without a seed yields seed 0; callers that want a fresh seed per run
// set one before converting.
func ArgsFromPolicy(policy *v1alpha1.AllocationPolicy) (*Args, error) {
	csps := make([]framework.CSPInfo, len(policy.CSPs))
	for i, csp := range policy.CSPs {
		csps[i] = framework.CSPInfo{
			Idx:         i,
			Name:        csp.Name,
			Cost:        csp.Cost,
			Reliability: csp.Reliability,
			Latency:     csp.Latency,
		}
	}

	var vms []framework.VMInfo
	if len(policy.VMNames) > 0 {
		vms = make([]framework.VMInfo, len(policy.VMNames))
		for i, name := range policy.VMNames {
			vms[i] = framework.VMInfo{Idx: i, Name: name}
		}
	} else {
		vms = framework.NewVMs(int(policy.VMCount))
	}

	weights := weighted.DefaultWeights()
	if policy.Weights != nil {
		weights = weighted.Weights{
			Cost:          policy.Weights.Cost,
			Unreliability: policy.Weights.Unreliability,
			Latency:       policy.Weights.Latency,
		}
	}

	strategy, err := warmstart.ParseSeedStrategy(policy.Algorithm.SeedStrategy)
	if err != nil {
		return nil, err
	}
	config, err := algorithmConfig(&policy.Algorithm)
	if err != nil {
		return nil, err
	}

	return &Args{
		CSPs:         csps,
		VMs:          vms,
		Weights:      weights,
		MaxVMsPerCSP: int(policy.MaxVMsPerCSP),
		SeedStrategy: strategy,
		Algorithm:    config,
	}, nil
}

func algorithmConfig(args *v1alpha1.AlgorithmArgs) (algorithms.Config, error) {
	crossover, err := algorithms.ParseCrossover(args.Crossover)
	if err != nil {
		return algorithms.Config{}, fmt.Errorf("algorithm: %w", err)
	}

	config := algorithms.DefaultConfig()
	if args.PopulationSize != 0 {
		config.PopulationSize = int(args.PopulationSize)
	}
	if args.TournamentSize != 0 {
		config.TournamentSize = int(args.TournamentSize)
	}
	config.MaxGenerations = int(ptr.Deref(args.MaxGenerations, algorithms.DefaultMaxGenerations))
	config.MutationRate = ptr.Deref(args.MutationRate, algorithms.DefaultMutationRate)
	config.Seed = ptr.Deref(args.Seed, 0)
	config.Elitism = int(args.Elitism)
	config.ParallelEvaluation = args.ParallelEvaluation
	config.Crossover = crossover
	return config, nil
}
