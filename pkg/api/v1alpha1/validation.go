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
	"fmt"
	"math"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

var (
	supportedSeedStrategies = []string{"Clone", "Shuffle"}
	supportedCrossovers     = []string{"OnePoint", "TwoPoint", "Uniform", "KPoint", "CSPAware"}
)

// ValidateAllocationPolicy validates a defaulted policy. All problems are
// reported together as one aggregate error.
func ValidateAllocationPolicy(policy *AllocationPolicy) error {
	var allErrs field.ErrorList

	if policy.APIVersion != APIVersion {
		allErrs = append(allErrs, field.Invalid(field.NewPath("apiVersion"), policy.APIVersion, fmt.Sprintf("must be %s", APIVersion)))
	}
	if policy.Kind != Kind {
		allErrs = append(allErrs, field.Invalid(field.NewPath("kind"), policy.Kind, fmt.Sprintf("must be %s", Kind)))
	}

	allErrs = append(allErrs, validateCSPs(policy.CSPs, field.NewPath("csps"))...)

	if policy.VMCount < 1 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("vmCount"), policy.VMCount, "at least one VM is required"))
	}
	if len(policy.VMNames) > 0 && len(policy.VMNames) != int(policy.VMCount) {
		allErrs = append(allErrs, field.Invalid(field.NewPath("vmNames"), len(policy.VMNames),
			fmt.Sprintf("must name exactly vmCount (%d) VMs", policy.VMCount)))
	}
	if policy.MaxVMsPerCSP < 0 {
		allErrs = append(allErrs, field.Invalid(field.NewPath("maxVMsPerCSP"), policy.MaxVMsPerCSP, "must not be negative"))
	} else if policy.MaxVMsPerCSP > 0 && int(policy.MaxVMsPerCSP)*len(policy.CSPs) < int(policy.VMCount) {
		allErrs = append(allErrs, field.Invalid(field.NewPath("maxVMsPerCSP"), policy.MaxVMsPerCSP,
			fmt.Sprintf("maxVMsPerCSP * len(csps) (%d) must be >= vmCount (%d)", int(policy.MaxVMsPerCSP)*len(policy.CSPs), policy.VMCount)))
	}

	allErrs = append(allErrs, validateWeights(policy.Weights, field.NewPath("weights"))...)
	allErrs = append(allErrs, ValidateAlgorithmArgs(&policy.Algorithm, field.NewPath("algorithm"))...)

	return allErrs.ToAggregate()
}

func validateCSPs(csps []CSP, fldPath *field.Path) field.ErrorList {
	var allErrs field.ErrorList
	if len(csps) == 0 {
		return append(allErrs, field.Required(fldPath, "at least one CSP is required"))
	}

	names := sets.New[string]()
	for i, csp := range csps {
		idxPath := fldPath.Index(i)
		if csp.Name == "" {
			allErrs = append(allErrs, field.Required(idxPath.Child("name"), ""))
		} else if names.Has(csp.Name) {
			allErrs = append(allErrs, field.Duplicate(idxPath.Child("name"), csp.Name))
		}
		names.Insert(csp.Name)

		if !(csp.Cost > 0) || math.IsInf(csp.Cost, 0) {
			allErrs = append(allErrs, field.Invalid(idxPath.Child("cost"), csp.Cost, "must be a positive number"))
		}
		if !(csp.Reliability > 0 && csp.Reliability <= 1) {
			allErrs = append(allErrs, field.Invalid(idxPath.Child("reliability"), csp.Reliability, "must be in (0, 1]"))
		}
		if !(csp.Latency > 0) || math.IsInf(csp.Latency, 0) {
			allErrs = append(allErrs, field.Invalid(idxPath.Child("latency"), csp.Latency, "must be a positive number"))
		}
	}
	return allErrs
}

func validateWeights(weights *WeightConfig, fldPath *field.Path) field.ErrorList {
	var allErrs field.ErrorList
	if weights == nil {
		return allErrs
	}

	for _, w := range []struct {
		name  string
		value float64
	}{
		{"cost", weights.Cost},
		{"unreliability", weights.Unreliability},
		{"latency", weights.Latency},
	} {
		if !(w.value >= 0 && w.value <= 1) {
			allErrs = append(allErrs, field.Invalid(fldPath.Child(w.name), w.value, "must be between 0 and 1"))
		}
	}

	// Weights should sum to 1 (with some tolerance for floating point)
	sum := weights.Cost + weights.Unreliability + weights.Latency
	if sum < 0.99 || sum > 1.01 {
		allErrs = append(allErrs, field.Invalid(fldPath, sum, "weights should sum to 1.0"))
	}
	return allErrs
}

// ValidateAlgorithmArgs validates defaulted genetic algorithm parameters.
func ValidateAlgorithmArgs(args *AlgorithmArgs, fldPath *field.Path) field.ErrorList {
	var allErrs field.ErrorList

	if args.PopulationSize < 1 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("populationSize"), args.PopulationSize, "must be positive"))
	}
	if args.MaxGenerations != nil && *args.MaxGenerations < 0 {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("maxGenerations"), *args.MaxGenerations, "must not be negative"))
	}
	if args.MutationRate != nil && !(*args.MutationRate >= 0 && *args.MutationRate <= 1) {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("mutationRate"), *args.MutationRate, "must be between 0 and 1"))
	}
	if args.TournamentSize < 1 || args.TournamentSize > args.PopulationSize {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("tournamentSize"), args.TournamentSize,
			fmt.Sprintf("must be between 1 and populationSize (%d)", args.PopulationSize)))
	}
	if args.Elitism < 0 || (args.PopulationSize > 0 && args.Elitism >= args.PopulationSize) {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("elitism"), args.Elitism, "must be between 0 and populationSize - 1"))
	}
	if !sets.New(supportedSeedStrategies...).Has(args.SeedStrategy) {
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("seedStrategy"), args.SeedStrategy, supportedSeedStrategies))
	}
	if !sets.New(supportedCrossovers...).Has(args.Crossover) {
		allErrs = append(allErrs, field.NotSupported(fldPath.Child("crossover"), args.Crossover, supportedCrossovers))
	}
	return allErrs
}
