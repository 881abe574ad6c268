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
	"os"

	"sigs.k8s.io/yaml"
)

// LoadPolicy reads, defaults and validates a policy file.
func LoadPolicy(path string) (*AllocationPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %q: %w", path, err)
	}
	policy, err := DecodePolicy(data)
	if err != nil {
		return nil, fmt.Errorf("policy file %q: %w", path, err)
	}
	return policy, nil
}

// DecodePolicy parses YAML or JSON, rejecting unknown fields, then defaults and
// validates the result.
func DecodePolicy(data []byte) (*AllocationPolicy, error) {
	policy := &AllocationPolicy{}
	if err := yaml.UnmarshalStrict(data, policy); err != nil {
		return nil, fmt.Errorf("failed to decode policy: %w", err)
	}
	SetDefaults_AllocationPolicy(policy)
	if err := ValidateAllocationPolicy(policy); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	return policy, nil
}

// EncodePolicy renders a policy as YAML.
func EncodePolicy(policy *AllocationPolicy) ([]byte, error) {
	return yaml.Marshal(policy)
}
