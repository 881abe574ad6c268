package constraints

import (
	"github.com/cspalloc/vmallocator/pkg/allocation/framework"
)

// AssignmentConstraint checks that an assignment has one gene per VM and that
// every gene names an existing CSP.
func AssignmentConstraint(numVMs, numCSPs int) framework.Constraint {
	return func(genes []int) bool {
		if len(genes) != numVMs {
			return false
		}
		for _, csp := range genes {
			if csp < 0 || csp >= numCSPs {
				return false
			}
		}
		return true
	}
}

// MaxVMsPerCSP creates a constraint limiting how many VMs a single CSP may host.
// A non-positive limit disables the check.
func MaxVMsPerCSP(numCSPs, limit int) framework.Constraint {
	return func(genes []int) bool {
		if limit <= 0 {
			return true
		}
		load := make([]int, numCSPs)
		for _, csp := range genes {
			if csp < 0 || csp >= numCSPs {
				return false
			}
			load[csp]++
			if load[csp] > limit {
				return false
			}
		}
		return true
	}
}

// CombineConstraints combines multiple constraints into one
func CombineConstraints(constraints ...framework.Constraint) framework.Constraint {
	return func(genes []int) bool {
		for _, constraint := range constraints {
			if !constraint(genes) {
				return false
			}
		}
		return true
	}
}

// Satisfied reports whether genes pass every constraint.
func Satisfied(genes []int, constraints []framework.Constraint) bool {
	return CombineConstraints(constraints...)(genes)
}
