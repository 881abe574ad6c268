// Package report renders an allocation result for the console.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cspalloc/vmallocator/pkg/allocation"
)

// Write prints the per-CSP table, the totals, the objective value and the VM
// lists of every provider.
func Write(w io.Writer, result *allocation.Result) error {
	groups := result.VMsByCSP()

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "CSP\tCost\tReliability\tLatency\tAllocated VMs")
	for i, csp := range result.CSPs {
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%s\n",
			csp.Name, csp.Cost, csp.Reliability, csp.Latency, strings.Join(groups[i], ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "\nTotal Cost: %g\n", result.Totals.TotalCost)
	fmt.Fprintf(b, "Total Reliability: %g\n", result.Totals.TotalReliability)
	fmt.Fprintf(b, "Total Latency: %g\n", result.Totals.TotalLatency)
	fmt.Fprintf(b, "\nObjective Function Value: %g\n", result.Fitness)
	if result.SeedFitness != result.Fitness {
		fmt.Fprintf(b, "Initial Allocation Value: %g\n", result.SeedFitness)
	}

	fmt.Fprintf(b, "\nVM Allocation:\n")
	for i, csp := range result.CSPs {
		fmt.Fprintf(b, "%s: %s\n", csp.Name, strings.Join(groups[i], " "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
