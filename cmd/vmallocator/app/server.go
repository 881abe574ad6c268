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

// Package app implements the vmallocator command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/cspalloc/vmallocator/pkg/allocation"
	"github.com/cspalloc/vmallocator/pkg/allocation/benchmarks"
	"github.com/cspalloc/vmallocator/pkg/allocation/report"
	"github.com/cspalloc/vmallocator/pkg/allocation/util"
	"github.com/cspalloc/vmallocator/pkg/api/v1alpha1"
	"github.com/cspalloc/vmallocator/pkg/metrics"
	"github.com/cspalloc/vmallocator/pkg/tracing"
)

// NewAllocatorCommand creates the root command. Reports are written to out.
func NewAllocatorCommand(out io.Writer) *cobra.Command {
	o := NewOptions()

	cmd := &cobra.Command{
		Use:   "vmallocator",
		Short: "vmallocator",
		Long:  "Assigns VMs to cloud service providers with a genetic algorithm minimizing weighted cost, unreliability and latency.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), o, cmd.Flags(), out)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	o.AddFlags(cmd.Flags())

	goFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(goFlags)
	cmd.PersistentFlags().AddGoFlagSet(goFlags)

	cmd.AddCommand(newDefaultsCommand(out))
	return cmd
}

func newDefaultsCommand(out io.Writer) *cobra.Command {
	var scenario string
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print a fully defaulted AllocationPolicy for a built-in scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := benchmarks.ScenarioByName(scenario)
			if err != nil {
				return err
			}
			data, err := v1alpha1.EncodePolicy(PolicyForScenario(s))
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", benchmarks.Sample().Name, "Built-in scenario to print.")
	return cmd
}

// Run solves the configured policy and writes the report.
func Run(ctx context.Context, o *AllocatorOptions, fs *pflag.FlagSet, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := klog.FromContext(ctx)

	policy, err := o.Policy(fs)
	if err != nil {
		return err
	}
	if policy.Algorithm.Seed == nil {
		policy.Algorithm.Seed = ptr.To(uint64(time.Now().UnixNano()))
		logger.V(1).Info("Using time-based seed", "seed", *policy.Algorithm.Seed)
	}

	shutdownTracing, err := tracing.NewTracerProvider(ctx, o.Tracing)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error(err, "Failed to shut down tracer provider")
		}
	}()

	if o.MetricsBindAddress != "" {
		stop, err := serveMetrics(ctx, o.MetricsBindAddress)
		if err != nil {
			return err
		}
		defer stop()
	}

	args, err := allocation.ArgsFromPolicy(policy)
	if err != nil {
		return err
	}
	if o.PolicyFile == "" {
		args.Name = o.Scenario
	}

	allocator, err := allocation.New(ctx, args)
	if err != nil {
		return err
	}
	result := allocator.Allocate(ctx)

	if err := report.Write(out, result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if o.PlotOutput != "" {
		if err := util.PlotConvergence(result.Run.History, allocator.Problem().Name(), o.PlotOutput); err != nil {
			return fmt.Errorf("failed to plot convergence: %w", err)
		}
		logger.Info("Wrote convergence chart", "path", o.PlotOutput)
	}
	return nil
}

// serveMetrics exposes the allocator registry until the returned stop func is called.
func serveMetrics(ctx context.Context, addr string) (func(), error) {
	logger := klog.FromContext(ctx)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Metrics server stopped")
		}
	}()
	logger.V(1).Info("Serving metrics", "address", listener.Addr().String())

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(err, "Failed to shut down metrics server")
		}
	}, nil
}
