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

package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"k8s.io/klog/v2"
)

const (
	// TracerName is the instrumentation scope of every allocator span.
	TracerName = "github.com/cspalloc/vmallocator"

	// DefaultServiceName is reported as service.name when none is configured.
	DefaultServiceName = "vmallocator"
)

// Options configures the tracer provider.
type Options struct {
	// CollectorEndpoint is the host:port of an OTLP gRPC collector. Tracing is
	// disabled when empty.
	CollectorEndpoint string
	ServiceName       string
	// SampleRate is the fraction of root spans kept, in [0, 1].
	SampleRate float64
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// NewTracerProvider installs the global tracer provider. With no collector
// endpoint a noop provider is installed.
func NewTracerProvider(ctx context.Context, opts Options) (ShutdownFunc, error) {
	logger := klog.FromContext(ctx)

	if opts.CollectorEndpoint == "" {
		otel.SetTracerProvider(noop.NewTracerProvider())
		logger.V(2).Info("Tracing disabled, no collector endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpoint(opts.CollectorEndpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp trace exporter: %w", err)
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRate))),
	)
	otel.SetTracerProvider(provider)
	logger.Info("Tracing enabled", "endpoint", opts.CollectorEndpoint, "sampleRate", opts.SampleRate)

	return provider.Shutdown, nil
}

// Tracer returns the allocator tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
