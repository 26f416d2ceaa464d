// Package telemetry wires optional OpenTelemetry tracing.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Options selects the trace exporter. Tracing is off unless Enabled is set
// and Endpoint is non-empty.
type Options struct {
	ServiceName string
	Endpoint    string
	Enabled     bool
	SampleRatio float64
}

// Active reports whether Setup would install a tracer provider.
func (o Options) Active() bool {
	return o.Enabled && o.Endpoint != ""
}

// sampler honours the parent's decision and samples root spans at
// SampleRatio; ratios outside (0, 1) fall back to always sampling.
func (o Options) sampler() sdktrace.Sampler {
	if o.SampleRatio <= 0 || o.SampleRatio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(o.SampleRatio))
}

// Setup installs a global tracer provider exporting over OTLP/HTTP and
// returns its shutdown func, which flushes pending spans. When tracing is
// inactive it registers nothing and the shutdown func is a no-op.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !opts.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.Endpoint))
	if err != nil {
		return noop, fmt.Errorf("otlp exporter %s: %w", opts.Endpoint, err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(opts.ServiceName)))
	if err != nil {
		return noop, fmt.Errorf("trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(opts.sampler()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	fmt.Printf("📡 Tracing %s to %s\n", opts.ServiceName, opts.Endpoint)
	return tp.Shutdown, nil
}
