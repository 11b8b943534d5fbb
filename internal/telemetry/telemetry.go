// Package telemetry installs the OpenTelemetry tracer provider for jiractl.
//
// Tracing is off by default and costs nothing when off.
//
// # Configuration
//
//	JIRACTL_OTEL_ENABLED=true   enable tracing (default: off)
//
// When enabled, finished spans are written as JSON to stderr so they never
// mix with command output.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// EnvEnabled switches tracing on when set to "true".
const EnvEnabled = "JIRACTL_OTEL_ENABLED"

const instrumentationScope = "github.com/nhle/jiractl"

var shutdownFns []func(context.Context) error

// Enabled reports whether tracing is switched on.
func Enabled() bool {
	return os.Getenv(EnvEnabled) == "true"
}

type options struct {
	writer io.Writer
}

// Option customizes Init.
type Option func(*options)

// WithWriter sends exported spans to w instead of stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// Init installs the global tracer provider. When tracing is disabled a
// no-op provider is installed and Init returns immediately.
func Init(ctx context.Context, serviceName, version string, opts ...Option) error {
	if !Enabled() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		return nil
	}

	o := options{writer: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version),
		),
	)
	if err != nil {
		return fmt.Errorf("telemetry: resource: %w", err)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(o.writer), stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("telemetry: stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
	)
	otel.SetTracerProvider(tp)
	shutdownFns = append(shutdownFns, tp.Shutdown)

	return nil
}

// Tracer returns a tracer with the given instrumentation name, or the
// module scope when name is empty.
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = instrumentationScope
	}
	return otel.Tracer(name)
}

// Shutdown flushes pending spans and stops the installed provider.
func Shutdown(ctx context.Context) {
	for _, fn := range shutdownFns {
		_ = fn(ctx)
	}
	shutdownFns = nil
}
