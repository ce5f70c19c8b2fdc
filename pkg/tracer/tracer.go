package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	otrace "go.opentelemetry.io/otel/trace"
)

const _serviceName = "parbench"

var DefaultTracer = otel.Tracer(_serviceName)

var DefaultPropagator = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

// Init wires an OTLP HTTP exporter. Without it Start still works but
// produces no-op spans, which is what worker processes get.
func Init(endpoint string) error {
	exporter, err := otlptrace.New(
		context.Background(),
		otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		),
	)
	if err != nil {
		return err
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceNameKey.String(_serviceName),
			),
		),
	)

	otel.SetTracerProvider(tracerProvider)

	return nil
}

func Start(ctx context.Context, spanName string, opts ...otrace.SpanStartOption) (context.Context, otrace.Span) {
	return DefaultTracer.Start(ctx, spanName, opts...)
}

// ToMap serializes the span context so it can cross a process boundary
// inside a task message.
func ToMap(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	DefaultPropagator.Inject(ctx, carrier)
	return carrier
}

// FromMap restores a span context shipped with ToMap on the other side
// of the boundary.
func FromMap(ctx context.Context, m map[string]string) context.Context {
	return DefaultPropagator.Extract(ctx, propagation.MapCarrier(m))
}
