package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	runCounter     otelmetric.Int64Counter
	runDuration    otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	var tracerProvider *sdktrace.TracerProvider
	if jaegerExp, err := jaeger.New(jaeger.WithCollectorEndpoint()); err == nil {
		tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(jaegerExp))
		otel.SetTracerProvider(tracerProvider)
	} else {
		log.Printf("Jaeger exporter unavailable, tracing disabled: %v", err)
	}

	meter := provider.Meter(serviceName)

	runCounter, _ := meter.Int64Counter(
		"runs.processed",
		otelmetric.WithDescription("Number of screening runs processed"),
	)

	runDuration, _ := meter.Float64Histogram(
		"runs.duration",
		otelmetric.WithDescription("Screening run duration"),
		otelmetric.WithUnit("ms"),
	)

	obs := &Observability{
		meterProvider:  provider,
		tracerProvider: tracerProvider,
		meter:          meter,
		runCounter:     runCounter,
		runDuration:    runDuration,
	}
	if tracerProvider != nil {
		obs.tracer = tracerProvider.Tracer(serviceName)
	}
	return obs
}

// StartSpan starts a workflow span when tracing is enabled. The returned end
// function is safe to call either way.
func (o *Observability) StartSpan(ctx context.Context, name string) (context.Context, func()) {
	if o.tracer == nil {
		return ctx, func() {}
	}
	ctx, span := o.tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}

func (o *Observability) RecordRunProcessed(ctx context.Context, terminalState string) {
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("terminal_state", terminalState),
		))
	}
}

func (o *Observability) RecordRunDuration(ctx context.Context, duration time.Duration, terminalState string) {
	if o.runDuration != nil {
		o.runDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("terminal_state", terminalState),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		o.tracerProvider.Shutdown(ctx)
	}
}
