package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/apiclient/logger"
)

// Metric instrument names recorded by ClientMetrics.
const (
	MetricRequestTotal    = "client.request.total"
	MetricRequestDuration = "client.request.duration"
	MetricRequestActive   = "client.request.active"
	MetricRequestErrors   = "client.request.errors"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it as
// the global default. The returned provider should be shut down on
// application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	config.ApplyDefaults()

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(config.Interval))),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ClientMetrics holds the instruments for outbound API calls.
type ClientMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
	requestErrors   metric.Int64Counter
}

// NewClientMetrics creates the client instruments on the given meter.
func NewClientMetrics(meter metric.Meter) (*ClientMetrics, error) {
	requestTotal, err := meter.Int64Counter(MetricRequestTotal,
		metric.WithDescription("Total number of outbound API requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequestTotal, err)
	}

	requestDuration, err := meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of outbound API requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRequestDuration, err)
	}

	requestActive, err := meter.Int64UpDownCounter(MetricRequestActive,
		metric.WithDescription("Number of in-flight outbound API requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricRequestActive, err)
	}

	requestErrors, err := meter.Int64Counter(MetricRequestErrors,
		metric.WithDescription("Outbound API requests that failed before a response arrived"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRequestErrors, err)
	}

	return &ClientMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
		requestErrors:   requestErrors,
	}, nil
}

// RecordRequestStart increments the in-flight request count.
func (m *ClientMetrics) RecordRequestStart(ctx context.Context, client string) {
	m.requestActive.Add(ctx, 1, metric.WithAttributes(attribute.String("client", client)))
}

// RecordRequestEnd decrements in-flight requests and records the completed
// request. status is the HTTP status code, or "error" when none arrived.
func (m *ClientMetrics) RecordRequestEnd(ctx context.Context, client, method, status string, duration time.Duration) {
	m.requestActive.Add(ctx, -1, metric.WithAttributes(attribute.String("client", client)))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
		attribute.String("status", status),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("method", method),
	))
}

// RecordError records a request that failed without a response.
func (m *ClientMetrics) RecordError(ctx context.Context, client, errType string) {
	m.requestErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("client", client),
		attribute.String("type", errType),
	))
}
