// Package observability wires OpenTelemetry tracing and metrics for the API
// client.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("apicall"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	cfg := observability.DefaultMeterConfig("apicall")
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	m, err := observability.NewClientMetrics(observability.Meter(observability.InstrumentationName))
//
// The httpclient/plugins package turns these into request observers.
package observability
