package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// shutdown stops a provider without waiting on the unreachable collector.
func shutdown(t *testing.T, fn func(context.Context) error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = fn(ctx)
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestTracerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TracerConfig
		wantErr bool
	}{
		{name: "disabled ignores fields", cfg: TracerConfig{SampleRate: 5}},
		{name: "enabled", cfg: TracerConfig{Enabled: true, ServiceName: "svc", SampleRate: 0.5}},
		{name: "missing service", cfg: TracerConfig{Enabled: true}, wantErr: true},
		{name: "rate too high", cfg: TracerConfig{Enabled: true, ServiceName: "svc", SampleRate: 1.5}, wantErr: true},
		{name: "negative rate", cfg: TracerConfig{Enabled: true, ServiceName: "svc", SampleRate: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMeterConfig_Validate(t *testing.T) {
	if err := (&MeterConfig{}).Validate(); err != nil {
		t.Errorf("disabled config should be valid: %v", err)
	}
	if err := (&MeterConfig{Enabled: true}).Validate(); err == nil {
		t.Error("expected error for missing service name")
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{rate: 0, want: "AlwaysOffSampler"},
		{rate: -1, want: "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		if got := sampler(tt.rate).Description(); got != tt.want {
			t.Errorf("sampler(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
	if sampler(1) == nil || sampler(0.5) == nil {
		t.Error("expected a sampler")
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.2.3", "test")
	if err != nil {
		t.Fatalf("newResource() error = %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "svc" || found["service.version"] != "1.2.3" || found["environment"] != "test" {
		t.Errorf("unexpected resource attributes: %v", found)
	}
}

func TestPropagatorFields(t *testing.T) {
	fields := map[string]bool{}
	for _, f := range Propagator().Fields() {
		fields[f] = true
	}
	if !fields["traceparent"] || !fields["baggage"] {
		t.Errorf("unexpected propagator fields: %v", Propagator().Fields())
	}
}

func TestNewClientMetrics_Noop(t *testing.T) {
	m, err := NewClientMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	m.RecordRequestStart(ctx, "api")
	m.RecordRequestEnd(ctx, "api", "GET", "200", 100*time.Millisecond)
	m.RecordError(ctx, "api", "TIMEOUT")
}

func TestClientMetrics_Recorded(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewClientMetrics(mp.Meter(InstrumentationName))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	m.RecordRequestStart(ctx, "api")
	m.RecordRequestEnd(ctx, "api", "GET", "200", 20*time.Millisecond)
	m.RecordRequestStart(ctx, "api")
	m.RecordRequestEnd(ctx, "api", "GET", "error", 5*time.Millisecond)
	m.RecordError(ctx, "api", "CONNECTION_FAILED")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	got := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			got[md.Name] = md.Data
		}
	}

	total, ok := got[MetricRequestTotal].(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s missing or wrong type: %T", MetricRequestTotal, got[MetricRequestTotal])
	}
	var sum int64
	for _, dp := range total.DataPoints {
		sum += dp.Value
	}
	if sum != 2 || len(total.DataPoints) != 2 {
		t.Errorf("request total = %d over %d series, want 2 over 2", sum, len(total.DataPoints))
	}

	active, ok := got[MetricRequestActive].(metricdata.Sum[int64])
	if !ok || len(active.DataPoints) != 1 || active.DataPoints[0].Value != 0 {
		t.Errorf("active requests = %+v, want 0", got[MetricRequestActive])
	}

	hist, ok := got[MetricRequestDuration].(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 2 {
		t.Errorf("duration histogram = %+v, want 2 samples", got[MetricRequestDuration])
	}

	errs, ok := got[MetricRequestErrors].(metricdata.Sum[int64])
	if !ok || len(errs.DataPoints) != 1 || errs.DataPoints[0].Value != 1 {
		t.Errorf("errors = %+v, want 1", got[MetricRequestErrors])
	}
}

func TestInitTracer(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		insecure   bool
	}{
		{"always sample", 1.0, true},
		{"never sample", 0.0, true},
		{"ratio based", 0.5, true},
		{"secure", 1.0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := TracerConfig{
				Enabled:     true,
				ServiceName: "test",
				Endpoint:    "localhost:4318",
				Insecure:    tc.insecure,
				SampleRate:  tc.sampleRate,
			}
			tp, err := InitTracer(context.Background(), cfg)
			if err != nil {
				t.Fatalf("InitTracer() error = %v", err)
			}
			defer shutdown(t, tp.Shutdown)

			_, span := Tracer("test").Start(context.Background(), "op")
			if tc.sampleRate >= 1 && !span.SpanContext().IsSampled() {
				t.Error("expected span to be sampled")
			}
			span.End()
		})
	}
}

func TestInitMeter(t *testing.T) {
	cfg := &MeterConfig{
		Enabled:     true,
		ServiceName: "test-service",
		Endpoint:    "localhost:4318",
		Insecure:    true,
	}

	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitMeter() error = %v", err)
	}
	defer shutdown(t, mp.Shutdown)

	if cfg.Interval != 15*time.Second {
		t.Errorf("expected defaults applied, interval = %v", cfg.Interval)
	}
	if Meter("test") == nil {
		t.Error("expected a meter from the global provider")
	}
}
