package plugins

import (
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/observability"
)

type tracing struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// Tracing starts a client span per request and injects its context into
// the request headers. A nil tracer or propagator falls back to the global
// one. The span ends when the transport returns or a later plugin rejects
// the request.
func Tracing(tracer trace.Tracer, propagator propagation.TextMapPropagator) httpclient.Plugin {
	if tracer == nil {
		tracer = observability.Tracer(observability.InstrumentationName)
	}
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	return &tracing{tracer: tracer, propagator: propagator}
}

func (t *tracing) Name() string { return "tracing" }

func (t *tracing) ObserveRequest(req *http.Request) (*http.Request, error) {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.URL.Path),
	}
	if host := req.URL.Hostname(); host != "" {
		attrs = append(attrs, attribute.String("server.address", host))
	}
	if id := req.Header.Get(RequestIDHeader); id != "" {
		attrs = append(attrs, attribute.String(observability.AttrRequestID, id))
	}

	ctx, _ := t.tracer.Start(req.Context(), "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	t.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req.WithContext(ctx), nil
}

func (t *tracing) ObserveResponse(req *http.Request, resp *http.Response, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, strconv.Itoa(resp.StatusCode))
	}
}
