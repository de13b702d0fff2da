package plugins

import (
	"net/http"
	"strconv"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/observability"
)

const metricsName = "metrics"

type metrics struct {
	m      *observability.ClientMetrics
	client string
}

// Metrics records request counts, durations and errors for the named
// client. Requests rejected by a later plugin are recorded with their
// error code.
func Metrics(m *observability.ClientMetrics, client string) httpclient.Plugin {
	return &metrics{m: m, client: client}
}

func (p *metrics) Name() string { return metricsName }

func (p *metrics) ObserveRequest(req *http.Request) (*http.Request, error) {
	ctx := withStart(req.Context(), metricsName)
	p.m.RecordRequestStart(ctx, p.client)
	return req.WithContext(ctx), nil
}

func (p *metrics) ObserveResponse(req *http.Request, resp *http.Response, err error) {
	ctx := req.Context()
	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	p.m.RecordRequestEnd(ctx, p.client, req.Method, status, elapsed(ctx, metricsName))
	if err != nil {
		p.m.RecordError(ctx, p.client, errorType(err))
	}
}

func errorType(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return "transport"
}
