package plugins

import (
	"net/http"
	"net/url"

	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/logger"
)

const loggingName = "logging"

// redacted replaces credential values in logged URLs.
const redacted = "REDACTED"

type logging struct {
	log *logger.Logger
}

// Logging logs each request at debug level and each outcome with its
// duration: info for 2xx-4xx, warn for 5xx and transport errors. The
// api_key query value is redacted.
func Logging(log *logger.Logger) httpclient.Plugin {
	if log == nil {
		log = logger.Get("httpclient")
	}
	return &logging{log: log}
}

func (l *logging) Name() string { return loggingName }

func (l *logging) ObserveRequest(req *http.Request) (*http.Request, error) {
	l.log.Debug("api request", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, redactURL(req.URL),
		logger.FieldRequestID, req.Header.Get(RequestIDHeader),
	))
	return req.WithContext(withStart(req.Context(), loggingName)), nil
}

func (l *logging) ObserveResponse(req *http.Request, resp *http.Response, err error) {
	fields := logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, redactURL(req.URL),
		logger.FieldDuration, elapsed(req.Context(), loggingName).Milliseconds(),
	)
	if id := req.Header.Get(RequestIDHeader); id != "" {
		fields[logger.FieldRequestID] = id
	}

	switch {
	case err != nil:
		fields[logger.FieldError] = err.Error()
		l.log.Warn("api request failed", fields)
	case resp.StatusCode >= http.StatusInternalServerError:
		fields[logger.FieldStatus] = resp.StatusCode
		l.log.Warn("api response", fields)
	default:
		fields[logger.FieldStatus] = resp.StatusCode
		l.log.Info("api response", fields)
	}
}

func redactURL(u *url.URL) string {
	q := u.Query()
	if !q.Has(httpclient.QueryAPIKey) {
		return u.String()
	}
	q.Set(httpclient.QueryAPIKey, redacted)
	out := *u
	out.RawQuery = q.Encode()
	return out.String()
}
