package plugins

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/apiclient/httpclient"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// RequestID sets X-Request-ID to a random UUID unless the request already
// carries one.
func RequestID() httpclient.Plugin {
	return httpclient.NewPlugin("request-id", func(req *http.Request) (*http.Request, error) {
		if req.Header.Get(RequestIDHeader) == "" {
			req.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return req, nil
	}, nil)
}
