package httpclient

import (
	"net/http"

	"github.com/kbukum/apiclient/logger"
)

// Option customizes a client during New.
type Option func(*Client)

// WithTransport replaces the default transport. The pipeline still runs in
// front of it; proxy settings from Config are not applied to it.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithLogger sets the logger used for construction and plugin events.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
