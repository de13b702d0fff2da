package httpclient

import (
	"context"
	"fmt"

	"github.com/kbukum/apiclient/component"
)

// Component wraps a Client with lifecycle management.
// Use this when the client is one of several managed components of an
// application (see component.Registry).
type Component struct {
	client *Client
	config Config
	creds  Credentials
	opts   []Option
}

// compile-time assertions
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a new HTTP client component.
// The client is built lazily in Start().
func NewComponent(cfg Config, creds Credentials, opts ...Option) *Component {
	return &Component{config: cfg, creds: creds, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	name := c.config.Name
	if name == "" {
		name = "http"
	}
	return name
}

// Start builds the client. Construction does not contact the API.
func (c *Component) Start(_ context.Context) error {
	client, err := New(c.config, c.creds, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop releases idle connections held by the client.
func (c *Component) Stop(_ context.Context) error {
	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	return nil
}

// Health reports whether the client is built and its credentials resolve.
// It does not contact the API.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	default:
		if _, _, err := c.client.Decorator().resolve(); err != nil {
			h.Status = component.StatusDegraded
			h.Message = err.Error()
		}
	}
	return h
}

// Describe returns component description for the startup summary.
func (c *Component) Describe() component.Description {
	details := c.config.BaseURL
	if c.client != nil {
		details = fmt.Sprintf("%s plugins=%d", c.client.BaseURL(), len(c.client.Plugins()))
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: details,
	}
}

// Client returns the underlying client. Must be called after Start().
func (c *Component) Client() *Client {
	return c.client
}
