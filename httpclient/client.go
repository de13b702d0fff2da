package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/logger"
)

// Client is an HTTP client bound to one versioned API. Its configuration is
// fixed at construction; it is safe for concurrent use to the extent
// net/http is.
type Client struct {
	httpClient *http.Client
	config     Config
	baseURL    *url.URL
	pipeline   *pipeline
	transport  http.RoundTripper
	log        *logger.Logger
}

// New builds a client from cfg. creds is consulted on every request.
// Construction performs no network I/O. A malformed base URL or version
// yields a ConfigurationError; a rejected plugin yields a
// PluginAttachmentError.
func New(cfg Config, creds Credentials, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := ExpandBaseURL(cfg.BaseURL, cfg.APIVersion)
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:  cfg,
		baseURL: base,
		log:     logger.Get("httpclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithFields(logger.Fields(logger.FieldClient, cfg.Name))

	if c.transport == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = cfg.Proxy.proxyFunc()
		c.transport = transport
	}

	c.pipeline = &pipeline{
		decorator: NewDecorator(creds),
		next:      c.transport,
	}
	c.httpClient = &http.Client{
		Transport: c.pipeline,
		Timeout:   cfg.Timeout,
	}

	// Plugins keep their own copy so later edits to cfg.Plugins do nothing.
	c.config.Plugins = nil
	if err := AttachPlugins(c, cfg.Plugins...); err != nil {
		return nil, err
	}

	c.log.Debug("http client built", logger.Fields(
		"base_url", c.BaseURL(),
		"plugins", len(c.pipeline.plugins),
		"proxy", cfg.Proxy != nil,
	))
	return c, nil
}

// Name returns the configured client name.
func (c *Client) Name() string {
	return c.config.Name
}

// BaseURL returns the base address with the API version substituted.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Decorator returns the credential decorator installed by New.
func (c *Client) Decorator() *Decorator {
	return c.pipeline.decorator
}

// Plugins returns the attached plugins in attachment order.
func (c *Client) Plugins() []Plugin {
	out := make([]Plugin, len(c.pipeline.plugins))
	copy(out, c.pipeline.plugins)
	return out
}

// Unwrap returns the underlying *http.Client. Requests sent through it
// still pass the decorator and plugins.
func (c *Client) Unwrap() *http.Client {
	return c.httpClient
}

// CloseIdleConnections closes idle keep-alive connections of the transport.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Do builds and sends a request. The caller must close the response body.
// Status codes are not interpreted.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	httpReq, err := c.NewRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.Send(httpReq)
}

// Send sends a prepared request through the pipeline.
func (c *Client) Send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err == nil {
		return resp, nil
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return nil, appErr
	}
	op := req.Method + " " + req.URL.Path
	var urlErr *url.Error
	if req.Context().Err() != nil || (stderrors.As(err, &urlErr) && urlErr.Timeout()) {
		return nil, errors.Timeout(op).WithCause(err)
	}
	return nil, errors.ConnectionFailed(c.config.Name).WithCause(err).WithDetail("operation", op)
}

// NewRequest builds an *http.Request against the versioned base URL with
// the client defaults merged in. Credentials are added when it is sent.
func (c *Client) NewRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("encode body: %v", err)).WithCause(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, joinPath(c.baseURL, req.Path), body)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("create request: %v", err)).WithCause(err)
	}

	if len(c.config.Query) > 0 || len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range c.config.Query {
			if !q.Has(k) {
				q.Set(k, v)
			}
		}
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Request-level auth overrides client-level
	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
