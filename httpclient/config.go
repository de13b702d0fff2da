package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/validation"
)

const (
	defaultBaseURL    = "/"
	defaultAPIVersion = "v1"
	defaultTimeout    = 30 * time.Second
)

// Config configures the HTTP client. It is read once by New; later changes
// to the value have no effect on a built client.
type Config struct {
	// Name identifies the client in logs and errors. Defaults to "http".
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is joined with the API version to form the prefix of every
	// request path. It may be relative, in which case requests can only be
	// sent by transports that accept scheme-less URLs. It may contain a
	// {version} placeholder to position the version explicitly. Defaults to "/".
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// APIVersion is substituted into the base URL. Defaults to "v1".
	APIVersion string `yaml:"api_version" mapstructure:"api_version" validate:"required,urlsegment"`

	// Timeout bounds a whole request including reading the body. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers; per-request headers win on conflict.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Query holds default query parameters; per-request values win on conflict.
	Query map[string]string `yaml:"query" mapstructure:"query"`

	// Auth configures default authentication. Nil sends no credentials
	// beyond the api_key/api_instance query parameters.
	Auth *AuthConfig `yaml:"-" mapstructure:"-" validate:"-"`

	// Proxy routes requests through a proxy. Nil connects directly and
	// ignores HTTP_PROXY style environment variables.
	Proxy *ProxyConfig `yaml:"proxy" mapstructure:"proxy"`

	// Plugins are attached in order after the request decorator.
	Plugins []Plugin `yaml:"-" mapstructure:"-" validate:"-"`
}

// ProxyConfig configures an explicit proxy.
type ProxyConfig struct {
	// HTTPProxy is used for http:// requests.
	HTTPProxy string `yaml:"http" mapstructure:"http" validate:"omitempty,url"`
	// HTTPSProxy is used for https:// requests.
	HTTPSProxy string `yaml:"https" mapstructure:"https" validate:"omitempty,url"`
	// NoProxy lists hosts bypassing the proxy, in NO_PROXY syntax.
	NoProxy string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid. Failures are reported
// as ConfigurationErrors.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		field := ""
		if fields := validation.Fields(err); len(fields) > 0 {
			field = fields[0].Field
		}
		return errors.Configuration(field, errors.Wrap(err).Message).WithCause(err)
	}
	return nil
}

// proxyFunc returns the transport proxy selector, or nil for direct
// connections.
func (p *ProxyConfig) proxyFunc() func(*http.Request) (*url.URL, error) {
	if p == nil || (p.HTTPProxy == "" && p.HTTPSProxy == "") {
		return nil
	}
	cfg := httpproxy.Config{
		HTTPProxy:  p.HTTPProxy,
		HTTPSProxy: p.HTTPSProxy,
		NoProxy:    p.NoProxy,
	}
	selectProxy := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return selectProxy(req.URL)
	}
}
