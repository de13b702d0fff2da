package main

import (
	"fmt"
	"strings"

	"github.com/kbukum/apiclient/config"
	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/httpclient/plugins"
	"github.com/kbukum/apiclient/observability"
	"github.com/kbukum/apiclient/version"
)

const serviceName = "apicall"

// Settings is the apicall configuration document.
type Settings struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// Credentials names the settings section holding api_key and
	// api_instance. Defaults to "wws".
	Credentials string `yaml:"credentials" mapstructure:"credentials"`

	Client  httpclient.Config          `yaml:"client" mapstructure:"client"`
	Plugins PluginSettings             `yaml:"plugins" mapstructure:"plugins"`
	Tracing observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// PluginSettings toggles the built-in plugins. They are attached in field
// order.
type PluginSettings struct {
	RequestID bool               `yaml:"request_id" mapstructure:"request_id"`
	JWT       *plugins.JWTConfig `yaml:"jwt" mapstructure:"jwt"`
	Tracing   bool               `yaml:"tracing" mapstructure:"tracing"`
	Metrics   bool               `yaml:"metrics" mapstructure:"metrics"`
	Logging   bool               `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = serviceName
	}
	// stdout carries the response
	if s.Logging.Output == "" {
		s.Logging.Output = "stderr"
	}
	if s.Version == "" {
		s.Version = version.Get().Short()
	}
	s.ServiceConfig.ApplyDefaults()
	if s.Credentials == "" {
		s.Credentials = config.DefaultCredentialsScope
	}
	if s.Client.Name == "" {
		s.Client.Name = s.Name
	}
	s.Client.Headers = withDefaultHeader(s.Client.Headers, "User-Agent", version.UserAgent(serviceName))
	s.Client.ApplyDefaults()

	if s.Tracing.ServiceName == "" {
		s.Tracing.ServiceName = s.Name
	}
	if s.Tracing.ServiceVersion == "" {
		s.Tracing.ServiceVersion = s.Version
	}
	if s.Tracing.Environment == "" {
		s.Tracing.Environment = s.Environment
	}
	s.Tracing.ApplyDefaults()

	if s.Metrics.ServiceName == "" {
		s.Metrics.ServiceName = s.Name
	}
	if s.Metrics.ServiceVersion == "" {
		s.Metrics.ServiceVersion = s.Version
	}
	if s.Metrics.Environment == "" {
		s.Metrics.Environment = s.Environment
	}
	s.Metrics.ApplyDefaults()

	if s.Plugins.JWT != nil {
		s.Plugins.JWT.ApplyDefaults()
	}
}

// Validate checks that the configuration is valid.
func (s *Settings) Validate() error {
	if err := s.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := s.Client.Validate(); err != nil {
		return err
	}
	if err := s.Tracing.Validate(); err != nil {
		return err
	}
	if err := s.Metrics.Validate(); err != nil {
		return err
	}
	if s.Plugins.JWT != nil {
		if err := s.Plugins.JWT.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// buildPlugins returns the enabled plugins. m may be nil when metrics are
// disabled.
func buildPlugins(s *Settings, m *observability.ClientMetrics) ([]httpclient.Plugin, error) {
	var out []httpclient.Plugin
	if s.Plugins.RequestID {
		out = append(out, plugins.RequestID())
	}
	if s.Plugins.JWT != nil {
		p, err := plugins.JWTBearer(*s.Plugins.JWT)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if s.Plugins.Tracing {
		out = append(out, plugins.Tracing(nil, nil))
	}
	if s.Plugins.Metrics {
		if m == nil {
			return nil, fmt.Errorf("plugins.metrics requires metric instruments")
		}
		out = append(out, plugins.Metrics(m, s.Client.Name))
	}
	if s.Plugins.Logging {
		out = append(out, plugins.Logging(nil))
	}
	return out, nil
}

// withDefaultHeader adds name unless headers already hold it in any case;
// settings files deliver header names lower-cased.
func withDefaultHeader(headers map[string]string, name, value string) map[string]string {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return headers
		}
	}
	if headers == nil {
		headers = make(map[string]string, 1)
	}
	headers[name] = value
	return headers
}
