package observability

import (
	"fmt"
	"time"
)

const (
	defaultEndpoint = "localhost:4318"
	defaultInterval = 15 * time.Second
)

// TracerConfig configures the OpenTelemetry tracer.
type TracerConfig struct {
	// Enabled turns tracing on. When false, InitTracer is not called and
	// spans go to the global no-op provider.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// DefaultTracerConfig returns sensible defaults for development.
func DefaultTracerConfig(serviceName string) TracerConfig {
	cfg := TracerConfig{ServiceName: serviceName, Insecure: true, SampleRate: 1.0}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
// SampleRate is left alone since zero is meaningful.
func (c *TracerConfig) ApplyDefaults() {
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.0.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
}

// Validate checks that the configuration is valid.
func (c *TracerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.ServiceName == "" {
		return fmt.Errorf("tracing: service_name is required")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("tracing: sample_rate %v out of range [0,1]", c.SampleRate)
	}
	return nil
}

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// Enabled turns metric export on.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (dev, staging, prod).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	cfg := MeterConfig{ServiceName: serviceName, Insecure: true}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *MeterConfig) ApplyDefaults() {
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.0.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
}

// Validate checks that the configuration is valid.
func (c *MeterConfig) Validate() error {
	if c.Enabled && c.ServiceName == "" {
		return fmt.Errorf("metrics: service_name is required")
	}
	return nil
}
