// Command apicall sends one request to a versioned API through the client
// factory and prints the response.
//
//	apicall [flags] PATH
//
// Settings come from config.yml / .env (see package config); credentials
// are read from the wws section, e.g. WWS_API_KEY and WWS_API_INSTANCE.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/kbukum/apiclient/component"
	"github.com/kbukum/apiclient/config"
	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/logger"
	"github.com/kbukum/apiclient/observability"
	"github.com/kbukum/apiclient/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

type options struct {
	method     string
	data       string
	headers    []string
	include    bool
	fail       bool
	configFile string
	envFile    string
	version    bool
	path       string
}

// flagKeys maps flags onto settings keys; "" leaves a flag unbound.
var flagKeys = map[string]string{
	"request":     "",
	"data":        "",
	"header":      "",
	"include":     "",
	"fail":        "",
	"config":      "",
	"env-file":    "",
	"version":     "",
	"base-url":    "client.base_url",
	"api-version": "client.api_version",
	"timeout":     "client.timeout",
	"credentials": "credentials",
}

func parseFlags(args []string, stderr io.Writer) (*pflag.FlagSet, *options, error) {
	var o options
	fs := pflag.NewFlagSet(serviceName, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.method, "request", "X", http.MethodGet, "HTTP method")
	fs.StringVarP(&o.data, "data", "d", "", "request body, sent as JSON unless -H sets Content-Type")
	fs.StringArrayVarP(&o.headers, "header", "H", nil, `extra header "Name: value" (repeatable)`)
	fs.BoolVarP(&o.include, "include", "i", false, "print response headers")
	fs.BoolVarP(&o.fail, "fail", "f", false, "exit non-zero on HTTP status >= 400")
	fs.StringVar(&o.configFile, "config", "", "config file (default: search ./cmd/apicall, ./config, .)")
	fs.StringVar(&o.envFile, "env-file", "", ".env file (default: search)")
	fs.String("base-url", "", "override client.base_url")
	fs.String("api-version", "", "override client.api_version")
	fs.Duration("timeout", 0, "override client.timeout")
	fs.String("credentials", "", "settings section holding api_key and api_instance")
	fs.BoolVar(&o.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if o.version {
		return fs, &o, nil
	}
	if fs.NArg() != 1 {
		return nil, nil, fmt.Errorf("expected exactly one PATH argument, got %d", fs.NArg())
	}
	o.path = fs.Arg(0)
	return fs, &o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.version {
		_, err := fmt.Fprintf(stdout, "%s %s\n", serviceName, version.Get())
		return err
	}

	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}
	src, err := config.Open(serviceName, loaderOpts...)
	if err != nil {
		return err
	}
	if err := src.BindFlags(fs, flagKeys); err != nil {
		return err
	}

	var settings Settings
	if err := src.Unmarshal(&settings); err != nil {
		return err
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return err
	}

	settings.Logging.Writer = stderr
	logger.Init(&settings.Logging)
	log := logger.Get(serviceName)

	shutdown, metrics, err := initTelemetry(ctx, &settings)
	if err != nil {
		return err
	}
	defer shutdown()

	pluginSet, err := buildPlugins(&settings, metrics)
	if err != nil {
		return err
	}
	settings.Client.Plugins = pluginSet

	client := httpclient.NewComponent(settings.Client, src.Credentials(settings.Credentials))
	registry := component.NewRegistry()
	if err := registry.Register(client); err != nil {
		return err
	}
	if err := registry.StartAll(ctx); err != nil {
		return err
	}
	defer func() {
		if err := registry.StopAll(context.WithoutCancel(ctx)); err != nil {
			log.Warn("shutdown failed", logger.Fields(logger.FieldError, err.Error()))
		}
	}()
	for _, d := range registry.Describe() {
		log.Debug("component ready", logger.Fields(logger.FieldComponent, d.Name, "type", d.Type, "details", d.Details))
	}

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}
	resp, err := client.Client().Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := printResponse(stdout, resp, opts.include); err != nil {
		return err
	}
	if opts.fail && resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server responded %s", resp.Status)
	}
	return nil
}

func buildRequest(opts *options) (httpclient.Request, error) {
	req := httpclient.Request{
		Method:  strings.ToUpper(opts.method),
		Path:    opts.path,
		Headers: map[string]string{},
	}
	for _, h := range opts.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return req, fmt.Errorf("invalid header %q, want \"Name: value\"", h)
		}
		req.Headers[http.CanonicalHeaderKey(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	if opts.data != "" {
		req.Body = []byte(opts.data)
		if _, ok := req.Headers["Content-Type"]; !ok {
			req.Headers["Content-Type"] = "application/json"
		}
	}
	return req, nil
}

func printResponse(w io.Writer, resp *http.Response, include bool) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", resp.Proto, resp.Status); err != nil {
		return err
	}
	if include {
		names := make([]string, 0, len(resp.Header))
		for name := range resp.Header {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			for _, v := range resp.Header[name] {
				fmt.Fprintf(w, "%s: %s\n", name, v)
			}
		}
	}
	fmt.Fprintln(w)
	_, err := io.Copy(w, resp.Body)
	return err
}

// initTelemetry starts the enabled OpenTelemetry providers. The returned
// func flushes and stops them. Metric instruments are always created; with
// metrics disabled they record into the global no-op provider.
func initTelemetry(ctx context.Context, s *Settings) (func(), *observability.ClientMetrics, error) {
	var shutdowns []func(context.Context) error
	shutdown := func() {
		for _, fn := range shutdowns {
			if err := fn(context.WithoutCancel(ctx)); err != nil {
				logger.Get(serviceName).Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
			}
		}
	}

	if s.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, s.Tracing)
		if err != nil {
			return nil, nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if s.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, &s.Metrics)
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	m, err := observability.NewClientMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	return shutdown, m, nil
}
