package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level in development, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: apicall
environment: staging
client:
  base_url: "https://api.example.com/"
  api_version: v2
`)

	type clientSection struct {
		BaseURL    string `mapstructure:"base_url"`
		APIVersion string `mapstructure:"api_version"`
	}
	type settings struct {
		ServiceConfig `mapstructure:",squash"`
		Client        clientSection `mapstructure:"client"`
	}

	var cfg settings
	if err := LoadConfig("apicall", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "apicall" {
		t.Errorf("expected name 'apicall', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Client.BaseURL != "https://api.example.com/" || cfg.Client.APIVersion != "v2" {
		t.Errorf("unexpected client section: %+v", cfg.Client)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg ServiceConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestSource_UnmarshalKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
client:
  headers:
    x-env: prod
`)
	src, err := Open("apicall", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	var section struct {
		Headers map[string]string `mapstructure:"headers"`
	}
	if err := src.UnmarshalKey("client", &section); err != nil {
		t.Fatalf("UnmarshalKey failed: %v", err)
	}
	if section.Headers["x-env"] != "prod" {
		t.Errorf("expected x-env=prod, got %v", section.Headers)
	}
	if src.Files().ConfigFile != path {
		t.Errorf("expected config file %q, got %q", path, src.Files().ConfigFile)
	}
}

func TestCredentials_FromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
wws:
  api_key: abc
  api_instance: inst1
`)
	src, err := Open("apicall", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	creds := src.Credentials("")
	if creds.Scope() != DefaultCredentialsScope {
		t.Errorf("expected default scope, got %q", creds.Scope())
	}
	if key, ok := creds.APIKey(); !ok || key != "abc" {
		t.Errorf("expected api key abc, got %q (ok=%v)", key, ok)
	}
	if inst, ok := creds.APIInstance(); !ok || inst != "inst1" {
		t.Errorf("expected api instance inst1, got %q (ok=%v)", inst, ok)
	}
}

func TestCredentials_ReadAtCallTime(t *testing.T) {
	src, err := Open("apicall", WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	creds := src.Credentials("lazyscope")

	if _, ok := creds.APIKey(); ok {
		t.Fatal("expected api key to be unresolved before it is set")
	}

	src.Set("lazyscope.api_key", "rotated")
	if key, ok := creds.APIKey(); !ok || key != "rotated" {
		t.Errorf("expected updated key, got %q (ok=%v)", key, ok)
	}

	t.Setenv("LAZYSCOPE_API_INSTANCE", "from-env")
	if inst, ok := creds.APIInstance(); !ok || inst != "from-env" {
		t.Errorf("expected instance from environment, got %q (ok=%v)", inst, ok)
	}
}

func TestSource_BindFlags(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
client:
  base_url: https://from-file.example.com
  api_version: v1
`)
	src, err := Open("apicall", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("base-url", "", "")
	fs.String("api-version", "v9", "")
	fs.Bool("verbose", false, "")
	if err := fs.Parse([]string{"--base-url", "https://from-flag.example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := src.BindFlags(fs, map[string]string{
		"base-url":    "client.base_url",
		"api-version": "client.api_version",
		"verbose":     "",
	}); err != nil {
		t.Fatalf("BindFlags failed: %v", err)
	}

	if got, _ := src.Lookup("client.base_url"); got != "https://from-flag.example.com" {
		t.Errorf("expected flag to win, got %q", got)
	}
	if got, _ := src.Lookup("client.api_version"); got != "v1" {
		t.Errorf("expected unset flag to leave file value, got %q", got)
	}
	if _, ok := src.Lookup("verbose"); ok {
		t.Error("expected skipped flag to stay unbound")
	}
}

func TestSource_BindFlagsOverEnv(t *testing.T) {
	t.Setenv("CLIENT_BASE_URL", "https://from-env.example.com")
	t.Setenv("CLIENT_API_VERSION", "v3")
	src, err := Open("apicall", WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("base-url", "", "")
	fs.String("api-version", "v9", "")
	if err := fs.Parse([]string{"--base-url", "https://from-flag.example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := src.BindFlags(fs, map[string]string{
		"base-url":    "client.base_url",
		"api-version": "client.api_version",
	}); err != nil {
		t.Fatalf("BindFlags failed: %v", err)
	}

	if got, _ := src.Lookup("client.base_url"); got != "https://from-flag.example.com" {
		t.Errorf("expected flag to win over env, got %q", got)
	}
	if got, _ := src.Lookup("client.api_version"); got != "v3" {
		t.Errorf("expected env to win over unset flag, got %q", got)
	}
}

func TestSource_EnvOverFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
client:
  base_url: https://from-file.example.com
`)
	t.Setenv("CLIENT_BASE_URL", "https://from-env.example.com")
	src, err := Open("apicall", WithConfigFile(path))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if got, _ := src.Lookup("client.base_url"); got != "https://from-env.example.com" {
		t.Errorf("expected env to win over file, got %q", got)
	}
	var cfg struct {
		Client struct {
			BaseURL string `mapstructure:"base_url"`
		} `mapstructure:"client"`
	}
	if err := src.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cfg.Client.BaseURL != "https://from-env.example.com" {
		t.Errorf("expected unmarshalled env value, got %q", cfg.Client.BaseURL)
	}
}

func TestCredentials_EnvRotatedAfterOpen(t *testing.T) {
	t.Setenv("WWS_API_KEY", "old")
	t.Setenv("WWS_API_INSTANCE", "inst1")
	src, err := Open("apicall", WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	creds := src.Credentials("")

	if key, _ := creds.APIKey(); key != "old" {
		t.Fatalf("expected initial key old, got %q", key)
	}

	t.Setenv("WWS_API_KEY", "rotated")
	if key, ok := creds.APIKey(); !ok || key != "rotated" {
		t.Errorf("expected rotated key, got %q (ok=%v)", key, ok)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/apicall/config.yml": true,
		".env":                     true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("apicall", LoaderConfig{})
	if files.ConfigFile != "./cmd/apicall/config.yml" {
		t.Errorf("expected config file at ./cmd/apicall/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != ".env" {
		t.Errorf("expected env file .env, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	resolver := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./config.yml": true}}}
	files := resolver.ResolveFiles("apicall", LoaderConfig{ConfigFile: "/etc/apicall.yml", EnvFile: "/etc/apicall.env"})
	if files.ConfigFile != "/etc/apicall.yml" || files.EnvFile != "/etc/apicall.env" {
		t.Errorf("expected explicit paths, got %+v", files)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) Getwd() (string, error)    { return "/mock", nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
}
