package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
tenantCode: CCPP
apiBaseUrl: https://api.example.test
assetRoot: ./forms
log:
  level: debug
sink:
  kind: http
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.TenantCode = "CCPP"
	want.APIBaseURL = "https://api.example.test"
	want.AssetRoot = "./forms"
	want.Log.Level = "debug"
	want.Sink.Kind = SinkHTTP
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoad_JSONDocument(t *testing.T) {
	path := writeConfig(t, `{"tenantCode": "T1", "environment": "production"}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TenantCode != "T1" || cfg.Environment != "production" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_EnvFallbackAndDefaults(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	path := writeConfig(t, "tenantCode: FROM_ENV\n")
	t.Setenv(EnvPath, path)
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.TenantCode != "FROM_ENV" {
		t.Fatalf("expected env config, got %q", cfg.TenantCode)
	}
}

func TestLoad_MissingNamedFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		is      error
	}{
		{name: "missing tenant", mutate: func(c *Config) {}, wantErr: true, is: ErrMissingTenant},
		{name: "log sink", mutate: func(c *Config) { c.TenantCode = "T" }},
		{name: "file sink without path", mutate: func(c *Config) {
			c.TenantCode = "T"
			c.Sink.Kind = SinkFile
		}, wantErr: true},
		{name: "http sink without base", mutate: func(c *Config) {
			c.TenantCode = "T"
			c.Sink.Kind = SinkHTTP
		}, wantErr: true},
		{name: "unknown sink", mutate: func(c *Config) {
			c.TenantCode = "T"
			c.Sink.Kind = "kafka"
		}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tc.wantErr, err)
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestTimeoutFallback(t *testing.T) {
	cfg := Default()
	cfg.RequestTimeout = "nonsense"
	if got := cfg.Timeout(); got != 10*time.Second {
		t.Fatalf("expected fallback timeout, got %v", got)
	}
	cfg.RequestTimeout = "3s"
	if got := cfg.Timeout(); got != 3*time.Second {
		t.Fatalf("expected 3s, got %v", got)
	}
}
