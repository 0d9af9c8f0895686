package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "AUDITFORM_CONFIG"

// Sink kinds.
const (
	SinkLog  = "log"
	SinkFile = "file"
	SinkHTTP = "http"
)

// ErrMissingTenant is returned by Validate when tenantCode is empty.
var ErrMissingTenant = errors.New("configuration error: tenantCode is missing")

// Config holds the portal settings. The file is YAML; JSON documents parse
// as well.
type Config struct {
	TenantCode  string `yaml:"tenantCode"`
	TenantName  string `yaml:"tenantName"`
	APIBaseURL  string `yaml:"apiBaseUrl"`
	Environment string `yaml:"environment"`
	AppName     string `yaml:"appName"`
	Version     string `yaml:"version"`

	// AssetRoot is where audits/<id>.json live: empty for the bundled forms,
	// a directory, or an http(s) base URL.
	AssetRoot string `yaml:"assetRoot"`

	// RequestTimeout bounds a remote form fetch, as a Go duration string.
	RequestTimeout string `yaml:"requestTimeout"`

	Log  LogConfig  `yaml:"log"`
	Sink SinkConfig `yaml:"sink"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// SinkConfig selects where submissions go.
type SinkConfig struct {
	Kind     string `yaml:"kind"`
	Path     string `yaml:"path"`
	Sanitize bool   `yaml:"sanitize"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Environment:    "development",
		AppName:        "auditform",
		Version:        "dev",
		RequestTimeout: "10s",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Sink: SinkConfig{
			Kind:     SinkLog,
			Sanitize: true,
		},
	}
}

// Load reads the configuration at path. An empty path falls back to
// $AUDITFORM_CONFIG; when that is unset too, defaults are returned. A path
// that was named but does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvPath))
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings needed to submit audits.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TenantCode) == "" {
		return ErrMissingTenant
	}
	switch c.Sink.Kind {
	case "", SinkLog:
	case SinkFile:
		if strings.TrimSpace(c.Sink.Path) == "" {
			return fmt.Errorf("config: sink.path is required for the file sink")
		}
	case SinkHTTP:
		if strings.TrimSpace(c.APIBaseURL) == "" {
			return fmt.Errorf("config: apiBaseUrl is required for the http sink")
		}
	default:
		return fmt.Errorf("config: unknown sink kind %q", c.Sink.Kind)
	}
	return nil
}

// Timeout parses RequestTimeout, falling back to ten seconds.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d < 0 {
		return 10 * time.Second
	}
	return d
}
