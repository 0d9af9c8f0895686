package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	auditform "github.com/goliatone/go-auditform"
	"github.com/goliatone/go-auditform/internal/logging"
	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/config"
	"github.com/goliatone/go-auditform/pkg/customforms"
	"github.com/goliatone/go-auditform/pkg/host"
	"github.com/goliatone/go-auditform/pkg/registry"
	"github.com/goliatone/go-auditform/pkg/renderer"
	"github.com/goliatone/go-auditform/pkg/schema"
	"github.com/goliatone/go-auditform/pkg/sink"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath    string
	assets        string
	logLevel      string
	rangeWarnings bool

	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *zap.Logger
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return codeError(3, "%s", err)
	}
	if strings.TrimSpace(a.assets) != "" {
		cfg.AssetRoot = a.assets
	}
	if strings.TrimSpace(a.logLevel) != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return codeError(3, "%s", err)
	}
	a.cfg = cfg
	a.logger = logger.With(zap.String("app", cfg.AppName), zap.String("env", cfg.Environment))
	return nil
}

// sink builds the configured submission destination. The returned closer
// releases any file handle.
func (a *app) sink() (audit.Sink, func() error, error) {
	noop := func() error { return nil }
	var (
		out    audit.Sink
		closer = noop
	)
	switch a.cfg.Sink.Kind {
	case "", config.SinkLog:
		out = sink.NewLogSink(a.logger)
	case config.SinkFile:
		file, err := os.OpenFile(a.cfg.Sink.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("open sink file: %w", err)
		}
		out = sink.Multi(sink.NewWriterSink(file), sink.NewLogSink(a.logger))
		closer = file.Close
	case config.SinkHTTP:
		httpSink, err := sink.NewHTTPSink(a.cfg.APIBaseURL, &http.Client{Timeout: a.cfg.Timeout()})
		if err != nil {
			return nil, noop, err
		}
		out = sink.Multi(httpSink, sink.NewLogSink(a.logger))
	default:
		return nil, noop, fmt.Errorf("unknown sink kind %q", a.cfg.Sink.Kind)
	}
	if a.cfg.Sink.Sanitize {
		out = sink.Sanitize(out)
	}
	return out, closer, nil
}

// host wires the registry, loader and renderer options around out.
func (a *app) host(out audit.Sink) (*host.Host, error) {
	if out == nil {
		out = audit.DiscardSink
	}
	reg := registry.New()
	if err := customforms.Register(reg,
		customforms.WithSink(out),
		customforms.WithLogger(a.logger),
		customforms.WithTenant(a.cfg.TenantCode),
	); err != nil {
		return nil, err
	}

	loader := auditform.NewLoader(schema.WithHTTPFallback(a.cfg.Timeout()))

	rendererOptions := []renderer.Option{
		renderer.WithSink(out),
		renderer.WithLogger(a.logger),
		renderer.WithTenant(a.cfg.TenantCode),
	}
	if a.rangeWarnings {
		rendererOptions = append(rendererOptions, renderer.WithRangeWarnings())
	}

	return host.New(
		host.WithRegistry(reg),
		host.WithLoader(loader),
		host.WithAssetRoot(a.cfg.AssetRoot),
		host.WithLogger(a.logger),
		host.WithRendererOptions(rendererOptions...),
	), nil
}

// requireTenant enforces the settings needed before anything is submitted.
func (a *app) requireTenant() error {
	if err := a.cfg.Validate(); err != nil {
		return codeError(3, "%s", err)
	}
	return nil
}

// openError maps a failed Host.Open onto an exit code: 4 when no form exists
// for the id, 1 otherwise.
func openError(auditID string, err error) error {
	if errors.Is(err, schema.ErrNotFound) {
		return codeError(4, "audit form %q not found", auditID)
	}
	return codeError(1, "%s", err)
}
