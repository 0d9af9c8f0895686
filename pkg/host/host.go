package host

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/internal/loader"
	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/registry"
	"github.com/goliatone/go-auditform/pkg/renderer"
	"github.com/goliatone/go-auditform/pkg/schema"
)

var (
	// ErrLoad wraps failures to fetch or decode a form description. Rendering
	// is blocked; there is no retry. An unknown audit id also carries
	// schema.ErrNotFound.
	ErrLoad = errors.New("host: load audit form")
	// ErrCustomLoad wraps failures of a registered custom form. The generic
	// renderer is not tried afterwards.
	ErrCustomLoad = errors.New("host: load custom form")
)

// Option customises the host.
type Option func(*Host)

// WithRegistry injects the custom form registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(h *Host) {
		h.registry = reg
	}
}

// WithLoader injects the description loader.
func WithLoader(l schema.Loader) Option {
	return func(h *Host) {
		h.loader = l
	}
}

// WithAssetRoot sets where audits/<id>.json documents live: empty for the
// loader file system, a directory, or an http(s) base URL.
func WithAssetRoot(root string) Option {
	return func(h *Host) {
		h.root = root
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRendererOptions forwards options to every generic view.
func WithRendererOptions(options ...renderer.Option) Option {
	return func(h *Host) {
		h.rendererOptions = append(h.rendererOptions, options...)
	}
}

// Host resolves an audit id to a live form: the registry is consulted first
// and, when it has no entry, the JSON description is fetched and rendered
// generically.
type Host struct {
	registry        *registry.Registry
	loader          schema.Loader
	root            string
	logger          *zap.Logger
	rendererOptions []renderer.Option
}

// New constructs a Host. The default loader has no bundled file system and no
// HTTP client, so only directory asset roots resolve without WithLoader.
func New(options ...Option) *Host {
	h := &Host{
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.registry == nil {
		h.registry = registry.New()
	}
	if h.loader == nil {
		h.loader = loader.New(schema.LoaderOptions{})
	}
	return h
}

// Registry returns the custom form registry.
func (h *Host) Registry() *registry.Registry {
	return h.registry
}

// Open builds the live form for auditID.
func (h *Host) Open(ctx context.Context, auditID string) (audit.View, error) {
	if ctx == nil {
		return nil, errors.New("host: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if auditID == "" {
		return nil, errors.New("host: audit id is required")
	}

	if custom, ok := h.registry.Lookup(auditID); ok {
		view, err := custom(ctx)
		if err != nil {
			h.logger.Error("custom form failed", zap.String("audit", auditID), zap.Error(err))
			return nil, fmt.Errorf("%w %s: %w", ErrCustomLoad, registry.Key(auditID), err)
		}
		h.logger.Debug("custom form opened", zap.String("audit", auditID))
		return view, nil
	}

	f, err := h.Load(ctx, auditID)
	if err != nil {
		return nil, err
	}
	view, err := renderer.New(f, h.rendererOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLoad, auditID, err)
	}
	return view, nil
}

// Load fetches, decodes and checks the description of auditID. Lint issues
// are logged but do not block.
func (h *Host) Load(ctx context.Context, auditID string) (form.AuditForm, error) {
	src, err := schema.AuditSource(h.root, auditID)
	if err != nil {
		return form.AuditForm{}, fmt.Errorf("%w %s: %w", ErrLoad, auditID, err)
	}
	doc, err := h.loader.Load(ctx, src)
	switch {
	case errors.Is(err, schema.ErrNotFound):
		h.logger.Warn("audit form not found", zap.String("audit", auditID), zap.String("source", src.Location()))
		return form.AuditForm{}, fmt.Errorf("%w %s: %w", ErrLoad, auditID, schema.ErrNotFound)
	case err != nil:
		h.logger.Error("audit form fetch failed", zap.String("audit", auditID), zap.String("source", src.Location()), zap.Error(err))
		return form.AuditForm{}, fmt.Errorf("%w %s: %w", ErrLoad, auditID, err)
	}
	f := doc.Form()
	if f.ID != "" && !strings.EqualFold(f.ID, auditID) {
		h.logger.Warn("audit form id differs from requested id", zap.String("audit", auditID), zap.String("id", f.ID))
	}
	if err := form.Validate(f); err != nil {
		return form.AuditForm{}, fmt.Errorf("%w %s: %w", ErrLoad, auditID, err)
	}
	for _, issue := range form.Lint(f) {
		h.logger.Warn("audit form lint", zap.String("audit", auditID), zap.String("issue", issue.String()))
	}
	return f, nil
}
