package auditform

import (
	"context"

	"github.com/goliatone/go-auditform/internal/loader"
	"github.com/goliatone/go-auditform/pkg/audit"
	"github.com/goliatone/go-auditform/pkg/customforms"
	"github.com/goliatone/go-auditform/pkg/host"
	"github.com/goliatone/go-auditform/pkg/registry"
	"github.com/goliatone/go-auditform/pkg/schema"
)

// View aliases audit.View for callers that only import the root package.
type View = audit.View

// Payload aliases audit.Payload.
type Payload = audit.Payload

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers. Without WithFileSystem the bundled
// descriptions back fs sources.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(options...)
	if cfg.FileSystem == nil {
		cfg.FileSystem = AssetsFS()
	}
	return loader.New(cfg)
}

// NewRegistry returns a registry holding every built-in custom form.
func NewRegistry(options ...customforms.Option) (*registry.Registry, error) {
	reg := registry.New()
	if err := customforms.Register(reg, options...); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewHost wires a host over the bundled descriptions and the built-in custom
// forms. Options given later override those defaults.
func NewHost(options ...host.Option) (*host.Host, error) {
	reg, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	defaults := []host.Option{
		host.WithRegistry(reg),
		host.WithLoader(NewLoader()),
	}
	return host.New(append(defaults, options...)...), nil
}

// Open is the shortest path to a live form: it resolves auditID against the
// built-in custom forms and the bundled descriptions.
func Open(ctx context.Context, auditID string, options ...host.Option) (View, error) {
	h, err := NewHost(options...)
	if err != nil {
		return nil, err
	}
	return h.Open(ctx, auditID)
}
