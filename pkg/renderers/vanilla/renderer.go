package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/audit"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer TemplateRenderer
	theme            *theme.RendererConfig
	selector         theme.ThemeSelector
	themeName        string
	themeVariant     string
	action           string
	stylesheet       string
	inlineStyles     bool
	logger           *zap.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme uses an already resolved theme config.
func WithTheme(t *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = t
	}
}

// WithThemeSelector resolves name/variant through selector when the renderer
// is built. It is ignored when WithTheme is also given.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithAction sets the form's action URL.
func WithAction(url string) Option {
	return func(cfg *config) {
		cfg.action = url
	}
}

// WithStylesheet links href instead of the theme's stylesheet asset.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = href
	}
}

// WithDefaultStyles inlines the embedded stylesheet into the output.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer turns a live audit view into an HTML form.
type Renderer struct {
	templates    TemplateRenderer
	theme        *theme.RendererConfig
	action       string
	stylesheet   string
	inlineStyles string
	logger       *zap.Logger
}

// New constructs the renderer. Without a theme option the built-in manifest
// is used with no variant.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := NewEngine(cfg.templateFS, ".tmpl")
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	themeCfg := cfg.theme
	if themeCfg == nil {
		selector := cfg.selector
		if selector == nil {
			selector = NewThemes(DefaultManifest())
		}
		resolved, err := ResolveTheme(selector, cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		themeCfg = resolved
	}

	r := &Renderer{
		templates:  renderer,
		theme:      themeCfg,
		action:     cfg.action,
		stylesheet: cfg.stylesheet,
		logger:     cfg.logger,
	}
	if r.stylesheet == "" && themeCfg.AssetURL != nil {
		r.stylesheet = themeCfg.AssetURL(StylesheetAsset)
	}
	if cfg.inlineStyles {
		r.inlineStyles = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Theme returns the resolved theme config.
func (r *Renderer) Theme() *theme.RendererConfig {
	return r.theme
}

// Render writes the current state of view: values, visible errors, warnings
// and the row controls of dynamic sections.
func (r *Renderer) Render(ctx context.Context, view audit.View) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if view == nil {
		return nil, errors.New("vanilla renderer: view is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fieldTemplate := partial(r.theme, PartialField)
	builder := &modelBuilder{
		view:     view,
		manager:  view.Manager(),
		warnings: view.Warnings(),
		cell: func(field map[string]any) (string, error) {
			return r.templates.RenderTemplate(fieldTemplate, map[string]any{"field": field})
		},
	}
	model, err := builder.form(r.action)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	themeData := themeContext(r.theme)
	themeData["stylesheet"] = r.stylesheet

	result, err := r.templates.RenderTemplate(partial(r.theme, PartialForm), map[string]any{
		"form":         model,
		"theme":        themeData,
		"inlineStyles": r.inlineStyles,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	r.logger.Debug("rendered audit form",
		zap.String("audit", view.AuditID()),
		zap.String("theme", r.theme.Theme),
		zap.String("variant", r.theme.Variant),
		zap.Int("invalid", builder.invalid),
	)
	return []byte(result), nil
}
