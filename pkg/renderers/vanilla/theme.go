package vanilla

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Partial keys a theme may override with its own template paths.
const (
	PartialForm  = "forms.form"
	PartialField = "forms.field"
)

// StylesheetAsset is the asset key resolved through RendererConfig.AssetURL
// for the page stylesheet.
const StylesheetAsset = "vanilla.stylesheet"

// DefaultThemeName names the manifest returned by DefaultManifest.
const DefaultThemeName = "auditform"

func defaultPartials() map[string]string {
	return map[string]string{
		PartialForm:  "templates/form.tmpl",
		PartialField: "templates/field.tmpl",
	}
}

// DefaultManifest describes the built-in look: plain tokens, a "dark" variant
// and the embedded stylesheet served under /assets/auditform.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"af-accent":  "#0b5cad",
			"af-danger":  "#b42318",
			"af-warning": "#b54708",
			"af-surface": "#ffffff",
			"af-text":    "#1d2939",
		},
		Templates: defaultPartials(),
		Assets: theme.Assets{
			Prefix: "/assets/auditform",
			Files: map[string]string{
				StylesheetAsset: StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"af-accent":  "#84caff",
					"af-surface": "#101828",
					"af-text":    "#f2f4f7",
				},
			},
		},
	}
}

// Themes is a ThemeSelector over a fixed set of manifests. An empty name
// picks the first manifest registered.
type Themes struct {
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers manifests by name. Nil or unnamed manifests are skipped.
func NewThemes(manifests ...*theme.Manifest) *Themes {
	t := &Themes{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil || manifest.Name == "" {
			continue
		}
		if t.fallback == "" {
			t.fallback = manifest.Name
		}
		t.manifests[manifest.Name] = manifest
	}
	return t
}

// Select returns the named manifest. Variants must be declared by the
// manifest; the empty variant is always accepted.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = t.fallback
	}
	manifest, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ResolveTheme asks selector for name/variant and converts the result.
func ResolveTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, errors.New("vanilla: theme selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("vanilla: select theme %q: %w", name, err)
	}
	return ConfigFromSelection(selection)
}

// ConfigFromSelection flattens a selection into renderer config: the variant's
// tokens, templates and asset files override the manifest's, built-in
// partials fill the gaps, and every token becomes a "--<token>" CSS variable.
func ConfigFromSelection(selection *theme.Selection) (*theme.RendererConfig, error) {
	if selection == nil || selection.Manifest == nil {
		return nil, errors.New("vanilla: theme selection has no manifest")
	}
	manifest := selection.Manifest

	tokens := mergeStrings(nil, manifest.Tokens)
	partials := mergeStrings(defaultPartials(), manifest.Templates)
	files := mergeStrings(nil, manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStrings(tokens, variant.Tokens)
		partials = mergeStrings(partials, variant.Templates)
		files = mergeStrings(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	name := selection.Theme
	if name == "" {
		name = manifest.Name
	}
	return &theme.RendererConfig{
		Theme:    name,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}, nil
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") {
			return file
		}
		return path.Join(prefix, file)
	}
}

func mergeStrings(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

// cssVarsStyle renders vars as a :root block with sorted keys.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	out := map[string]any{
		"name":       "",
		"variant":    "",
		"vars":       "",
		"stylesheet": "",
	}
	if cfg == nil {
		return out
	}
	out["name"] = cfg.Theme
	out["variant"] = cfg.Variant
	out["vars"] = cssVarsStyle(cfg.CSSVars)
	if cfg.AssetURL != nil {
		out["stylesheet"] = cfg.AssetURL(StylesheetAsset)
	}
	return out
}

func partial(cfg *theme.RendererConfig, key string) string {
	if cfg != nil {
		if name := strings.TrimSpace(cfg.Partials[key]); name != "" {
			return name
		}
	}
	return defaultPartials()[key]
}
