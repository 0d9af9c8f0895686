package vanilla_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-auditform/pkg/renderers/vanilla"
)

func TestConfigFromSelection_MergesVariant(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand": "#123456",
			"text":  "#000000",
		},
		Templates: map[string]string{
			vanilla.PartialField: "themes/acme/field.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				vanilla.StylesheetAsset: "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						vanilla.StylesheetAsset: "theme.dark.css",
					},
				},
			},
		},
	}

	cfg, err := vanilla.ConfigFromSelection(&theme.Selection{Theme: "acme", Variant: "dark", Manifest: manifest})
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme %q/%q", cfg.Theme, cfg.Variant)
	}
	wantVars := map[string]string{"--brand": "#654321", "--text": "#000000"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	wantPartials := map[string]string{
		vanilla.PartialForm:  "templates/form.tmpl",
		vanilla.PartialField: "themes/acme/field.tmpl",
	}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL(vanilla.StylesheetAsset); got != "/assets/themes/acme/theme.dark.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
}

func TestConfigFromSelection_RequiresManifest(t *testing.T) {
	if _, err := vanilla.ConfigFromSelection(&theme.Selection{Theme: "acme"}); err == nil {
		t.Fatalf("expected error for selection without manifest")
	}
	if _, err := vanilla.ConfigFromSelection(nil); err == nil {
		t.Fatalf("expected error for nil selection")
	}
}

func TestThemes_Select(t *testing.T) {
	themes := vanilla.NewThemes(vanilla.DefaultManifest())

	selection, err := themes.Select("", "")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	if selection.Theme != vanilla.DefaultThemeName {
		t.Fatalf("expected fallback theme, got %q", selection.Theme)
	}
	if _, err := themes.Select("acme", ""); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}
