package tui

import (
	"go.uber.org/zap"
)

// Theme captures optional prefixes the filler puts in front of messages.
type Theme struct {
	SectionPrefix string
	InfoPrefix    string
	ErrorPrefix   string
	WarningPrefix string
}

// DefaultTheme is applied when no theme is configured.
var DefaultTheme = Theme{
	SectionPrefix: "== ",
	ErrorPrefix:   "✗ ",
	WarningPrefix: "! ",
}

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver used by the filler.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithRowPrompts toggles the add-row question after dynamic sections.
func WithRowPrompts(enabled bool) Option {
	return func(f *Filler) {
		f.rowPrompts = enabled
	}
}
