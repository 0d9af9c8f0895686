package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the serialisation of an audit form document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the document format from a file extension. Unknown
// extensions default to JSON, matching the asset convention.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses an audit form document.
func Decode(data []byte, format Format) (AuditForm, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return AuditForm{}, errors.New("form: document is empty")
	}

	var out AuditForm
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return AuditForm{}, fmt.Errorf("form: decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.Unmarshal(data, &out); err != nil {
			return AuditForm{}, fmt.Errorf("form: decode json: %w", err)
		}
	default:
		return AuditForm{}, fmt.Errorf("form: unsupported format %q", format)
	}
	return out, nil
}
