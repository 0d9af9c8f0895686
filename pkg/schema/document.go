package schema

import (
	"errors"

	"github.com/goliatone/go-auditform/pkg/form"
)

// ErrNotFound reports that no audit form document exists at a source: a
// missing file or fs entry, or an HTTP 404/410. Loaders wrap it so callers can
// tell an unknown audit id apart from a broken or unreachable one.
var ErrNotFound = errors.New("schema: audit form not found")

// Document is a decoded audit form together with where it was loaded from.
type Document struct {
	source Source
	form   form.AuditForm
}

// NewDocument pairs a decoded form with its origin.
func NewDocument(src Source, f form.AuditForm) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	return Document{source: src, form: f}, nil
}

// DecodeDocument decodes raw in the given format and pairs it with src.
func DecodeDocument(src Source, raw []byte, format form.Format) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	f, err := form.Decode(raw, format)
	if err != nil {
		return Document{}, err
	}
	return Document{source: src, form: f}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Form returns the decoded description.
func (d Document) Form() form.AuditForm {
	return d.form
}
