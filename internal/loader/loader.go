package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/schema"
)

// Loader implements schema.Loader for audit form documents held on disk, in an
// fs.FS (the bundled assets) or behind an HTTP asset root. Every fetch is a
// single attempt; there is no retry.
type Loader struct {
	files    fs.FS
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader. HTTP sources are only served when a client was
// injected or the HTTP fallback was enabled.
func New(options schema.LoaderOptions) *Loader {
	l := &Loader{
		files:    options.FileSystem,
		timeout:  options.RequestTimeout,
		maxBytes: options.MaxBytes,
	}
	if l.maxBytes <= 0 {
		l.maxBytes = schema.DefaultMaxBytes
	}
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if l.timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = l.timeout
		}
		l.client = &clone
	case options.AllowHTTPFallback:
		l.client = &http.Client{Timeout: l.timeout}
	}
	return l
}

// Load fetches and decodes the audit form at src. A missing document is
// reported with schema.ErrNotFound in the chain.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return schema.Document{}, err
	}

	var (
		raw    []byte
		format = form.FormatFromPath(src.Location())
		err    error
	)
	switch src.Kind() {
	case schema.SourceKindFile:
		raw, err = l.readFile(src.Location())
	case schema.SourceKindFS:
		raw, err = l.readFS(src.Location())
	case schema.SourceKindURL:
		raw, format, err = l.fetch(ctx, src.Location(), format)
	default:
		err = fmt.Errorf("unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return schema.Document{}, fmt.Errorf("loader: %s: %w", src.Location(), err)
	}

	doc, err := schema.DecodeDocument(src, raw, format)
	if err != nil {
		return schema.Document{}, fmt.Errorf("loader: %s: %w", src.Location(), err)
	}
	return doc, nil
}
