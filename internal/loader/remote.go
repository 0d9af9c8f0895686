package loader

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/goliatone/go-auditform/pkg/form"
	"github.com/goliatone/go-auditform/pkg/schema"
)

const acceptHeader = "application/json, application/yaml;q=0.9, text/yaml;q=0.8"

// fetch GETs an audit form from an asset server. The response Content-Type
// overrides the format guessed from the URL when it names YAML or JSON.
func (l *Loader) fetch(ctx context.Context, url string, guess form.Format) ([]byte, form.Format, error) {
	if l.client == nil {
		return nil, "", errors.New("http support disabled")
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, "", schema.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := readLimited(resp.Body, l.maxBytes)
	if err != nil {
		return nil, "", err
	}
	return data, formatFromContentType(resp.Header.Get("Content-Type"), guess), nil
}

func formatFromContentType(value string, fallback form.Format) form.Format {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return fallback
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return form.FormatYAML
	case "application/json":
		return form.FormatJSON
	default:
		return fallback
	}
}
