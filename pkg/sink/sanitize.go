package sink

import (
	"context"
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-auditform/pkg/audit"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// Sanitize strips markup from every string value before handing the payload
// to next. Free-text remarks are the main carrier. Text outside tags is kept
// literal: the policy's entity escaping is undone, so "pH < 7 & falling"
// arrives unchanged.
func Sanitize(next audit.Sink) audit.Sink {
	return audit.SinkFunc(func(ctx context.Context, payload audit.Payload) error {
		cleaned := payload
		cleaned.Sections = make(map[string]map[string]any, len(payload.Sections))
		for key, values := range payload.Sections {
			out := make(map[string]any, len(values))
			for name, value := range values {
				out[name] = sanitizeValue(value)
			}
			cleaned.Sections[key] = out
		}
		return next.Submit(ctx, cleaned)
	})
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case string:
		return html.UnescapeString(textSanitizer().Sanitize(v))
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		return value
	}
}
