package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-auditform/pkg/audit"
)

// LogSink records each submission as a structured log entry.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink returns a sink writing to logger.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Submit logs the payload. It never fails.
func (s *LogSink) Submit(_ context.Context, payload audit.Payload) error {
	s.logger.Info("audit form submission",
		zap.String("id", payload.ID),
		zap.String("audit", payload.AuditID),
		zap.String("title", payload.Title),
		zap.String("tenant", payload.Tenant),
		zap.Time("submittedAt", payload.SubmittedAt),
		zap.Any("sections", payload.Sections),
	)
	return nil
}

// WriterSink appends each payload as one JSON line.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink writing to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Submit encodes payload onto the writer.
func (s *WriterSink) Submit(ctx context.Context, payload audit.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := json.NewEncoder(s.w).Encode(payload); err != nil {
		return fmt.Errorf("sink: write: %w", err)
	}
	return nil
}

// HTTPSink POSTs payloads to <base>/audits/<auditId>/submissions.
type HTTPSink struct {
	base   string
	client *http.Client
}

// NewHTTPSink returns a sink posting to base. A nil client uses
// http.DefaultClient.
func NewHTTPSink(base string, client *http.Client) (*HTTPSink, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, errors.New("sink: api base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("sink: api base url: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSink{base: base, client: client}, nil
}

// Submit sends payload as JSON. Any non-2xx response is an error.
func (s *HTTPSink) Submit(ctx context.Context, payload audit.Payload) error {
	endpoint, err := url.JoinPath(s.base, "audits", url.PathEscape(payload.AuditID), "submissions")
	if err != nil {
		return fmt.Errorf("sink: endpoint: %w", err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sink: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sink: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sink: post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sink: post %s: unexpected status %s", endpoint, resp.Status)
	}
	return nil
}

// Multi fans a payload out to every sink in order and stops at the first
// error.
func Multi(sinks ...audit.Sink) audit.Sink {
	return audit.SinkFunc(func(ctx context.Context, payload audit.Payload) error {
		for _, s := range sinks {
			if s == nil {
				continue
			}
			if err := s.Submit(ctx, payload); err != nil {
				return err
			}
		}
		return nil
	})
}
