package audit

import (
	"time"

	"github.com/google/uuid"
)

// Payload is the submission envelope. Sections maps each section key to its
// full value set.
type Payload struct {
	ID          string                    `json:"id"`
	AuditID     string                    `json:"auditId"`
	Title       string                    `json:"title"`
	Tenant      string                    `json:"tenant,omitempty"`
	SubmittedAt time.Time                 `json:"submittedAt"`
	Sections    map[string]map[string]any `json:"sections"`
}

// Submission describes how Submit assembles a payload from a manager.
type Submission struct {
	AuditID string
	Title   string
	Tenant  string

	// Sections lists the keys to validate and collect, in order. Empty means
	// every section of the manager.
	Sections []string

	// EnabledOnly lists sections collected without their disabled controls.
	// All other sections submit raw values.
	EnabledOnly []string

	// Now stamps SubmittedAt; defaults to time.Now.
	Now func() time.Time
}

func newPayload(sub Submission, sections map[string]map[string]any) Payload {
	now := time.Now
	if sub.Now != nil {
		now = sub.Now
	}
	return Payload{
		ID:          uuid.NewString(),
		AuditID:     sub.AuditID,
		Title:       sub.Title,
		Tenant:      sub.Tenant,
		SubmittedAt: now().UTC(),
		Sections:    sections,
	}
}
