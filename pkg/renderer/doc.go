// Package renderer is the generic, description-driven audit form: it turns an
// AuditForm into a live View with expanded layouts, validators and the
// cross-field rules the description implies.
package renderer
