// Package instance owns the live, per-section control sets of a rendering
// session: building them from expanded layouts, growing and shrinking dynamic
// rows, and extracting values for submission.
package instance
