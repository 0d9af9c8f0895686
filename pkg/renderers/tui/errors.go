package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoView is returned when Fill is called without a form.
	ErrNoView = errors.New("tui: view is required")
)
