// Package apperr defines the application error taxonomy. Every case is
// handled at the API or MCP boundary and converted to a user-visible
// message; none propagate as unhandled faults.
package apperr

import "errors"

var (
	// ErrNotFound marks operations referencing an id that no longer exists.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks a required field that is missing or invalid.
	// The triggering operation performs no mutation.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyExport marks a report export with zero qualifying notes.
	ErrEmptyExport = errors.New("nothing to export")
	// ErrRendererUnavailable marks an export attempted without a usable
	// rendering capability.
	ErrRendererUnavailable = errors.New("renderer unavailable")
	// ErrInvalidBackup marks a backup document that failed the shape check.
	ErrInvalidBackup = errors.New("invalid backup document")
)
