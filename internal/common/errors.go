// Package common defines the sentinel errors shared by the todo registry,
// the photo pipeline and the HTTP layer. Callers should use errors.Is to
// match these values; producers wrap them with fmt.Errorf("%w").
package common

import "errors"

var (
	// ErrValidation marks bad client input (blank text, wrong MIME type,
	// oversized upload). Maps to 400.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an unknown todo id or a missing photo attachment.
	// Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrTransform marks an image that could not be decoded or re-encoded.
	ErrTransform = errors.New("image transform failed")

	// ErrStorage marks a failed object-store put, delete or URL signing.
	ErrStorage = errors.New("storage error")

	// ErrNotConfigured is reported by the object store when no bucket is
	// configured. It is an expected, degraded state and never fatal.
	ErrNotConfigured = errors.New("object storage not configured")
)
