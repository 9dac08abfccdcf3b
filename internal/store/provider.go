// Package store owns the in-memory Root Document and every mutation on
// it. All writes are followed by a full-document persist through a
// Provider; callers never persist directly.
package store

import "errors"

// ErrNoDocument is returned by Provider.Load when nothing has been
// persisted yet. The store starts from an empty default document.
var ErrNoDocument = errors.New("store: no persisted document")

// Provider is the external blob store consulted only for whole-document
// load and save. The blob is opaque to the provider.
type Provider interface {
	// Load returns the persisted document blob, or ErrNoDocument.
	Load() ([]byte, error)
	// Save replaces the persisted document blob wholesale.
	Save(blob []byte) error
	// Close releases provider resources.
	Close() error
}
