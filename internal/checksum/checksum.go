// Package checksum fingerprints persisted document blobs so the file
// watcher can tell the store's own writes apart from external ones.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Matches reports whether data hashes to want. An empty want never
// matches, so a blob compared against "no previous write" reads as
// changed.
func Matches(data []byte, want string) bool {
	return want != "" && Sum(data) == want
}
