// Package checksum fingerprints journal text so unchanged journals can skip
// reindexing.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Text returns the hex-encoded SHA-256 digest of journal text.
func Text(text string) string {
	h := sha256.New()
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}
