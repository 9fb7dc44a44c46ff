// Package checksum fingerprints files and byte blobs for audit
// records. SHA-1 is kept for correlation with existing incident tooling
// and signature feeds; it is a fingerprint, not an integrity guarantee.
package checksum

import (
	// #nosec G505 fingerprint for correlation, not integrity
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// SHA1Bytes returns the lowercase hex SHA-1 digest of data.
func SHA1Bytes(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// SHA1File returns the lowercase hex SHA-1 digest of the file at path.
func SHA1File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
