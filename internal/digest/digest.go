// Package digest computes content identity for regular files.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// chunkSize is the fixed read size used while streaming file content.
const chunkSize = 1024 * 1024

// Sum returns the hex SHA-256 digest of the file at path. The file is
// streamed in fixed-size chunks and never loaded into memory whole.
func Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for hashing: %w", path, err)
	}
	defer f.Close()

	sha := sha256.New()
	if _, err := io.CopyBuffer(sha, f, make([]byte, chunkSize)); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(sha.Sum(nil)), nil
}
