// Package digest produces the hex encoded SHA-256 fingerprints used to
// deduplicate catalog assets.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// SHA256Hex returns the lowercase hex SHA-256 digest of text.
func SHA256Hex(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SHA256HexReader consumes r and returns the lowercase hex SHA-256 digest
// of everything it produced.
func SHA256HexReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SHA256HexFile returns the lowercase hex SHA-256 digest of the named
// file's contents.
func SHA256HexFile(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return SHA256HexReader(f)
}
