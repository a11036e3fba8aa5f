package transmem

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
)

// FileHash computes the SHA-256 hash of a file's raw bytes. I/O errors
// (missing file, unreadable path) are propagated to the caller.
func FileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ContentHash computes the SHA-256 hash of the UTF-8 encoded text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// SegmentHash computes the SHA-256 hash of the trimmed segment text.
// Trimming keeps a segment's hash stable across surrounding whitespace.
func SegmentHash(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}

// CacheKey builds an exact-match cache key from a segment hash and a
// language pair.
func CacheKey(hash, pair string) string {
	return hash + ":" + pair
}
