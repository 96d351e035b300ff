package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ArtifactKeyOpts holds the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// ArtifactKey returns the cache key of a preview rendered from the layout
// with the given hash.
func ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("preview", layoutHash, opts)
}
