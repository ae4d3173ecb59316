package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// EmbeddingKey generates a deterministic cache key for a normalized
// ingredient text under a given embedding model. The model tag is part of
// the hashed material so vectors from one model are never served for
// another.
func EmbeddingKey(model, normalized string) string {
	hash := sha256.Sum256([]byte(model + "|" + normalized))
	return "emb:" + hex.EncodeToString(hash[:16]) // Use first 16 bytes
}
