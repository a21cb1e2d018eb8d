package session

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// NormalizeTopic canonicalizes a topic for cache lookups: surrounding
// whitespace stripped, case folded. Display code should keep the original.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// TopicKey returns the cache key for a topic: the hex BLAKE2b-256 digest of
// the normalized form. Keys are stable across runs and safe for storage.
func TopicKey(topic string) string {
	sum := blake2b.Sum256([]byte(NormalizeTopic(topic)))
	return hex.EncodeToString(sum[:])
}
