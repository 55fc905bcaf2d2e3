package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data (64 characters).
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<kind>:<digest>" where digest covers the JSON encoding of
// every part in order. Parts must be JSON-encodable; encoding failures fall
// back to an empty part rather than a panic.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, p := range parts {
		if err := enc.Encode(p); err != nil {
			h.Write([]byte{'\n'})
		}
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
