package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey derives the storage namespace for a user. File keys carry this
// prefix so one user's objects cannot collide with another's and the raw
// identity never appears in object keys.
func HashUserKey(userID string) string {
	h := sha256.New()
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}
