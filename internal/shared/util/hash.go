package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashScope derives a stable hex directory name from an arbitrary scope string.
func HashScope(scope string) string {
	sum := sha256.Sum256([]byte(scope))
	return hex.EncodeToString(sum[:16])
}
