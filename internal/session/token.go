package session

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// DeriveToken hashes the salt followed by the big-endian counter.
// Distinct counters give distinct tokens barring a SHA-256 collision.
func DeriveToken(salt string, counter uint64) string {
	buf := make([]byte, len(salt)+8)
	copy(buf, salt)
	binary.BigEndian.PutUint64(buf[len(salt):], counter)

	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
