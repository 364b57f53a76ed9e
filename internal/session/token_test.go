package session

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveTokenLayout(t *testing.T) {
	input := append([]byte("salt"), 0, 0, 0, 0, 0, 0, 0x01, 0x02)
	sum := sha256.Sum256(input)

	require.Equal(t, hex.EncodeToString(sum[:]), DeriveToken("salt", 0x0102))
}

func TestDeriveTokenEmptySalt(t *testing.T) {
	sum := sha256.Sum256([]byte{0, 0, 0, 0, 0, 0, 0, 7})
	require.Equal(t, hex.EncodeToString(sum[:]), DeriveToken("", 7))
}

func TestDeriveTokenDistinct(t *testing.T) {
	seen := make(map[string]uint64, 10000)
	for i := uint64(1); i <= 10000; i++ {
		tok := DeriveToken("pepper", i)
		require.Len(t, tok, 64)
		prev, dup := seen[tok]
		require.Falsef(t, dup, "counter %d collides with %d", i, prev)
		seen[tok] = i
	}
}

func TestDeriveTokenDependsOnSalt(t *testing.T) {
	require.NotEqual(t, DeriveToken("a", 1), DeriveToken("b", 1))
}
