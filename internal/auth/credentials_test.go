package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	plain := "Secret123!"

	hash, err := HashPassword(plain)
	require.NoError(t, err)
	require.NotEqual(t, plain, hash)

	require.True(t, ComparePasswords(hash, plain))
}

func TestHashPasswordFreshSalt(t *testing.T) {
	plain := "Secret123!"

	first, err := HashPassword(plain)
	require.NoError(t, err)
	second, err := HashPassword(plain)
	require.NoError(t, err)

	// fresh salt per call
	require.NotEqual(t, first, second)
	require.True(t, ComparePasswords(first, plain))
	require.True(t, ComparePasswords(second, plain))
}

func TestComparePasswordsRejects(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)

	require.False(t, ComparePasswords(hash, "secret123!")) // case sensitive
	require.False(t, ComparePasswords(hash, "wrong"))
	require.False(t, ComparePasswords(hash, ""))
	require.False(t, ComparePasswords("not-a-digest", "Secret123!"))
	require.False(t, ComparePasswords("", ""))
}
