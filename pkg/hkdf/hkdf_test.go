package hkdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSha512OutputSize(t *testing.T) {
	out, err := Sha512([]byte("session-key"), []byte("salt"), []byte("info"))
	require.NoError(t, err)
	require.Len(t, out, Size)
}

func TestSha512Deterministic(t *testing.T) {
	a, err := Sha512([]byte("secret"), []byte("salt"), []byte("Pair-Setup-Encrypt-Info"))
	require.NoError(t, err)
	b, err := Sha512([]byte("secret"), []byte("salt"), []byte("Pair-Setup-Encrypt-Info"))
	require.NoError(t, err)
	require.True(t, bytes.Equal(a, b))
}

func TestSha512DiffersOnInfo(t *testing.T) {
	a, err := Sha512([]byte("secret"), []byte("salt"), []byte("info-a"))
	require.NoError(t, err)
	b, err := Sha512([]byte("secret"), []byte("salt"), []byte("info-b"))
	require.NoError(t, err)
	require.False(t, bytes.Equal(a, b))
}
