package commands

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intelliface/backend/internal/auth"
)

func writeTestKey(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	path := filepath.Join(t.TempDir(), "private.pem")
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

	return path
}

func TestGenToken_AccessTokenRoundTrip(t *testing.T) {
	keyPath := writeTestKey(t)

	access, refresh, err := GenToken(7, auth.RoleEmployee, keyPath)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	a, err := auth.New(keyPath)
	require.NoError(t, err)

	claims, err := a.ValidateToken(access)
	require.NoError(t, err)

	assert.Equal(t, 7, claims.UserId)
	assert.Equal(t, auth.RoleEmployee, claims.Role)
	assert.True(t, claims.Authorized(auth.RoleEmployee))
	assert.False(t, claims.Authorized(auth.RoleAdmin))
}

func TestVerifyRefreshToken(t *testing.T) {
	keyPath := writeTestKey(t)

	_, refresh, err := GenToken(7, auth.RoleAdmin, keyPath)
	require.NoError(t, err)

	claims, err := VerifyRefreshToken(refresh, keyPath)
	require.NoError(t, err)

	assert.Equal(t, 7, claims.UserId)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestVerifyRefreshToken_RejectsAccessToken(t *testing.T) {
	keyPath := writeTestKey(t)

	access, _, err := GenToken(7, auth.RoleAdmin, keyPath)
	require.NoError(t, err)

	_, err = VerifyRefreshToken(access, keyPath)
	assert.Error(t, err)
}

func TestGenToken_TamperedTokenRejected(t *testing.T) {
	keyPath := writeTestKey(t)

	access, _, err := GenToken(7, auth.RoleEmployee, keyPath)
	require.NoError(t, err)

	a, err := auth.New(keyPath)
	require.NoError(t, err)

	_, err = a.ValidateToken(access + "x")
	assert.Error(t, err)
}

func TestGenToken_MissingKey(t *testing.T) {
	_, _, err := GenToken(7, auth.RoleEmployee, filepath.Join(t.TempDir(), "missing.pem"))
	assert.Error(t, err)
}
