package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialTokenLifecycle(t *testing.T) {
	cred := Credential{Mail: "user@example.com", Password: "secret"}
	assert.False(t, cred.HasToken())

	cred.AndroidID = 0xD
	cred.AuthToken = "bearer-token"
	assert.True(t, cred.HasToken())

	// Identifier and token are invalidated together, never separately.
	cred.Invalidate()
	assert.False(t, cred.HasToken())
	assert.Zero(t, cred.AndroidID)
	assert.Empty(t, cred.AuthToken)
}

func TestCredentialValidation(t *testing.T) {
	assert.Error(t, (&Credential{Password: "secret"}).Validate())
	assert.Error(t, (&Credential{Mail: "user@example.com"}).Validate())
	assert.NoError(t, (&Credential{Mail: "user@example.com", Password: "secret"}).Validate())
}

func TestCredentialFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	cred := &Credential{
		Mail:      "user@example.com",
		Password:  "secret",
		AndroidID: 0xD,
		AuthToken: "bearer-token",
	}

	require.NoError(t, SaveCredential(path, cred))

	loaded, err := LoadCredential(path)
	require.NoError(t, err)
	assert.Equal(t, cred, loaded)
}
