package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedProfile(t *testing.T) {
	identity, err := Load("bacon")
	require.NoError(t, err)

	assert.Equal(t, "A0001", identity.Build.Device)
	assert.NotEmpty(t, identity.Build.Fingerprint)
	assert.NotEmpty(t, identity.Platforms)
	assert.Positive(t, identity.Vending.Version)
}

func TestLoadUnknownProfile(t *testing.T) {
	_, err := Load("nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown device profile")
}

func TestKeysAreSorted(t *testing.T) {
	keys, err := Keys()
	require.NoError(t, err)
	require.NotEmpty(t, keys)
	assert.Contains(t, keys, "bacon")
	for i := 1; i < len(keys); i++ {
		assert.LessOrEqual(t, keys[i-1], keys[i])
	}
}

func TestLoadFileRejectsIncompleteProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devices.toml")
	table := `
[halfbaked]
userreadablename = "Half Baked"
client = "android-google"
`
	require.NoError(t, os.WriteFile(path, []byte(table), 0644))

	_, err := LoadFile(path, "halfbaked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "halfbaked")
}

func TestValidateFlagsMissingFields(t *testing.T) {
	identity, err := Load("bacon")
	require.NoError(t, err)

	broken := *identity
	broken.Platforms = nil
	assert.Error(t, broken.Validate())

	broken = *identity
	broken.Screen.Density = 0
	assert.Error(t, broken.Validate())

	broken = *identity
	broken.Build.Fingerprint = ""
	assert.Error(t, broken.Validate())
}
