package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tfvars-kms/internal/errors"
)

func TestNewKeyIdentity(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		identity, err := NewKeyIdentity("my-project", "global", "terraform-keyring", "terraform-cryptokey")
		require.NoError(t, err)
		assert.Equal(t, "my-project", identity.ProjectID)
		assert.Equal(t, "global", identity.Location)
		assert.Equal(t, "terraform-keyring", identity.KeyRingID)
		assert.Equal(t, "terraform-cryptokey", identity.CryptoKeyID)
	})

	tests := []struct {
		name        string
		projectID   string
		location    string
		keyRingID   string
		cryptoKeyID string
	}{
		{name: "MissingProject", location: "global", keyRingID: "ring", cryptoKeyID: "key"},
		{name: "MissingLocation", projectID: "p", keyRingID: "ring", cryptoKeyID: "key"},
		{name: "MissingKeyRing", projectID: "p", location: "global", cryptoKeyID: "key"},
		{name: "MissingCryptoKey", projectID: "p", location: "global", keyRingID: "ring"},
		{name: "InvalidKeyRingChars", projectID: "p", location: "global", keyRingID: "ring/x", cryptoKeyID: "key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeyIdentity(tt.projectID, tt.location, tt.keyRingID, tt.cryptoKeyID)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidKeyIdentity))
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}
}

func TestKeyIdentity_Paths(t *testing.T) {
	identity := KeyIdentity{
		ProjectID:   "my-project",
		Location:    "global",
		KeyRingID:   "ring",
		CryptoKeyID: "key",
	}

	assert.Equal(t, "projects/my-project/locations/global", identity.LocationPath())
	assert.Equal(t, "projects/my-project/locations/global/keyRings/ring", identity.KeyRingPath())
	assert.Equal(
		t,
		"projects/my-project/locations/global/keyRings/ring/cryptoKeys/key",
		identity.ResourcePath(),
	)
	assert.Equal(t, identity.ResourcePath(), identity.String())

	// Paths follow the fields, nothing is memoized.
	identity.CryptoKeyID = "other"
	assert.Equal(
		t,
		"projects/my-project/locations/global/keyRings/ring/cryptoKeys/other",
		identity.ResourcePath(),
	)
}

func TestParseResourcePath(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		identity := KeyIdentity{ProjectID: "p1", Location: "us-east1", KeyRingID: "r", CryptoKeyID: "k"}
		parsed, err := ParseResourcePath(identity.ResourcePath())
		require.NoError(t, err)
		assert.Equal(t, identity, parsed)
	})

	t.Run("LeadingSlash", func(t *testing.T) {
		parsed, err := ParseResourcePath("/projects/p/locations/global/keyRings/r/cryptoKeys/k")
		require.NoError(t, err)
		assert.Equal(t, "k", parsed.CryptoKeyID)
	})

	t.Run("TooShort", func(t *testing.T) {
		_, err := ParseResourcePath("projects/p/locations/global/keyRings/r")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidKeyIdentity))
	})

	t.Run("WrongComponent", func(t *testing.T) {
		_, err := ParseResourcePath("projects/p/regions/global/keyRings/r/cryptoKeys/k")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected component 3 to be locations, got regions")
	})
}

func TestParseProvider(t *testing.T) {
	for _, name := range []string{"gcpkms", "localsecrets", "hashivault"} {
		provider, err := ParseProvider(name)
		require.NoError(t, err)
		assert.Equal(t, Provider(name), provider)
	}

	_, err := ParseProvider("awskms")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedProvider))

	assert.True(t, ProviderGCPKMS.ProvisionsHierarchy())
	assert.False(t, ProviderLocalSecrets.ProvisionsHierarchy())
}
