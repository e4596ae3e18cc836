package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/allisson/tfvars-kms/internal/errors"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	"github.com/allisson/tfvars-kms/internal/testutil"
)

func testIdentity() kmsDomain.KeyIdentity {
	return kmsDomain.KeyIdentity{
		ProjectID:   "my-project",
		Location:    "global",
		KeyRingID:   "terraform-keyring",
		CryptoKeyID: "terraform-cryptokey",
	}
}

func TestNewGCPClient(t *testing.T) {
	t.Run("Error_MissingCredentialsFile", func(t *testing.T) {
		client, err := NewGCPClient(context.Background(), ClientOptions{})
		assert.Nil(t, client)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
	})
}

func TestGCPClient_KeyHierarchy(t *testing.T) {
	ctx := context.Background()
	identity := testIdentity()
	client := startFakeKMS(t, testutil.NewFakeKMSServer())

	t.Run("CreateKeyRing", func(t *testing.T) {
		name, err := client.CreateKeyRing(ctx, identity.LocationPath(), identity.KeyRingID)
		require.NoError(t, err)
		assert.Equal(t, identity.KeyRingPath(), name)
	})

	t.Run("CreateKeyRing_AlreadyExists", func(t *testing.T) {
		_, err := client.CreateKeyRing(ctx, identity.LocationPath(), identity.KeyRingID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, kmsDomain.ErrAlreadyExists))
	})

	t.Run("CreateCryptoKey", func(t *testing.T) {
		name, err := client.CreateCryptoKey(ctx, identity.KeyRingPath(), identity.CryptoKeyID)
		require.NoError(t, err)
		assert.Equal(t, identity.ResourcePath(), name)
	})

	t.Run("CreateCryptoKey_MissingRing", func(t *testing.T) {
		other := identity
		other.KeyRingID = "missing"
		_, err := client.CreateCryptoKey(ctx, other.KeyRingPath(), other.CryptoKeyID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
		assert.False(t, errors.Is(err, kmsDomain.ErrAlreadyExists))
	})

	t.Run("ListKeyRings", func(t *testing.T) {
		names, err := client.ListKeyRings(ctx, identity.LocationPath())
		require.NoError(t, err)
		assert.Equal(t, []string{identity.KeyRingPath()}, names)
	})
}

func TestGCPClient_WithKeyHierarchyManager(t *testing.T) {
	ctx := context.Background()
	identity := testIdentity()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	fake := testutil.NewFakeKMSServer()
	manager := NewKeyHierarchyManager(startFakeKMS(t, fake), logger)

	// First run creates, second run reuses; both succeed.
	for i := 0; i < 2; i++ {
		ring, err := manager.EnsureKeyRing(ctx, identity)
		require.NoError(t, err)
		assert.Equal(t, identity.KeyRingPath(), ring)

		key, err := manager.EnsureCryptoKey(ctx, identity)
		require.NoError(t, err)
		assert.Equal(t, identity.ResourcePath(), key)
	}

	fake.SetCreateError(status.Error(codes.PermissionDenied, "permission denied"))
	ring, err := manager.EnsureKeyRing(ctx, identity)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kmsDomain.ErrKeyProvisioningFailed))
	assert.Equal(t, identity.KeyRingPath(), ring)
}

func TestGCPKeeperOpener_RoundTrip(t *testing.T) {
	ctx := context.Background()
	identity := testIdentity()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	client := startFakeKMS(t, testutil.NewFakeKMSServer())

	_, err := client.CreateKeyRing(ctx, identity.LocationPath(), identity.KeyRingID)
	require.NoError(t, err)
	_, err = client.CreateCryptoKey(ctx, identity.KeyRingPath(), identity.CryptoKeyID)
	require.NoError(t, err)

	cipher := NewEnvelopeCipher(NewGCPKeeperOpener(client.Client()), logger)

	ciphertext, err := cipher.Encrypt(ctx, identity, "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", ciphertext)

	plaintext, err := cipher.Decrypt(ctx, identity, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plaintext)

	t.Run("Error_UnknownKey", func(t *testing.T) {
		other := identity
		other.CryptoKeyID = "unknown"
		_, err := cipher.Encrypt(ctx, other, "hunter2")
		require.Error(t, err)
		assert.True(t, errors.Is(err, kmsDomain.ErrEncryptionFailed))
	})

	t.Run("Error_InvalidIdentity", func(t *testing.T) {
		_, err := cipher.Encrypt(ctx, kmsDomain.KeyIdentity{}, "hunter2")
		require.Error(t, err)
		assert.True(t, errors.Is(err, kmsDomain.ErrEncryptionFailed))
		assert.True(t, errors.Is(err, kmsDomain.ErrInvalidKeyIdentity))
	})
}
