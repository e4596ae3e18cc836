// Package service provides the key-management services used by the tfvars pipeline:
// key hierarchy provisioning on Cloud KMS and base64 envelope encryption through
// gocloud.dev/secrets keepers.
package service

import (
	"context"

	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
)

// KeyManagementClient is the key hierarchy side of the key-management service.
//
// Create calls return kmsDomain.ErrAlreadyExists (wrapped) when the resource is present.
type KeyManagementClient interface {
	// CreateKeyRing creates key ring id under parent and returns its resource name.
	CreateKeyRing(ctx context.Context, parent, id string) (string, error)
	// CreateCryptoKey creates a symmetric ENCRYPT_DECRYPT key id under parent and returns
	// its resource name.
	CreateCryptoKey(ctx context.Context, parent, id string) (string, error)
	// ListKeyRings returns the resource names of the key rings under parent.
	ListKeyRings(ctx context.Context, parent string) ([]string, error)
	Close() error
}

// KeeperOpener opens a keeper bound to a crypto key.
type KeeperOpener interface {
	OpenKeeper(ctx context.Context, identity kmsDomain.KeyIdentity) (kmsDomain.Keeper, error)
}

// KeyHierarchyManager idempotently provisions key rings and crypto keys.
type KeyHierarchyManager interface {
	// EnsureKeyRing creates the key ring for identity. An existing ring is reused. On any
	// other failure the configured ring path is returned with a wrapped
	// kmsDomain.ErrKeyProvisioningFailed, which callers treat as non-fatal.
	EnsureKeyRing(ctx context.Context, identity kmsDomain.KeyIdentity) (string, error)
	// EnsureCryptoKey has the same contract as EnsureKeyRing for the crypto key.
	EnsureCryptoKey(ctx context.Context, identity kmsDomain.KeyIdentity) (string, error)
	// ListKeyRings lists the key rings in the identity's project and location.
	ListKeyRings(ctx context.Context, identity kmsDomain.KeyIdentity) ([]string, error)
}

// EnvelopeCipher encrypts strings into base64 ciphertext with a KMS crypto key.
type EnvelopeCipher interface {
	Encrypt(ctx context.Context, identity kmsDomain.KeyIdentity, plaintext string) (string, error)
	Decrypt(ctx context.Context, identity kmsDomain.KeyIdentity, ciphertext string) (string, error)
}
