package service

import (
	"context"
	"fmt"

	kms "cloud.google.com/go/kms/apiv1"
	"gocloud.dev/secrets"
	"gocloud.dev/secrets/gcpkms"

	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"

	// Register the URL-opened keeper drivers
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// gcpKeeperOpener opens Cloud KMS keepers on an authenticated client.
type gcpKeeperOpener struct {
	client *kms.KeyManagementClient
}

// NewGCPKeeperOpener returns a KeeperOpener that encrypts with the crypto key named by each
// identity, using client for every call.
func NewGCPKeeperOpener(client *kms.KeyManagementClient) KeeperOpener {
	return &gcpKeeperOpener{client: client}
}

// OpenKeeper binds a keeper to identity.ResourcePath(). It performs no network call.
func (o *gcpKeeperOpener) OpenKeeper(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (kmsDomain.Keeper, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	return gcpkms.OpenKeeper(o.client, identity.ResourcePath(), nil), nil
}

// urlKeeperOpener opens keepers from a fixed gocloud.dev key URI.
type urlKeeperOpener struct {
	keyURI string
}

// NewURLKeeperOpener returns a KeeperOpener for base64key:// and hashivault:// URIs.
// The key identity is ignored: every identity maps to the same key.
func NewURLKeeperOpener(keyURI string) KeeperOpener {
	return &urlKeeperOpener{keyURI: keyURI}
}

// OpenKeeper opens a secrets.Keeper for the configured key URI.
func (o *urlKeeperOpener) OpenKeeper(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (kmsDomain.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, o.keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
