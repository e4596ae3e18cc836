package service

import (
	"context"
	"log/slog"

	"github.com/allisson/tfvars-kms/internal/errors"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
)

// keyHierarchyManager implements KeyHierarchyManager on a KeyManagementClient.
type keyHierarchyManager struct {
	client KeyManagementClient
	logger *slog.Logger
}

// NewKeyHierarchyManager creates a KeyHierarchyManager.
func NewKeyHierarchyManager(client KeyManagementClient, logger *slog.Logger) KeyHierarchyManager {
	return &keyHierarchyManager{
		client: client,
		logger: logger,
	}
}

// EnsureKeyRing creates the key ring or reuses an existing one.
func (m *keyHierarchyManager) EnsureKeyRing(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (string, error) {
	name, err := m.client.CreateKeyRing(ctx, identity.LocationPath(), identity.KeyRingID)
	return m.settle(ctx, "key ring", identity.KeyRingPath(), name, err)
}

// EnsureCryptoKey creates the crypto key or reuses an existing one.
func (m *keyHierarchyManager) EnsureCryptoKey(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (string, error) {
	name, err := m.client.CreateCryptoKey(ctx, identity.KeyRingPath(), identity.CryptoKeyID)
	return m.settle(ctx, "crypto key", identity.ResourcePath(), name, err)
}

// settle applies the create-or-reuse contract to a create call result.
func (m *keyHierarchyManager) settle(
	ctx context.Context,
	kind, configured, created string,
	err error,
) (string, error) {
	switch {
	case err == nil:
		m.logger.InfoContext(ctx, "created "+kind, slog.String("name", created))
		return created, nil
	case errors.Is(err, kmsDomain.ErrAlreadyExists):
		m.logger.InfoContext(ctx, "using existing "+kind, slog.String("name", configured))
		return configured, nil
	default:
		m.logger.WarnContext(ctx, "failed to create "+kind+", using configured name",
			slog.String("name", configured),
			slog.Any("error", err),
		)
		return configured, errors.Join(kmsDomain.ErrKeyProvisioningFailed, err)
	}
}

// ListKeyRings lists the key rings under the identity's location.
func (m *keyHierarchyManager) ListKeyRings(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) ([]string, error) {
	names, err := m.client.ListKeyRings(ctx, identity.LocationPath())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list key rings")
	}
	return names, nil
}

// staticKeyHierarchyManager is used by providers that have no key hierarchy to manage.
type staticKeyHierarchyManager struct {
	logger *slog.Logger
}

// NewStaticKeyHierarchyManager returns a KeyHierarchyManager that provisions nothing and
// reports the configured names as ready.
func NewStaticKeyHierarchyManager(logger *slog.Logger) KeyHierarchyManager {
	return &staticKeyHierarchyManager{logger: logger}
}

// EnsureKeyRing returns the configured key ring path.
func (m *staticKeyHierarchyManager) EnsureKeyRing(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (string, error) {
	m.logger.DebugContext(ctx, "skipping key ring provisioning", slog.String("name", identity.KeyRingPath()))
	return identity.KeyRingPath(), nil
}

// EnsureCryptoKey returns the configured crypto key path.
func (m *staticKeyHierarchyManager) EnsureCryptoKey(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (string, error) {
	m.logger.DebugContext(ctx, "skipping crypto key provisioning", slog.String("name", identity.ResourcePath()))
	return identity.ResourcePath(), nil
}

// ListKeyRings returns no key rings.
func (m *staticKeyHierarchyManager) ListKeyRings(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) ([]string, error) {
	return nil, nil
}
