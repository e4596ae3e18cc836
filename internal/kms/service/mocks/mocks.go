// Package mocks provides mock implementations of the kms service interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
)

// MockKeyManagementClient is a mock implementation of service.KeyManagementClient.
type MockKeyManagementClient struct {
	mock.Mock
}

// CreateKeyRing mocks the CreateKeyRing method.
func (m *MockKeyManagementClient) CreateKeyRing(ctx context.Context, parent, id string) (string, error) {
	args := m.Called(ctx, parent, id)
	return args.String(0), args.Error(1)
}

// CreateCryptoKey mocks the CreateCryptoKey method.
func (m *MockKeyManagementClient) CreateCryptoKey(ctx context.Context, parent, id string) (string, error) {
	args := m.Called(ctx, parent, id)
	return args.String(0), args.Error(1)
}

// ListKeyRings mocks the ListKeyRings method.
func (m *MockKeyManagementClient) ListKeyRings(ctx context.Context, parent string) ([]string, error) {
	args := m.Called(ctx, parent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Close mocks the Close method.
func (m *MockKeyManagementClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockKeyHierarchyManager is a mock implementation of service.KeyHierarchyManager.
type MockKeyHierarchyManager struct {
	mock.Mock
}

// EnsureKeyRing mocks the EnsureKeyRing method.
func (m *MockKeyHierarchyManager) EnsureKeyRing(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}

// EnsureCryptoKey mocks the EnsureCryptoKey method.
func (m *MockKeyHierarchyManager) EnsureCryptoKey(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}

// ListKeyRings mocks the ListKeyRings method.
func (m *MockKeyHierarchyManager) ListKeyRings(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) ([]string, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockEnvelopeCipher is a mock implementation of service.EnvelopeCipher.
type MockEnvelopeCipher struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method.
func (m *MockEnvelopeCipher) Encrypt(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
	plaintext string,
) (string, error) {
	args := m.Called(ctx, identity, plaintext)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockEnvelopeCipher) Decrypt(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
	ciphertext string,
) (string, error) {
	args := m.Called(ctx, identity, ciphertext)
	return args.String(0), args.Error(1)
}

// MockKeeperOpener is a mock implementation of service.KeeperOpener.
type MockKeeperOpener struct {
	mock.Mock
}

// OpenKeeper mocks the OpenKeeper method.
func (m *MockKeeperOpener) OpenKeeper(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (kmsDomain.Keeper, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(kmsDomain.Keeper), args.Error(1)
}

// MockKeeper is a mock implementation of kmsDomain.Keeper.
type MockKeeper struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method.
func (m *MockKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Close mocks the Close method.
func (m *MockKeeper) Close() error {
	args := m.Called()
	return args.Error(0)
}
