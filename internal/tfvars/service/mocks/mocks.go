// Package mocks provides mock implementations of the tfvars service interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
)

// MockSecretSetExtractor is a mock implementation of service.SecretSetExtractor.
type MockSecretSetExtractor struct {
	mock.Mock
}

// Select mocks the Select method.
func (m *MockSecretSetExtractor) Select(
	doc *tfvarsDomain.Document,
	variant tfvarsDomain.Variant,
) (*tfvarsDomain.SecretSet, string, error) {
	args := m.Called(doc, variant)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*tfvarsDomain.SecretSet), args.String(1), args.Error(2)
}

// MockCredentialFileEncryptor is a mock implementation of service.CredentialFileEncryptor.
type MockCredentialFileEncryptor struct {
	mock.Mock
}

// EncryptFile mocks the EncryptFile method.
func (m *MockCredentialFileEncryptor) EncryptFile(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
	path string,
) (string, error) {
	args := m.Called(ctx, identity, path)
	return args.String(0), args.Error(1)
}

// MockDocumentWriter is a mock implementation of service.DocumentWriter.
type MockDocumentWriter struct {
	mock.Mock
}

// Write mocks the Write method.
func (m *MockDocumentWriter) Write(path string, lines []string) error {
	args := m.Called(path, lines)
	return args.Error(0)
}
