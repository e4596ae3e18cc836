// Package mocks provides mock implementations of the tfvars use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
	tfvarsUsecase "github.com/allisson/tfvars-kms/internal/tfvars/usecase"
)

// MockEncryptUseCase is a mock implementation of usecase.EncryptUseCase.
type MockEncryptUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method.
func (m *MockEncryptUseCase) Encrypt(
	ctx context.Context,
	input *tfvarsUsecase.EncryptInput,
) (*tfvarsDomain.RunReport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tfvarsDomain.RunReport), args.Error(1)
}

// MockKeyRingUseCase is a mock implementation of usecase.KeyRingUseCase.
type MockKeyRingUseCase struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockKeyRingUseCase) List(
	ctx context.Context,
	credentialsFile, projectID, location string,
) ([]string, error) {
	args := m.Called(ctx, credentialsFile, projectID, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
