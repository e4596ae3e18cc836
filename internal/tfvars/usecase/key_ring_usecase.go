package usecase

import (
	"context"
	"log/slog"

	validation "github.com/jellydator/validation"

	"github.com/allisson/tfvars-kms/internal/errors"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	customValidation "github.com/allisson/tfvars-kms/internal/validation"
)

// keyRingUseCase implements KeyRingUseCase.
type keyRingUseCase struct {
	sessions SessionProvider
	logger   *slog.Logger
}

// NewKeyRingUseCase creates a KeyRingUseCase.
func NewKeyRingUseCase(sessions SessionProvider, logger *slog.Logger) KeyRingUseCase {
	return &keyRingUseCase{
		sessions: sessions,
		logger:   logger,
	}
}

// List opens a session with credentialsFile and lists the key rings of the location.
func (u *keyRingUseCase) List(
	ctx context.Context,
	credentialsFile, projectID, location string,
) ([]string, error) {
	if location == "" {
		location = kmsDomain.DefaultLocation
	}
	err := validation.Validate(projectID, validation.Required, customValidation.NoWhitespace)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "project: %v", err)
	}

	session, err := u.sessions.Open(ctx, credentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open KMS session")
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			u.logger.WarnContext(ctx, "failed to close KMS session", slog.Any("error", closeErr))
		}
	}()

	identity := kmsDomain.KeyIdentity{ProjectID: projectID, Location: location}
	return session.Hierarchy.ListKeyRings(ctx, identity)
}
