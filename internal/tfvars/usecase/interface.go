// Package usecase orchestrates the tfvars encryption pipeline: load the document, check it
// is not already encrypted, select its secrets, provision the key hierarchy, encrypt, and
// rewrite.
package usecase

import (
	"context"

	validation "github.com/jellydator/validation"

	kmsService "github.com/allisson/tfvars-kms/internal/kms/service"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
	tfvarsService "github.com/allisson/tfvars-kms/internal/tfvars/service"
	customValidation "github.com/allisson/tfvars-kms/internal/validation"
)

// SessionProvider opens an authenticated key-management session.
type SessionProvider interface {
	Open(ctx context.Context, credentialsFile string) (*kmsService.Session, error)
}

// CredentialFileEncryptorFactory binds a CredentialFileEncryptor to the cipher of an
// open session.
type CredentialFileEncryptorFactory func(cipher kmsService.EnvelopeCipher) tfvarsService.CredentialFileEncryptor

// EncryptInput contains the parameters of a pipeline run.
type EncryptInput struct {
	Variant tfvarsDomain.Variant
	// SourcePath is the configuration file to read.
	SourcePath string
	// OutputPath is the file the rewritten document is written to.
	OutputPath string
}

// Validate checks the input fields.
func (i *EncryptInput) Validate() error {
	variants := make([]interface{}, 0, len(tfvarsDomain.Variants))
	for _, v := range tfvarsDomain.Variants {
		variants = append(variants, v)
	}

	err := validation.ValidateStruct(i,
		validation.Field(&i.Variant, validation.Required, validation.In(variants...)),
		validation.Field(&i.SourcePath, validation.Required, customValidation.NotBlank),
		validation.Field(&i.OutputPath, validation.Required, customValidation.NotBlank),
	)
	return customValidation.WrapValidationError(err)
}

// EncryptUseCase runs the encryption pipeline for one configuration file.
type EncryptUseCase interface {
	// Encrypt runs the pipeline. The returned report is never nil, even on error, and its
	// State tells how far the run got.
	Encrypt(ctx context.Context, input *EncryptInput) (*tfvarsDomain.RunReport, error)
}

// KeyRingUseCase inspects the key hierarchy.
type KeyRingUseCase interface {
	// List returns the key rings under projects/<projectID>/locations/<location>.
	List(ctx context.Context, credentialsFile, projectID, location string) ([]string, error)
}
