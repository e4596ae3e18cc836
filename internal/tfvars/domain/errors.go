// Package domain defines the configuration document model and error types for the
// tfvars encryption pipeline.
package domain

import (
	"github.com/allisson/tfvars-kms/internal/errors"
)

// Pipeline error definitions.
var (
	// ErrAlreadyEncrypted indicates the document already carries a kms_cryptokey_id.
	// The run is aborted before any KMS call or file write.
	ErrAlreadyEncrypted = errors.Wrap(errors.ErrConflict, "configuration is already encrypted")

	// ErrMalformedLine indicates a non-comment, non-blank line without "=".
	ErrMalformedLine = errors.Wrap(errors.ErrInvalidInput, "malformed configuration line")

	// ErrMissingSecretField indicates a field expected for the variant is absent.
	ErrMissingSecretField = errors.Wrap(errors.ErrNotFound, "missing secret field")

	// ErrMissingConfigField indicates a non-secret field needed to reach the KMS is absent.
	ErrMissingConfigField = errors.Wrap(errors.ErrNotFound, "missing configuration field")

	// ErrUnknownVariant indicates an unrecognized deployment variant.
	ErrUnknownVariant = errors.Wrap(
		errors.ErrInvalidInput,
		"unknown deployment variant (valid options: single-connector, multi-region, dc-only)",
	)

	// ErrCredentialFileEncryptionFailed indicates the companion credentials file could not be
	// read, parsed, encrypted or written. The main rewrite still proceeds.
	ErrCredentialFileEncryptionFailed = errors.Wrap(
		errors.ErrUnavailable,
		"credentials file encryption failed",
	)
)
