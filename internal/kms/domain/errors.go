package domain

import (
	"github.com/allisson/tfvars-kms/internal/errors"
)

// Key-management error definitions.
var (
	// ErrInvalidKeyIdentity indicates a key identity has missing or malformed components.
	ErrInvalidKeyIdentity = errors.Wrap(errors.ErrInvalidInput, "invalid key identity")

	// ErrAlreadyExists is returned by a KeyManagementClient when the key ring or crypto key
	// being created is already present. Provisioning treats it as success.
	ErrAlreadyExists = errors.Wrap(errors.ErrConflict, "kms resource already exists")

	// ErrKeyProvisioningFailed indicates key ring or crypto key creation failed for a reason
	// other than the resource already existing. Provisioning falls back to the configured
	// identifiers, so this error is reported but never aborts a run.
	ErrKeyProvisioningFailed = errors.Wrap(errors.ErrUnavailable, "key provisioning failed")

	// ErrEncryptionFailed indicates the key management service rejected an encrypt call.
	ErrEncryptionFailed = errors.Wrap(errors.ErrUnavailable, "encryption failed")

	// ErrDecryptionFailed indicates the ciphertext was not valid base64 or the key management
	// service rejected the decrypt call.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrUnsupportedProvider indicates the configured KMS provider is unknown.
	ErrUnsupportedProvider = errors.Wrap(errors.ErrInvalidInput, "unsupported kms provider")
)
