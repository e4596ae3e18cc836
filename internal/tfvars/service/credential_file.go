package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/allisson/tfvars-kms/internal/errors"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	kmsService "github.com/allisson/tfvars-kms/internal/kms/service"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
)

type credentialFileEncryptor struct {
	cipher kmsService.EnvelopeCipher
	logger *slog.Logger
}

// NewCredentialFileEncryptor creates a CredentialFileEncryptor.
func NewCredentialFileEncryptor(cipher kmsService.EnvelopeCipher, logger *slog.Logger) CredentialFileEncryptor {
	return &credentialFileEncryptor{
		cipher: cipher,
		logger: logger,
	}
}

// EncryptFile reads the JSON object at path, compacts it, encrypts it and writes the
// base64 ciphertext next to it. Every failure wraps ErrCredentialFileEncryptionFailed.
func (c *credentialFileEncryptor) EncryptFile(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
	path string,
) (string, error) {
	c.logger.InfoContext(ctx, "encrypting credentials file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Join(tfvarsDomain.ErrCredentialFileEncryptionFailed, err)
	}

	var object map[string]any
	if err := json.Unmarshal(data, &object); err != nil {
		return "", errors.Join(
			tfvarsDomain.ErrCredentialFileEncryptionFailed,
			fmt.Errorf("%s is not a JSON object: %w", path, err),
		)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return "", errors.Join(tfvarsDomain.ErrCredentialFileEncryptionFailed, err)
	}

	ciphertext, err := c.cipher.Encrypt(ctx, identity, compact.String())
	if err != nil {
		return "", errors.Join(tfvarsDomain.ErrCredentialFileEncryptionFailed, err)
	}

	encryptedPath := path + tfvarsDomain.EncryptedFileSuffix
	if err := os.WriteFile(encryptedPath, []byte(ciphertext), 0600); err != nil {
		return "", errors.Join(tfvarsDomain.ErrCredentialFileEncryptionFailed, err)
	}

	c.logger.InfoContext(ctx, "finished encrypting credentials file", slog.String("path", encryptedPath))
	return encryptedPath, nil
}
