package service

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/allisson/tfvars-kms/internal/errors"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
)

// envelopeCipher implements EnvelopeCipher with a keeper per call.
type envelopeCipher struct {
	opener KeeperOpener
	logger *slog.Logger
}

// NewEnvelopeCipher creates an EnvelopeCipher.
func NewEnvelopeCipher(opener KeeperOpener, logger *slog.Logger) EnvelopeCipher {
	return &envelopeCipher{
		opener: opener,
		logger: logger,
	}
}

// Encrypt encrypts the UTF-8 bytes of plaintext and returns standard base64 ciphertext.
// KMS ciphertext is not deterministic, so equal inputs give different outputs.
func (c *envelopeCipher) Encrypt(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
	plaintext string,
) (string, error) {
	keeper, err := c.opener.OpenKeeper(ctx, identity)
	if err != nil {
		return "", errors.Join(kmsDomain.ErrEncryptionFailed, err)
	}
	defer c.closeKeeper(ctx, keeper)

	ciphertext, err := keeper.Encrypt(ctx, []byte(plaintext))
	if err != nil {
		return "", errors.Join(kmsDomain.ErrEncryptionFailed, err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt.
func (c *envelopeCipher) Decrypt(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
	ciphertext string,
) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Join(kmsDomain.ErrDecryptionFailed, err)
	}

	keeper, err := c.opener.OpenKeeper(ctx, identity)
	if err != nil {
		return "", errors.Join(kmsDomain.ErrDecryptionFailed, err)
	}
	defer c.closeKeeper(ctx, keeper)

	plaintext, err := keeper.Decrypt(ctx, raw)
	if err != nil {
		return "", errors.Join(kmsDomain.ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

func (c *envelopeCipher) closeKeeper(ctx context.Context, keeper kmsDomain.Keeper) {
	if err := keeper.Close(); err != nil {
		c.logger.WarnContext(ctx, "failed to close KMS keeper", slog.Any("error", err))
	}
}
