package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tfvars-kms/internal/errors"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	kmsMocks "github.com/allisson/tfvars-kms/internal/kms/service/mocks"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
)

func writeCredentialsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cam-cred.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCredentialFileEncryptor_EncryptFile(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	identity := testIdentity()

	t.Run("Success_CompactsAndWritesSibling", func(t *testing.T) {
		path := writeCredentialsFile(t, "{\n  \"username\": \"cam\",\n  \"apiKey\": \"abc\"\n}\n")

		cipher := &kmsMocks.MockEnvelopeCipher{}
		cipher.On("Encrypt", ctx, identity, `{"username":"cam","apiKey":"abc"}`).
			Return("ZW5jcnlwdGVk", nil).
			Once()

		encryptor := NewCredentialFileEncryptor(cipher, logger)
		encryptedPath, err := encryptor.EncryptFile(ctx, identity, path)

		require.NoError(t, err)
		assert.Equal(t, path+".encrypted", encryptedPath)

		data, err := os.ReadFile(encryptedPath)
		require.NoError(t, err)
		assert.Equal(t, "ZW5jcnlwdGVk", string(data))

		info, err := os.Stat(encryptedPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		cipher.AssertExpectations(t)
	})

	t.Run("Error_FileMissing", func(t *testing.T) {
		cipher := &kmsMocks.MockEnvelopeCipher{}
		encryptor := NewCredentialFileEncryptor(cipher, logger)

		_, err := encryptor.EncryptFile(ctx, identity, filepath.Join(t.TempDir(), "missing.json"))

		require.Error(t, err)
		assert.True(t, errors.Is(err, tfvarsDomain.ErrCredentialFileEncryptionFailed))
		cipher.AssertNotCalled(t, "Encrypt", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_NotJSONObject", func(t *testing.T) {
		for _, content := range []string{"not json", `["a", "b"]`} {
			path := writeCredentialsFile(t, content)
			cipher := &kmsMocks.MockEnvelopeCipher{}
			encryptor := NewCredentialFileEncryptor(cipher, logger)

			_, err := encryptor.EncryptFile(ctx, identity, path)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tfvarsDomain.ErrCredentialFileEncryptionFailed))
			cipher.AssertNotCalled(t, "Encrypt", mock.Anything, mock.Anything, mock.Anything)

			_, statErr := os.Stat(path + ".encrypted")
			assert.True(t, os.IsNotExist(statErr))
		}
	})

	t.Run("Error_EncryptFails", func(t *testing.T) {
		path := writeCredentialsFile(t, `{"username":"cam"}`)

		cipher := &kmsMocks.MockEnvelopeCipher{}
		cipher.On("Encrypt", ctx, identity, `{"username":"cam"}`).
			Return("", kmsDomain.ErrEncryptionFailed).
			Once()

		encryptor := NewCredentialFileEncryptor(cipher, logger)
		_, err := encryptor.EncryptFile(ctx, identity, path)

		require.Error(t, err)
		assert.True(t, errors.Is(err, tfvarsDomain.ErrCredentialFileEncryptionFailed))
		assert.True(t, errors.Is(err, kmsDomain.ErrEncryptionFailed))

		_, statErr := os.Stat(path + ".encrypted")
		assert.True(t, os.IsNotExist(statErr))
		cipher.AssertExpectations(t)
	})
}
