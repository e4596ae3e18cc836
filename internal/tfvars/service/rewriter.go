package service

import (
	"fmt"
	"strconv"
	"strings"

	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
)

type rewriter struct{}

// NewRewriter creates a Rewriter.
func NewRewriter() Rewriter {
	return &rewriter{}
}

// Emit walks lines in order:
//   - selected secret fields get their ciphertext, aligned on FieldColumnWidth
//   - kms_keyring_name is dropped
//   - kms_cryptokey_name becomes kms_cryptokey_id with the crypto key resource path
//   - cam_credentials_file points at the encrypted sibling when credentialsRef is set
//   - every other line passes through with trailing whitespace removed
//
// The output always holds exactly one kms_cryptokey_id line; it is appended when the
// input has no kms_cryptokey_name.
func (r *rewriter) Emit(
	lines []tfvarsDomain.Line,
	secrets *tfvarsDomain.SecretSet,
	identity kmsDomain.KeyIdentity,
	credentialsRef string,
) []string {
	out := make([]string, 0, len(lines)+1)
	keyIDLine := fmt.Sprintf("%s = %s", tfvarsDomain.FieldKMSCryptoKeyID, strconv.Quote(identity.ResourcePath()))
	keyIDWritten := false

	for _, line := range lines {
		if !line.Entry {
			out = append(out, strings.TrimRight(line.Raw, " \t"))
			continue
		}

		switch line.Key {
		case tfvarsDomain.FieldKMSKeyRingName:
			continue
		case tfvarsDomain.FieldKMSCryptoKeyName, tfvarsDomain.FieldKMSCryptoKeyID:
			if !keyIDWritten {
				out = append(out, keyIDLine)
				keyIDWritten = true
			}
			continue
		case tfvarsDomain.FieldCAMCredentialsFile:
			if credentialsRef != "" {
				out = append(out, alignedField(line.Key, credentialsRef+tfvarsDomain.EncryptedFileSuffix))
				continue
			}
		}

		if tfvarsDomain.IsSecretField(line.Key) {
			if ciphertext, ok := secrets.Get(line.Key); ok {
				out = append(out, alignedField(line.Key, ciphertext))
				continue
			}
		}

		out = append(out, strings.TrimRight(line.Raw, " \t"))
	}

	if !keyIDWritten {
		out = append(out, keyIDLine)
	}

	return out
}

// alignedField re-quotes value, so a path decoded by Document.Value is escaped again.
func alignedField(key, value string) string {
	return fmt.Sprintf("%-*s = %s", tfvarsDomain.FieldColumnWidth, key, strconv.Quote(value))
}
