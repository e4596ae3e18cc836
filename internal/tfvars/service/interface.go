// Package service implements the document-level steps of the tfvars encryption pipeline:
// secret selection, companion credentials file encryption, and rewriting.
package service

import (
	"context"

	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
)

// SecretSetExtractor selects the sensitive fields of a document.
type SecretSetExtractor interface {
	// Select returns the secrets for variant and, for variants with a companion
	// credentials file, its path. Missing fields fail with ErrMissingSecretField.
	Select(doc *tfvarsDomain.Document, variant tfvarsDomain.Variant) (*tfvarsDomain.SecretSet, string, error)
}

// CredentialFileEncryptor encrypts the companion JSON credentials file.
type CredentialFileEncryptor interface {
	// EncryptFile writes the encrypted compact JSON of path to path + ".encrypted" and
	// returns the written path.
	EncryptFile(ctx context.Context, identity kmsDomain.KeyIdentity, path string) (string, error)
}

// Rewriter produces the rewritten configuration lines.
type Rewriter interface {
	// Emit is a pure transformation of lines. credentialsRef is the companion file path to
	// redirect to its encrypted sibling; empty leaves that line untouched.
	Emit(
		lines []tfvarsDomain.Line,
		secrets *tfvarsDomain.SecretSet,
		identity kmsDomain.KeyIdentity,
		credentialsRef string,
	) []string
}

// DocumentWriter persists rewritten lines.
type DocumentWriter interface {
	Write(path string, lines []string) error
}
