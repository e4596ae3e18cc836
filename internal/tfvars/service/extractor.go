package service

import (
	"strings"

	"github.com/allisson/tfvars-kms/internal/errors"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
)

type secretSetExtractor struct{}

// NewSecretSetExtractor creates a SecretSetExtractor.
func NewSecretSetExtractor() SecretSetExtractor {
	return &secretSetExtractor{}
}

// Select collects every secret field of the variant. All missing fields are reported at
// once so the operator can fix the document in one pass.
func (e *secretSetExtractor) Select(
	doc *tfvarsDomain.Document,
	variant tfvarsDomain.Variant,
) (*tfvarsDomain.SecretSet, string, error) {
	var (
		secrets []tfvarsDomain.Secret
		missing []string
	)

	for _, name := range variant.SecretFields() {
		if !doc.Has(name) {
			missing = append(missing, name)
			continue
		}
		secrets = append(secrets, tfvarsDomain.Secret{Name: name, Value: doc.Value(name)})
	}

	var credentialsRef string
	if variant.HasCredentialsFile() {
		credentialsRef = doc.Value(tfvarsDomain.FieldCAMCredentialsFile)
		if credentialsRef == "" {
			missing = append(missing, tfvarsDomain.FieldCAMCredentialsFile)
		}
	}

	if len(missing) > 0 {
		return nil, "", errors.Wrapf(
			tfvarsDomain.ErrMissingSecretField,
			"%s requires %s",
			variant, strings.Join(missing, ", "),
		)
	}

	return tfvarsDomain.NewSecretSet(secrets...), credentialsRef, nil
}
