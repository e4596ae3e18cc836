package domain

import (
	"github.com/allisson/tfvars-kms/internal/errors"
)

// Provider identifies the backend used to encrypt values.
type Provider string

// Supported providers.
//
// ProviderGCPKMS provisions the key hierarchy and encrypts with Cloud KMS. The other
// providers open a gocloud.dev keeper from a key URI and skip hierarchy provisioning;
// they exist for local development and CI.
const (
	ProviderGCPKMS       Provider = "gcpkms"
	ProviderLocalSecrets Provider = "localsecrets"
	ProviderHashiVault   Provider = "hashivault"
)

// DefaultLocation is the KMS location used when none is configured.
const DefaultLocation = "global"

// ParseProvider converts a configuration string to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGCPKMS, ProviderLocalSecrets, ProviderHashiVault:
		return Provider(s), nil
	default:
		return "", errors.Wrapf(ErrUnsupportedProvider, "provider %q", s)
	}
}

// ProvisionsHierarchy reports whether the provider manages key rings and crypto keys.
func (p Provider) ProvisionsHierarchy() bool {
	return p == ProviderGCPKMS
}
