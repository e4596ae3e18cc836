package domain

import (
	"github.com/allisson/tfvars-kms/internal/errors"
)

// Recognized configuration field names.
const (
	FieldGCPCredentialsFile       = "gcp_credentials_file"
	FieldGCPProjectID             = "gcp_project_id"
	FieldKMSKeyRingName           = "kms_keyring_name"
	FieldKMSCryptoKeyName         = "kms_cryptokey_name"
	FieldKMSCryptoKeyID           = "kms_cryptokey_id"
	FieldDCAdminPassword          = "dc_admin_password"
	FieldSafeModeAdminPassword    = "safe_mode_admin_password"
	FieldADServiceAccountPassword = "ad_service_account_password"
	FieldPCoIPRegistrationCode    = "pcoip_registration_code"
	FieldCAMCredentialsFile       = "cam_credentials_file"
)

// FieldColumnWidth is the padded key width used when rewriting secret fields, so that
// every "=" lines up after the longest secret name (ad_service_account_password).
const FieldColumnWidth = len(FieldADServiceAccountPassword)

// EncryptedFileSuffix is appended to the companion credentials file path.
const EncryptedFileSuffix = ".encrypted"

// DefaultFileName is the canonical configuration file name.
const DefaultFileName = "terraform.tfvars"

// Variant is a deployment configuration shape.
type Variant string

// Deployment variants.
const (
	VariantSingleConnector Variant = "single-connector"
	VariantMultiRegion     Variant = "multi-region"
	VariantDCOnly          Variant = "dc-only"
)

// Variants lists every variant in prompt order.
var Variants = []Variant{VariantSingleConnector, VariantMultiRegion, VariantDCOnly}

// ParseVariant converts a variant name to a Variant.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownVariant, "variant %q", s)
}

// SecretFields returns the names of the fields that must be encrypted for the variant.
func (v Variant) SecretFields() []string {
	fields := []string{
		FieldDCAdminPassword,
		FieldSafeModeAdminPassword,
		FieldADServiceAccountPassword,
	}
	if v.HasCredentialsFile() {
		fields = append(fields, FieldPCoIPRegistrationCode)
	}
	return fields
}

// HasCredentialsFile reports whether the variant carries a companion CAM credentials file.
func (v Variant) HasCredentialsFile() bool {
	return v != VariantDCOnly
}

// IsSecretField reports whether name is one of the fields any variant encrypts.
func IsSecretField(name string) bool {
	switch name {
	case FieldDCAdminPassword,
		FieldSafeModeAdminPassword,
		FieldADServiceAccountPassword,
		FieldPCoIPRegistrationCode:
		return true
	}
	return false
}
