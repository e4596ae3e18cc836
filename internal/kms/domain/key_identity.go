// Package domain defines the key identity and error types for the cloud key-management hierarchy.
package domain

import (
	"fmt"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/tfvars-kms/internal/errors"
	customValidation "github.com/allisson/tfvars-kms/internal/validation"
)

// keyPathComponents are the collection names of a crypto key resource path:
// projects/.../locations/.../keyRings/.../cryptoKeys/...
var keyPathComponents = []string{"projects", "locations", "keyRings", "cryptoKeys"}

// KeyIdentity names a symmetric crypto key inside a key ring.
//
// It is a value type: every derived path is computed from the four fields on demand
// and never cached, so two identities with equal fields always address the same key.
type KeyIdentity struct {
	ProjectID   string
	Location    string
	KeyRingID   string
	CryptoKeyID string
}

// NewKeyIdentity builds and validates a KeyIdentity.
func NewKeyIdentity(projectID, location, keyRingID, cryptoKeyID string) (KeyIdentity, error) {
	identity := KeyIdentity{
		ProjectID:   projectID,
		Location:    location,
		KeyRingID:   keyRingID,
		CryptoKeyID: cryptoKeyID,
	}
	if err := identity.Validate(); err != nil {
		return KeyIdentity{}, err
	}
	return identity, nil
}

// Validate checks that every component is present and well formed.
func (k KeyIdentity) Validate() error {
	err := validation.ValidateStruct(&k,
		validation.Field(&k.ProjectID, validation.Required, customValidation.NoWhitespace),
		validation.Field(&k.Location, validation.Required, customValidation.NoWhitespace),
		validation.Field(&k.KeyRingID, validation.Required, customValidation.ResourceID),
		validation.Field(&k.CryptoKeyID, validation.Required, customValidation.ResourceID),
	)
	if err != nil {
		return errors.Join(ErrInvalidKeyIdentity, err)
	}
	return nil
}

// LocationPath returns projects/<p>/locations/<l>, the parent of key rings.
func (k KeyIdentity) LocationPath() string {
	return fmt.Sprintf("projects/%s/locations/%s", k.ProjectID, k.Location)
}

// KeyRingPath returns the key ring resource name, the parent of crypto keys.
func (k KeyIdentity) KeyRingPath() string {
	return fmt.Sprintf("%s/keyRings/%s", k.LocationPath(), k.KeyRingID)
}

// ResourcePath returns the fully-qualified crypto key resource name passed to every
// encrypt and decrypt call.
func (k KeyIdentity) ResourcePath() string {
	return fmt.Sprintf("%s/cryptoKeys/%s", k.KeyRingPath(), k.CryptoKeyID)
}

// String implements fmt.Stringer.
func (k KeyIdentity) String() string {
	return k.ResourcePath()
}

// ParseResourcePath is the inverse of ResourcePath.
func ParseResourcePath(path string) (KeyIdentity, error) {
	components := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(components) != len(keyPathComponents)*2 {
		return KeyIdentity{}, errors.Wrapf(
			ErrInvalidKeyIdentity,
			"path should have the form %s/...",
			strings.Join(keyPathComponents, "/.../"),
		)
	}
	for i := 0; i < len(components); i += 2 {
		if expect := keyPathComponents[i/2]; components[i] != expect {
			return KeyIdentity{}, errors.Wrapf(
				ErrInvalidKeyIdentity,
				"expected component %d to be %s, got %s",
				i+1, expect, components[i],
			)
		}
	}
	return NewKeyIdentity(components[1], components[3], components[5], components[7])
}
