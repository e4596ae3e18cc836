// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/tfvars-kms/internal/errors"
)

var (
	// resourceIDRegex matches key ring and crypto key ids accepted by Cloud KMS
	resourceIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,63}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// ResourceID validates a Cloud KMS key ring or crypto key id
var ResourceID = validation.NewStringRuleWithError(
	func(s string) bool {
		return resourceIDRegex.MatchString(s)
	},
	validation.NewError("validation_resource_id", "must be 1-63 letters, digits, underscores or hyphens"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// OneOf validates that a string is one of the allowed values
func OneOf(allowed ...string) validation.Rule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			for _, a := range allowed {
				if s == a {
					return true
				}
			}
			return false
		},
		validation.NewError("validation_one_of", "must be one of: "+strings.Join(allowed, ", ")),
	)
}
