package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/tfvars-kms/internal/errors"
)

func TestSecretSet(t *testing.T) {
	set := NewSecretSet(
		Secret{Name: FieldDCAdminPassword, Value: "a"},
		Secret{Name: FieldSafeModeAdminPassword, Value: "b"},
	)

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{FieldDCAdminPassword, FieldSafeModeAdminPassword}, set.Names())

	encrypted := set.WithCiphertexts(map[string]string{FieldDCAdminPassword: "Y2lwaGVy"})

	value, ok := encrypted.Get(FieldDCAdminPassword)
	require.True(t, ok)
	assert.Equal(t, "Y2lwaGVy", value)

	value, ok = encrypted.Get(FieldSafeModeAdminPassword)
	require.True(t, ok)
	assert.Equal(t, "b", value)

	// The original set is untouched and the shape is unchanged.
	value, _ = set.Get(FieldDCAdminPassword)
	assert.Equal(t, "a", value)
	assert.Equal(t, set.Names(), encrypted.Names())

	_, ok = set.Get(FieldPCoIPRegistrationCode)
	assert.False(t, ok)
}

func TestVariant(t *testing.T) {
	t.Run("SecretFields", func(t *testing.T) {
		assert.Len(t, VariantDCOnly.SecretFields(), 3)
		assert.Len(t, VariantSingleConnector.SecretFields(), 4)
		assert.Len(t, VariantMultiRegion.SecretFields(), 4)
		assert.NotContains(t, VariantDCOnly.SecretFields(), FieldPCoIPRegistrationCode)
		assert.Contains(t, VariantMultiRegion.SecretFields(), FieldPCoIPRegistrationCode)
	})

	t.Run("HasCredentialsFile", func(t *testing.T) {
		assert.False(t, VariantDCOnly.HasCredentialsFile())
		assert.True(t, VariantSingleConnector.HasCredentialsFile())
		assert.True(t, VariantMultiRegion.HasCredentialsFile())
	})

	t.Run("ParseVariant", func(t *testing.T) {
		v, err := ParseVariant("multi-region")
		require.NoError(t, err)
		assert.Equal(t, VariantMultiRegion, v)

		_, err = ParseVariant("multi")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownVariant))
	})

	t.Run("IsSecretField", func(t *testing.T) {
		assert.True(t, IsSecretField(FieldPCoIPRegistrationCode))
		assert.False(t, IsSecretField(FieldCAMCredentialsFile))
		assert.False(t, IsSecretField(FieldGCPProjectID))
	})
}

func TestRunReport(t *testing.T) {
	report := &RunReport{
		Fields: []FieldResult{
			{Name: FieldDCAdminPassword, Ciphertext: "c1"},
			{Name: FieldSafeModeAdminPassword, Err: ErrMissingSecretField},
		},
	}

	failed := report.FailedFields()
	require.Len(t, failed, 1)
	assert.Equal(t, FieldSafeModeAdminPassword, failed[0].Name)
	assert.Equal(t, map[string]string{FieldDCAdminPassword: "c1"}, report.Ciphertexts())
}
