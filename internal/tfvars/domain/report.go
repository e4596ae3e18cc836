package domain

// State is a pipeline run state.
type State string

// Pipeline states. StateRewritten and StateAborted are terminal.
const (
	StateLoaded           State = "LOADED"
	StateGuardChecked     State = "GUARD_CHECKED"
	StateKeysReady        State = "KEYS_READY"
	StateSecretsEncrypted State = "SECRETS_ENCRYPTED"
	StateRewritten        State = "REWRITTEN"
	StateAborted          State = "ABORTED"
)

// FieldResult is the outcome of encrypting a single secret field.
type FieldResult struct {
	Name       string
	Ciphertext string
	Err        error
}

// OK reports whether the field was encrypted.
func (f FieldResult) OK() bool {
	return f.Err == nil
}

// RunReport describes what a pipeline run did.
type RunReport struct {
	RunID      string
	Variant    Variant
	SourcePath string
	OutputPath string
	State      State

	// CryptoKeyID is the resource path written as kms_cryptokey_id.
	CryptoKeyID string
	// KeyRings lists the key rings found under the location before provisioning.
	KeyRings []string
	// ProvisioningErrors holds non-fatal key ring and crypto key creation failures.
	ProvisioningErrors []error

	Fields []FieldResult

	// CredentialsFile is the companion file path, empty for dc-only.
	CredentialsFile string
	// EncryptedCredentialsFile is set once the companion file was written.
	EncryptedCredentialsFile string
	// CredentialsFileErr holds the non-fatal companion file failure, if any.
	CredentialsFileErr error
}

// FailedFields returns the results of fields that could not be encrypted.
func (r *RunReport) FailedFields() []FieldResult {
	var failed []FieldResult
	for _, field := range r.Fields {
		if !field.OK() {
			failed = append(failed, field)
		}
	}
	return failed
}

// Ciphertexts returns the ciphertext of every successfully encrypted field.
func (r *RunReport) Ciphertexts() map[string]string {
	ciphertexts := make(map[string]string, len(r.Fields))
	for _, field := range r.Fields {
		if field.OK() {
			ciphertexts[field.Name] = field.Ciphertext
		}
	}
	return ciphertexts
}
