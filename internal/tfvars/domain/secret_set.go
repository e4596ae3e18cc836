package domain

// Secret is a named sensitive value. Value holds plaintext right after extraction and
// ciphertext after encryption.
type Secret struct {
	Name  string
	Value string
}

// SecretSet is the ordered set of secrets selected for a variant.
//
// Its shape (names and order) is fixed when it is created; only values change, and only
// through WithCiphertexts, which returns a new set.
type SecretSet struct {
	secrets []Secret
}

// NewSecretSet creates a SecretSet from secrets in the given order.
func NewSecretSet(secrets ...Secret) *SecretSet {
	s := make([]Secret, len(secrets))
	copy(s, secrets)
	return &SecretSet{secrets: s}
}

// Len returns the number of secrets.
func (s *SecretSet) Len() int {
	return len(s.secrets)
}

// Names returns the secret names in order.
func (s *SecretSet) Names() []string {
	names := make([]string, 0, len(s.secrets))
	for _, secret := range s.secrets {
		names = append(names, secret.Name)
	}
	return names
}

// Secrets returns a copy of the secrets in order.
func (s *SecretSet) Secrets() []Secret {
	secrets := make([]Secret, len(s.secrets))
	copy(secrets, s.secrets)
	return secrets
}

// Get returns the value for name.
func (s *SecretSet) Get(name string) (string, bool) {
	for _, secret := range s.secrets {
		if secret.Name == name {
			return secret.Value, true
		}
	}
	return "", false
}

// WithCiphertexts returns a set of the same shape with every value replaced by the
// ciphertext for its name. Names missing from ciphertexts keep their current value.
func (s *SecretSet) WithCiphertexts(ciphertexts map[string]string) *SecretSet {
	next := s.Secrets()
	for i := range next {
		if ciphertext, ok := ciphertexts[next[i].Name]; ok {
			next[i].Value = ciphertext
		}
	}
	return &SecretSet{secrets: next}
}
