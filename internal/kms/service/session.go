package service

import (
	"context"
	"log/slog"

	"github.com/allisson/tfvars-kms/internal/errors"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	"github.com/allisson/tfvars-kms/internal/metrics"
)

// Session bundles the key-management services bound to one authenticated client.
// A session is opened once per run and used sequentially; Close releases the client.
type Session struct {
	Hierarchy KeyHierarchyManager
	Cipher    EnvelopeCipher
	closer    func() error
}

// NewSession creates a Session. closer may be nil.
func NewSession(hierarchy KeyHierarchyManager, cipher EnvelopeCipher, closer func() error) *Session {
	return &Session{
		Hierarchy: hierarchy,
		Cipher:    cipher,
		closer:    closer,
	}
}

// Close releases the underlying client.
func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// SessionProvider obtains an authenticated Session from a service account file.
type SessionProvider interface {
	Open(ctx context.Context, credentialsFile string) (*Session, error)
}

// SessionConfig configures a SessionProvider.
type SessionConfig struct {
	Provider kmsDomain.Provider
	// KeyURI is the gocloud.dev keeper URL for non-gcpkms providers.
	KeyURI string
	// Endpoint overrides the Cloud KMS endpoint (emulator).
	Endpoint string
}

// sessionProvider implements SessionProvider.
type sessionProvider struct {
	config  SessionConfig
	metrics metrics.BusinessMetrics
	logger  *slog.Logger
}

// NewSessionProvider creates a SessionProvider for the configured KMS provider.
func NewSessionProvider(cfg SessionConfig, m metrics.BusinessMetrics, logger *slog.Logger) SessionProvider {
	return &sessionProvider{
		config:  cfg,
		metrics: m,
		logger:  logger,
	}
}

// Open connects to the key-management service.
//
// For gcpkms the credentials file authenticates a Cloud KMS client shared by the hierarchy
// manager and the cipher. Other providers ignore it and open keepers from the key URI.
func (p *sessionProvider) Open(ctx context.Context, credentialsFile string) (*Session, error) {
	if _, err := kmsDomain.ParseProvider(string(p.config.Provider)); err != nil {
		return nil, err
	}

	if p.config.Provider.ProvisionsHierarchy() {
		client, err := NewGCPClient(ctx, ClientOptions{
			CredentialsFile: credentialsFile,
			Endpoint:        p.config.Endpoint,
		})
		if err != nil {
			return nil, err
		}
		p.logger.DebugContext(ctx, "connected to Cloud KMS", slog.String("credentials_file", credentialsFile))
		return p.decorate(
			NewKeyHierarchyManager(client, p.logger),
			NewEnvelopeCipher(NewGCPKeeperOpener(client.Client()), p.logger),
			client.Close,
		), nil
	}

	if p.config.KeyURI == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "KMS_KEY_URI is required for provider %s", p.config.Provider)
	}
	return p.decorate(
		NewStaticKeyHierarchyManager(p.logger),
		NewEnvelopeCipher(NewURLKeeperOpener(p.config.KeyURI), p.logger),
		nil,
	), nil
}

func (p *sessionProvider) decorate(hierarchy KeyHierarchyManager, cipher EnvelopeCipher, closer func() error) *Session {
	return NewSession(
		NewKeyHierarchyManagerWithMetrics(hierarchy, p.metrics),
		NewEnvelopeCipherWithMetrics(cipher, p.metrics),
		closer,
	)
}
