package service

import (
	"context"
	"fmt"

	kms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/allisson/tfvars-kms/internal/errors"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
)

// ClientOptions configures the Cloud KMS client.
type ClientOptions struct {
	// CredentialsFile is the service account JSON key file.
	CredentialsFile string
	// Endpoint overrides the KMS endpoint. When set, the client talks plaintext gRPC
	// without authentication, which is what the KMS emulator expects.
	Endpoint string
}

// GCPClient implements KeyManagementClient on top of the Cloud KMS API client.
type GCPClient struct {
	client *kms.KeyManagementClient
}

// NewGCPClient builds an authenticated Cloud KMS client from a service account file.
// Extra client options are appended after the ones derived from opts.
func NewGCPClient(ctx context.Context, opts ClientOptions, extra ...option.ClientOption) (*GCPClient, error) {
	var clientOpts []option.ClientOption
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts,
			option.WithEndpoint(opts.Endpoint),
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	} else {
		if opts.CredentialsFile == "" {
			return nil, errors.Wrap(errors.ErrInvalidInput, "credentials file is required")
		}
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	clientOpts = append(clientOpts, extra...)

	client, err := kms.NewKeyManagementClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create KMS client: %w", err)
	}
	return &GCPClient{client: client}, nil
}

// Client returns the underlying Cloud KMS client.
func (c *GCPClient) Client() *kms.KeyManagementClient {
	return c.client
}

// CreateKeyRing creates a key ring.
func (c *GCPClient) CreateKeyRing(ctx context.Context, parent, id string) (string, error) {
	resp, err := c.client.CreateKeyRing(ctx, &kmspb.CreateKeyRingRequest{
		Parent:    parent,
		KeyRingId: id,
		KeyRing:   &kmspb.KeyRing{},
	})
	if err != nil {
		return "", classifyError(err)
	}
	return resp.GetName(), nil
}

// CreateCryptoKey creates a symmetric encrypt/decrypt crypto key.
func (c *GCPClient) CreateCryptoKey(ctx context.Context, parent, id string) (string, error) {
	resp, err := c.client.CreateCryptoKey(ctx, &kmspb.CreateCryptoKeyRequest{
		Parent:      parent,
		CryptoKeyId: id,
		CryptoKey: &kmspb.CryptoKey{
			Purpose: kmspb.CryptoKey_ENCRYPT_DECRYPT,
		},
	})
	if err != nil {
		return "", classifyError(err)
	}
	return resp.GetName(), nil
}

// ListKeyRings lists the key rings under parent.
func (c *GCPClient) ListKeyRings(ctx context.Context, parent string) ([]string, error) {
	it := c.client.ListKeyRings(ctx, &kmspb.ListKeyRingsRequest{Parent: parent})

	var names []string
	for {
		keyRing, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classifyError(err)
		}
		names = append(names, keyRing.GetName())
	}
	return names, nil
}

// Close closes the underlying connection.
func (c *GCPClient) Close() error {
	return c.client.Close()
}

// classifyError maps gRPC status codes onto domain errors.
func classifyError(err error) error {
	switch status.Code(err) {
	case codes.AlreadyExists:
		return errors.Join(kmsDomain.ErrAlreadyExists, err)
	case codes.NotFound:
		return errors.Join(errors.ErrNotFound, err)
	default:
		return errors.Join(errors.ErrUnavailable, err)
	}
}
