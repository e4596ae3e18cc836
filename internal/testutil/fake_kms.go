// Package testutil provides test doubles and fixtures shared by package and integration
// tests: an in-memory Cloud KMS gRPC server and tfvars documents.
package testutil

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// FakeKMSServer is an in-memory Cloud KMS implementation for tests. Ciphertext is the key
// name, a separator and the XOR-masked plaintext, so decrypting with another key fails.
type FakeKMSServer struct {
	kmspb.UnimplementedKeyManagementServiceServer

	mu         sync.Mutex
	keyRings   map[string]bool
	cryptoKeys map[string]kmspb.CryptoKey_CryptoKeyPurpose
	failCreate error
}

// NewFakeKMSServer creates an empty FakeKMSServer.
func NewFakeKMSServer() *FakeKMSServer {
	return &FakeKMSServer{
		keyRings:   make(map[string]bool),
		cryptoKeys: make(map[string]kmspb.CryptoKey_CryptoKeyPurpose),
	}
}

func (s *FakeKMSServer) CreateKeyRing(
	ctx context.Context,
	req *kmspb.CreateKeyRingRequest,
) (*kmspb.KeyRing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCreate != nil {
		return nil, s.failCreate
	}
	name := req.GetParent() + "/keyRings/" + req.GetKeyRingId()
	if s.keyRings[name] {
		return nil, status.Errorf(codes.AlreadyExists, "KeyRing %s already exists", name)
	}
	s.keyRings[name] = true
	return &kmspb.KeyRing{Name: name}, nil
}

func (s *FakeKMSServer) CreateCryptoKey(
	ctx context.Context,
	req *kmspb.CreateCryptoKeyRequest,
) (*kmspb.CryptoKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCreate != nil {
		return nil, s.failCreate
	}
	if !s.keyRings[req.GetParent()] {
		return nil, status.Errorf(codes.NotFound, "KeyRing %s not found", req.GetParent())
	}
	name := req.GetParent() + "/cryptoKeys/" + req.GetCryptoKeyId()
	if _, ok := s.cryptoKeys[name]; ok {
		return nil, status.Errorf(codes.AlreadyExists, "CryptoKey %s already exists", name)
	}
	s.cryptoKeys[name] = req.GetCryptoKey().GetPurpose()
	return &kmspb.CryptoKey{Name: name, Purpose: req.GetCryptoKey().GetPurpose()}, nil
}

func (s *FakeKMSServer) ListKeyRings(
	ctx context.Context,
	req *kmspb.ListKeyRingsRequest,
) (*kmspb.ListKeyRingsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := &kmspb.ListKeyRingsResponse{}
	for name := range s.keyRings {
		if strings.HasPrefix(name, req.GetParent()+"/") {
			resp.KeyRings = append(resp.KeyRings, &kmspb.KeyRing{Name: name})
		}
	}
	resp.TotalSize = int32(len(resp.KeyRings))
	return resp, nil
}

func (s *FakeKMSServer) Encrypt(
	ctx context.Context,
	req *kmspb.EncryptRequest,
) (*kmspb.EncryptResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cryptoKeys[req.GetName()]; !ok {
		return nil, status.Errorf(codes.NotFound, "CryptoKey %s not found", req.GetName())
	}
	ciphertext := append([]byte(req.GetName()+"|"), mask(req.GetPlaintext())...)
	return &kmspb.EncryptResponse{Name: req.GetName(), Ciphertext: ciphertext}, nil
}

func (s *FakeKMSServer) Decrypt(
	ctx context.Context,
	req *kmspb.DecryptRequest,
) (*kmspb.DecryptResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := []byte(req.GetName() + "|")
	if !bytes.HasPrefix(req.GetCiphertext(), prefix) {
		return nil, status.Error(codes.InvalidArgument, "Decryption failed")
	}
	return &kmspb.DecryptResponse{Plaintext: mask(req.GetCiphertext()[len(prefix):])}, nil
}

// SetCreateError makes every later create call fail with err; nil restores normal behavior.
func (s *FakeKMSServer) SetCreateError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreate = err
}

func mask(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ 0x5a
	}
	return out
}

// DialFakeKMS serves fake over an in-memory listener and returns a client connection to it.
// The server and connection are stopped when the test ends.
func DialFakeKMS(t *testing.T, fake *FakeKMSServer) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	kmspb.RegisterKeyManagementServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

// ServeFakeKMS serves fake on a loopback TCP port and returns its address, for code that
// dials an emulator endpoint itself.
func ServeFakeKMS(t *testing.T, fake *FakeKMSServer) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	kmspb.RegisterKeyManagementServiceServer(srv, fake)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return lis.Addr().String()
}
