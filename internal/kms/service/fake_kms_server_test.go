package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/allisson/tfvars-kms/internal/testutil"
)

// startFakeKMS returns a GCPClient connected to fake.
func startFakeKMS(t *testing.T, fake *testutil.FakeKMSServer) *GCPClient {
	t.Helper()

	client, err := NewGCPClient(
		context.Background(),
		ClientOptions{Endpoint: "bufnet"},
		option.WithGRPCConn(testutil.DialFakeKMS(t, fake)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}
