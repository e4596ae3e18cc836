package testutil

import (
	"context"
	"testing"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFakeKMSServer(t *testing.T) {
	ctx := context.Background()
	client := kmspb.NewKeyManagementServiceClient(DialFakeKMS(t, NewFakeKMSServer()))
	location := "projects/p/locations/global"

	ring, err := client.CreateKeyRing(ctx, &kmspb.CreateKeyRingRequest{Parent: location, KeyRingId: "r"})
	require.NoError(t, err)
	assert.Equal(t, location+"/keyRings/r", ring.GetName())

	_, err = client.CreateKeyRing(ctx, &kmspb.CreateKeyRingRequest{Parent: location, KeyRingId: "r"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = client.CreateCryptoKey(ctx, &kmspb.CreateCryptoKeyRequest{Parent: location + "/keyRings/missing", CryptoKeyId: "k"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	key, err := client.CreateCryptoKey(ctx, &kmspb.CreateCryptoKeyRequest{
		Parent:      ring.GetName(),
		CryptoKeyId: "k",
		CryptoKey:   &kmspb.CryptoKey{Purpose: kmspb.CryptoKey_ENCRYPT_DECRYPT},
	})
	require.NoError(t, err)

	encrypted, err := client.Encrypt(ctx, &kmspb.EncryptRequest{Name: key.GetName(), Plaintext: []byte("secret")})
	require.NoError(t, err)
	assert.NotContains(t, string(encrypted.GetCiphertext()), "secret")

	decrypted, err := client.Decrypt(ctx, &kmspb.DecryptRequest{Name: key.GetName(), Ciphertext: encrypted.GetCiphertext()})
	require.NoError(t, err)
	assert.Equal(t, "secret", string(decrypted.GetPlaintext()))

	_, err = client.Decrypt(ctx, &kmspb.DecryptRequest{Name: ring.GetName() + "/cryptoKeys/other", Ciphertext: encrypted.GetCiphertext()})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	rings, err := client.ListKeyRings(ctx, &kmspb.ListKeyRingsRequest{Parent: location})
	require.NoError(t, err)
	require.Len(t, rings.GetKeyRings(), 1)
}

func TestLocalSecretsKeyURI(t *testing.T) {
	a := LocalSecretsKeyURI(t)
	b := LocalSecretsKeyURI(t)
	assert.Contains(t, a, "base64key://")
	assert.NotEqual(t, a, b)
}
