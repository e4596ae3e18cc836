package service

import (
	"context"
	"time"

	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	"github.com/allisson/tfvars-kms/internal/metrics"
)

// envelopeCipherWithMetrics decorates EnvelopeCipher with metrics instrumentation.
type envelopeCipherWithMetrics struct {
	next    EnvelopeCipher
	metrics metrics.BusinessMetrics
}

// NewEnvelopeCipherWithMetrics wraps an EnvelopeCipher with metrics recording.
func NewEnvelopeCipherWithMetrics(cipher EnvelopeCipher, m metrics.BusinessMetrics) EnvelopeCipher {
	return &envelopeCipherWithMetrics{
		next:    cipher,
		metrics: m,
	}
}

// Encrypt records metrics for KMS encrypt operations.
func (e *envelopeCipherWithMetrics) Encrypt(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
	plaintext string,
) (string, error) {
	start := time.Now()
	ciphertext, err := e.next.Encrypt(ctx, identity, plaintext)
	record(ctx, e.metrics, "kms_encrypt", start, err)
	return ciphertext, err
}

// Decrypt records metrics for KMS decrypt operations.
func (e *envelopeCipherWithMetrics) Decrypt(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
	ciphertext string,
) (string, error) {
	start := time.Now()
	plaintext, err := e.next.Decrypt(ctx, identity, ciphertext)
	record(ctx, e.metrics, "kms_decrypt", start, err)
	return plaintext, err
}

// keyHierarchyManagerWithMetrics decorates KeyHierarchyManager with metrics instrumentation.
type keyHierarchyManagerWithMetrics struct {
	next    KeyHierarchyManager
	metrics metrics.BusinessMetrics
}

// NewKeyHierarchyManagerWithMetrics wraps a KeyHierarchyManager with metrics recording.
func NewKeyHierarchyManagerWithMetrics(manager KeyHierarchyManager, m metrics.BusinessMetrics) KeyHierarchyManager {
	return &keyHierarchyManagerWithMetrics{
		next:    manager,
		metrics: m,
	}
}

// EnsureKeyRing records metrics for key ring provisioning.
func (k *keyHierarchyManagerWithMetrics) EnsureKeyRing(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (string, error) {
	start := time.Now()
	name, err := k.next.EnsureKeyRing(ctx, identity)
	record(ctx, k.metrics, "key_ring_ensure", start, err)
	return name, err
}

// EnsureCryptoKey records metrics for crypto key provisioning.
func (k *keyHierarchyManagerWithMetrics) EnsureCryptoKey(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) (string, error) {
	start := time.Now()
	name, err := k.next.EnsureCryptoKey(ctx, identity)
	record(ctx, k.metrics, "crypto_key_ensure", start, err)
	return name, err
}

// ListKeyRings records metrics for key ring listing.
func (k *keyHierarchyManagerWithMetrics) ListKeyRings(
	ctx context.Context,
	identity kmsDomain.KeyIdentity,
) ([]string, error) {
	start := time.Now()
	names, err := k.next.ListKeyRings(ctx, identity)
	record(ctx, k.metrics, "key_ring_list", start, err)
	return names, err
}

func record(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	m.RecordOperation(ctx, "kms", operation, status)
	m.RecordDuration(ctx, "kms", operation, time.Since(start), status)
}
