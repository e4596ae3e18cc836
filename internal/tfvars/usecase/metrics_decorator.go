package usecase

import (
	"context"
	"time"

	"github.com/allisson/tfvars-kms/internal/errors"
	"github.com/allisson/tfvars-kms/internal/metrics"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
)

// encryptUseCaseWithMetrics decorates EncryptUseCase with metrics instrumentation.
type encryptUseCaseWithMetrics struct {
	next    EncryptUseCase
	metrics metrics.BusinessMetrics
}

// NewEncryptUseCaseWithMetrics wraps an EncryptUseCase with metrics recording.
func NewEncryptUseCaseWithMetrics(useCase EncryptUseCase, m metrics.BusinessMetrics) EncryptUseCase {
	return &encryptUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records the run as an operation and, once fields were selected, a RunSample.
// A run refused by the already-encrypted guard is reported as "aborted".
func (e *encryptUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	input *EncryptInput,
) (*tfvarsDomain.RunReport, error) {
	start := time.Now()
	report, err := e.next.Encrypt(ctx, input)

	status := metrics.StatusOf(err)
	if errors.Is(err, tfvarsDomain.ErrAlreadyEncrypted) {
		status = metrics.StatusAborted
	}

	e.metrics.RecordOperation(ctx, "tfvars", "encrypt_run", status)
	e.metrics.RecordDuration(ctx, "tfvars", "encrypt_run", time.Since(start), status)
	if report != nil && len(report.Fields) > 0 {
		e.metrics.RecordRun(ctx, runSample(report))
	}

	return report, err
}

func runSample(report *tfvarsDomain.RunReport) metrics.RunSample {
	failed := len(report.FailedFields())
	sample := metrics.RunSample{
		Variant:         string(report.Variant),
		State:           string(report.State),
		FieldsEncrypted: len(report.Fields) - failed,
		FieldsFailed:    failed,
		FinishedAt:      time.Now(),
	}
	switch {
	case report.EncryptedCredentialsFile != "":
		sample.CredentialsFile = "encrypted"
	case report.CredentialsFileErr != nil:
		sample.CredentialsFile = "failed"
	}
	return sample
}

// keyRingUseCaseWithMetrics decorates KeyRingUseCase with metrics instrumentation.
type keyRingUseCaseWithMetrics struct {
	next    KeyRingUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyRingUseCaseWithMetrics wraps a KeyRingUseCase with metrics recording.
func NewKeyRingUseCaseWithMetrics(useCase KeyRingUseCase, m metrics.BusinessMetrics) KeyRingUseCase {
	return &keyRingUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// List records metrics for key ring listing.
func (k *keyRingUseCaseWithMetrics) List(
	ctx context.Context,
	credentialsFile, projectID, location string,
) ([]string, error) {
	start := time.Now()
	keyRings, err := k.next.List(ctx, credentialsFile, projectID, location)

	status := metrics.StatusOf(err)
	k.metrics.RecordOperation(ctx, "tfvars", "key_ring_list", status)
	k.metrics.RecordDuration(ctx, "tfvars", "key_ring_list", time.Since(start), status)

	return keyRings, err
}
