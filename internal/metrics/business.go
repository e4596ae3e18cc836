package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Operation statuses used as the "status" label.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusAborted = "aborted"
)

// StatusOf maps an operation error to StatusSuccess or StatusError.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}

// RunSample summarizes one encryption run for metrics.
type RunSample struct {
	Variant string
	// State is the terminal pipeline state (REWRITTEN or ABORTED).
	State           string
	FieldsEncrypted int
	FieldsFailed    int
	// CredentialsFile is "encrypted", "failed", or empty when the variant has no companion file.
	CredentialsFile string
	FinishedAt      time.Time
}

// BusinessMetrics records what the KMS adapters and the tfvars pipeline do.
type BusinessMetrics interface {
	// RecordOperation counts one operation.
	// Domains: "kms", "tfvars". Operations: "kms_encrypt", "key_ring_ensure", "encrypt_run".
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records an operation latency in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordRun records per-field outcomes and the completion time of a pipeline run.
	RecordRun(ctx context.Context, run RunSample)
}

// businessMetrics implements BusinessMetrics using OpenTelemetry metrics.
type businessMetrics struct {
	operationCounter  metric.Int64Counter
	durationHisto     metric.Float64Histogram
	fieldCounter      metric.Int64Counter
	credentialCounter metric.Int64Counter
	lastRunGauge      metric.Float64Gauge
}

// NewBusinessMetrics creates the instruments on a meter named after namespace. Every metric
// name is prefixed with namespace (e.g. "tfvars_kms_operations_total").
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)
	b := &businessMetrics{}
	var err error

	b.operationCounter, err = meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Total number of KMS and pipeline operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	b.durationHisto, err = meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Duration of KMS and pipeline operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	b.fieldCounter, err = meter.Int64Counter(
		namespace+"_secret_fields_total",
		metric.WithDescription("Secret fields processed by encryption runs"),
		metric.WithUnit("{field}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret field counter: %w", err)
	}

	b.credentialCounter, err = meter.Int64Counter(
		namespace+"_credential_files_total",
		metric.WithDescription("Companion credentials files processed by encryption runs"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential file counter: %w", err)
	}

	b.lastRunGauge, err = meter.Float64Gauge(
		namespace+"_last_run_timestamp_seconds",
		metric.WithDescription("Unix time the last encryption run finished"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create last run gauge: %w", err)
	}

	return b, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1, metric.WithAttributes(operationAttrs(domain, operation, status)...))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(operationAttrs(domain, operation, status)...))
}

func (b *businessMetrics) RecordRun(ctx context.Context, run RunSample) {
	variant := attribute.String("variant", run.Variant)

	if run.FieldsEncrypted > 0 {
		b.fieldCounter.Add(ctx, int64(run.FieldsEncrypted),
			metric.WithAttributes(variant, attribute.String("status", StatusSuccess)))
	}
	if run.FieldsFailed > 0 {
		b.fieldCounter.Add(ctx, int64(run.FieldsFailed),
			metric.WithAttributes(variant, attribute.String("status", StatusError)))
	}
	if run.CredentialsFile != "" {
		b.credentialCounter.Add(ctx, 1,
			metric.WithAttributes(variant, attribute.String("status", run.CredentialsFile)))
	}

	finishedAt := run.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}
	b.lastRunGauge.Record(ctx, float64(finishedAt.UnixNano())/float64(time.Second),
		metric.WithAttributes(variant, attribute.String("state", run.State)))
}

func operationAttrs(domain, operation, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	}
}

// NoOpBusinessMetrics discards everything; used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordRun(ctx context.Context, run RunSample) {}
