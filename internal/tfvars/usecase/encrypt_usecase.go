package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/allisson/tfvars-kms/internal/errors"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	kmsService "github.com/allisson/tfvars-kms/internal/kms/service"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
	tfvarsService "github.com/allisson/tfvars-kms/internal/tfvars/service"
)

// EncryptConfig holds the key hierarchy defaults of a pipeline run.
type EncryptConfig struct {
	Location         string
	DefaultKeyRing   string
	DefaultCryptoKey string
}

// encryptUseCase implements EncryptUseCase.
type encryptUseCase struct {
	config                 EncryptConfig
	sessions               SessionProvider
	extractor              tfvarsService.SecretSetExtractor
	newCredentialEncryptor CredentialFileEncryptorFactory
	rewriter               tfvarsService.Rewriter
	writer                 tfvarsService.DocumentWriter
	logger                 *slog.Logger
}

// NewEncryptUseCase creates an EncryptUseCase.
func NewEncryptUseCase(
	cfg EncryptConfig,
	sessions SessionProvider,
	extractor tfvarsService.SecretSetExtractor,
	newCredentialEncryptor CredentialFileEncryptorFactory,
	rewriter tfvarsService.Rewriter,
	writer tfvarsService.DocumentWriter,
	logger *slog.Logger,
) EncryptUseCase {
	return &encryptUseCase{
		config:                 cfg,
		sessions:               sessions,
		extractor:              extractor,
		newCredentialEncryptor: newCredentialEncryptor,
		rewriter:               rewriter,
		writer:                 writer,
		logger:                 logger,
	}
}

// Encrypt runs the pipeline:
//  1. load the document and refuse it when kms_cryptokey_id is already set
//  2. select the variant's secrets, failing before any KMS call when one is missing
//  3. open a KMS session and create or reuse the key ring and crypto key
//  4. encrypt every secret, then the companion credentials file
//  5. rewrite the document, unless a secret failed to encrypt
func (u *encryptUseCase) Encrypt(
	ctx context.Context,
	input *EncryptInput,
) (*tfvarsDomain.RunReport, error) {
	report := &tfvarsDomain.RunReport{
		RunID:      uuid.Must(uuid.NewV7()).String(),
		Variant:    input.Variant,
		SourcePath: input.SourcePath,
		OutputPath: input.OutputPath,
		State:      tfvarsDomain.StateAborted,
	}
	logger := u.logger.With(slog.String("run_id", report.RunID))

	if err := input.Validate(); err != nil {
		return report, err
	}

	logger.InfoContext(ctx, "loading configuration",
		slog.String("path", input.SourcePath),
		slog.String("variant", string(input.Variant)),
	)
	doc, err := tfvarsDomain.Load(input.SourcePath)
	if err != nil {
		return report, err
	}
	report.State = tfvarsDomain.StateLoaded

	if doc.IsEncrypted() {
		report.State = tfvarsDomain.StateAborted
		report.CryptoKeyID = doc.Value(tfvarsDomain.FieldKMSCryptoKeyID)
		existing, parseErr := kmsDomain.ParseResourcePath(report.CryptoKeyID)
		if parseErr != nil {
			// Any non-empty kms_cryptokey_id aborts the run, parseable or not.
			logger.WarnContext(ctx, "configuration carries an unrecognized kms_cryptokey_id",
				slog.String("kms_cryptokey_id", report.CryptoKeyID),
				slog.Any("error", parseErr),
			)
		} else {
			logger.WarnContext(ctx, "configuration is already encrypted",
				slog.String("project", existing.ProjectID),
				slog.String("location", existing.Location),
				slog.String("key_ring", existing.KeyRingID),
				slog.String("crypto_key", existing.CryptoKeyID),
			)
		}
		return report, errors.Wrapf(tfvarsDomain.ErrAlreadyEncrypted, "%s", input.SourcePath)
	}
	report.State = tfvarsDomain.StateGuardChecked

	secrets, credentialsRef, err := u.extractor.Select(doc, input.Variant)
	if err != nil {
		report.State = tfvarsDomain.StateAborted
		return report, err
	}
	report.CredentialsFile = credentialsRef

	identity, err := u.resolveIdentity(doc)
	if err != nil {
		report.State = tfvarsDomain.StateAborted
		return report, err
	}
	report.CryptoKeyID = identity.ResourcePath()

	session, err := u.sessions.Open(ctx, doc.Value(tfvarsDomain.FieldGCPCredentialsFile))
	if err != nil {
		report.State = tfvarsDomain.StateAborted
		return report, errors.Wrap(err, "failed to open KMS session")
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.WarnContext(ctx, "failed to close KMS session", slog.Any("error", closeErr))
		}
	}()

	u.provisionKeys(ctx, logger, session.Hierarchy, identity, report)
	report.State = tfvarsDomain.StateKeysReady

	u.encryptSecrets(ctx, logger, session.Cipher, identity, secrets, report)
	if credentialsRef != "" {
		u.encryptCredentialsFile(ctx, logger, session.Cipher, identity, credentialsRef, report)
	}

	if failed := report.FailedFields(); len(failed) > 0 {
		report.State = tfvarsDomain.StateAborted
		names := make([]string, 0, len(failed))
		for _, field := range failed {
			names = append(names, field.Name)
		}
		logger.ErrorContext(ctx, "configuration left unchanged", slog.Any("failed_fields", names))
		return report, errors.Wrapf(kmsDomain.ErrEncryptionFailed, "fields %v", names)
	}
	report.State = tfvarsDomain.StateSecretsEncrypted

	ref := ""
	if report.EncryptedCredentialsFile != "" {
		ref = credentialsRef
	}
	lines := u.rewriter.Emit(doc.Lines(), secrets.WithCiphertexts(report.Ciphertexts()), identity, ref)
	if err := u.writer.Write(input.OutputPath, lines); err != nil {
		report.State = tfvarsDomain.StateAborted
		return report, errors.Wrap(err, "failed to write configuration")
	}
	report.State = tfvarsDomain.StateRewritten

	logger.InfoContext(ctx, "configuration encrypted",
		slog.String("path", input.OutputPath),
		slog.String("kms_cryptokey_id", report.CryptoKeyID),
		slog.Int("fields", len(report.Fields)),
	)
	return report, nil
}

// resolveIdentity builds the key identity from the document, falling back to the default
// key ring and crypto key names when either is missing.
func (u *encryptUseCase) resolveIdentity(doc *tfvarsDomain.Document) (kmsDomain.KeyIdentity, error) {
	projectID := doc.Value(tfvarsDomain.FieldGCPProjectID)
	if projectID == "" {
		return kmsDomain.KeyIdentity{}, errors.Wrapf(
			tfvarsDomain.ErrMissingConfigField,
			"%s is required",
			tfvarsDomain.FieldGCPProjectID,
		)
	}

	keyRing := doc.Value(tfvarsDomain.FieldKMSKeyRingName)
	cryptoKey := doc.Value(tfvarsDomain.FieldKMSCryptoKeyName)
	if keyRing == "" || cryptoKey == "" {
		keyRing = u.config.DefaultKeyRing
		cryptoKey = u.config.DefaultCryptoKey
	}

	location := u.config.Location
	if location == "" {
		location = kmsDomain.DefaultLocation
	}

	return kmsDomain.NewKeyIdentity(projectID, location, keyRing, cryptoKey)
}

// provisionKeys lists the existing key rings and ensures the key ring and crypto key.
// Failures are recorded on the report and never stop the run.
func (u *encryptUseCase) provisionKeys(
	ctx context.Context,
	logger *slog.Logger,
	hierarchy kmsService.KeyHierarchyManager,
	identity kmsDomain.KeyIdentity,
	report *tfvarsDomain.RunReport,
) {
	keyRings, err := hierarchy.ListKeyRings(ctx, identity)
	if err != nil {
		logger.WarnContext(ctx, "failed to list key rings", slog.Any("error", err))
	}
	report.KeyRings = keyRings

	if _, err := hierarchy.EnsureKeyRing(ctx, identity); err != nil {
		report.ProvisioningErrors = append(report.ProvisioningErrors, err)
	}
	if _, err := hierarchy.EnsureCryptoKey(ctx, identity); err != nil {
		report.ProvisioningErrors = append(report.ProvisioningErrors, err)
	}
}

// encryptSecrets encrypts every secret in order. A failing field is recorded and the
// remaining fields are still attempted.
func (u *encryptUseCase) encryptSecrets(
	ctx context.Context,
	logger *slog.Logger,
	cipher kmsService.EnvelopeCipher,
	identity kmsDomain.KeyIdentity,
	secrets *tfvarsDomain.SecretSet,
	report *tfvarsDomain.RunReport,
) {
	for _, secret := range secrets.Secrets() {
		ciphertext, err := cipher.Encrypt(ctx, identity, secret.Value)
		if err != nil {
			logger.ErrorContext(ctx, "failed to encrypt field",
				slog.String("field", secret.Name),
				slog.Any("error", err),
			)
		} else {
			logger.InfoContext(ctx, "encrypted field", slog.String("field", secret.Name))
		}
		report.Fields = append(report.Fields, tfvarsDomain.FieldResult{
			Name:       secret.Name,
			Ciphertext: ciphertext,
			Err:        err,
		})
	}
}

// encryptCredentialsFile encrypts the companion credentials file. A failure is recorded on
// the report and leaves the cam_credentials_file line unchanged.
func (u *encryptUseCase) encryptCredentialsFile(
	ctx context.Context,
	logger *slog.Logger,
	cipher kmsService.EnvelopeCipher,
	identity kmsDomain.KeyIdentity,
	path string,
	report *tfvarsDomain.RunReport,
) {
	encryptedPath, err := u.newCredentialEncryptor(cipher).EncryptFile(ctx, identity, path)
	if err != nil {
		report.CredentialsFileErr = err
		logger.WarnContext(ctx, "failed to encrypt credentials file",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return
	}
	report.EncryptedCredentialsFile = encryptedPath
}
