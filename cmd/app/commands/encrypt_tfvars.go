package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/allisson/tfvars-kms/internal/errors"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
	tfvarsUseCase "github.com/allisson/tfvars-kms/internal/tfvars/usecase"
)

// EncryptTfvarsOptions holds the command line options of encrypt-tfvars.
type EncryptTfvarsOptions struct {
	// Variant is the deployment variant. Empty prompts for it.
	Variant string
	// SourcePath overrides the deployment configuration file.
	SourcePath string
	// OutputPath is the file the encrypted configuration is written to.
	OutputPath string
	// Format is the report format, "text" or "json".
	Format string
	// DeploymentPath maps a variant to its configuration file when SourcePath is empty.
	DeploymentPath func(tfvarsDomain.Variant) string
}

// RunEncryptTfvars encrypts the secrets of a deployment configuration file and writes the
// rewritten document. A file that is already encrypted is reported and left alone
// without failing the command.
//
// Requirements: the configuration must name gcp_project_id and gcp_credentials_file.
func RunEncryptTfvars(
	ctx context.Context,
	useCase tfvarsUseCase.EncryptUseCase,
	logger *slog.Logger,
	opts EncryptTfvarsOptions,
	io IOTuple,
) error {
	variant, err := resolveVariant(opts.Variant, io)
	if err != nil {
		return err
	}

	sourcePath := opts.SourcePath
	if sourcePath == "" && opts.DeploymentPath != nil {
		sourcePath = opts.DeploymentPath(variant)
	}

	logger.Info("encrypting tfvars",
		slog.String("variant", string(variant)),
		slog.String("source", sourcePath),
		slog.String("output", opts.OutputPath),
	)

	report, err := useCase.Encrypt(ctx, &tfvarsUseCase.EncryptInput{
		Variant:    variant,
		SourcePath: sourcePath,
		OutputPath: opts.OutputPath,
	})
	if errors.Is(err, tfvarsDomain.ErrAlreadyEncrypted) {
		_, _ = fmt.Fprintf(io.Writer, "%s is already encrypted, nothing to do.\n", sourcePath)
		logger.Warn("tfvars already encrypted", slog.String("source", sourcePath))
		return nil
	}
	// Print the report once encryption was attempted
	if report != nil && (err == nil || len(report.Fields) > 0) {
		outputReport(report, opts.Format, io.Writer)
	}
	if err != nil {
		return fmt.Errorf("failed to encrypt tfvars: %w", err)
	}

	logger.Info("tfvars encrypted",
		slog.String("run_id", report.RunID),
		slog.String("output", report.OutputPath),
	)
	return nil
}

// resolveVariant parses name, or prompts for a variant when name is empty.
func resolveVariant(name string, io IOTuple) (tfvarsDomain.Variant, error) {
	if name != "" {
		return tfvarsDomain.ParseVariant(name)
	}
	return promptForVariant(io)
}

// promptForVariant shows the numbered variants and reads a choice until a valid one is
// entered or input ends.
func promptForVariant(io IOTuple) (tfvarsDomain.Variant, error) {
	if io.Reader == nil {
		return "", errors.Wrap(errors.ErrInvalidInput, "variant is required")
	}
	reader := bufio.NewReader(io.Reader)
	writer := io.Writer

	for {
		_, _ = fmt.Fprintln(writer, "Select the deployment to encrypt:")
		for i, v := range tfvarsDomain.Variants {
			_, _ = fmt.Fprintf(writer, "  %d) %s\n", i, v)
		}
		_, _ = fmt.Fprint(writer, "Choice: ")

		line, err := reader.ReadString('\n')
		choice := strings.TrimSpace(line)
		if choice != "" {
			if index, convErr := strconv.Atoi(choice); convErr == nil &&
				index >= 0 && index < len(tfvarsDomain.Variants) {
				return tfvarsDomain.Variants[index], nil
			}
			_, _ = fmt.Fprintf(writer, "Invalid choice %q.\n", choice)
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrInvalidInput, "no deployment selected")
		}
	}
}

// reportJSON is the machine-readable form of a run report.
type reportJSON struct {
	RunID                    string      `json:"run_id"`
	Variant                  string      `json:"variant"`
	Source                   string      `json:"source"`
	Output                   string      `json:"output"`
	State                    string      `json:"state"`
	CryptoKeyID              string      `json:"kms_cryptokey_id"`
	KeyRings                 []string    `json:"key_rings"`
	ProvisioningErrors       []string    `json:"provisioning_errors,omitempty"`
	Fields                   []fieldJSON `json:"fields"`
	CredentialsFile          string      `json:"credentials_file,omitempty"`
	EncryptedCredentialsFile string      `json:"encrypted_credentials_file,omitempty"`
	CredentialsFileError     string      `json:"credentials_file_error,omitempty"`
}

type fieldJSON struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// outputReport writes the run report in the requested format.
func outputReport(report *tfvarsDomain.RunReport, format string, writer io.Writer) {
	if format == FormatJSON {
		outputReportJSON(report, writer)
		return
	}
	outputReportText(report, writer)
}

// outputReportText outputs the run report in human-readable text format.
func outputReportText(report *tfvarsDomain.RunReport, writer io.Writer) {
	_, _ = fmt.Fprintf(writer, "Run:        %s\n", report.RunID)
	_, _ = fmt.Fprintf(writer, "Variant:    %s\n", report.Variant)
	_, _ = fmt.Fprintf(writer, "Source:     %s\n", report.SourcePath)
	_, _ = fmt.Fprintf(writer, "Output:     %s\n", report.OutputPath)
	_, _ = fmt.Fprintf(writer, "Crypto key: %s\n", report.CryptoKeyID)

	if len(report.KeyRings) > 0 {
		_, _ = fmt.Fprintln(writer, "Existing key rings:")
		for _, ring := range report.KeyRings {
			_, _ = fmt.Fprintf(writer, "  %s\n", ring)
		}
	}
	for _, err := range report.ProvisioningErrors {
		_, _ = fmt.Fprintf(writer, "Warning: %v\n", err)
	}

	_, _ = fmt.Fprintln(writer, "Fields:")
	for _, field := range report.Fields {
		if field.OK() {
			_, _ = fmt.Fprintf(writer, "  %-*s encrypted\n", tfvarsDomain.FieldColumnWidth, field.Name)
			continue
		}
		_, _ = fmt.Fprintf(writer, "  %-*s FAILED: %v\n", tfvarsDomain.FieldColumnWidth, field.Name, field.Err)
	}

	switch {
	case report.EncryptedCredentialsFile != "":
		_, _ = fmt.Fprintf(writer, "Credentials file: %s\n", report.EncryptedCredentialsFile)
	case report.CredentialsFileErr != nil:
		_, _ = fmt.Fprintf(writer, "Warning: credentials file not encrypted: %v\n", report.CredentialsFileErr)
	}

	_, _ = fmt.Fprintf(writer, "State:      %s\n", report.State)
}

// outputReportJSON outputs the run report in JSON format for machine consumption.
func outputReportJSON(report *tfvarsDomain.RunReport, writer io.Writer) {
	result := reportJSON{
		RunID:                    report.RunID,
		Variant:                  string(report.Variant),
		Source:                   report.SourcePath,
		Output:                   report.OutputPath,
		State:                    string(report.State),
		CryptoKeyID:              report.CryptoKeyID,
		KeyRings:                 report.KeyRings,
		Fields:                   make([]fieldJSON, 0, len(report.Fields)),
		CredentialsFile:          report.CredentialsFile,
		EncryptedCredentialsFile: report.EncryptedCredentialsFile,
	}
	if result.KeyRings == nil {
		result.KeyRings = []string{}
	}
	for _, err := range report.ProvisioningErrors {
		result.ProvisioningErrors = append(result.ProvisioningErrors, err.Error())
	}
	for _, field := range report.Fields {
		f := fieldJSON{Name: field.Name, OK: field.OK()}
		if field.Err != nil {
			f.Error = field.Err.Error()
		}
		result.Fields = append(result.Fields, f)
	}
	if report.CredentialsFileErr != nil {
		result.CredentialsFileError = report.CredentialsFileErr.Error()
	}

	writeJSON(writer, result)
}
