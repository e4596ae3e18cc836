package commands

import (
	"context"
	"fmt"
	"log/slog"

	tfvarsUseCase "github.com/allisson/tfvars-kms/internal/tfvars/usecase"
)

// RunListKeyRings lists the key rings of a project location.
func RunListKeyRings(
	ctx context.Context,
	useCase tfvarsUseCase.KeyRingUseCase,
	logger *slog.Logger,
	credentialsFile string,
	projectID string,
	location string,
	format string,
	io IOTuple,
) error {
	logger.Info("listing key rings",
		slog.String("project", projectID),
		slog.String("location", location),
	)

	keyRings, err := useCase.List(ctx, credentialsFile, projectID, location)
	if err != nil {
		return fmt.Errorf("failed to list key rings: %w", err)
	}

	if format == FormatJSON {
		if keyRings == nil {
			keyRings = []string{}
		}
		writeJSON(io.Writer, map[string][]string{"key_rings": keyRings})
		return nil
	}

	if len(keyRings) == 0 {
		_, _ = fmt.Fprintln(io.Writer, "No key rings found.")
		return nil
	}
	for _, ring := range keyRings {
		_, _ = fmt.Fprintln(io.Writer, ring)
	}
	return nil
}
