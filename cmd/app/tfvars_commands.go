package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tfvars-kms/cmd/app/commands"
	"github.com/allisson/tfvars-kms/internal/app"
	"github.com/allisson/tfvars-kms/internal/config"
	tfvarsDomain "github.com/allisson/tfvars-kms/internal/tfvars/domain"
)

func variantNames() string {
	names := make([]string, 0, len(tfvarsDomain.Variants))
	for _, v := range tfvarsDomain.Variants {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

// loadContainer loads and validates the configuration and builds the container.
func loadContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return app.NewContainer(cfg), nil
}

func getTfvarsCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt-tfvars",
			Usage: "Encrypt the secrets of a deployment terraform.tfvars with Cloud KMS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "variant",
					Aliases: []string{"v"},
					Usage:   fmt.Sprintf("Deployment variant (%s); omit to choose interactively", variantNames()),
				},
				&cli.StringFlag{
					Name:    "tfvars",
					Aliases: []string{"t"},
					Usage:   "Configuration file to encrypt (defaults to DEPLOYMENTS_DIR/<variant>/terraform.tfvars)",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "File to write the encrypted configuration to (defaults to TFVARS_OUTPUT_PATH)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   commands.FormatText,
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				logger := container.Logger()
				defer commands.CloseContainer(container, logger)

				useCase, err := container.EncryptUseCase()
				if err != nil {
					return err
				}

				outputPath := cmd.String("output")
				if outputPath == "" {
					outputPath = container.Config().TfvarsOutputPath
				}

				return commands.RunEncryptTfvars(
					ctx,
					useCase,
					logger,
					commands.EncryptTfvarsOptions{
						Variant:        cmd.String("variant"),
						SourcePath:     cmd.String("tfvars"),
						OutputPath:     outputPath,
						Format:         cmd.String("format"),
						DeploymentPath: container.Config().DeploymentPath,
					},
					commands.DefaultIO(),
				)
			},
		},
	}
}
