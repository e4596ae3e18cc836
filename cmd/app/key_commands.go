package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/tfvars-kms/cmd/app/commands"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "list-key-rings",
			Usage: "List the Cloud KMS key rings of a project location",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "credentials-file",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Service account JSON credentials file",
				},
				&cli.StringFlag{
					Name:     "project",
					Aliases:  []string{"p"},
					Required: true,
					Usage:    "GCP project ID",
				},
				&cli.StringFlag{
					Name:    "location",
					Aliases: []string{"l"},
					Usage:   "KMS location (defaults to KMS_LOCATION)",
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

				useCase, err := container.KeyRingUseCase()
				if err != nil {
					return err
				}

				location := cmd.String("location")
				if location == "" {
					location = container.Config().KMSLocation
				}

				return commands.RunListKeyRings(
					ctx,
					useCase,
					logger,
					cmd.String("credentials-file"),
					cmd.String("project"),
					location,
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}
