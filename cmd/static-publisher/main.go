package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/savaki/static-publisher/cmd/static-publisher/commands"
	"github.com/savaki/static-publisher/internal/di"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := di.ProvideLogger()
	ctx := logger.WithContext(context.Background())

	app := &cli.App{
		Name:  "static-publisher",
		Usage: "Publish static asset trees to S3 and answer CloudFormation custom resource requests",
		Description: `Operator tooling for the publish-assets custom resource.

This tool provides commands for:
  - Publishing a local directory to an S3 bucket
  - Sending a custom resource response by hand
  - Inspecting the content type assigned to a file`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Load environment variables from a .env file (repeatable)",
			},
		},
		Before: func(c *cli.Context) error {
			if files := c.StringSlice("env-file"); len(files) > 0 {
				return godotenv.Load(files...)
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.PublishCommand(&logger),
			commands.RespondCommand(&logger),
			commands.ContentTypeCommand(),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error().Err(err).Msg("Application error")
		os.Exit(1)
	}
}
