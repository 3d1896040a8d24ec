package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/savaki/static-publisher/internal/di"
	"github.com/savaki/static-publisher/internal/publisher"
	"github.com/savaki/static-publisher/internal/services"
	"github.com/savaki/static-publisher/internal/walker"
	"github.com/urfave/cli/v2"
)

// PublishCommand returns the publish command for uploading a directory to S3
func PublishCommand(logger *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Upload every file under a directory to an S3 bucket",
		Description: `Walks --root and uploads each file to --bucket under its path relative to
--root. Objects are written private, with a content type derived from the file
extension. Existing objects with the same key are overwritten; nothing is deleted.

Examples:
  # Publish ./dist to the site bucket
  static-publisher publish --bucket my-site-assets --root ./dist

  # Publish against LocalStack
  static-publisher publish --bucket test --root ./dist \
    --s3-endpoint-url http://localhost:4566 --s3-force-path-style`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "bucket",
				Aliases:  []string{"b"},
				Usage:    "Target S3 bucket",
				Required: true,
				EnvVars:  []string{services.EnvBucket},
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Directory to publish",
				Value:   services.DefaultAssetRoot,
				EnvVars: []string{services.EnvAssetRoot},
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Usage:   "Maximum concurrent uploads (0 for unlimited)",
				Value:   publisher.DefaultConcurrency,
				EnvVars: []string{services.EnvUploadConcurrency},
			},
			&cli.StringFlag{
				Name:    "s3-endpoint-url",
				Usage:   "S3 compatible endpoint",
				EnvVars: []string{services.EnvS3EndpointURL},
			},
			&cli.BoolFlag{
				Name:    "s3-force-path-style",
				Usage:   "Use path style S3 addressing",
				EnvVars: []string{services.EnvS3ForcePathStyle},
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "List the files and content types without uploading",
			},
		},
		Action: func(c *cli.Context) error {
			config := &services.Config{
				Bucket:            c.String("bucket"),
				AssetRoot:         c.String("root"),
				UploadConcurrency: c.Int("concurrency"),
				S3EndpointURL:     c.String("s3-endpoint-url"),
				S3ForcePathStyle:  c.Bool("s3-force-path-style"),
			}
			if err := config.Validate(); err != nil {
				return err
			}

			assets := os.DirFS(config.AssetRoot)
			keys, err := walker.Walk(assets)
			if err != nil {
				return err
			}

			if c.Bool("dry-run") {
				for _, key := range keys {
					fmt.Printf("%s -> %s\n", key, publisher.ContentType(key))
				}
				return nil
			}

			container, err := di.New("", di.WithConfig(config))
			if err != nil {
				return fmt.Errorf("failed to setup DI container: %w", err)
			}

			p := di.MustGet[*publisher.Publisher](container)
			if err := p.Publish(logger.WithContext(c.Context), assets, config.Bucket, keys); err != nil {
				return fmt.Errorf("failed to publish %s: %w", config.AssetRoot, err)
			}

			logger.Info().
				Str("bucket", config.Bucket).
				Str("root", config.AssetRoot).
				Int("files", len(keys)).
				Msg("Published assets")
			return nil
		},
	}
}
