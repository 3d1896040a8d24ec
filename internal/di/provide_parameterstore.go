package di

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"
	"github.com/savaki/static-publisher/internal/services"
)

// ProvideSSMClient provides an SSM client for Parameter Store access.
// Returns nil when SSM is disabled or no environment is set.
func ProvideSSMClient(awsConfig aws.Config, env string, disable DisableSSM) *ssm.Client {
	if env == "" || bool(disable) || os.Getenv("DISABLE_SSM") == "true" {
		return nil
	}

	return ssm.NewFromConfig(awsConfig)
}

// ProvideParameterStore provides a ParameterStore implementation
// Uses SSM Parameter Store in AWS, falls back to environment variables when disabled
func ProvideParameterStore(ctx context.Context, ssmClient *ssm.Client, env string) services.ParameterStore {
	logger := zerolog.Ctx(ctx)

	if ssmClient == nil {
		logger.Debug().Msg("Using environment variables for configuration")
		return services.NewEnvParameterStore()
	}

	logger.Info().Str("env", env).Msg("Using AWS Systems Manager Parameter Store for configuration")
	return services.NewSSMParameterStore(ssmClient, env)
}

// ProvideAppConfig loads the publisher configuration. A missing bucket is not an
// error here; it is reported when an invocation needs it.
func ProvideAppConfig(ctx context.Context, store services.ParameterStore) (*services.Config, error) {
	logger := zerolog.Ctx(ctx)

	config, err := store.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Debug().
		Str("bucket", config.Bucket).
		Str("asset_root", config.AssetRoot).
		Int("upload_concurrency", config.UploadConcurrency).
		Bool("has_s3_endpoint", config.S3EndpointURL != "").
		Msg("Configuration loaded successfully")

	return config, nil
}
