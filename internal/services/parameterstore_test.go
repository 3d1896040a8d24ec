package services

import (
	"context"
	"testing"

	"github.com/savaki/static-publisher/internal/errors"
	"github.com/savaki/static-publisher/internal/publisher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{EnvBucket, EnvAssetRoot, EnvUploadConcurrency, EnvS3EndpointURL, EnvS3ForcePathStyle} {
		t.Setenv(name, "")
	}
}

func TestEnvParameterStore_GetConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvBucket, "site-bucket")

		config, err := NewEnvParameterStore().GetConfig(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &Config{
			Bucket:            "site-bucket",
			AssetRoot:         DefaultAssetRoot,
			UploadConcurrency: publisher.DefaultConcurrency,
		}, config)
		assert.NoError(t, config.Validate())
	})

	t.Run("all values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvBucket, "site-bucket")
		t.Setenv(EnvAssetRoot, "/var/task/public")
		t.Setenv(EnvUploadConcurrency, "4")
		t.Setenv(EnvS3EndpointURL, "http://localhost:4566")
		t.Setenv(EnvS3ForcePathStyle, "true")

		config, err := NewEnvParameterStore().GetConfig(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &Config{
			Bucket:            "site-bucket",
			AssetRoot:         "/var/task/public",
			UploadConcurrency: 4,
			S3EndpointURL:     "http://localhost:4566",
			S3ForcePathStyle:  true,
		}, config)
	})

	t.Run("missing bucket", func(t *testing.T) {
		clearEnv(t)

		config, err := NewEnvParameterStore().GetConfig(context.Background())
		require.NoError(t, err)
		assert.ErrorIs(t, config.Validate(), errors.ErrBucketRequired)
	})

	t.Run("invalid concurrency", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvUploadConcurrency, "lots")

		_, err := NewEnvParameterStore().GetConfig(context.Background())
		assert.Error(t, err)
	})
}

func TestEnvParameterStore_GetParameter(t *testing.T) {
	t.Setenv("SOME_PARAMETER", "value")

	value, err := NewEnvParameterStore().GetParameter(context.Background(), "SOME_PARAMETER")
	require.NoError(t, err)
	assert.Equal(t, "value", value)
}
