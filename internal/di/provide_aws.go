package di

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/savaki/static-publisher/internal/callback"
	"github.com/savaki/static-publisher/internal/publisher"
	"github.com/savaki/static-publisher/internal/services"
)

func ProvideAWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx)
}

// ProvideS3Client provides an S3 client, pointed at an S3 compatible endpoint
// when one is configured.
func ProvideS3Client(awsConfig aws.Config, config *services.Config) *s3.Client {
	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if config.S3EndpointURL != "" {
			o.BaseEndpoint = aws.String(config.S3EndpointURL)
		}
		if config.S3ForcePathStyle {
			o.UsePathStyle = true
		}
	})
}

func ProvideObjectStore(client *s3.Client) publisher.ObjectStore {
	return services.NewS3Store(client)
}

func ProvidePublisher(store publisher.ObjectStore, config *services.Config) *publisher.Publisher {
	return publisher.New(store, publisher.WithConcurrency(config.UploadConcurrency))
}

func ProvideReporter(client *http.Client) *callback.Reporter {
	return callback.NewReporter(client)
}
