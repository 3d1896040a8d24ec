package services

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/savaki/static-publisher/internal/publisher"
)

// S3Store writes objects to S3 through the managed uploader, which switches
// to multipart uploads for large files.
type S3Store struct {
	uploader *manager.Uploader
}

var _ publisher.ObjectStore = (*S3Store)(nil)

func NewS3Store(client *s3.Client) *S3Store {
	return &S3Store{
		uploader: manager.NewUploader(client),
	}
}

func (s *S3Store) Put(ctx context.Context, input publisher.PutInput) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(input.Bucket),
		Key:         aws.String(input.Key),
		Body:        input.Body,
		ContentType: aws.String(input.ContentType),
		ACL:         types.ObjectCannedACL(input.ACL),
	})
	if err != nil {
		event := zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("bucket", input.Bucket).
			Str("key", input.Key)

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			event = event.Str("error_code", apiErr.ErrorCode())
		}
		event.Msg("S3 upload failed")
		return err
	}

	return nil
}
