package errors

import "errors"

var (
	ErrBucketRequired = errors.New("BUCKET environment variable is required")
	ErrWalk           = errors.New("unable to walk asset tree")
	ErrUpload         = errors.New("unable to upload asset")
	ErrDelivery       = errors.New("unable to deliver custom resource response")
	ErrInvalidStatus  = errors.New("invalid response status")
)
