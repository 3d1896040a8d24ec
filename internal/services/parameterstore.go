package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/savaki/static-publisher/internal/errors"
	"github.com/savaki/static-publisher/internal/publisher"
)

const (
	DefaultAssetRoot = "docroot"

	EnvBucket            = "BUCKET"
	EnvAssetRoot         = "ASSET_ROOT"
	EnvUploadConcurrency = "UPLOAD_CONCURRENCY"
	EnvS3EndpointURL     = "S3_ENDPOINT_URL"
	EnvS3ForcePathStyle  = "S3_FORCE_PATH_STYLE"
)

// Config holds the publisher configuration
type Config struct {
	Bucket            string
	AssetRoot         string
	UploadConcurrency int
	S3EndpointURL     string
	S3ForcePathStyle  bool
}

// Validate returns ErrBucketRequired when no target bucket is configured
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return errors.ErrBucketRequired
	}
	return nil
}

// ParameterStore defines the interface for accessing configuration parameters
type ParameterStore interface {
	// GetParameter retrieves a single parameter by name
	GetParameter(ctx context.Context, name string) (string, error)

	// GetConfig loads the publisher configuration
	GetConfig(ctx context.Context) (*Config, error)
}

// SSMParameterStore implements ParameterStore using AWS Systems Manager Parameter Store.
// Values set in the process environment take precedence over stored parameters.
type SSMParameterStore struct {
	client *ssm.Client
	env    string
	mu     sync.RWMutex
	cache  map[string]string
}

// NewSSMParameterStore creates a new SSM-backed parameter store
func NewSSMParameterStore(client *ssm.Client, env string) *SSMParameterStore {
	return &SSMParameterStore{
		client: client,
		env:    env,
		cache:  make(map[string]string),
	}
}

// GetParameter retrieves a single parameter from SSM Parameter Store
func (s *SSMParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	if value, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return value, nil
	}
	s.mu.RUnlock()

	result, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: boolPtr(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %s: %w", name, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s not found", name)
	}

	value := *result.Parameter.Value

	s.mu.Lock()
	s.cache[name] = value
	s.mu.Unlock()

	return value, nil
}

// GetConfig loads /{env}/static-publisher/* and overlays the process environment
func (s *SSMParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	path := fmt.Sprintf("/%s/static-publisher", s.env)

	params := make(map[string]string)
	paginator := ssm.NewGetParametersByPathPaginator(s.client, &ssm.GetParametersByPathInput{
		Path:           &path,
		Recursive:      boolPtr(true),
		WithDecryption: boolPtr(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get parameters by path %s: %w", path, err)
		}
		for _, param := range page.Parameters {
			if param.Name != nil && param.Value != nil {
				params[*param.Name] = *param.Value
			}
		}
	}

	s.mu.Lock()
	for k, v := range params {
		s.cache[k] = v
	}
	s.mu.Unlock()

	lookup := func(envVar, name string) string {
		if v, ok := os.LookupEnv(envVar); ok {
			return v
		}
		return params[path+"/"+name]
	}

	return newConfig(
		lookup(EnvBucket, "bucket"),
		lookup(EnvAssetRoot, "asset-root"),
		lookup(EnvUploadConcurrency, "upload-concurrency"),
		os.Getenv(EnvS3EndpointURL),
		os.Getenv(EnvS3ForcePathStyle),
	)
}

// EnvParameterStore implements ParameterStore using environment variables
type EnvParameterStore struct{}

// NewEnvParameterStore creates a new environment variable-backed parameter store
func NewEnvParameterStore() *EnvParameterStore {
	return &EnvParameterStore{}
}

// GetParameter retrieves a parameter from environment variables
func (e *EnvParameterStore) GetParameter(ctx context.Context, name string) (string, error) {
	return os.Getenv(name), nil
}

// GetConfig loads the publisher configuration from environment variables
func (e *EnvParameterStore) GetConfig(ctx context.Context) (*Config, error) {
	return newConfig(
		os.Getenv(EnvBucket),
		os.Getenv(EnvAssetRoot),
		os.Getenv(EnvUploadConcurrency),
		os.Getenv(EnvS3EndpointURL),
		os.Getenv(EnvS3ForcePathStyle),
	)
}

func newConfig(bucket, assetRoot, concurrency, endpointURL, forcePathStyle string) (*Config, error) {
	config := &Config{
		Bucket:            strings.TrimSpace(bucket),
		AssetRoot:         assetRoot,
		UploadConcurrency: publisher.DefaultConcurrency,
		S3EndpointURL:     endpointURL,
		S3ForcePathStyle:  forcePathStyle == "true",
	}

	// Set defaults
	if config.AssetRoot == "" {
		config.AssetRoot = DefaultAssetRoot
	}
	if concurrency != "" {
		n, err := strconv.Atoi(concurrency)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvUploadConcurrency, concurrency, err)
		}
		config.UploadConcurrency = n
	}

	return config, nil
}

func boolPtr(b bool) *bool {
	return &b
}
