package di

import (
	"net/http"

	"github.com/savaki/static-publisher/internal/services"
)

type DisableSSM bool

// Option is a function that configures the dependency injection container.
type Option func(*options)

// WithDisableSSM forces configuration to come from the process environment.
func WithDisableSSM(disable bool) Option {
	return func(opts *options) {
		opts.disableSSM = disable
	}
}

// WithHTTPClient sets the client used to deliver custom resource responses.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *options) {
		if client != nil {
			opts.httpClient = client
		}
	}
}

// WithConfig supplies the configuration directly instead of loading it from
// the environment or Parameter Store.
func WithConfig(config *services.Config) Option {
	return func(opts *options) {
		opts.config = config
	}
}

// WithProviders adds constructor functions to the dependency injection container.
// Providers can declare dependencies as function parameters, which will be
// automatically resolved by the container.
func WithProviders(providers ...any) Option {
	return func(opts *options) {
		opts.providers = append(opts.providers, providers...)
	}
}

type options struct {
	config     *services.Config
	disableSSM bool
	httpClient *http.Client
	providers  []any
}
