// Package di provides a lightweight wrapper around uber's dig dependency injection framework.
// It simplifies container setup and provides type-safe dependency retrieval with generics.
package di

import (
	"net/http"

	"github.com/savaki/static-publisher/internal/services"
	"go.uber.org/dig"
)

// Container defines a dependency injection container based on uber's dig.
type Container interface {
	// Invoke executes a function, injecting its dependencies from the container.
	Invoke(function any, opts ...dig.InvokeOption) error

	// Provide registers a constructor function in the container.
	Provide(constructor any, opts ...dig.ProvideOption) error

	// Scope creates a scoped sub-container with its own set of values.
	Scope(name string, opts ...dig.ScopeOption) *dig.Scope
}

// MustGet returns an instance constructed via dependency injection or panics.
//
// Example:
//
//	p := MustGet[*publisher.Publisher](container)
func MustGet[T any](container Container) (want T) {
	callback := func(got T) {
		want = got
	}
	if err := container.Invoke(callback); err != nil {
		panic(err)
	}
	return want
}

// New creates a new dependency injection container for the given environment.
// The environment string is registered as a plain string dependency and selects
// the Parameter Store path; an empty environment reads configuration from the
// process environment only.
//
// Clients constructed by the container live as long as the container, so a
// Lambda that builds its container at cold start reuses them across warm
// invocations.
func New(env string, opts ...Option) (Container, error) {
	o := options{
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	container := dig.New()
	if err := container.Provide(func() string { return env }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() DisableSSM { return DisableSSM(o.disableSSM) }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *http.Client { return o.httpClient }); err != nil {
		return nil, err
	}

	if o.config != nil {
		if err := container.Provide(func() *services.Config { return o.config }); err != nil {
			return nil, err
		}
	} else if err := container.Provide(ProvideAppConfig); err != nil {
		return nil, err
	}

	for _, provider := range core {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	for _, provider := range o.providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

var core = []any{
	ProvideLogger,
	ProvideContext,
	ProvideAWSConfig,
	ProvideSSMClient,
	ProvideParameterStore,
	ProvideS3Client,
	ProvideObjectStore,
	ProvidePublisher,
	ProvideReporter,
}
