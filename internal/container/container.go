package container

import (
	"fmt"
	"net/http"

	"go-darkness-grader/internal/analysis"
	"go-darkness-grader/internal/config"
	"go-darkness-grader/internal/counter"
	"go-darkness-grader/internal/observer"
	"go-darkness-grader/internal/report"
	"go-darkness-grader/internal/stage"
	"go-darkness-grader/internal/storage"
	"go-darkness-grader/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config  *config.Config
	sources *storage.Resolver
	runner  *stage.Runner
	handler http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	var azure storage.ImageSource
	if cfg.AzureEnabled() {
		source, err := storage.NewAzureImageSource(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to configure azure source: %w", err)
		}
		azure = source
	}

	sources := storage.NewResolver(
		storage.NewFileImageSource(),
		storage.NewHTTPImageSource(cfg.ImageFetchTimeout),
		azure,
	)

	observers := observer.NewRegistry()
	observers.Add(observer.NewLoggingObserver())

	runner := stage.NewRunner(
		counter.New(),
		analysis.New(),
		report.New(),
		sources,
		observers,
	)

	return &Container{
		config:  cfg,
		sources: sources,
		runner:  runner,
		handler: transport.NewHandler(runner, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Runner returns the stage runner
func (c *Container) Runner() *stage.Runner {
	return c.runner
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
