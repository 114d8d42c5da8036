package cli

import (
	"context"

	"github.com/endotakuya/github-to-linear/internal/config"
	"github.com/endotakuya/github-to-linear/internal/importer"
	"github.com/endotakuya/github-to-linear/internal/linear"
	"github.com/endotakuya/github-to-linear/internal/output"
	"github.com/endotakuya/github-to-linear/internal/prompt"
)

// ConfigLoader interface for dependency injection in tests
type ConfigLoader interface {
	Load(flags config.Flags) (*config.Config, error)
}

// ImportRunner interface for dependency injection in tests
type ImportRunner interface {
	Run(ctx context.Context, opts importer.Options) (*importer.Result, error)
}

// ImporterFactory builds an ImportRunner for a resolved API key
type ImporterFactory func(apiKey string) (ImportRunner, error)

// RealConfigLoader implements ConfigLoader using the real config package
type RealConfigLoader struct{}

func (r *RealConfigLoader) Load(flags config.Flags) (*config.Config, error) {
	return config.Load(flags)
}

// Dependencies struct for injection
type Dependencies struct {
	ConfigLoader ConfigLoader
	NewImporter  ImporterFactory
	Printer      *output.Printer
}

// NewRealDependencies creates production dependencies
func NewRealDependencies() *Dependencies {
	return &Dependencies{
		ConfigLoader: &RealConfigLoader{},
		NewImporter: func(apiKey string) (ImportRunner, error) {
			client, err := linear.NewClient(apiKey)
			if err != nil {
				return nil, err
			}
			return importer.New(client, prompt.Confirm), nil
		},
		Printer: output.NewPrinter(),
	}
}
