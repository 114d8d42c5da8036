// Package cli wires the github-to-linear commands together.
package cli

import (
	"github.com/spf13/cobra"
)

const version = "1.1.0"

// Execute runs the CLI
func Execute() error {
	return NewRootCommand(NewRealDependencies()).Execute()
}

// NewRootCommand creates the root command
func NewRootCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "github-to-linear",
		Short: "Import GitHub issues into Linear",
		Long: `github-to-linear copies a single GitHub issue into a Linear workspace.

It fetches the issue through the gh CLI (which must be installed and
authenticated), maps its state and labels onto Linear equivalents, and
creates a new Linear issue, optionally replaying the original comments.

Examples:
  github-to-linear import acme widgets 42 --team ENG
  github-to-linear import acme widgets 42 --team ENG --comments --labels
  github-to-linear import acme widgets 42 --team ENG --link-github=false --yes`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewImportCommand(deps))

	return cmd
}
