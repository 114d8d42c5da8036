package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/endotakuya/github-to-linear/internal/config"
	"github.com/endotakuya/github-to-linear/internal/importer"
)

// NewImportCommand creates the import subcommand
func NewImportCommand(deps *Dependencies) *cobra.Command {
	var (
		team       string
		apiKey     string
		priority   int
		comments   bool
		labels     bool
		linkGitHub bool
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "import <owner> <repo> <issue-number>",
		Short: "Import one GitHub issue into Linear",
		Long: `Import one GitHub issue into Linear as a new issue.

The issue is fetched with the gh CLI; the Linear API key is resolved from
--api-key, the LINEAR_API_KEY environment variable, or the config file, in
that order. Unless --yes is given, a preview is shown and the import only
proceeds after confirmation.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[2])
			if err != nil || number <= 0 {
				return fmt.Errorf("issue number must be a positive integer, got: %s", args[2])
			}

			cfg, err := deps.ConfigLoader.Load(config.Flags{
				APIKey:      apiKey,
				Team:        team,
				Priority:    priority,
				PrioritySet: cmd.Flags().Changed("priority"),
			})
			if err != nil {
				return err
			}

			opts := importer.Options{
				Owner:        args[0],
				Repo:         args[1],
				Number:       number,
				Team:         cfg.Team,
				Priority:     cfg.Priority,
				WithComments: comments,
				WithLabels:   labels,
				LinkGitHub:   linkGitHub,
				SkipConfirm:  yes,
			}

			return runImport(cmd.Context(), deps, cfg.APIKey, opts)
		},
	}

	cmd.Flags().StringVarP(&team, "team", "t", "", "Linear team key or team ID (e.g. ENG)")
	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "Linear API key (overrides LINEAR_API_KEY)")
	cmd.Flags().IntVarP(&priority, "priority", "p", config.DefaultPriority, "Issue priority, 0-4")
	cmd.Flags().BoolVarP(&comments, "comments", "c", false, "Also import the issue's comments")
	cmd.Flags().BoolVarP(&labels, "labels", "l", false, "Also import the issue's labels, creating missing ones")
	cmd.Flags().BoolVar(&linkGitHub, "link-github", true, "Prepend a link to the GitHub issue to the description")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// runImport executes the import and reports the outcome
func runImport(ctx context.Context, deps *Dependencies, apiKey string, opts importer.Options) error {
	imp, err := deps.NewImporter(apiKey)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		deps.Printer.Warning("\nInterrupt received, shutting down...")
		cancel()
	}()

	result, err := imp.Run(ctx, opts)
	if err != nil {
		return err
	}

	if result.Cancelled {
		deps.Printer.Info("Import cancelled, nothing was created")
		return nil
	}

	deps.Printer.Success("Created %s: %s", result.Identifier, result.URL)
	return nil
}
