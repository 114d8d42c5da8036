// Package importer implements the GitHub-to-Linear import pipeline: it
// resolves the destination team, maps issue state, reconciles labels, and
// creates the Linear issue with optional comment replay.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/endotakuya/github-to-linear/internal/github"
	"github.com/endotakuya/github-to-linear/internal/linear"
	"github.com/endotakuya/github-to-linear/internal/logger"
)

// Options controls a single import run
type Options struct {
	// Owner is the GitHub repository owner
	Owner string

	// Repo is the GitHub repository name
	Repo string

	// Number is the GitHub issue number
	Number int

	// Team is the Linear team key (e.g. "ENG") or a team UUID
	Team string

	// Priority is the Linear issue priority (0-4)
	Priority int

	// WithComments replays the GitHub issue's comments onto the Linear issue
	WithComments bool

	// WithLabels imports the GitHub issue's labels, creating missing ones
	WithLabels bool

	// LinkGitHub prepends a provenance link to the description
	LinkGitHub bool

	// SkipConfirm bypasses the interactive confirmation prompt
	SkipConfirm bool
}

// Result is the outcome of a successful (or cleanly cancelled) import
type Result struct {
	// Cancelled is true when the user declined the confirmation prompt.
	// No destination writes happened in that case.
	Cancelled bool

	// ID is the Linear issue UUID
	ID string

	// Identifier is the human-readable issue identifier (e.g. "ENG-42")
	Identifier string

	// Title is the created issue's title
	Title string

	// URL is the created issue's URL
	URL string
}

// TeamNotFoundError indicates that no team matched the requested key. It
// carries the workspace's teams so callers can show valid alternatives.
type TeamNotFoundError struct {
	Key   string
	Teams []linear.Team
}

func (e *TeamNotFoundError) Error() string {
	keys := make([]string, 0, len(e.Teams))
	for _, t := range e.Teams {
		keys = append(keys, fmt.Sprintf("%s (%s)", t.Key, t.Name))
	}
	return fmt.Sprintf("team %q not found; available teams: %s", e.Key, strings.Join(keys, ", "))
}

// ConfirmFunc presents the fetched issue to the operator and returns their
// proceed/abort decision.
type ConfirmFunc func(issue *github.Issue, opts Options) (bool, error)

// Importer orchestrates one import run. Collaborators are injected so tests
// can substitute fakes for both remote systems and the prompt.
type Importer struct {
	Linear        linear.Client
	Preflight     func(ctx context.Context) error
	FetchIssue    func(ctx context.Context, owner, repo string, number int) (*github.Issue, error)
	FetchComments func(ctx context.Context, owner, repo string, number int) ([]github.Comment, error)
	Confirm       ConfirmFunc
	Log           *logger.Logger
}

// New creates an Importer wired to the real GitHub reader.
func New(client linear.Client, confirm ConfirmFunc) *Importer {
	return &Importer{
		Linear:        client,
		Preflight:     github.Preflight,
		FetchIssue:    github.FetchIssue,
		FetchComments: github.FetchComments,
		Confirm:       confirm,
		Log:           logger.GetLogger(),
	}
}

// Run executes the import sequence. Fatal errors abort the run; state
// mapping, label reconciliation, and individual comment creation are
// best-effort and only degrade the result.
func (imp *Importer) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := imp.Preflight(ctx); err != nil {
		return nil, err
	}

	teamID, err := imp.ResolveTeam(ctx, opts.Team)
	if err != nil {
		return nil, err
	}

	issue, err := imp.FetchIssue(ctx, opts.Owner, opts.Repo, opts.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue %s/%s#%d: %w", opts.Owner, opts.Repo, opts.Number, err)
	}

	if !opts.SkipConfirm {
		proceed, err := imp.Confirm(issue, opts)
		if err != nil {
			return nil, fmt.Errorf("confirmation failed: %w", err)
		}
		if !proceed {
			imp.Log.Info("import cancelled by user")
			return &Result{Cancelled: true}, nil
		}
	}

	stateID := imp.MapState(ctx, teamID, issue.Closed())

	var labelIDs []string
	if opts.WithLabels && len(issue.Labels) > 0 {
		labelIDs = imp.ReconcileLabels(ctx, issue.Labels)
	}

	input := Compose(issue, teamID, stateID, labelIDs, opts)
	created, err := imp.Linear.CreateIssue(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create Linear issue: %w", err)
	}
	imp.Log.WithField("identifier", created.Identifier).Info("issue created")

	if opts.WithComments {
		comments, err := imp.FetchComments(ctx, opts.Owner, opts.Repo, opts.Number)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch comments for %s/%s#%d: %w", opts.Owner, opts.Repo, opts.Number, err)
		}
		imp.replayComments(ctx, created.ID, comments)
	}

	return &Result{
		ID:         created.ID,
		Identifier: created.Identifier,
		Title:      created.Title,
		URL:        created.URL,
	}, nil
}

// ResolveTeam maps a team key to a team ID. Keys that already look like a
// Linear team UUID are returned unchanged without a remote call.
func (imp *Importer) ResolveTeam(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("team is required: pass --team or set a default in the config file")
	}

	if isUUID(key) {
		return key, nil
	}

	teams, err := imp.Linear.ListTeams(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list teams: %w", err)
	}

	for _, team := range teams {
		if strings.EqualFold(team.Key, key) {
			imp.Log.Debugf("resolved team %s to %s", key, team.ID)
			return team.ID, nil
		}
	}

	return "", &TeamNotFoundError{Key: key, Teams: teams}
}

// MapState finds the workflow state matching the GitHub issue state: closed
// issues map to "Done"/"Completed", open ones to "Backlog"/"Todo". Returns
// an empty ID when no candidate matches or the listing fails; the issue is
// then created with the team's default state.
func (imp *Importer) MapState(ctx context.Context, teamID string, closed bool) string {
	states, err := imp.Linear.ListWorkflowStates(ctx, teamID)
	if err != nil {
		imp.Log.Warnf("could not list workflow states, using team default: %v", err)
		return ""
	}

	candidates := []string{"backlog", "todo"}
	if closed {
		candidates = []string{"done", "completed"}
	}

	for _, state := range states {
		for _, candidate := range candidates {
			if strings.EqualFold(state.Name, candidate) {
				return state.ID
			}
		}
	}
	return ""
}

// ReconcileLabels resolves each GitHub label to a Linear label ID, creating
// missing labels. Labels are best-effort: on any failure the IDs resolved so
// far are returned and a warning is logged.
func (imp *Importer) ReconcileLabels(ctx context.Context, sourceLabels []github.Label) []string {
	existing, err := imp.Linear.ListLabels(ctx)
	if err != nil {
		imp.Log.Warnf("could not list labels, importing without labels: %v", err)
		return nil
	}

	var ids []string
	for _, source := range sourceLabels {
		if source.Name == "" {
			continue
		}

		if id := findLabel(existing, source.Name); id != "" {
			ids = append(ids, id)
			continue
		}

		color := source.Color
		if color == "" {
			color = "000000"
		}
		created, err := imp.Linear.CreateLabel(ctx, source.Name, "#"+color)
		if err != nil {
			imp.Log.Warnf("could not create label %q, continuing without it: %v", source.Name, err)
			return ids
		}
		ids = append(ids, created.ID)
	}
	return ids
}

// replayComments creates one Linear comment per GitHub comment, in order.
// Each comment is best-effort; a failure is logged and the loop continues.
func (imp *Importer) replayComments(ctx context.Context, issueID string, comments []github.Comment) {
	for i, comment := range comments {
		if err := imp.Linear.CreateComment(ctx, issueID, FormatComment(comment)); err != nil {
			imp.Log.Warnf("could not import comment %d of %d: %v", i+1, len(comments), err)
		}
	}
}

func findLabel(labels []linear.Label, name string) string {
	for _, label := range labels {
		if strings.EqualFold(label.Name, name) {
			return label.ID
		}
	}
	return ""
}

// isUUID reports whether s has the 36-character hyphenated UUID shape used
// by Linear team IDs.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
