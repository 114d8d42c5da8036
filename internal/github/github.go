// Package github reads issues and comments from GitHub using the gh CLI.
// The gh binary must be installed and authenticated; Preflight verifies both.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ghRun executes a gh subcommand and returns its stdout. It is a
// package-level variable so tests can replace it with a mock.
var ghRun = func(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "gh", args...).Output()
}

// Label represents a label attached to a GitHub issue
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue represents the GitHub issue being imported
type Issue struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	State  string  `json:"state"`
	URL    string  `json:"url"`
	Labels []Label `json:"labels"`
}

// Closed reports whether the issue is in the closed state.
func (i *Issue) Closed() bool {
	return strings.EqualFold(i.State, "closed")
}

// Comment represents a single comment on a GitHub issue
type Comment struct {
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Body      string    `json:"body"`
}

// NotFoundError indicates that the requested issue does not exist.
type NotFoundError struct {
	Repo   string
	Number int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("issue %s#%d not found", e.Repo, e.Number)
}

// Preflight verifies that the gh CLI is installed and authenticated.
// It must be called once before any fetch.
func Preflight(ctx context.Context) error {
	if _, err := ghRun(ctx, "auth", "status"); err != nil {
		if isGhNotFound(err) {
			return fmt.Errorf("'gh' CLI is not installed. Install it from https://cli.github.com/ and run 'gh auth login'")
		}
		return fmt.Errorf("'gh' CLI is not authenticated. Run 'gh auth login' to authenticate (or set GH_TOKEN in CI)")
	}
	return nil
}

// FetchIssue retrieves one GitHub issue by owner, repo, and number.
func FetchIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	out, err := ghRun(ctx, "issue", "view", fmt.Sprintf("%d", number),
		"--repo", owner+"/"+repo,
		"--json", "number,title,body,state,url,labels")
	if err != nil {
		return nil, fetchError(err, owner+"/"+repo, number)
	}

	var issue Issue
	if err := json.Unmarshal(out, &issue); err != nil {
		return nil, fmt.Errorf("failed to parse gh issue response: %w", err)
	}
	return &issue, nil
}

// FetchComments retrieves all comments on an issue in their original order.
func FetchComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	out, err := ghRun(ctx, "issue", "view", fmt.Sprintf("%d", number),
		"--repo", owner+"/"+repo,
		"--json", "comments")
	if err != nil {
		return nil, fetchError(err, owner+"/"+repo, number)
	}

	var result struct {
		Comments []Comment `json:"comments"`
	}
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("failed to parse gh comments response: %w", err)
	}
	return result.Comments, nil
}

// fetchError classifies a gh invocation failure. Missing binary and missing
// issue get dedicated messages; anything else surfaces gh's own stderr.
func fetchError(err error, repo string, number int) error {
	if isGhNotFound(err) {
		return fmt.Errorf("'gh' CLI is not installed. Install it from https://cli.github.com/ and run 'gh auth login'")
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := string(exitErr.Stderr)
		if strings.Contains(stderr, "Could not resolve") || strings.Contains(stderr, "not found") {
			return &NotFoundError{Repo: repo, Number: number}
		}
		return fmt.Errorf("gh command failed: %s", strings.TrimSpace(stderr))
	}

	return fmt.Errorf("gh command execution failed: %w", err)
}

// isGhNotFound returns true when err indicates that the gh binary was not found.
func isGhNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found")
}
