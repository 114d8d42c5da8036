// Package linear is a minimal client for the Linear GraphQL API, covering the
// operations needed to import an issue: listing teams, workflow states, and
// labels, and creating labels, issues, and comments.
package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	linearAPIURL = "https://api.linear.app/graphql"
	timeout      = 30 * time.Second
)

// Client interface for Linear API operations
type Client interface {
	ListTeams(ctx context.Context) ([]Team, error)
	ListWorkflowStates(ctx context.Context, teamID string) ([]WorkflowState, error)
	ListLabels(ctx context.Context) ([]Label, error)
	CreateLabel(ctx context.Context, name, color string) (*Label, error)
	CreateIssue(ctx context.Context, input IssueCreateInput) (*Issue, error)
	CreateComment(ctx context.Context, issueID, body string) error
}

// linearClient implements the Client interface
type linearClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Linear API client
func NewClient(apiKey string) (Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &linearClient{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: linearAPIURL,
	}, nil
}

// graphQLRequest represents a GraphQL request
type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// graphQLResponse represents a GraphQL response
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// do executes a GraphQL request and unmarshals the data payload into out.
func (c *linearClient) do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	// Personal API keys are sent verbatim; Linear does not use a Bearer prefix.
	httpReq.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var graphQLResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&graphQLResp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(graphQLResp.Errors) > 0 {
		return fmt.Errorf("%s", graphQLResp.Errors[0].Message)
	}

	if err := json.Unmarshal(graphQLResp.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}

	return nil
}

// ListTeams returns all teams in the workspace.
func (c *linearClient) ListTeams(ctx context.Context) ([]Team, error) {
	query := `
		query Teams {
			teams {
				nodes {
					id
					key
					name
				}
			}
		}
	`

	var data struct {
		Teams struct {
			Nodes []Team `json:"nodes"`
		} `json:"teams"`
	}

	if err := c.do(ctx, query, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return data.Teams.Nodes, nil
}

// ListWorkflowStates returns the workflow states of one team.
func (c *linearClient) ListWorkflowStates(ctx context.Context, teamID string) ([]WorkflowState, error) {
	if teamID == "" {
		return nil, fmt.Errorf("team ID is required")
	}

	query := `
		query WorkflowStates($teamId: ID!) {
			workflowStates(filter: { team: { id: { eq: $teamId } } }) {
				nodes {
					id
					name
					type
				}
			}
		}
	`

	var data struct {
		WorkflowStates struct {
			Nodes []WorkflowState `json:"nodes"`
		} `json:"workflowStates"`
	}

	if err := c.do(ctx, query, map[string]interface{}{"teamId": teamID}, &data); err != nil {
		return nil, fmt.Errorf("failed to list workflow states: %w", err)
	}
	return data.WorkflowStates.Nodes, nil
}

// ListLabels returns all issue labels in the workspace.
func (c *linearClient) ListLabels(ctx context.Context) ([]Label, error) {
	query := `
		query IssueLabels {
			issueLabels {
				nodes {
					id
					name
				}
			}
		}
	`

	var data struct {
		IssueLabels struct {
			Nodes []Label `json:"nodes"`
		} `json:"issueLabels"`
	}

	if err := c.do(ctx, query, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return data.IssueLabels.Nodes, nil
}

// CreateLabel creates a workspace label with the given name and color.
func (c *linearClient) CreateLabel(ctx context.Context, name, color string) (*Label, error) {
	if name == "" {
		return nil, fmt.Errorf("label name is required")
	}

	query := `
		mutation CreateLabel($input: IssueLabelCreateInput!) {
			issueLabelCreate(input: $input) {
				success
				issueLabel {
					id
					name
				}
			}
		}
	`

	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"name":  name,
			"color": color,
		},
	}

	var data struct {
		IssueLabelCreate struct {
			Success    bool   `json:"success"`
			IssueLabel *Label `json:"issueLabel"`
		} `json:"issueLabelCreate"`
	}

	if err := c.do(ctx, query, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to create label %q: %w", name, err)
	}
	if !data.IssueLabelCreate.Success || data.IssueLabelCreate.IssueLabel == nil {
		return nil, fmt.Errorf("label creation for %q returned no label", name)
	}
	return data.IssueLabelCreate.IssueLabel, nil
}

// CreateIssue creates a Linear issue from the given input.
func (c *linearClient) CreateIssue(ctx context.Context, input IssueCreateInput) (*Issue, error) {
	if input.TeamID == "" {
		return nil, fmt.Errorf("team ID is required")
	}
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	query := `
		mutation CreateIssue($input: IssueCreateInput!) {
			issueCreate(input: $input) {
				success
				issue {
					id
					identifier
					title
					url
				}
			}
		}
	`

	inputMap := map[string]interface{}{
		"teamId":      input.TeamID,
		"title":       input.Title,
		"description": input.Description,
		"priority":    input.Priority,
	}
	if input.StateID != "" {
		inputMap["stateId"] = input.StateID
	}
	if len(input.LabelIDs) > 0 {
		inputMap["labelIds"] = input.LabelIDs
	}

	var data struct {
		IssueCreate struct {
			Success bool   `json:"success"`
			Issue   *Issue `json:"issue"`
		} `json:"issueCreate"`
	}

	if err := c.do(ctx, query, map[string]interface{}{"input": inputMap}, &data); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	if !data.IssueCreate.Success || data.IssueCreate.Issue == nil {
		return nil, fmt.Errorf("issue creation returned no issue")
	}
	return data.IssueCreate.Issue, nil
}

// CreateComment adds a comment to an existing Linear issue.
func (c *linearClient) CreateComment(ctx context.Context, issueID, body string) error {
	if issueID == "" {
		return fmt.Errorf("issue ID is required")
	}

	query := `
		mutation CreateComment($input: CommentCreateInput!) {
			commentCreate(input: $input) {
				success
			}
		}
	`

	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"issueId": issueID,
			"body":    body,
		},
	}

	var data struct {
		CommentCreate struct {
			Success bool `json:"success"`
		} `json:"commentCreate"`
	}

	if err := c.do(ctx, query, variables, &data); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	if !data.CommentCreate.Success {
		return fmt.Errorf("comment creation reported failure")
	}
	return nil
}
