package linear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client pointed at a fake GraphQL server. The handler
// receives the decoded request body and the response writer.
func newTestClient(t *testing.T, handler func(t *testing.T, req graphQLRequest, w http.ResponseWriter)) Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "lin_api_test", r.Header.Get("Authorization"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(t, req, w)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("lin_api_test")
	require.NoError(t, err)
	client.(*linearClient).baseURL = server.URL
	return client
}

func respond(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
	assert.Nil(t, client)

	client, err = NewClient("lin_api_test")
	assert.NoError(t, err)
	assert.NotNil(t, client)
}

func TestListTeams(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		assert.Contains(t, req.Query, "query Teams")
		respond(t, w, `{"data": {"teams": {"nodes": [
			{"id": "team-1", "key": "ENG", "name": "Engineering"},
			{"id": "team-2", "key": "OPS", "name": "Operations"}
		]}}}`)
	})

	teams, err := client.ListTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, Team{ID: "team-1", Key: "ENG", Name: "Engineering"}, teams[0])
}

func TestListTeams_GraphQLError(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		respond(t, w, `{"errors": [{"message": "authentication required"}]}`)
	})

	teams, err := client.ListTeams(context.Background())
	assert.Nil(t, teams)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication required")
}

func TestListWorkflowStates(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		assert.Contains(t, req.Query, "workflowStates")
		assert.Equal(t, "team-1", req.Variables["teamId"])
		respond(t, w, `{"data": {"workflowStates": {"nodes": [
			{"id": "state-1", "name": "Backlog", "type": "backlog"},
			{"id": "state-2", "name": "Done", "type": "completed"}
		]}}}`)
	})

	states, err := client.ListWorkflowStates(context.Background(), "team-1")
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "Done", states[1].Name)
}

func TestListWorkflowStates_EmptyTeamID(t *testing.T) {
	client, err := NewClient("lin_api_test")
	require.NoError(t, err)

	states, err := client.ListWorkflowStates(context.Background(), "")
	assert.Nil(t, states)
	assert.ErrorContains(t, err, "team ID is required")
}

func TestListLabels(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		assert.Contains(t, req.Query, "issueLabels")
		respond(t, w, `{"data": {"issueLabels": {"nodes": [
			{"id": "label-1", "name": "bug"}
		]}}}`)
	})

	labels, err := client.ListLabels(context.Background())
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, Label{ID: "label-1", Name: "bug"}, labels[0])
}

func TestCreateLabel(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		assert.Contains(t, req.Query, "issueLabelCreate")
		input := req.Variables["input"].(map[string]interface{})
		assert.Equal(t, "urgent", input["name"])
		assert.Equal(t, "#000000", input["color"])
		respond(t, w, `{"data": {"issueLabelCreate": {
			"success": true,
			"issueLabel": {"id": "label-9", "name": "urgent"}
		}}}`)
	})

	label, err := client.CreateLabel(context.Background(), "urgent", "#000000")
	require.NoError(t, err)
	assert.Equal(t, "label-9", label.ID)
}

func TestCreateLabel_NoUsableResult(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		respond(t, w, `{"data": {"issueLabelCreate": {"success": false, "issueLabel": null}}}`)
	})

	label, err := client.CreateLabel(context.Background(), "urgent", "#000000")
	assert.Nil(t, label)
	assert.ErrorContains(t, err, "returned no label")
}

func TestCreateIssue(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		assert.Contains(t, req.Query, "issueCreate")
		input := req.Variables["input"].(map[string]interface{})
		assert.Equal(t, "team-1", input["teamId"])
		assert.Equal(t, "Fix crash", input["title"])
		assert.Equal(t, float64(3), input["priority"])
		assert.Equal(t, "state-1", input["stateId"])
		assert.Equal(t, []interface{}{"label-1", "label-2"}, input["labelIds"])
		respond(t, w, `{"data": {"issueCreate": {
			"success": true,
			"issue": {"id": "issue-1", "identifier": "ENG-42", "title": "Fix crash", "url": "https://linear.app/acme/issue/ENG-42"}
		}}}`)
	})

	issue, err := client.CreateIssue(context.Background(), IssueCreateInput{
		TeamID:      "team-1",
		Title:       "Fix crash",
		Description: "See logs",
		Priority:    3,
		StateID:     "state-1",
		LabelIDs:    []string{"label-1", "label-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ENG-42", issue.Identifier)
	assert.Equal(t, "https://linear.app/acme/issue/ENG-42", issue.URL)
}

func TestCreateIssue_OmitsOptionalFields(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		input := req.Variables["input"].(map[string]interface{})
		_, hasState := input["stateId"]
		_, hasLabels := input["labelIds"]
		assert.False(t, hasState)
		assert.False(t, hasLabels)
		respond(t, w, `{"data": {"issueCreate": {
			"success": true,
			"issue": {"id": "issue-1", "identifier": "ENG-43", "title": "T", "url": "u"}
		}}}`)
	})

	_, err := client.CreateIssue(context.Background(), IssueCreateInput{
		TeamID: "team-1", Title: "T", Priority: 3,
	})
	assert.NoError(t, err)
}

func TestCreateIssue_NoUsableResult(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		respond(t, w, `{"data": {"issueCreate": {"success": true, "issue": null}}}`)
	})

	issue, err := client.CreateIssue(context.Background(), IssueCreateInput{
		TeamID: "team-1", Title: "T",
	})
	assert.Nil(t, issue)
	assert.ErrorContains(t, err, "returned no issue")
}

func TestCreateIssue_ServerError(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CreateIssue(context.Background(), IssueCreateInput{
		TeamID: "team-1", Title: "T",
	})
	assert.ErrorContains(t, err, "unexpected status code: 500")
}

func TestCreateComment(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		assert.Contains(t, req.Query, "commentCreate")
		input := req.Variables["input"].(map[string]interface{})
		assert.Equal(t, "issue-1", input["issueId"])
		assert.Equal(t, "Comment by @alice on 2024-03-01\n\nfirst", input["body"])
		respond(t, w, `{"data": {"commentCreate": {"success": true}}}`)
	})

	err := client.CreateComment(context.Background(), "issue-1", "Comment by @alice on 2024-03-01\n\nfirst")
	assert.NoError(t, err)
}

func TestCreateComment_Failure(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		respond(t, w, `{"data": {"commentCreate": {"success": false}}}`)
	})

	err := client.CreateComment(context.Background(), "issue-1", "body")
	assert.ErrorContains(t, err, "comment creation reported failure")
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest, w http.ResponseWriter) {
		respond(t, w, `{"data": {}}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListTeams(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}
