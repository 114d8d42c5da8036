package importer

import (
	"fmt"

	"github.com/endotakuya/github-to-linear/internal/github"
	"github.com/endotakuya/github-to-linear/internal/linear"
)

// Compose builds the Linear issue payload from the fetched GitHub issue and
// the resolved state and label IDs. Pure function, no I/O.
func Compose(issue *github.Issue, teamID, stateID string, labelIDs []string, opts Options) linear.IssueCreateInput {
	description := issue.Body
	if opts.LinkGitHub {
		description = fmt.Sprintf("> Imported from %s\n\n%s", issue.URL, issue.Body)
	}

	return linear.IssueCreateInput{
		TeamID:      teamID,
		Title:       issue.Title,
		Description: description,
		Priority:    opts.Priority,
		StateID:     stateID,
		LabelIDs:    labelIDs,
	}
}

// FormatComment renders a GitHub comment as a Linear comment body with an
// attribution header naming the original author and date.
func FormatComment(comment github.Comment) string {
	date := comment.CreatedAt.Format("2006-01-02")
	if comment.Author.Login == "" {
		return fmt.Sprintf("Comment on %s\n\n%s", date, comment.Body)
	}
	return fmt.Sprintf("Comment by @%s on %s\n\n%s", comment.Author.Login, date, comment.Body)
}
