// Package prompt implements the interactive preview and yes/no confirmation
// shown before an import writes anything to Linear.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/endotakuya/github-to-linear/internal/github"
	"github.com/endotakuya/github-to-linear/internal/importer"
)

const maxBodyPreview = 300

var (
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	fieldStyle = lipgloss.NewStyle().Faint(true)
)

// RenderPreview builds the summary box describing what will be imported.
func RenderPreview(issue *github.Issue, opts importer.Options) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", issue.Number, issue.Title)))
	b.WriteString("\n")
	b.WriteString(fieldStyle.Render(fmt.Sprintf("%s/%s · %s", opts.Owner, opts.Repo, strings.ToLower(issue.State))))
	b.WriteString("\n\n")

	if body := previewBody(issue.Body); body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}

	b.WriteString(fieldStyle.Render(fmt.Sprintf("Team: %s · Priority: %d", opts.Team, opts.Priority)))
	b.WriteString("\n")
	b.WriteString(fieldStyle.Render(fmt.Sprintf(
		"Labels: %s · Comments: %s · GitHub link: %s",
		yesNo(opts.WithLabels), yesNo(opts.WithComments), yesNo(opts.LinkGitHub))))

	if len(issue.Labels) > 0 {
		names := make([]string, 0, len(issue.Labels))
		for _, label := range issue.Labels {
			if label.Name != "" {
				names = append(names, label.Name)
			}
		}
		b.WriteString("\n")
		b.WriteString(fieldStyle.Render("Source labels: " + strings.Join(names, ", ")))
	}

	return boxStyle.Render(b.String())
}

// Confirm prints the preview and asks the operator whether to proceed.
// Ctrl+C counts as a decline, not an error.
func Confirm(issue *github.Issue, opts importer.Options) (bool, error) {
	fmt.Println(RenderPreview(issue, opts))

	var proceed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Import this issue into Linear?").
				Affirmative("Import").
				Negative("Cancel").
				Value(&proceed),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return proceed, nil
}

func previewBody(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > maxBodyPreview {
		return body[:maxBodyPreview] + "…"
	}
	return body
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
