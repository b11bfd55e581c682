package github

import (
	"context"

	"github.com/google/go-github/v62/github"
)

// Issue is the slice of a created issue the notifier records.
type Issue struct {
	Number  int
	HTMLURL string
}

// CreateIssue opens an issue on the given repository.
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) (*Issue, error) {
	req := &github.IssueRequest{
		Title: github.String(title),
		Body:  github.String(body),
	}
	if len(labels) > 0 {
		req.Labels = &labels
	}
	issue, _, err := c.gh.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		return nil, err
	}
	return &Issue{
		Number:  issue.GetNumber(),
		HTMLURL: issue.GetHTMLURL(),
	}, nil
}
