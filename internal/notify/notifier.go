package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	gh "toolindex/internal/github"
	"toolindex/internal/models"
	"toolindex/internal/repository"
)

// ErrIssuesDisabled marks the non-retriable case where the target repository
// has its issue tracker turned off. Surfaced to the operator, never retried.
var ErrIssuesDisabled = errors.New("issues are disabled for the repository")

// ErrAlreadyNotified is returned when a created notification exists and the
// caller did not force a re-send.
var ErrAlreadyNotified = errors.New("tool has already been notified")

// IssuesClient is the slice of the GitHub client the notifier needs.
type IssuesClient interface {
	CreateIssue(ctx context.Context, owner, repo, title, body string, labels []string) (*gh.Issue, error)
}

// Notifier opens the verification issue on a tool's repository at most once
// per tool. The GitHubNotification row is the idempotency token.
type Notifier struct {
	Repo    repository.Repository
	GitHub  IssuesClient
	SiteURL string
	Logger  *zap.Logger
}

func (n *Notifier) Notify(ctx context.Context, tool models.Tool, force bool) (*models.GitHubNotification, error) {
	if n == nil || n.Repo == nil || n.GitHub == nil {
		return nil, errors.New("notifier not configured")
	}
	if tool.RepoURL == nil {
		return nil, fmt.Errorf("tool %q has no repository url", tool.Slug)
	}

	existing, err := n.Repo.GetNotificationByToolID(ctx, tool.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == models.NotificationStatusCreated && !force {
		return existing, ErrAlreadyNotified
	}

	owner, repoName, err := gh.ParseRepoURL(*tool.RepoURL)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s is listed on the tool directory", tool.Name)
	body := fmt.Sprintf(
		"Hi! %s has been verified and listed on the tool directory (%s).\n\n"+
			"You can display the verification badge on %s to let visitors know.\n",
		tool.Name, n.SiteURL, tool.URL,
	)
	labels := []string{"tool-directory"}

	issue, createErr := n.GitHub.CreateIssue(ctx, owner, repoName, title, body, labels)
	if createErr != nil {
		switch gh.StatusCode(createErr) {
		case http.StatusGone:
			createErr = fmt.Errorf("%w: %s/%s", ErrIssuesDisabled, owner, repoName)
		case http.StatusUnprocessableEntity:
			// Some repositories reject custom labels; retry once with the
			// reduced request before giving up.
			issue, createErr = n.GitHub.CreateIssue(ctx, owner, repoName, title, body, nil)
		}
	}

	record := &models.GitHubNotification{ToolID: tool.ID}
	if createErr != nil {
		record.Status = models.NotificationStatusError
		msg := createErr.Error()
		record.ErrorMessage = &msg
	} else {
		record.Status = models.NotificationStatusCreated
		record.IssueURL = &issue.HTMLURL
		record.IssueNumber = &issue.Number
	}

	if err := n.Repo.UpsertNotification(ctx, record); err != nil {
		if n.Logger != nil {
			n.Logger.Warn("record notification failed", zap.String("tool", tool.Slug), zap.Error(err))
		}
		if createErr == nil {
			return record, err
		}
	}
	if createErr != nil {
		return record, createErr
	}
	if n.Logger != nil {
		n.Logger.Info("notification issue created",
			zap.String("tool", tool.Slug),
			zap.String("issue_url", issue.HTMLURL),
		)
	}
	return record, nil
}
