package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrInvalidRepoURL is returned when a tool's repository URL cannot be
// reduced to an owner/name pair.
type ErrInvalidRepoURL struct {
	URL string
}

func (e *ErrInvalidRepoURL) Error() string {
	return fmt.Sprintf("invalid repository url: %q, expected https://github.com/owner/name", e.URL)
}

// RepoMetadata is the subset of repository data the directory caches.
type RepoMetadata struct {
	Stars    int
	Forks    int
	License  *string
	Language *string
}

// Client wraps go-github for the three surfaces the monitor touches:
// repository metadata, the contents API, and issue creation.
type Client struct {
	gh     *github.Client
	logger *zap.Logger
}

// NewClient builds an authenticated client. An empty token yields an
// unauthenticated client, which works for public reads at a lower rate limit.
func NewClient(token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	var c *github.Client
	if strings.TrimSpace(token) == "" {
		c = github.NewClient(nil)
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		tc := oauth2.NewClient(context.Background(), ts)
		tc.Timeout = timeout
		c = github.NewClient(tc)
	}
	return &Client{gh: c, logger: logger}
}

// GetRepoMetadata fetches the cached-metadata slice for one repository.
func (c *Client) GetRepoMetadata(ctx context.Context, owner, name string) (*RepoMetadata, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	meta := &RepoMetadata{
		Stars: repo.GetStargazersCount(),
		Forks: repo.GetForksCount(),
	}
	if lic := repo.GetLicense(); lic != nil && lic.GetSPDXID() != "" {
		id := lic.GetSPDXID()
		meta.License = &id
	}
	if lang := repo.GetLanguage(); lang != "" {
		meta.Language = &lang
	}
	return meta, nil
}

// StatusCode extracts the upstream HTTP status from a go-github error, or 0
// when the failure never reached the API.
func StatusCode(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

// ParseRepoURL reduces a repository URL to its owner/name pair.
func ParseRepoURL(rawURL string) (owner, name string, err error) {
	u, parseErr := url.Parse(strings.TrimSpace(rawURL))
	if parseErr != nil || u.Host == "" {
		return "", "", &ErrInvalidRepoURL{URL: rawURL}
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &ErrInvalidRepoURL{URL: rawURL}
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
