package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// RemoteFile is the current state of a repository file: its decoded content
// and the blob SHA used as the optimistic-concurrency token on update.
type RemoteFile struct {
	Content []byte
	SHA     string
	Exists  bool
}

// GetFile reads a file from the repository. A missing file is not an error;
// it comes back with Exists=false so the caller can create it.
func (c *Client) GetFile(ctx context.Context, owner, repo, path, ref string) (RemoteFile, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return RemoteFile{}, nil
		}
		return RemoteFile{}, err
	}
	if file == nil {
		return RemoteFile{}, nil
	}
	content, err := file.GetContent()
	if err != nil {
		return RemoteFile{}, err
	}
	return RemoteFile{
		Content: []byte(content),
		SHA:     file.GetSHA(),
		Exists:  true,
	}, nil
}

// PutFileOptions carries everything a contents write needs. SHA empty means
// create; non-empty means update guarded by that revision token.
type PutFileOptions struct {
	Branch      string
	Message     string
	SHA         string
	AuthorName  string
	AuthorEmail string
}

// PutFile creates or updates a repository file.
func (c *Client) PutFile(ctx context.Context, owner, repo, path string, content []byte, opts PutFileOptions) error {
	fileOpts := &github.RepositoryContentFileOptions{
		Message: github.String(opts.Message),
		Content: content,
	}
	if opts.Branch != "" {
		fileOpts.Branch = github.String(opts.Branch)
	}
	if opts.AuthorName != "" {
		fileOpts.Committer = &github.CommitAuthor{
			Name:  github.String(opts.AuthorName),
			Email: github.String(opts.AuthorEmail),
		}
	}
	if opts.SHA == "" {
		_, _, err := c.gh.Repositories.CreateFile(ctx, owner, repo, path, fileOpts)
		return err
	}
	fileOpts.SHA = github.String(opts.SHA)
	_, _, err := c.gh.Repositories.UpdateFile(ctx, owner, repo, path, fileOpts)
	return err
}
