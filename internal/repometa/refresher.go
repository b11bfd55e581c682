package repometa

import (
	"context"
	"time"

	"go.uber.org/zap"

	"toolindex/internal/config"
	gh "toolindex/internal/github"
	"toolindex/internal/repository"
)

// MetadataClient is the slice of the GitHub client the refresher needs.
type MetadataClient interface {
	GetRepoMetadata(ctx context.Context, owner, name string) (*gh.RepoMetadata, error)
}

// Refresher keeps cached third-party repository metadata fresh. Tools that
// were never fetched come first, then tools whose cache passed the staleness
// threshold, oldest fetch first.
type Refresher struct {
	Repo   repository.Repository
	GitHub MetadataClient
	Config config.RepoMetaConfig
	Logger *zap.Logger
}

type Result struct {
	Selected int `json:"selected"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

func (r *Refresher) RunOnce(ctx context.Context) (Result, error) {
	var result Result
	if r == nil || r.Repo == nil || r.GitHub == nil {
		return result, nil
	}

	staleness := r.Config.Staleness
	if staleness <= 0 {
		staleness = 7 * 24 * time.Hour
	}
	limit := r.Config.Limit
	if limit <= 0 {
		limit = 25
	}

	now := time.Now().UTC()
	tools, err := r.Repo.ListToolsNeedingRepoMetadata(ctx, now.Add(-staleness), limit)
	if err != nil {
		return result, err
	}
	result.Selected = len(tools)

	for _, tool := range tools {
		if tool.RepoURL == nil {
			continue
		}
		owner, name, err := gh.ParseRepoURL(*tool.RepoURL)
		if err != nil {
			// Malformed URL skips this tool only; the fetch timestamp stays
			// untouched so nothing ever marks it as refreshed.
			result.Skipped++
			r.logWarn("repo url parse failed", tool.Slug, err)
			continue
		}
		meta, err := r.GitHub.GetRepoMetadata(ctx, owner, name)
		if err != nil {
			result.Skipped++
			r.logWarn("repo metadata fetch failed", tool.Slug, err)
			continue
		}
		err = r.Repo.UpdateToolRepoMetadata(ctx, tool.ID, repository.RepoMetadata{
			Stars:     meta.Stars,
			Forks:     meta.Forks,
			License:   meta.License,
			Language:  meta.Language,
			FetchedAt: time.Now().UTC(),
		})
		if err != nil {
			result.Skipped++
			r.logWarn("repo metadata update failed", tool.Slug, err)
			continue
		}
		result.Updated++
	}

	if r.Logger != nil {
		r.Logger.Info("repo metadata refresh complete",
			zap.Int("selected", result.Selected),
			zap.Int("updated", result.Updated),
			zap.Int("skipped", result.Skipped),
		)
	}
	return result, nil
}

func (r *Refresher) logWarn(msg, slug string, err error) {
	if r.Logger != nil {
		r.Logger.Warn(msg, zap.String("tool", slug), zap.Error(err))
	}
}
