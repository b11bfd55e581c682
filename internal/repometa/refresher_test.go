package repometa

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolindex/internal/config"
	gh "toolindex/internal/github"
	"toolindex/internal/models"
	"toolindex/internal/repository"
)

type stubRepo struct {
	repository.Repository

	tools       []models.Tool
	staleBefore time.Time
	limit       int
	updates     map[uint64]repository.RepoMetadata
}

func (s *stubRepo) ListToolsNeedingRepoMetadata(ctx context.Context, staleBefore time.Time, limit int) ([]models.Tool, error) {
	s.staleBefore = staleBefore
	s.limit = limit
	return s.tools, nil
}

func (s *stubRepo) UpdateToolRepoMetadata(ctx context.Context, toolID uint64, meta repository.RepoMetadata) error {
	if s.updates == nil {
		s.updates = map[uint64]repository.RepoMetadata{}
	}
	s.updates[toolID] = meta
	return nil
}

type stubMetadata struct {
	meta map[string]*gh.RepoMetadata
	errs map[string]error
}

func (s *stubMetadata) GetRepoMetadata(ctx context.Context, owner, name string) (*gh.RepoMetadata, error) {
	key := owner + "/" + name
	if err := s.errs[key]; err != nil {
		return nil, err
	}
	return s.meta[key], nil
}

func strPtr(s string) *string { return &s }

func newRefresher(repo *stubRepo, client *stubMetadata) *Refresher {
	return &Refresher{
		Repo:   repo,
		GitHub: client,
		Config: config.RepoMetaConfig{
			Staleness: 168 * time.Hour,
			Limit:     25,
		},
		Logger: zap.NewNop(),
	}
}

func TestRunOnce_UpdatesSelectedTools(t *testing.T) {
	repo := &stubRepo{tools: []models.Tool{
		{ID: 1, Slug: "alpha", RepoURL: strPtr("https://github.com/acme/alpha")},
		{ID: 2, Slug: "beta", RepoURL: strPtr("https://github.com/acme/beta.git")},
	}}
	client := &stubMetadata{meta: map[string]*gh.RepoMetadata{
		"acme/alpha": {Stars: 10, Forks: 2, License: strPtr("MIT"), Language: strPtr("Go")},
		"acme/beta":  {Stars: 3},
	}}

	result, err := newRefresher(repo, client).RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.Selected)
	require.Equal(t, 2, result.Updated)
	require.Zero(t, result.Skipped)

	require.Equal(t, 10, repo.updates[1].Stars)
	require.Equal(t, "MIT", *repo.updates[1].License)
	require.Equal(t, 3, repo.updates[2].Stars)
	require.WithinDuration(t, time.Now().UTC(), repo.updates[1].FetchedAt, time.Minute)

	// Selection window derives from the configured staleness.
	require.WithinDuration(t, time.Now().UTC().Add(-168*time.Hour), repo.staleBefore, time.Minute)
	require.Equal(t, 25, repo.limit)
}

func TestRunOnce_MalformedRepoURLSkipped(t *testing.T) {
	repo := &stubRepo{tools: []models.Tool{
		{ID: 1, Slug: "bad", RepoURL: strPtr("not a url")},
		{ID: 2, Slug: "good", RepoURL: strPtr("https://github.com/acme/good")},
	}}
	client := &stubMetadata{meta: map[string]*gh.RepoMetadata{
		"acme/good": {Stars: 1},
	}}

	result, err := newRefresher(repo, client).RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Updated)
	require.Equal(t, 1, result.Skipped)

	// The skipped tool keeps its fetch timestamp untouched.
	_, touched := repo.updates[1]
	require.False(t, touched)
}

func TestRunOnce_FetchFailureSkipsOnlyThatTool(t *testing.T) {
	repo := &stubRepo{tools: []models.Tool{
		{ID: 1, Slug: "gone", RepoURL: strPtr("https://github.com/acme/gone")},
		{ID: 2, Slug: "fine", RepoURL: strPtr("https://github.com/acme/fine")},
	}}
	client := &stubMetadata{
		meta: map[string]*gh.RepoMetadata{"acme/fine": {Stars: 4}},
		errs: map[string]error{"acme/gone": errors.New("404 not found")},
	}

	result, err := newRefresher(repo, client).RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Updated)
	require.Equal(t, 1, result.Skipped)
	_, touched := repo.updates[1]
	require.False(t, touched)
}
