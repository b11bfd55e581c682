package badge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolindex/internal/config"
	"toolindex/internal/models"
	"toolindex/internal/repository"
)

type stubRepo struct {
	repository.Repository

	tools    []models.Tool
	upserted []*models.BadgeDisplayRecord
}

func (s *stubRepo) ListApprovedTools(ctx context.Context) ([]models.Tool, error) {
	return s.tools, nil
}

func (s *stubRepo) UpsertBadgeDisplay(ctx context.Context, item *models.BadgeDisplayRecord) error {
	s.upserted = append(s.upserted, item)
	return nil
}

func newDetector(repo *stubRepo) *Detector {
	return &Detector{
		Repo: repo,
		Config: config.BadgeConfig{
			BatchSize: 5,
			Timeout:   5 * time.Second,
			BadgePath: "/badge.svg",
		},
		SiteURL: "https://directory.test",
		Logger:  zap.NewNop(),
	}
}

func TestClassify(t *testing.T) {
	d := newDetector(&stubRepo{})
	cases := []struct {
		name string
		body string
		want string
	}{
		{"explicit badge image", `<img src="https://directory.test/badge.svg" alt="verified">`, models.BadgeDisplayExplicit},
		{"explicit wins over implicit", `listed on directory.test <img src="/badge.svg">`, models.BadgeDisplayExplicit},
		{"case insensitive", `<IMG SRC="/BADGE.SVG">`, models.BadgeDisplayExplicit},
		{"implicit link", `<a href="https://directory.test/tools/me">find us here</a>`, models.BadgeDisplayImplicit},
		{"no mention", `<html><body>hello</body></html>`, models.BadgeDisplayNone},
		{"empty body", ``, models.BadgeDisplayNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, d.Classify(tc.body))
		})
	}
}

func TestRunOnce_UpsertsEveryTool(t *testing.T) {
	explicit := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<img src="/badge.svg">`))
	}))
	defer explicit.Close()
	implicit := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`see directory.test for more`))
	}))
	defer implicit.Close()
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`nothing to see`))
	}))
	defer plain.Close()

	repo := &stubRepo{tools: []models.Tool{
		{ID: 1, Slug: "a", URL: explicit.URL},
		{ID: 2, Slug: "b", URL: implicit.URL},
		{ID: 3, Slug: "c", URL: plain.URL},
	}}

	result, err := newDetector(repo).RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, result.Scanned)
	require.Equal(t, 1, result.Explicit)
	require.Equal(t, 1, result.Implicit)
	require.Equal(t, 1, result.None)
	require.Len(t, repo.upserted, 3)

	byTool := map[uint64]string{}
	for _, rec := range repo.upserted {
		byTool[rec.ToolID] = rec.DisplayType
		require.False(t, rec.LastCheckedAt.IsZero())
	}
	require.Equal(t, models.BadgeDisplayExplicit, byTool[1])
	require.Equal(t, models.BadgeDisplayImplicit, byTool[2])
	require.Equal(t, models.BadgeDisplayNone, byTool[3])
}

func TestRunOnce_FetchFailureIsNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead := srv.URL
	srv.Close()

	repo := &stubRepo{tools: []models.Tool{{ID: 4, Slug: "down", URL: dead}}}
	result, err := newDetector(repo).RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Scanned)
	require.Equal(t, 1, result.None)
	require.Len(t, repo.upserted, 1)
	require.Equal(t, models.BadgeDisplayNone, repo.upserted[0].DisplayType)
}

func TestRunOnce_NonOKStatusIsNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`/badge.svg`))
	}))
	defer srv.Close()

	repo := &stubRepo{tools: []models.Tool{{ID: 5, Slug: "blocked", URL: srv.URL}}}
	result, err := newDetector(repo).RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.None)
}
