package archive

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

	setToolID  uint64
	setURL     string
	setCalls   int
	setUpdated bool
}

func (s *stubRepo) SetToolArchiveURL(ctx context.Context, toolID uint64, archiveURL string) (bool, error) {
	s.setCalls++
	s.setToolID = toolID
	s.setURL = archiveURL
	return s.setUpdated, nil
}

func newArchiver(repo *stubRepo, saveBase string) *Archiver {
	return &Archiver{
		Repo: repo,
		Config: config.ArchiveConfig{
			SaveBaseURL: saveBase,
			Timeout:     5 * time.Second,
		},
		Logger: zap.NewNop(),
	}
}

func TestArchive_RecordsSnapshotFromContentLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Location", "/web/20260101000000/https://dead.test")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := &stubRepo{setUpdated: true}
	a := newArchiver(repo, srv.URL+"/save")
	a.Archive(context.Background(), models.Tool{ID: 7, Slug: "dead", URL: "https://dead.test"})

	require.Equal(t, 1, repo.setCalls)
	require.Equal(t, uint64(7), repo.setToolID)
	require.Equal(t, srv.URL+"/web/20260101000000/https://dead.test", repo.setURL)
}

func TestArchive_AbsoluteContentLocationKeptAsIs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Location", "https://archive.test/web/2/https://dead.test")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := &stubRepo{setUpdated: true}
	newArchiver(repo, srv.URL+"/save").Archive(context.Background(), models.Tool{ID: 7, URL: "https://dead.test"})
	require.Equal(t, "https://archive.test/web/2/https://dead.test", repo.setURL)
}

func TestArchive_FallbackSnapshotConvention(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := &stubRepo{setUpdated: true}
	newArchiver(repo, srv.URL+"/save").Archive(context.Background(), models.Tool{ID: 7, URL: "https://dead.test"})
	require.Equal(t, srv.URL+"/web/https://dead.test", repo.setURL)
}

func TestArchive_AlreadyArchivedDoesNothing(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	existing := "https://archive.test/web/1/https://dead.test"
	repo := &stubRepo{}
	newArchiver(repo, srv.URL+"/save").Archive(context.Background(), models.Tool{ID: 7, URL: "https://dead.test", ArchiveURL: &existing})

	require.Zero(t, requests)
	require.Zero(t, repo.setCalls)
}

func TestArchive_SaveRejectedNoWrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := &stubRepo{}
	newArchiver(repo, srv.URL+"/save").Archive(context.Background(), models.Tool{ID: 7, URL: "https://dead.test"})
	require.Zero(t, repo.setCalls)
}

func TestArchive_SaveUnreachableNoWrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL + "/save"
	srv.Close()

	repo := &stubRepo{}
	newArchiver(repo, base).Archive(context.Background(), models.Tool{ID: 7, URL: "https://dead.test"})
	require.Zero(t, repo.setCalls)
}

func TestArchive_LostRaceIsQuiet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Guarded update reports no row changed; that is a success, not an error.
	repo := &stubRepo{setUpdated: false}
	newArchiver(repo, srv.URL+"/save").Archive(context.Background(), models.Tool{ID: 7, URL: "https://dead.test"})
	require.Equal(t, 1, repo.setCalls)
}
