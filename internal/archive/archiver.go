package archive

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"toolindex/internal/config"
	"toolindex/internal/models"
	"toolindex/internal/repository"
)

// Archiver submits a dead tool's URL to a web-archival save endpoint and, on
// success, records the snapshot URL on the tool. The whole operation is
// best-effort: every failure is logged and dropped, because a future offline
// cycle will simply try again.
type Archiver struct {
	Repo   repository.Repository
	Client *http.Client
	Config config.ArchiveConfig
	Logger *zap.Logger
}

func (a *Archiver) Archive(ctx context.Context, tool models.Tool) {
	if a == nil || a.Repo == nil {
		return
	}
	if tool.ArchiveURL != nil {
		return
	}
	base := strings.TrimRight(a.Config.SaveBaseURL, "/")
	if base == "" {
		return
	}
	timeout := a.Config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, base+"/"+tool.URL, nil)
	if err != nil {
		a.logWarn(tool.Slug, err)
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		a.logWarn(tool.Slug, err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if a.Logger != nil {
			a.Logger.Warn("archive save rejected",
				zap.String("tool", tool.Slug),
				zap.Int("status", resp.StatusCode),
			)
		}
		return
	}

	snapshot := snapshotURL(base, resp.Header.Get("Content-Location"), tool.URL)
	updated, err := a.Repo.SetToolArchiveURL(ctx, tool.ID, snapshot)
	if err != nil {
		a.logWarn(tool.Slug, err)
		return
	}
	if a.Logger != nil {
		if updated {
			a.Logger.Info("tool archived",
				zap.String("tool", tool.Slug),
				zap.String("archive_url", snapshot),
			)
		} else {
			// Concurrent trigger already archived it; both writes mean the
			// same thing, so losing the race is fine.
			a.Logger.Debug("archive url already set", zap.String("tool", tool.Slug))
		}
	}
}

// snapshotURL derives the durable snapshot location. The save service reports
// it via Content-Location; failing that, the conventional /web/ path is used.
func snapshotURL(saveBase, contentLocation, originalURL string) string {
	root := strings.TrimSuffix(saveBase, "/save")
	if loc := strings.TrimSpace(contentLocation); loc != "" {
		if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
			return loc
		}
		return root + loc
	}
	return root + "/web/" + originalURL
}

func (a *Archiver) logWarn(slug string, err error) {
	if a.Logger != nil {
		a.Logger.Warn("archive attempt failed", zap.String("tool", slug), zap.Error(err))
	}
}
