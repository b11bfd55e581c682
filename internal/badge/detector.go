package badge

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"toolindex/internal/config"
	"toolindex/internal/models"
	"toolindex/internal/repository"
)

const maxBodyBytes = 1 << 20

// Detector scans every approved tool's homepage and classifies whether it
// displays the directory's verification badge. One row per tool is upserted
// each cycle; no history is kept.
type Detector struct {
	Repo    repository.Repository
	Client  *http.Client
	Config  config.BadgeConfig
	SiteURL string
	Logger  *zap.Logger
}

type ScanResult struct {
	Scanned  int `json:"scanned"`
	Explicit int `json:"explicit"`
	Implicit int `json:"implicit"`
	None     int `json:"none"`
}

func (d *Detector) RunOnce(ctx context.Context) (ScanResult, error) {
	var result ScanResult
	if d == nil || d.Repo == nil {
		return result, nil
	}

	tools, err := d.Repo.ListApprovedTools(ctx)
	if err != nil {
		return result, err
	}

	batch := d.Config.BatchSize
	if batch <= 0 {
		batch = 5
	}

	types := make([]string, len(tools))
	for start := 0; start < len(tools); start += batch {
		end := start + batch
		if end > len(tools) {
			end = len(tools)
		}
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				types[i] = d.scanOne(gctx, tools[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	now := time.Now().UTC()
	for i, tool := range tools {
		rec := &models.BadgeDisplayRecord{
			ToolID:        tool.ID,
			DisplayType:   types[i],
			LastCheckedAt: now,
		}
		if err := d.Repo.UpsertBadgeDisplay(ctx, rec); err != nil {
			if d.Logger != nil {
				d.Logger.Warn("badge upsert failed", zap.String("tool", tool.Slug), zap.Error(err))
			}
			continue
		}
		result.Scanned++
		switch types[i] {
		case models.BadgeDisplayExplicit:
			result.Explicit++
		case models.BadgeDisplayImplicit:
			result.Implicit++
		default:
			result.None++
		}
	}

	if d.Logger != nil {
		d.Logger.Info("badge scan complete",
			zap.Int("scanned", result.Scanned),
			zap.Int("explicit", result.Explicit),
			zap.Int("implicit", result.Implicit),
			zap.Int("none", result.None),
		)
	}
	return result, nil
}

// scanOne fetches the tool homepage with its own deadline. Any fetch problem
// downgrades to "none" rather than failing the batch.
func (d *Detector) scanOne(ctx context.Context, tool models.Tool) string {
	timeout := d.Config.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, tool.URL, nil)
	if err != nil {
		return models.BadgeDisplayNone
	}
	req.Header.Set("User-Agent", "toolindex-monitor/1.0")
	resp, err := client.Do(req)
	if err != nil {
		return models.BadgeDisplayNone
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.BadgeDisplayNone
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.BadgeDisplayNone
	}
	return d.Classify(string(body))
}

// Classify inspects page markup: a direct badge reference is explicit, a bare
// mention of the directory's host is implicit, anything else is none.
func (d *Detector) Classify(body string) string {
	lower := strings.ToLower(body)
	badgePath := strings.ToLower(strings.TrimSpace(d.Config.BadgePath))
	if badgePath != "" && strings.Contains(lower, badgePath) {
		return models.BadgeDisplayExplicit
	}
	if host := siteHost(d.SiteURL); host != "" && strings.Contains(lower, host) {
		return models.BadgeDisplayImplicit
	}
	return models.BadgeDisplayNone
}

func siteHost(siteURL string) string {
	u, err := url.Parse(siteURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
