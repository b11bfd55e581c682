package health

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"toolindex/internal/config"
	"toolindex/internal/models"
	"toolindex/internal/notify"
	"toolindex/internal/probe"
	"toolindex/internal/repository"
)

// Prober issues one liveness probe.
type Prober interface {
	Check(ctx context.Context, url string) probe.Result
}

// Archiver snapshots a dead tool's page; best-effort.
type Archiver interface {
	Archive(ctx context.Context, tool models.Tool)
}

// Notifier opens the at-most-once notification issue for a tool.
type Notifier interface {
	Notify(ctx context.Context, tool models.Tool, force bool) (*models.GitHubNotification, error)
}

// Detacher runs a task on a context that outlives the current invocation.
type Detacher interface {
	Go(name string, fn func(context.Context))
}

// Scheduler runs one health reconciliation cycle: sample approved tools,
// probe them in small batches, persist every outcome, and kick off archival
// for tools whose recent history is uniformly offline.
type Scheduler struct {
	Repo       repository.Repository
	Prober     Prober
	Archiver   Archiver
	Notifier   Notifier
	Background Detacher
	Config     config.HealthConfig
	Logger     *zap.Logger
}

// CycleResult summarizes one reconciliation cycle for logs and the manual
// trigger endpoint.
type CycleResult struct {
	Sampled  int   `json:"sampled"`
	Offline  int   `json:"offline"`
	Archived int   `json:"archived"`
	Pruned   int64 `json:"pruned"`
}

func (s *Scheduler) RunOnce(ctx context.Context) (CycleResult, error) {
	var result CycleResult
	if s == nil || s.Repo == nil || s.Prober == nil {
		return result, nil
	}

	sample := s.Config.SampleSize
	if sample <= 0 {
		sample = 15
	}
	batch := s.Config.BatchSize
	if batch <= 0 {
		batch = 3
	}
	window := s.Config.Window
	if window <= 0 {
		window = 48 * time.Hour
	}
	tolerance := s.Config.Tolerance
	if tolerance <= 0 {
		tolerance = 5
	}
	retention := s.Config.Retention
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	tools, err := s.Repo.ListRandomApprovedTools(ctx, sample)
	if err != nil {
		return result, err
	}
	result.Sampled = len(tools)

	results := make([]probe.Result, len(tools))
	for start := 0; start < len(tools); start += batch {
		end := start + batch
		if end > len(tools) {
			end = len(tools)
		}
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = s.Prober.Check(gctx, tools[i].URL)
				// A probe failure is a recorded outcome, never a batch error.
				return nil
			})
		}
		_ = g.Wait()
	}

	now := time.Now().UTC()
	for i, tool := range tools {
		res := results[i]
		rec := &models.HealthCheckRecord{
			ToolID:         tool.ID,
			CheckedAt:      now,
			IsOnline:       res.IsOnline,
			HTTPStatus:     res.HTTPStatus,
			ResponseTimeMs: res.ResponseTimeMs,
		}
		if err := s.Repo.InsertHealthCheck(ctx, rec); err != nil {
			s.logWarn("persist health check failed", tool.Slug, err)
			continue
		}
		if res.IsOnline {
			continue
		}
		result.Offline++
		if tool.ArchiveURL != nil {
			continue
		}
		if s.sustainedOffline(ctx, tool, now, window, tolerance) {
			result.Archived++
			s.detachSideEffects(tool)
		}
	}

	pruned, err := s.Repo.DeleteHealthChecksBefore(ctx, now.Add(-retention))
	if err != nil {
		s.logWarn("health check retention prune failed", "", err)
	}
	result.Pruned = pruned

	if s.Logger != nil {
		s.Logger.Info("health cycle complete",
			zap.Int("sampled", result.Sampled),
			zap.Int("offline", result.Offline),
			zap.Int("archived", result.Archived),
			zap.Int64("pruned", result.Pruned),
		)
	}
	return result, nil
}

// sustainedOffline re-reads the freshest checks within the window and only
// reports true when every one of them is offline. One bad probe never
// triggers archival; the criterion mirrors the resolver's offline rule.
func (s *Scheduler) sustainedOffline(ctx context.Context, tool models.Tool, now time.Time, window time.Duration, tolerance int) bool {
	checks, err := s.Repo.ListRecentHealthChecks(ctx, tool.ID, now.Add(-window), tolerance)
	if err != nil {
		s.logWarn("read recent checks failed", tool.Slug, err)
		return false
	}
	if len(checks) < tolerance {
		return false
	}
	for _, c := range checks {
		if c.IsOnline {
			return false
		}
	}
	return true
}

func (s *Scheduler) detachSideEffects(tool models.Tool) {
	if s.Background == nil {
		return
	}
	if s.Archiver != nil {
		s.Background.Go("archive:"+tool.Slug, func(ctx context.Context) {
			s.Archiver.Archive(ctx, tool)
		})
	}
	if s.Notifier != nil && tool.RepoURL != nil {
		s.Background.Go("notify:"+tool.Slug, func(ctx context.Context) {
			if _, err := s.Notifier.Notify(ctx, tool, false); err != nil && !errors.Is(err, notify.ErrAlreadyNotified) {
				s.logWarn("offline notification failed", tool.Slug, err)
			}
		})
	}
}

func (s *Scheduler) logWarn(msg, slug string, err error) {
	if s.Logger == nil {
		return
	}
	if slug != "" {
		s.Logger.Warn(msg, zap.String("tool", slug), zap.Error(err))
		return
	}
	s.Logger.Warn(msg, zap.Error(err))
}
