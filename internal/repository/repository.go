package repository

import (
	"context"
	"time"

	"toolindex/internal/models"
)

// RepoMetadata is the refreshed slice of third-party repository data written
// back onto a tool row.
type RepoMetadata struct {
	Stars     int
	Forks     int
	License   *string
	Language  *string
	FetchedAt time.Time
}

// HealthCheckStats aggregates probe outcomes for one tool since a cutoff.
type HealthCheckStats struct {
	Total  int64
	Online int64
}

type ListExportAttemptsParams struct {
	Limit  int
	Offset int
}

// Repository is the single persistence surface shared by the monitor's
// components. All writes are single-row upserts or appends.
type Repository interface {
	// Tools.
	GetToolByID(ctx context.Context, id uint64) (*models.Tool, error)
	GetToolBySlug(ctx context.Context, slug string) (*models.Tool, error)
	ListApprovedTools(ctx context.Context) ([]models.Tool, error)
	ListRandomApprovedTools(ctx context.Context, limit int) ([]models.Tool, error)
	ListToolsNeedingRepoMetadata(ctx context.Context, staleBefore time.Time, limit int) ([]models.Tool, error)
	// SetToolArchiveURL is write-once: it only succeeds while archive_url is
	// still null and reports whether a row was updated.
	SetToolArchiveURL(ctx context.Context, toolID uint64, archiveURL string) (bool, error)
	UpdateToolRepoMetadata(ctx context.Context, toolID uint64, meta RepoMetadata) error

	// Tags (read-only join for the exporter).
	ListCategoryTagsByToolIDs(ctx context.Context, toolIDs []uint64) (map[uint64][]models.Tag, error)

	// Health checks (append-only, retention-pruned).
	InsertHealthCheck(ctx context.Context, item *models.HealthCheckRecord) error
	ListRecentHealthChecks(ctx context.Context, toolID uint64, since time.Time, limit int) ([]models.HealthCheckRecord, error)
	CountHealthChecks(ctx context.Context, toolID uint64, since time.Time) (HealthCheckStats, error)
	DeleteHealthChecksBefore(ctx context.Context, before time.Time) (int64, error)

	// Badge display (one row per tool).
	UpsertBadgeDisplay(ctx context.Context, item *models.BadgeDisplayRecord) error
	GetBadgeDisplayByToolID(ctx context.Context, toolID uint64) (*models.BadgeDisplayRecord, error)

	// Export audit.
	InsertExportAttempt(ctx context.Context, item *models.ExportAttempt) error
	ListExportAttempts(ctx context.Context, params ListExportAttemptsParams) ([]models.ExportAttempt, error)

	// Notification bookkeeping.
	GetNotificationByToolID(ctx context.Context, toolID uint64) (*models.GitHubNotification, error)
	UpsertNotification(ctx context.Context, item *models.GitHubNotification) error
}
