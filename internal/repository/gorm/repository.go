package gormrepository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"toolindex/internal/models"
	"toolindex/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- tools ------------------------------------------------------------------

func (s *Store) GetToolByID(ctx context.Context, id uint64) (*models.Tool, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Tool
	err := s.db.WithContext(ctx).Model(&models.Tool{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetToolBySlug(ctx context.Context, slug string) (*models.Tool, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	var item models.Tool
	err := s.db.WithContext(ctx).Model(&models.Tool{}).Where("slug = ?", slug).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListApprovedTools(ctx context.Context) ([]models.Tool, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Tool
	if err := s.db.WithContext(ctx).
		Model(&models.Tool{}).
		Where("status = ?", models.ToolStatusApproved).
		Order("slug asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListRandomApprovedTools(ctx context.Context, limit int) ([]models.Tool, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 15)
	var items []models.Tool
	if err := s.db.WithContext(ctx).
		Model(&models.Tool{}).
		Where("status = ?", models.ToolStatusApproved).
		Order("RANDOM()").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListToolsNeedingRepoMetadata(ctx context.Context, staleBefore time.Time, limit int) ([]models.Tool, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 25)
	var items []models.Tool
	if err := s.db.WithContext(ctx).
		Model(&models.Tool{}).
		Where("status = ?", models.ToolStatusApproved).
		Where("repo_url IS NOT NULL AND repo_url <> ''").
		Where("repo_fetched_at IS NULL OR repo_fetched_at < ?", staleBefore).
		Order("repo_fetched_at ASC NULLS FIRST").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetToolArchiveURL(ctx context.Context, toolID uint64, archiveURL string) (bool, error) {
	if s == nil || s.db == nil || toolID == 0 {
		return false, nil
	}
	archiveURL = strings.TrimSpace(archiveURL)
	if archiveURL == "" {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Tool{}).
		Where("id = ?", toolID).
		Where("archive_url IS NULL").
		Updates(map[string]any{"archive_url": archiveURL, "updated_at": time.Now().UTC()})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) UpdateToolRepoMetadata(ctx context.Context, toolID uint64, meta repository.RepoMetadata) error {
	if s == nil || s.db == nil || toolID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Tool{}).
		Where("id = ?", toolID).
		Updates(map[string]any{
			"repo_stars":      meta.Stars,
			"repo_forks":      meta.Forks,
			"repo_license":    meta.License,
			"repo_language":   meta.Language,
			"repo_fetched_at": meta.FetchedAt,
			"updated_at":      time.Now().UTC(),
		}).Error
}

// --- tags -------------------------------------------------------------------

func (s *Store) ListCategoryTagsByToolIDs(ctx context.Context, toolIDs []uint64) (map[uint64][]models.Tag, error) {
	if s == nil || s.db == nil || len(toolIDs) == 0 {
		return map[uint64][]models.Tag{}, nil
	}
	type row struct {
		ToolID uint64
		models.Tag
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Table("tool_tags AS tt").
		Select("tt.tool_id AS tool_id, t.id, t.slug, t.label, t.dimension").
		Joins("JOIN tags AS t ON t.id = tt.tag_id").
		Where("tt.tool_id IN ?", toolIDs).
		Where("t.dimension = ?", models.TagDimensionCategory).
		Order("t.slug asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint64][]models.Tag, len(rows))
	for _, r := range rows {
		out[r.ToolID] = append(out[r.ToolID], r.Tag)
	}
	return out, nil
}

// --- health checks ----------------------------------------------------------

func (s *Store) InsertHealthCheck(ctx context.Context, item *models.HealthCheckRecord) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListRecentHealthChecks(ctx context.Context, toolID uint64, since time.Time, limit int) ([]models.HealthCheckRecord, error) {
	if s == nil || s.db == nil || toolID == 0 {
		return nil, nil
	}
	limit = normalizeLimit(limit, 5)
	query := s.db.WithContext(ctx).
		Model(&models.HealthCheckRecord{}).
		Where("tool_id = ?", toolID)
	if !since.IsZero() {
		query = query.Where("checked_at >= ?", since)
	}
	var items []models.HealthCheckRecord
	if err := query.Order("checked_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountHealthChecks(ctx context.Context, toolID uint64, since time.Time) (repository.HealthCheckStats, error) {
	var stats repository.HealthCheckStats
	if s == nil || s.db == nil || toolID == 0 {
		return stats, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.HealthCheckRecord{}).
		Where("tool_id = ?", toolID)
	if !since.IsZero() {
		query = query.Where("checked_at >= ?", since)
	}
	if err := query.Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := query.Where("is_online = ?", true).Count(&stats.Online).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *Store) DeleteHealthChecksBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil || before.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("checked_at < ?", before).
		Delete(&models.HealthCheckRecord{})
	return res.RowsAffected, res.Error
}

// --- badge display ----------------------------------------------------------

func (s *Store) UpsertBadgeDisplay(ctx context.Context, item *models.BadgeDisplayRecord) error {
	if s == nil || s.db == nil || item == nil || item.ToolID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tool_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_type",
			"last_checked_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetBadgeDisplayByToolID(ctx context.Context, toolID uint64) (*models.BadgeDisplayRecord, error) {
	if s == nil || s.db == nil || toolID == 0 {
		return nil, nil
	}
	var item models.BadgeDisplayRecord
	err := s.db.WithContext(ctx).
		Model(&models.BadgeDisplayRecord{}).
		Where("tool_id = ?", toolID).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- export audit -----------------------------------------------------------

func (s *Store) InsertExportAttempt(ctx context.Context, item *models.ExportAttempt) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListExportAttempts(ctx context.Context, params repository.ListExportAttemptsParams) ([]models.ExportAttempt, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit := normalizeLimit(params.Limit, 50)
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	var items []models.ExportAttempt
	if err := s.db.WithContext(ctx).
		Model(&models.ExportAttempt{}).
		Order("exported_at desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- notifications ----------------------------------------------------------

func (s *Store) GetNotificationByToolID(ctx context.Context, toolID uint64) (*models.GitHubNotification, error) {
	if s == nil || s.db == nil || toolID == 0 {
		return nil, nil
	}
	var item models.GitHubNotification
	err := s.db.WithContext(ctx).
		Model(&models.GitHubNotification{}).
		Where("tool_id = ?", toolID).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertNotification(ctx context.Context, item *models.GitHubNotification) error {
	if s == nil || s.db == nil || item == nil || item.ToolID == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tool_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"issue_url",
			"issue_number",
			"status",
			"error_message",
			"updated_at",
		}),
	}).Create(item).Error
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
