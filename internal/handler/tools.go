package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"toolindex/internal/config"
	"toolindex/internal/health"
	"toolindex/internal/notify"
	"toolindex/internal/repository"
)

// ToolsHandler serves per-tool health reads and the manual notification
// trigger for the admin surface.
type ToolsHandler struct {
	Repo     repository.Repository
	Notifier *notify.Notifier
	Config   config.HealthConfig
	Logger   *zap.Logger
}

func (h *ToolsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/tools")
	group.GET("/:slug/health", h.getToolHealth)
	group.POST("/:slug/notify", h.notifyTool)
}

type toolHealthResponse struct {
	Slug            string     `json:"slug"`
	EffectiveStatus string     `json:"effective_status"`
	UptimePercent   *string    `json:"uptime_percent"`
	ChecksInWindow  int        `json:"checks_in_window"`
	LastCheckedAt   *time.Time `json:"last_checked_at"`
	ArchiveURL      *string    `json:"archive_url"`
	BadgeDisplay    *string    `json:"badge_display"`
}

// @Summary Effective health status for one tool
// @Tags tools
// @Param slug path string true "tool slug"
// @Success 200 {object} apiResponse
// @Router /api/tools/{slug}/health [get]
func (h *ToolsHandler) getToolHealth(c *gin.Context) {
	tool, err := h.Repo.GetToolBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if tool == nil {
		Error(c, http.StatusNotFound, "tool not found", nil)
		return
	}

	window := h.Config.Window
	if window <= 0 {
		window = 48 * time.Hour
	}
	tolerance := h.Config.Tolerance
	if tolerance <= 0 {
		tolerance = 5
	}
	retention := h.Config.Retention
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}

	now := time.Now().UTC()
	records, err := h.Repo.ListRecentHealthChecks(c.Request.Context(), tool.ID, now.Add(-window), tolerance)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	checks := make([]health.Check, 0, len(records))
	for _, rec := range records {
		checks = append(checks, health.Check{IsOnline: rec.IsOnline, CheckedAt: rec.CheckedAt})
	}

	resp := toolHealthResponse{
		Slug:            tool.Slug,
		EffectiveStatus: string(health.ResolveEffectiveStatus(checks, now, window, tolerance)),
		ChecksInWindow:  len(checks),
		ArchiveURL:      tool.ArchiveURL,
	}
	if len(records) > 0 {
		resp.LastCheckedAt = &records[0].CheckedAt
	}

	stats, err := h.Repo.CountHealthChecks(c.Request.Context(), tool.ID, now.Add(-retention))
	if err == nil && stats.Total > 0 {
		uptime := decimal.NewFromInt(stats.Online).
			Div(decimal.NewFromInt(stats.Total)).
			Mul(decimal.NewFromInt(100)).
			Round(2).
			String()
		resp.UptimePercent = &uptime
	}

	if badge, err := h.Repo.GetBadgeDisplayByToolID(c.Request.Context(), tool.ID); err == nil && badge != nil {
		resp.BadgeDisplay = &badge.DisplayType
	}

	Ok(c, resp, nil)
}

// @Summary Create the notification issue for one tool
// @Tags tools
// @Param slug path string true "tool slug"
// @Param force query bool false "re-send even if already notified"
// @Success 200 {object} apiResponse
// @Router /api/tools/{slug}/notify [post]
func (h *ToolsHandler) notifyTool(c *gin.Context) {
	if h.Notifier == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	tool, err := h.Repo.GetToolBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if tool == nil {
		Error(c, http.StatusNotFound, "tool not found", nil)
		return
	}
	force, _ := strconv.ParseBool(c.Query("force"))

	record, err := h.Notifier.Notify(c.Request.Context(), *tool, force)
	if err != nil {
		if errors.Is(err, notify.ErrAlreadyNotified) {
			Ok(c, record, map[string]any{"already_notified": true})
			return
		}
		if h.Logger != nil {
			h.Logger.Warn("manual notification failed", zap.String("tool", tool.Slug), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, record, nil)
}
