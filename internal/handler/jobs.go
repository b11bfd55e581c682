package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolindex/internal/badge"
	"toolindex/internal/export"
	"toolindex/internal/health"
	"toolindex/internal/models"
	"toolindex/internal/repometa"
)

// JobsHandler exposes each scheduled job for on-demand operator runs. The
// contract is identical to the cron counterpart; only the recorded trigger
// source differs.
type JobsHandler struct {
	Health   *health.Scheduler
	Badge    *badge.Detector
	Exporter *export.Exporter
	RepoMeta *repometa.Refresher
	Logger   *zap.Logger
}

func (h *JobsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/jobs")
	group.POST("/health-check", h.runHealthCheck)
	group.POST("/badge-scan", h.runBadgeScan)
	group.POST("/export", h.runExport)
	group.POST("/repo-refresh", h.runRepoRefresh)
}

// @Summary Run one health reconciliation cycle
// @Tags jobs
// @Success 200 {object} apiResponse
// @Router /api/jobs/health-check [post]
func (h *JobsHandler) runHealthCheck(c *gin.Context) {
	if h.Health == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Health.RunOnce(c.Request.Context())
	if err != nil {
		h.logWarn("manual health check failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Run one badge detection scan
// @Tags jobs
// @Success 200 {object} apiResponse
// @Router /api/jobs/badge-scan [post]
func (h *JobsHandler) runBadgeScan(c *gin.Context) {
	if h.Badge == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Badge.RunOnce(c.Request.Context())
	if err != nil {
		h.logWarn("manual badge scan failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Run one catalog export
// @Tags jobs
// @Success 200 {object} apiResponse
// @Router /api/jobs/export [post]
func (h *JobsHandler) runExport(c *gin.Context) {
	if h.Exporter == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Exporter.Export(c.Request.Context(), models.ExportTriggerManual)
	if err != nil {
		h.logWarn("manual export failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Run one repository metadata refresh
// @Tags jobs
// @Success 200 {object} apiResponse
// @Router /api/jobs/repo-refresh [post]
func (h *JobsHandler) runRepoRefresh(c *gin.Context) {
	if h.RepoMeta == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.RepoMeta.RunOnce(c.Request.Context())
	if err != nil {
		h.logWarn("manual repo refresh failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

func (h *JobsHandler) logWarn(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Warn(msg, zap.Error(err))
	}
}
