package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"toolindex/internal/repository"
)

// ExportsHandler serves the export audit trail.
type ExportsHandler struct {
	Repo repository.Repository
}

func (h *ExportsHandler) Register(r *gin.Engine) {
	r.GET("/api/exports", h.listExports)
}

// @Summary List export attempts
// @Tags exports
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/exports [get]
func (h *ExportsHandler) listExports(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	items, err := h.Repo.ListExportAttempts(c.Request.Context(), repository.ListExportAttemptsParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"count": len(items)})
}
