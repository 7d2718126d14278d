package handler

import (
	"net/http"

	"nightlife/internal/middleware"
	"nightlife/internal/model"
	"nightlife/internal/service"
	"nightlife/pkg/pagination"
	"nightlife/pkg/response"

	"github.com/gin-gonic/gin"
)

type VerificationLogHandler struct {
	logService service.VerificationLogService
	auth       *middleware.Authenticator
}

func NewVerificationLogHandler(logService service.VerificationLogService, auth *middleware.Authenticator) *VerificationLogHandler {
	return &VerificationLogHandler{logService: logService, auth: auth}
}

func (h *VerificationLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/admin/verification-logs")
	group.Use(h.auth.RequireRole(model.RoleAdmin))
	{
		group.GET("", h.GetLogs)
	}
}

// GetLogs retrieves the moderation trail, newest first
// @Summary      Get verification logs
// @Description  Filter by entity to reconstruct its moderation history, or by request id
// @Tags         admin-moderation
// @Security     BearerAuth
// @Produce      json
// @Param        entity_type  query     string  false  "venue | event"
// @Param        entity_id    query     string  false  "Entity ID"
// @Param        request_id   query     string  false  "Request ID"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=response.Page}
// @Router       /api/admin/verification-logs [get]
func (h *VerificationLogHandler) GetLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.logService.GetLogs(c.Request.Context(), service.VerificationLogFilter{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		RequestID:  c.Query("request_id"),
		Page:       p.Page,
		Limit:      p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(logs, total)))
}
