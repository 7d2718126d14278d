package handler

import (
	"net/http"

	"nightlife/internal/middleware"
	"nightlife/internal/model"
	"nightlife/internal/service"
	"nightlife/pkg/pagination"
	"nightlife/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ModerationHandler struct {
	moderationService service.ModerationService
	auth              *middleware.Authenticator
}

func NewModerationHandler(moderationService service.ModerationService, auth *middleware.Authenticator) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService, auth: auth}
}

func (h *ModerationHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/admin/moderation")
	group.Use(h.auth.RequireRole(model.RoleAdmin))
	{
		group.GET("/summary", h.GetSummary)
		group.GET("/:kind", h.ListRequests)
		group.POST("/:kind/:id/decision", h.Decide)
	}
}

// ListRequests godoc
// @Summary      List moderation requests of one kind
// @Description  status uses the kind's own vocabulary: PENDING, REJECTED and APPROVED (claims, proposals) or ACCEPTED (updates)
// @Tags         admin-moderation
// @Security     BearerAuth
// @Produce      json
// @Param        kind         path      string  true   "claims | updates | proposals"
// @Param        entity_type  query     string  false  "venue | event"
// @Param        status       query     string  false  "Status label"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=response.Page}
// @Failure      400          {object}  response.Response
// @Router       /api/admin/moderation/{kind} [get]
func (h *ModerationHandler) ListRequests(c *gin.Context) {
	kind, err := model.ParseRequestKind(c.Param("kind"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	p := pagination.Parse(c)

	items, total, err := h.moderationService.List(c.Request.Context(), kind, service.ModerationFilter{
		EntityType: c.Query("entity_type"),
		Status:     c.Query("status"),
		Page:       p.Page,
		Limit:      p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(items, total)))
}

// Decide godoc
// @Summary      Approve or reject a Pending request
// @Description  409 ALREADY_DECIDED or CONFLICT: someone else handled it. 422: the change set is invalid, reject instead. 503: retry.
// @Tags         admin-moderation
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        kind     path      string                      true  "claims | updates | proposals"
// @Param        id       path      string                      true  "Request ID"
// @Param        request  body      service.DecisionRequestDTO  true  "Decision"
// @Success      200      {object}  response.Response{data=service.DecisionResult}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /api/admin/moderation/{kind}/{id}/decision [post]
func (h *ModerationHandler) Decide(c *gin.Context) {
	kind, err := model.ParseRequestKind(c.Param("kind"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid request id")
		return
	}
	actorID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthenticated"))
		return
	}

	var req service.DecisionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	verdict, err := service.ParseVerdict(req.Decision)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.moderationService.Decide(c.Request.Context(), service.DecisionCommand{
		Kind:      kind,
		RequestID: requestID,
		Verdict:   verdict,
		ActorID:   actorID,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// GetSummary godoc
// @Summary      Pending request counts for the admin dashboard
// @Tags         admin-moderation
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.PendingSummary}
// @Router       /api/admin/moderation/summary [get]
func (h *ModerationHandler) GetSummary(c *gin.Context) {
	sum, err := h.moderationService.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sum))
}
