package handler

import (
	"net/http"

	"nightlife/internal/middleware"
	"nightlife/internal/service"
	"nightlife/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	submissionService service.SubmissionService
	auth              *middleware.Authenticator
}

func NewSubmissionHandler(submissionService service.SubmissionService, auth *middleware.Authenticator) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService, auth: auth}
}

func (h *SubmissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/moderation")
	group.Use(h.auth.RequireUser())
	{
		group.POST("/claims", h.SubmitClaim)
		group.POST("/updates", h.SubmitUpdate)
		group.POST("/proposals", h.SubmitProposal)
	}
}

// SubmitClaim godoc
// @Summary      Claim ownership of a venue or event
// @Description  Creates a Pending claim. A moderator decides it later.
// @Tags         moderation
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.SubmitClaimDTO  true  "Claim"
// @Success      201      {object}  response.Response{data=service.SubmissionResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/moderation/claims [post]
func (h *SubmissionHandler) SubmitClaim(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthenticated"))
		return
	}

	var req service.SubmitClaimDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.submissionService.SubmitClaim(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// SubmitUpdate godoc
// @Summary      Request field edits on a venue or event
// @Description  Stores the change set as submitted. It is validated only when a moderator accepts it.
// @Tags         moderation
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.SubmitUpdateDTO  true  "Update request"
// @Success      201      {object}  response.Response{data=service.SubmissionResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/moderation/updates [post]
func (h *SubmissionHandler) SubmitUpdate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthenticated"))
		return
	}

	var req service.SubmitUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.submissionService.SubmitUpdate(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}

// SubmitProposal godoc
// @Summary      Propose a new venue or event
// @Tags         moderation
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.SubmitProposalDTO  true  "Proposal"
// @Success      201      {object}  response.Response{data=service.SubmissionResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/moderation/proposals [post]
func (h *SubmissionHandler) SubmitProposal(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthenticated"))
		return
	}

	var req service.SubmitProposalDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.submissionService.SubmitProposal(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, res))
}
