package handler

import (
	"errors"
	"net/http"

	"nightlife/internal/changeset"
	"nightlife/internal/service"
	"nightlife/pkg/response"

	"github.com/gin-gonic/gin"
)

// Error codes returned in response.Response.Code.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyDecided    = "ALREADY_DECIDED"
	CodeConflict          = "CONFLICT"
	CodeOwnershipConflict = "OWNERSHIP_CONFLICT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeStorageFailure    = "STORAGE_FAILURE"
)

// writeError maps a service outcome onto a status code the admin console can act on:
// 409 means someone else already handled it, 422 means pick a different decision,
// 503 means retry.
func writeError(c *gin.Context, err error) {
	var verr *changeset.ValidationError
	var status int
	var code string
	var details interface{}
	msg := err.Error()

	switch {
	case errors.As(err, &verr):
		status, code, details = http.StatusUnprocessableEntity, CodeValidation, verr.Errors
	case errors.Is(err, service.ErrRequestNotFound), errors.Is(err, service.ErrEntityNotFound):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, service.ErrAlreadyDecided):
		status, code = http.StatusConflict, CodeAlreadyDecided
	case errors.Is(err, service.ErrOwnershipConflict):
		status, code = http.StatusConflict, CodeOwnershipConflict
	case errors.Is(err, service.ErrConflict):
		status, code = http.StatusConflict, CodeConflict
	case errors.Is(err, service.ErrInvalidInput):
		status, code = http.StatusBadRequest, CodeBadRequest
	default:
		status, code = http.StatusServiceUnavailable, CodeStorageFailure
		msg = "Storage is temporarily unavailable, please retry"
		_ = c.Error(err)
	}

	c.JSON(status, response.ErrorWithCode(status, code, msg, details))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.ErrorWithCode(http.StatusBadRequest, CodeBadRequest, msg, nil))
}
