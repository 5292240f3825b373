package handlers

import (
	"net/http"

	"bookandgo/internal/domain"
	"bookandgo/internal/utils"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondError(c *gin.Context, status int, msg, code string) {
	c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

// RespondDomainError maps typed domain errors onto HTTP statuses. Internal
// errors are logged with their cause but never leaked to the client.
func RespondDomainError(c *gin.Context, reqID string, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, err.Error(), "validation_failed")
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error(), "not_found")
	case domain.IsPermission(err):
		respondError(c, http.StatusForbidden, err.Error(), "forbidden")
	case domain.IsTransition(err):
		respondError(c, http.StatusConflict, err.Error(), "illegal_transition")
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, err.Error(), "conflict")
	default:
		utils.LogEvent(reqID, "http", "error", err.Error())
		respondError(c, http.StatusInternalServerError, "something went wrong", "internal_error")
	}
}
