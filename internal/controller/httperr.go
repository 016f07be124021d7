// Package controller holds what the HTTP controllers share: the mapping
// from service sentinel errors to response statuses.
package controller

import (
	"errors"
	"net/http"

	"github.com/faanskit/flygprov/internal/dto"
	"github.com/faanskit/flygprov/internal/service"
	"github.com/gin-gonic/gin"
)

// StatusForError maps a service error to its HTTP status.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, service.ErrTimeExpired):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInsufficientQuestions),
		errors.Is(err, service.ErrNoReplacementAvailable),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrNoSubjects):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError writes err with its mapped status. Internal errors get
// a generic message so database details never leak to clients.
func RespondServiceError(c *gin.Context, err error) {
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	c.JSON(status, dto.ErrorResponse{Message: message})
}
