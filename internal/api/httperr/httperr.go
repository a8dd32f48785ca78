// Package httperr maps the service error taxonomy onto HTTP responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrSelfReference),
		errors.Is(err, service.ErrAlreadyLiked),
		errors.Is(err, service.ErrNotLiked):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err with its mapped status. Validation errors carry per-field details.
func FromError(c *gin.Context, err error) {
	status := StatusFor(err)
	switch status {
	case http.StatusInternalServerError:
		response.InternalError(c, err)
		return
	case http.StatusUnauthorized:
		response.Error(c, status, response.Unauthenticated)
		return
	}
	body := response.ErrorBody{Error: err.Error()}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		body.Details = ve.Fields
	}
	response.JSON(c, status, body)
}
