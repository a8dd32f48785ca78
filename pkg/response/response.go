// Package response writes JSON payloads in the API's {message|error} shape.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the failure payload.
type ErrorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageBody is used where clients expect a bare message.
type MessageBody struct {
	Message string `json:"message"`
}

// Unauthenticated is the single payload for every authentication failure.
const Unauthenticated = "Please authenticate."

func JSON(c *gin.Context, status int, payload any) { c.JSON(status, payload) }

func Success(c *gin.Context, payload any) { c.JSON(http.StatusOK, payload) }

func Created(c *gin.Context, payload any) { c.JSON(http.StatusCreated, payload) }

func Message(c *gin.Context, status int, msg string) { c.JSON(status, MessageBody{Message: msg}) }

func Error(c *gin.Context, status int, msg string) { c.JSON(status, ErrorBody{Error: msg}) }

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }

func NotFound(c *gin.Context, msg string) { Error(c, http.StatusNotFound, msg) }

func Forbidden(c *gin.Context, msg string) { Error(c, http.StatusForbidden, msg) }

func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Error: Unauthenticated})
}

// InternalError surfaces the underlying message and records err on the gin context
// so the error-reporting middleware can pick it up.
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	Error(c, http.StatusInternalServerError, err.Error())
}
