package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/api/httperr"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

const (
	bearerPrefix   = "Bearer "
	CurrentUserKey = "current_user"
)

// Auth resolves the bearer token to the acting user. Every failure gets the same 401 payload.
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			response.Unauthorized(c)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if httperr.StatusFor(err) != http.StatusUnauthorized {
				// store unavailable, not a credential problem
				httperr.FromError(c, err)
				c.Abort()
				return
			}
			response.Unauthorized(c)
			return
		}
		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by Auth, or nil on public routes.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}
