package middleware

import (
	"fmt"
	"net/http"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/chirp/pkg/logger"
	"github.com/d60-Lab/chirp/pkg/response"
	"github.com/d60-Lab/chirp/pkg/sentry"
)

// Recovery turns panics into a 500 payload and reports panics and 5xx errors to sentry.
func Recovery(reporter *sentry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic recovered", zap.Any("panic", v), zap.String("path", c.Request.URL.Path))
				reporter.RecoverPanic(v)
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorBody{
					Error: fmt.Sprintf("internal error: %v", v),
				})
			}
		}()

		c.Next()

		if c.Writer.Status() < http.StatusInternalServerError || len(c.Errors) == 0 {
			return
		}
		for _, ginErr := range c.Errors {
			err := ginErr.Err
			reporter.WithScope(func(scope *sentrygo.Scope) {
				scope.SetTag("route", c.FullPath())
				scope.SetTag("method", c.Request.Method)
				if reqID := c.GetHeader("X-Request-ID"); reqID != "" {
					scope.SetTag("request_id", reqID)
				}
				if u := CurrentUser(c); u != nil {
					scope.SetUser(sentrygo.User{ID: u.ID, Username: u.Username})
				}
				scope.SetLevel(sentrygo.LevelError)
				reporter.CaptureException(err)
			})
		}
	}
}
