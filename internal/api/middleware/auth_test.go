package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/service"
)

type stubAuth struct {
	user *model.User
	err  error
}

func (s stubAuth) Register(context.Context, service.RegisterInput) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (s stubAuth) Login(context.Context, string, string) (*model.User, string, time.Time, error) {
	return nil, "", time.Time{}, errors.New("not implemented")
}

func (s stubAuth) Authenticate(context.Context, string) (*model.User, error) { return s.user, s.err }

func serve(auth service.AuthService, header string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(auth), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).Username)
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	alice := &model.User{ID: "u1", Username: "alice"}
	const uniform = `{"error":"Please authenticate."}`

	tests := []struct {
		name     string
		auth     stubAuth
		header   string
		wantCode int
		wantBody string
	}{
		{"ok", stubAuth{user: alice}, "Bearer t", http.StatusOK, "alice"},
		{"missing header", stubAuth{user: alice}, "", http.StatusUnauthorized, uniform},
		{"wrong scheme", stubAuth{user: alice}, "Basic t", http.StatusUnauthorized, uniform},
		{"bad token", stubAuth{err: fmt.Errorf("%w: expired", service.ErrAuthentication)}, "Bearer t", http.StatusUnauthorized, uniform},
		{"store down", stubAuth{err: errors.New("connection refused")}, "Bearer t", http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.auth, tt.header)
			assert.Equal(t, tt.wantCode, w.Code)
			switch {
			case tt.wantBody == uniform:
				assert.JSONEq(t, uniform, w.Body.String())
			case tt.wantBody != "":
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestCurrentUserUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
