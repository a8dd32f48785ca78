package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/api/httperr"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string      `json:"message"`
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type userResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// Register 注册
// @Summary 注册用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "注册信息"
// @Success 201 {object} userResponse
// @Failure 400 {object} response.ErrorBody
// @Router /user [post]
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse{Message: "User created successfully", User: user})
}

// Login 登录，签发 7 天有效的令牌
// @Summary 登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body loginRequest true "邮箱与密码"
// @Success 200 {object} loginResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBindJSON(&req)
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		response.BadRequest(c, "Email or password missing!")
		return
	}

	user, token, exp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthentication) {
			// same body for unknown email and wrong password
			response.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		httperr.FromError(c, err)
		return
	}
	response.Success(c, loginResponse{Message: "Login successful", User: user, Token: token, ExpiresAt: exp})
}
