package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/pkg/response"
)

// Index 欢迎页
// @Summary 欢迎页
// @Tags 运维
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (h *Handler) Index(c *gin.Context) {
	c.String(http.StatusOK, "Hello from Twitter Backend API!")
}

// Health 健康检查（数据库连通性）
// @Summary 健康检查
// @Tags 运维
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} response.ErrorBody
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			response.Error(c, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	response.Success(c, gin.H{"status": "ok"})
}
