package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/api/httperr"
	"github.com/d60-Lab/chirp/internal/api/middleware"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

type relationResponse struct {
	Message        string `json:"message"`
	TargetUsername string `json:"targetUsername"`
}

type relationPage struct {
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	List     []string `json:"list"`
}

// Follow 关注（关注表与粉丝表同事务双写）
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "被关注用户ID"
// @Success 200 {object} relationResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /user/{id}/follow [put]
func (h *Handler) Follow(c *gin.Context) {
	target, err := h.relService.Follow(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, relationResponse{
		Message:        fmt.Sprintf("You are now following %s", target.Username),
		TargetUsername: target.Username,
	})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param id path string true "被取消关注用户ID"
// @Success 200 {object} relationResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /user/{id}/unfollow [put]
func (h *Handler) Unfollow(c *gin.Context) {
	target, err := h.relService.Unfollow(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, relationResponse{
		Message:        fmt.Sprintf("You have unfollowed %s", target.Username),
		TargetUsername: target.Username,
	})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} relationPage
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.relService.ListFollowing(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, relationPage{Page: page, PageSize: pageSize, List: list})
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表（来自粉丝表）
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} relationPage
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, err := h.relService.ListFans(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, relationPage{Page: page, PageSize: pageSize, List: list})
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > service.MaxPageSize {
		pageSize = service.MaxPageSize
	}
	return page, pageSize
}
