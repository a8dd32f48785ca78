package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/api/httperr"
	"github.com/d60-Lab/chirp/internal/api/middleware"
	"github.com/d60-Lab/chirp/internal/media"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

var updatable = func() map[string]bool {
	m := make(map[string]bool, len(service.UpdatableUserFields))
	for _, f := range service.UpdatableUserFields {
		m[f] = true
	}
	return m
}()

// ListUsers 查询全部用户
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {array} model.User
// @Failure 404 {object} response.MessageBody
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if len(users) == 0 {
		response.Message(c, http.StatusNotFound, "No any single user found!")
		return
	}
	response.Success(c, users)
}

// GetUser 查询单个用户（含 followers/following）
// @Summary 用户详情
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} model.User
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateUser 修改自己的资料，用户名不可修改
// @Summary 修改资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param request body service.UpdateUserInput true "可修改字段"
// @Success 200 {object} userResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /user/{id} [patch]
func (h *Handler) UpdateUser(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	for k := range keys {
		if !updatable[k] {
			response.BadRequest(c, "Invalid updates! Username cannot be updated.")
			return
		}
	}
	var in service.UpdateUserInput
	if err := json.Unmarshal(body, &in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, userResponse{Message: "User updated successfully", User: user})
}

// DeleteUser 注销自己的账号，级联删除关系、点赞与推文
// @Summary 注销账号
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} userResponse
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	user, err := h.userService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, userResponse{Message: "User deleted successfully", User: user})
}

// UploadAvatar 上传头像（jpg/jpeg/png，≤2MB，裁剪为 250x250）
// @Summary 上传头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param avatar formData file true "头像"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Router /user/{id}/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	data, err := readImage(c, "avatar", maxAvatarBytes)
	if err != nil {
		badUpload(c, err)
		return
	}
	if err := h.userService.UploadAvatar(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), data); err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Avatar uploaded successfully")
}

// GetAvatar 获取头像
// @Summary 获取头像
// @Tags 用户
// @Produce png
// @Param id path string true "用户ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorBody
// @Router /user/{id}/avatar [get]
func (h *Handler) GetAvatar(c *gin.Context) {
	data, err := h.userService.Avatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Data(http.StatusOK, media.ContentTypePNG, data)
}
