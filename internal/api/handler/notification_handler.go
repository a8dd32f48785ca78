package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/api/httperr"
	"github.com/d60-Lab/chirp/internal/api/middleware"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

type notificationResponse struct {
	Message      string              `json:"message"`
	Notification *model.Notification `json:"notification"`
}

type notificationsResponse struct {
	Notifications []*service.NotificationView `json:"notifications"`
}

// CreateNotification 记录一条通知（由调用方显式触发）
// @Summary 创建通知
// @Tags 通知
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateNotificationInput true "通知内容"
// @Success 201 {object} notificationResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /notification [post]
func (h *Handler) CreateNotification(c *gin.Context) {
	var in service.CreateNotificationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Receiver ID and notification type are required.")
		return
	}
	n, err := h.notifications.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notificationResponse{Message: "Notification created successfully", Notification: n})
}

// MyNotifications 当前用户收到的通知，没有时返回空数组
// @Summary 我的通知
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.NotificationView
// @Router /notifications [get]
func (h *Handler) MyNotifications(c *gin.Context) {
	list, err := h.notifications.ListForReceiver(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, list)
}

// ReceiverNotifications 指定用户收到的通知，没有时返回 404
// @Summary 按接收者查询通知
// @Tags 通知
// @Produce json
// @Param id path string true "接收者ID"
// @Success 200 {object} notificationsResponse
// @Failure 404 {object} response.MessageBody
// @Router /notification/{id} [get]
func (h *Handler) ReceiverNotifications(c *gin.Context) {
	list, err := h.notifications.ListForReceiver(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if len(list) == 0 {
		response.Message(c, http.StatusNotFound, "No notifications found for this user.")
		return
	}
	response.Success(c, notificationsResponse{Notifications: list})
}
