package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/api/httperr"
	"github.com/d60-Lab/chirp/internal/api/middleware"
	"github.com/d60-Lab/chirp/internal/media"
	"github.com/d60-Lab/chirp/internal/model"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

type tweetResponse struct {
	Message string      `json:"message"`
	Tweet   *model.Post `json:"tweet"`
}

type likeResponse struct {
	Message    string `json:"message"`
	TotalLikes int64  `json:"totalLikes"`
}

// CreateTweet 发推，支持 JSON 或带 image 的 multipart 表单
// @Summary 发推
// @Tags 推文
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param text formData string true "正文"
// @Param image formData file false "配图"
// @Success 201 {object} tweetResponse
// @Failure 400 {object} response.ErrorBody
// @Router /tweets [post]
func (h *Handler) CreateTweet(c *gin.Context) {
	var in service.CreatePostInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		in.Text = c.PostForm("text")
		if fh, err := c.FormFile("image"); err == nil {
			data, err := readImageHeader(fh, maxPostImageBytes)
			if err != nil {
				badUpload(c, err)
				return
			}
			in.Image = data
		}
	} else if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tweetResponse{Message: "Tweet posted successfully", Tweet: post})
}

// UploadTweetImage 给自己的推文上传/替换配图（宽 600）
// @Summary 上传推文配图
// @Tags 推文
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "推文ID"
// @Param image formData file true "配图"
// @Success 200 {object} response.MessageBody
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /uploadTweetImage/{id} [post]
func (h *Handler) UploadTweetImage(c *gin.Context) {
	data, err := readImage(c, "image", maxPostImageBytes)
	if err != nil {
		badUpload(c, err)
		return
	}
	if err := h.postService.UploadImage(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), data); err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Tweet image uploaded successfully")
}

// ListTweets 全部推文，新的在前
// @Summary 推文列表
// @Tags 推文
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Post
// @Failure 404 {object} response.MessageBody
// @Router /tweets [get]
func (h *Handler) ListTweets(c *gin.Context) {
	posts, err := h.postService.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if len(posts) == 0 {
		response.Message(c, http.StatusNotFound, "No tweets found!")
		return
	}
	response.Success(c, posts)
}

// GetTweet 推文详情
// @Summary 推文详情
// @Tags 推文
// @Produce json
// @Param id path string true "推文ID"
// @Success 200 {object} model.Post
// @Failure 404 {object} response.ErrorBody
// @Router /tweet/{id} [get]
func (h *Handler) GetTweet(c *gin.Context) {
	post, err := h.postService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, post)
}

// MyTweets 当前用户的推文
// @Summary 我的推文
// @Tags 推文
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Post
// @Failure 404 {object} response.ErrorBody
// @Router /tweets/me [get]
func (h *Handler) MyTweets(c *gin.Context) {
	h.userTweets(c, middleware.CurrentUser(c).ID)
}

// UserTweets 指定用户的推文
// @Summary 用户推文
// @Tags 推文
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {array} model.Post
// @Failure 404 {object} response.ErrorBody
// @Router /tweets/user/{id} [get]
func (h *Handler) UserTweets(c *gin.Context) {
	h.userTweets(c, c.Param("id"))
}

func (h *Handler) userTweets(c *gin.Context, userID string) {
	posts, err := h.postService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if len(posts) == 0 {
		response.NotFound(c, "No tweets found for this user")
		return
	}
	response.Success(c, posts)
}

// TweetImage 推文配图（PNG）
// @Summary 推文配图
// @Tags 推文
// @Produce png
// @Security BearerAuth
// @Param id path string true "推文ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorBody
// @Router /tweet/{id}/image [get]
func (h *Handler) TweetImage(c *gin.Context) {
	data, err := h.postService.Image(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Data(http.StatusOK, media.ContentTypePNG, data)
}

// LikeTweet 点赞，重复点赞返回 400
// @Summary 点赞
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path string true "推文ID"
// @Success 200 {object} likeResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /tweet/{id}/like [post]
func (h *Handler) LikeTweet(c *gin.Context) {
	total, err := h.engagement.Like(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, likeResponse{Message: "Tweet liked", TotalLikes: total})
}

// UnlikeTweet 取消点赞
// @Summary 取消点赞
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path string true "推文ID"
// @Success 200 {object} tweetResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /tweet/{id}/unlike [put]
func (h *Handler) UnlikeTweet(c *gin.Context) {
	post, err := h.engagement.Unlike(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	response.Success(c, tweetResponse{Message: "Tweet unliked successfully", Tweet: post})
}
