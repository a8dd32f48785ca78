package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/response"
)

const (
	maxAvatarBytes    = 2 * 1024 * 1024
	maxPostImageBytes = 25 * 1024 * 1024
)

const (
	msgNoFile     = "Please upload a file"
	msgFileType   = "Please upload a JPG, JPEG, or PNG file"
	msgFileTooBig = "File too large"
)

var (
	errNoFile      = errors.New("no file uploaded")
	errFileType    = errors.New("unsupported image type")
	errFileTooBig  = errors.New("file too large")
	allowedImgExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

	uploadMessages = map[error]string{
		errNoFile:     msgNoFile,
		errFileType:   msgFileType,
		errFileTooBig: msgFileTooBig,
	}
)

// Handler 汇总各业务服务，路由层只依赖它
type Handler struct {
	auth          service.AuthService
	userService   service.UserService
	relService    service.RelationshipService
	postService   service.PostService
	engagement    service.EngagementService
	notifications service.NotificationService
	ping          func(ctx context.Context) error
}

type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Relations     service.RelationshipService
	Posts         service.PostService
	Engagement    service.EngagementService
	Notifications service.NotificationService
	// Ping checks the database for /health.
	Ping func(ctx context.Context) error
}

func New(s Services) *Handler {
	return &Handler{
		auth:          s.Auth,
		userService:   s.Users,
		relService:    s.Relations,
		postService:   s.Posts,
		engagement:    s.Engagement,
		notifications: s.Notifications,
		ping:          s.Ping,
	}
}

// readImage 读取表单中的图片，只接受 jpg/jpeg/png
func readImage(c *gin.Context, field string, maxBytes int64) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, errNoFile
	}
	return readImageHeader(fh, maxBytes)
}

func readImageHeader(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if !allowedImgExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return nil, errFileType
	}
	if fh.Size > maxBytes {
		return nil, errFileTooBig
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxBytes+1))
}

// badUpload 返回上传失败的 400，已知错误使用面向客户端的提示
func badUpload(c *gin.Context, err error) {
	if msg, ok := uploadMessages[err]; ok {
		response.BadRequest(c, msg)
		return
	}
	response.BadRequest(c, err.Error())
}
