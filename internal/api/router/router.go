package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/chirp/docs"
	"github.com/d60-Lab/chirp/internal/api/handler"
	"github.com/d60-Lab/chirp/internal/api/middleware"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/metrics"
	"github.com/d60-Lab/chirp/pkg/sentry"
)

type Options struct {
	ServiceName string
	Reporter    *sentry.Service
}

// New 注册全部路由
func New(h *handler.Handler, auth service.AuthService, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(opts.Reporter),
		middleware.Logger(),
		metrics.Middleware(),
		otelgin.Middleware(opts.ServiceName),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
	)

	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := r.Group("/", middleware.Auth(auth))

	// 用户
	r.POST("/user", h.Register)
	r.POST("/users/login", h.Login)
	r.GET("/users", h.ListUsers)
	r.GET("/user/:id", h.GetUser)
	r.GET("/user/:id/avatar", h.GetAvatar)
	r.GET("/user/:id/followers", h.ListFollowers)
	r.GET("/user/:id/following", h.ListFollowing)
	authed.PATCH("/user/:id", h.UpdateUser)
	authed.DELETE("/user/:id", h.DeleteUser)
	authed.POST("/user/:id/avatar", h.UploadAvatar)

	// 关系链
	authed.PUT("/user/:id/follow", h.Follow)
	authed.PUT("/user/:id/unfollow", h.Unfollow)

	// 推文与互动
	r.GET("/tweet/:id", h.GetTweet)
	r.GET("/tweets/user/:id", h.UserTweets)
	authed.POST("/tweets", h.CreateTweet)
	authed.GET("/tweets", h.ListTweets)
	authed.GET("/tweets/me", h.MyTweets)
	authed.POST("/uploadTweetImage/:id", h.UploadTweetImage)
	authed.GET("/tweet/:id/image", h.TweetImage)
	authed.POST("/tweet/:id/like", h.LikeTweet)
	authed.PUT("/tweet/:id/unlike", h.UnlikeTweet)

	// 通知
	r.GET("/notification/:id", h.ReceiverNotifications)
	authed.POST("/notification", h.CreateNotification)
	authed.GET("/notifications", h.MyNotifications)

	return r
}
