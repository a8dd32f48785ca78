package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/chirp/config"
	"github.com/d60-Lab/chirp/internal/api/handler"
	"github.com/d60-Lab/chirp/internal/api/router"
	"github.com/d60-Lab/chirp/internal/cache"
	"github.com/d60-Lab/chirp/internal/media"
	"github.com/d60-Lab/chirp/internal/repository"
	"github.com/d60-Lab/chirp/internal/service"
	"github.com/d60-Lab/chirp/pkg/database"
	"github.com/d60-Lab/chirp/pkg/hash"
	"github.com/d60-Lab/chirp/pkg/jwt"
	"github.com/d60-Lab/chirp/pkg/logger"
	"github.com/d60-Lab/chirp/pkg/sentry"
	"github.com/d60-Lab/chirp/pkg/tracing"
)

// @title Chirp API
// @version 1.0
// @description 社交后端：用户、关注关系、推文、点赞与通知
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter := sentry.New(cfg.Sentry)
	defer reporter.Close()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
		shutdownTracing = func(context.Context) error { return nil }
	}

	// 数据库连不上直接退出
	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database connection failed", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("database handle", zap.Error(err))
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, reading through to the database", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = rdb.Close()
			rdb = nil
		}
	}

	var store media.Store = media.NewMemoryStore()
	if cfg.Storage.Endpoint != "" {
		ms, err := media.NewMinioStore(ctx, cfg.Storage)
		if err != nil {
			logger.Error("object storage unavailable", zap.String("endpoint", cfg.Storage.Endpoint), zap.Error(err))
			os.Exit(1)
		}
		store = ms
	} else {
		logger.Warn("storage endpoint not set, media is kept in memory")
	}

	// repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	userCache := cache.NewUserCache(rdb, userRepo, followRepo, fanRepo, cfg.Redis.TTL)
	invalidator := service.NewCacheInvalidator(userCache, cfg.Worker.QueueSize, cfg.Worker.RecheckDelay)
	stopInvalidator := invalidator.Start(cfg.Worker.Workers)

	// services
	hasher := hash.NewHashService()
	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expire)
	authSvc := service.NewAuthService(userRepo, userCache, hasher, tokens)
	h := handler.New(handler.Services{
		Auth: authSvc,
		Users: service.NewUserService(service.UserServiceDeps{
			Tx:          tx,
			Users:       userRepo,
			Follows:     followRepo,
			Fans:        fanRepo,
			Posts:       postRepo,
			Likes:       likeRepo,
			Cache:       userCache,
			Invalidator: invalidator,
			Media:       store,
			Hasher:      hasher,
		}),
		Relations:     service.NewRelationshipService(tx, userRepo, followRepo, fanRepo, userCache, invalidator),
		Posts:         service.NewPostService(postRepo, likeRepo, store),
		Engagement:    service.NewEngagementService(tx, postRepo, likeRepo),
		Notifications: service.NewNotificationService(notificationRepo, userRepo, userCache),
		Ping:          sqlDB.PingContext,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.New(h, authSvc, router.Options{ServiceName: cfg.Tracing.ServiceName, Reporter: reporter}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := stopInvalidator(shutdownCtx); err != nil {
		logger.Warn("invalidator drain", zap.Error(err), zap.Int("pending", invalidator.QueueLen()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = sqlDB.Close()
}
