// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	LoginSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "login_success_total",
		Help: "Total successful login attempts",
	})

	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_failure_total",
		Help: "Total failed login attempts",
	}, []string{"reason"})

	RegisterSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_success_total",
		Help: "Total successful register attempts",
	})

	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_created_total",
		Help: "Total posts successfully created",
	})

	// RelationChanges counts follow/unfollow transitions that changed the graph.
	RelationChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relation_changes_total",
		Help: "Follow graph edges added or removed",
	}, []string{"action"})

	LikeChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "like_changes_total",
		Help: "Likes added or removed",
	}, []string{"action"})

	NotificationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Total notifications recorded",
	})

	InvalidationLag = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_invalidation_lag_seconds",
		Help:    "Time between enqueueing a cache invalidation and applying it.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	InvalidationDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_invalidation_dropped_total",
		Help: "Cache invalidations dropped because the queue was full",
	})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(LoginSuccess)
	prometheus.MustRegister(LoginFailure)
	prometheus.MustRegister(RegisterSuccess)
	prometheus.MustRegister(PostsCreated)
	prometheus.MustRegister(RelationChanges)
	prometheus.MustRegister(LikeChanges)
	prometheus.MustRegister(NotificationsCreated)
	prometheus.MustRegister(InvalidationLag)
	prometheus.MustRegister(InvalidationDropped)
}

// Middleware records request timing by matched route, so path parameters don't explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
