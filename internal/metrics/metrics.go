package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LikeToggles counts ledger writes by target kind and action (on/off).
	LikeToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_like_toggles_total",
			Help: "Like ledger toggle operations by target kind and action.",
		},
		[]string{"kind", "action"},
	)

	// LeaderboardDuration tracks how long a full karma aggregation takes.
	LeaderboardDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_leaderboard_duration_seconds",
			Help:    "Time spent computing the karma leaderboard.",
			Buckets: prometheus.DefBuckets,
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(LikeToggles, LeaderboardDuration, httpRequests)
}

// Handler exposes the prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RequestCounter counts every request against its matched route.
func RequestCounter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// ObserveLeaderboard records one aggregation duration.
func ObserveLeaderboard(start time.Time) {
	LeaderboardDuration.Observe(time.Since(start).Seconds())
}
