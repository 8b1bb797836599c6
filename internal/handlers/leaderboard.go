package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mirrelia/community-feed/backend/internal/metrics"
	"github.com/mirrelia/community-feed/backend/internal/models"
)

type karmaRanker interface {
	TopKarma(ctx context.Context, window time.Duration, k int) ([]models.LeaderboardEntry, error)
}

type LeaderboardHandler struct {
	aggregator   karmaRanker
	defaultHours int
	defaultSize  int
}

func NewLeaderboardHandler(aggregator karmaRanker, defaultHours, defaultSize int) *LeaderboardHandler {
	return &LeaderboardHandler{
		aggregator:   aggregator,
		defaultHours: defaultHours,
		defaultSize:  defaultSize,
	}
}

// GetLeaderboard returns the top users by karma earned over the trailing
// window. Window and size default from config and are clamped to sane
// bounds.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	hours := h.defaultHours
	if raw := c.Query("hours"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 7*24 {
			hours = parsed
		}
	}

	size := h.defaultSize
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			size = parsed
		}
	}

	start := time.Now()
	entries, err := h.aggregator.TopKarma(c.Request.Context(), time.Duration(hours)*time.Hour, size)
	metrics.ObserveLeaderboard(start)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"period":      fmt.Sprintf("%d hours", hours),
		"updated_at":  time.Now().UTC(),
	})
}
