package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mirrelia/community-feed/backend/internal/config"
	"github.com/mirrelia/community-feed/backend/internal/engagement"
	"github.com/mirrelia/community-feed/backend/internal/models"
	"github.com/mirrelia/community-feed/backend/internal/repositories"
)

// Handler combines all handler types
type Handler struct {
	Post        *PostHandler
	Comment     *CommentHandler
	Like        *LikeHandler
	Leaderboard *LeaderboardHandler
}

// NewHandler wires the engagement core and repositories into the HTTP
// surface.
func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	content := repositories.NewContentRepository(db)
	ledger := engagement.NewLikeLedger(db)

	weights := map[models.TargetKind]int{
		models.TargetPost:    cfg.Feed.PostKarma,
		models.TargetComment: cfg.Feed.CommentKarma,
	}
	aggregator := engagement.NewKarmaAggregator(ledger, content, weights)

	return &Handler{
		Post:        NewPostHandler(content, ledger, cfg.Feed.FeedLimit),
		Comment:     NewCommentHandler(content),
		Like:        NewLikeHandler(ledger, content),
		Leaderboard: NewLeaderboardHandler(aggregator, cfg.Feed.LeaderboardHours, cfg.Feed.LeaderboardSize),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
