package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mirrelia/community-feed/backend/internal/engagement"
	"github.com/mirrelia/community-feed/backend/internal/metrics"
	"github.com/mirrelia/community-feed/backend/internal/models"
)

type likeLedger interface {
	ToggleOn(ctx context.Context, userID int, kind models.TargetKind, targetID int) (bool, int64, error)
	ToggleOff(ctx context.Context, userID int, kind models.TargetKind, targetID int) (bool, int64, error)
}

type likeTargetStore interface {
	GetPost(ctx context.Context, id int) (*models.Post, error)
	GetComment(ctx context.Context, id int) (*models.Comment, error)
}

type LikeHandler struct {
	ledger  likeLedger
	content likeTargetStore
}

func NewLikeHandler(ledger likeLedger, content likeTargetStore) *LikeHandler {
	return &LikeHandler{ledger: ledger, content: content}
}

// LikePost records a like on a post for the acting user.
func (h *LikeHandler) LikePost(c *gin.Context) {
	h.toggle(c, models.TargetPost, c.Param("id"), true)
}

// UnlikePost removes the acting user's like from a post.
func (h *LikeHandler) UnlikePost(c *gin.Context) {
	h.toggle(c, models.TargetPost, c.Param("id"), false)
}

// LikeComment records a like on a comment for the acting user.
func (h *LikeHandler) LikeComment(c *gin.Context) {
	h.toggle(c, models.TargetComment, c.Param("commentId"), true)
}

// UnlikeComment removes the acting user's like from a comment.
func (h *LikeHandler) UnlikeComment(c *gin.Context) {
	h.toggle(c, models.TargetComment, c.Param("commentId"), false)
}

func (h *LikeHandler) toggle(c *gin.Context, kind models.TargetKind, rawID string, on bool) {
	targetID, err := strconv.Atoi(rawID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not resolved"})
		return
	}

	if !h.targetExists(c, kind, targetID) {
		c.JSON(http.StatusNotFound, gin.H{"error": string(kind) + " not found"})
		return
	}

	if on {
		wasCreated, count, err := h.ledger.ToggleOn(c.Request.Context(), userID, kind, targetID)
		if err != nil {
			h.writeToggleError(c, err)
			return
		}
		metrics.LikeToggles.WithLabelValues(string(kind), "on").Inc()

		if wasCreated {
			c.JSON(http.StatusCreated, gin.H{
				"message":    "Liked successfully",
				"liked":      true,
				"like_count": count,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":    "Already liked",
			"liked":      true,
			"like_count": count,
		})
		return
	}

	existed, count, err := h.ledger.ToggleOff(c.Request.Context(), userID, kind, targetID)
	if err != nil {
		h.writeToggleError(c, err)
		return
	}
	metrics.LikeToggles.WithLabelValues(string(kind), "off").Inc()

	message := "Like removed"
	if !existed {
		message = "Not liked"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"liked":      false,
		"existed":    existed,
		"like_count": count,
	})
}

func (h *LikeHandler) targetExists(c *gin.Context, kind models.TargetKind, targetID int) bool {
	ctx := c.Request.Context()
	switch kind {
	case models.TargetPost:
		_, err := h.content.GetPost(ctx, targetID)
		return err == nil
	case models.TargetComment:
		_, err := h.content.GetComment(ctx, targetID)
		return err == nil
	}
	return false
}

func (h *LikeHandler) writeToggleError(c *gin.Context, err error) {
	var conflict *engagement.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Concurrency error - please try again"})
		return
	}
	if errors.Is(err, engagement.ErrUnknownTargetKind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle like"})
}
