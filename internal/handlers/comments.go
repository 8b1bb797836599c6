package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mirrelia/community-feed/backend/internal/engagement"
	"github.com/mirrelia/community-feed/backend/internal/models"
)

type commentStore interface {
	GetPost(ctx context.Context, id int) (*models.Post, error)
	GetComment(ctx context.Context, id int) (*models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
}

type CommentHandler struct {
	content commentStore
}

func NewCommentHandler(content commentStore) *CommentHandler {
	return &CommentHandler{content: content}
}

// CreateComment creates a comment on a post, optionally as a reply. A reply's
// parent must exist and belong to the same post.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body is required"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not resolved"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.content.GetPost(ctx, postID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if input.ParentID != nil {
		parent, err := h.content.GetComment(ctx, *input.ParentID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found"})
			return
		}
		if parent.PostID != postID {
			c.JSON(http.StatusBadRequest, gin.H{"error": engagement.ErrCrossPostParent.Error()})
			return
		}
	}

	comment := models.Comment{
		Body:     input.Body,
		PostID:   postID,
		AuthorID: userID,
		ParentID: input.ParentID,
	}
	if err := h.content.CreateComment(ctx, &comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if created, err := h.content.GetComment(ctx, comment.ID); err == nil {
		comment = *created
	}

	c.JSON(http.StatusCreated, comment)
}
