package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mirrelia/community-feed/backend/internal/engagement"
	"github.com/mirrelia/community-feed/backend/internal/models"
)

type contentStore interface {
	GetPost(ctx context.Context, id int) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	ListPosts(ctx context.Context, limit int) ([]models.Post, error)
	ListCommentsForPost(ctx context.Context, postID int) ([]models.Comment, error)
	CountCommentsForPosts(ctx context.Context, postIDs []int) (map[int]int64, error)
}

type likeCounter interface {
	Count(ctx context.Context, kind models.TargetKind, targetID int) (int64, error)
	CountMany(ctx context.Context, kind models.TargetKind, targetIDs []int) (map[int]int64, error)
}

type PostHandler struct {
	content   contentStore
	ledger    likeCounter
	feedLimit int
}

func NewPostHandler(content contentStore, ledger likeCounter, feedLimit int) *PostHandler {
	return &PostHandler{content: content, ledger: ledger, feedLimit: feedLimit}
}

// GetPosts returns the newest posts with author, like count and comment count.
func (h *PostHandler) GetPosts(c *gin.Context) {
	limit := h.feedLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	ctx := c.Request.Context()
	posts, err := h.content.ListPosts(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	postIDs := make([]int, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}
	likeCounts, err := h.ledger.CountMany(ctx, models.TargetPost, postIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch like counts"})
		return
	}

	// One grouped query for all comment counts, like the like counts above.
	commentCounts, err := h.content.CountCommentsForPosts(ctx, postIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comment counts"})
		return
	}

	responses := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, gin.H{
			"id":            post.ID,
			"content":       post.Content,
			"author_id":     post.AuthorID,
			"user":          post.User,
			"like_count":    likeCounts[post.ID],
			"comment_count": commentCounts[post.ID],
			"created_at":    post.CreatedAt,
			"updated_at":    post.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// GetPost returns a single post with its like count and the fully assembled
// comment forest.
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	ctx := c.Request.Context()
	post, err := h.content.GetPost(ctx, postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	likeCount, err := h.ledger.Count(ctx, models.TargetPost, post.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch like count"})
		return
	}

	forest, ok := h.assembleComments(c, post.ID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         post.ID,
		"content":    post.Content,
		"author_id":  post.AuthorID,
		"user":       post.User,
		"like_count": likeCount,
		"comments":   forest,
		"created_at": post.CreatedAt,
		"updated_at": post.UpdatedAt,
	})
}

// GetComments returns the assembled comment forest for a post.
func (h *PostHandler) GetComments(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	if _, err := h.content.GetPost(c.Request.Context(), postID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	forest, ok := h.assembleComments(c, postID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, forest)
}

// CreatePost creates a new post as the acting user.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not resolved"})
		return
	}

	ctx := c.Request.Context()
	post := models.Post{Content: input.Content, AuthorID: userID}
	if err := h.content.CreatePost(ctx, &post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	// Reload with author information.
	if created, err := h.content.GetPost(ctx, post.ID); err == nil {
		post = *created
	}

	c.JSON(http.StatusCreated, post)
}

// assembleComments fetches a post's comments once and builds the reply
// forest with batched per-comment like counts. Writes the error response
// itself and reports ok=false on failure.
func (h *PostHandler) assembleComments(c *gin.Context, postID int) ([]gin.H, bool) {
	ctx := c.Request.Context()

	comments, err := h.content.ListCommentsForPost(ctx, postID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return nil, false
	}

	forest, err := engagement.Assemble(comments)
	if err != nil {
		if errors.Is(err, engagement.ErrCommentCycle) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Comment thread is corrupted"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble comments"})
		return nil, false
	}

	commentIDs := make([]int, len(comments))
	for i, comment := range comments {
		commentIDs[i] = comment.ID
	}
	likeCounts, err := h.ledger.CountMany(ctx, models.TargetComment, commentIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch like counts"})
		return nil, false
	}

	return renderForest(forest, likeCounts), true
}

func renderForest(nodes []engagement.CommentNode, likeCounts map[int]int64) []gin.H {
	out := make([]gin.H, 0, len(nodes))
	for _, node := range nodes {
		comment := node.Comment
		out = append(out, gin.H{
			"id":         comment.ID,
			"body":       comment.Body,
			"author_id":  comment.AuthorID,
			"user":       comment.User,
			"post_id":    comment.PostID,
			"parent_id":  comment.ParentID,
			"like_count": likeCounts[comment.ID],
			"replies":    renderForest(node.Replies, likeCounts),
			"created_at": comment.CreatedAt,
			"updated_at": comment.UpdatedAt,
		})
	}
	return out
}
