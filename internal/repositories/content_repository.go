package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/mirrelia/community-feed/backend/internal/models"
)

// ContentRepository holds the content lookups the engagement core and the
// API layer consume: single-record fetches, the ordered comment listing the
// tree assembler expects, and the batched resolutions the karma aggregator
// relies on to stay clear of per-like queries.
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *ContentRepository) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *ContentRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *ContentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListPosts returns the newest posts with their authors, capped at limit.
func (r *ContentRepository) ListPosts(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("User").
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListCommentsForPost returns all comments on a post in chronological order,
// the order the tree assembler preserves at every depth.
func (r *ContentRepository) ListCommentsForPost(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error
	return comments, err
}

// CountCommentsForPosts returns per-post comment counts (all depths) for a
// batch of posts in a single grouped query. Posts with no comments are absent
// from the map.
func (r *ContentRepository) CountCommentsForPosts(ctx context.Context, postIDs []int) (map[int]int64, error) {
	counts := make(map[int]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		PostID int
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("post_id", "COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

// BatchResolveAuthors maps target ids of one kind to their author ids in a
// single query. Ids that no longer exist are simply absent from the map.
func (r *ContentRepository) BatchResolveAuthors(ctx context.Context, kind models.TargetKind, ids []int) (map[int]int, error) {
	authors := make(map[int]int, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	query := r.db.WithContext(ctx)
	switch kind {
	case models.TargetPost:
		query = query.Model(&models.Post{})
	case models.TargetComment:
		query = query.Model(&models.Comment{})
	default:
		return authors, nil
	}

	var rows []struct {
		ID       int
		AuthorID int
	}
	if err := query.Select("id", "author_id").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		authors[row.ID] = row.AuthorID
	}
	return authors, nil
}

// UsersByID fetches a batch of users keyed by id.
func (r *ContentRepository) UsersByID(ctx context.Context, ids []int) (map[int]models.User, error) {
	users := make(map[int]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, user := range rows {
		users[user.ID] = user
	}
	return users, nil
}
