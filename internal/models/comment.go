package models

import "time"

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Body     string `gorm:"not null" json:"body"`
	AuthorID int    `gorm:"index" json:"author_id"`
	User     User   `gorm:"foreignKey:AuthorID" json:"user"`
	PostID   int    `gorm:"index" json:"post_id"`
	// ParentID is nil for top-level comments. A set ParentID must reference
	// another comment on the same post.
	ParentID *int `gorm:"index" json:"parent_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Body     string `json:"body" binding:"required"`
	ParentID *int   `json:"parent_id,omitempty"`
}
