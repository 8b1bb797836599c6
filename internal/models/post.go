package models

import "time"

type Post struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"not null" json:"content"`
	AuthorID int    `gorm:"index" json:"author_id"`
	User     User   `gorm:"foreignKey:AuthorID" json:"user"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}
