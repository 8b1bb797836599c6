package models

import "time"

// TargetKind is the polymorphic category a like applies to.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Valid reports whether k is one of the two supported kinds.
func (k TargetKind) Valid() bool {
	return k == TargetPost || k == TargetComment
}

// Like is one "user liked target" fact. Created by toggle-on, destroyed by
// toggle-off, never updated in place. The composite unique index makes the
// database arbitrate concurrent writers racing on the same key.
type Like struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	UserID     int        `gorm:"uniqueIndex:idx_like_key;not null" json:"user_id"`
	TargetKind TargetKind `gorm:"uniqueIndex:idx_like_key;type:varchar(16);not null" json:"target_kind"`
	TargetID   int        `gorm:"uniqueIndex:idx_like_key;not null" json:"target_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
