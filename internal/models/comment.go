package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Comment represents a reply on a post; it goes away with its author or its post
type Comment struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	Author   *User     `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	PostID   uuid.UUID `json:"post_id" gorm:"type:uuid;not null;index"`
	Text     string    `json:"text" gorm:"type:text;not null" validate:"required,max=50"`
	PostedOn time.Time `json:"posted_on" gorm:"autoCreateTime;<-:create;index"`
}

func (c *Comment) String() string {
	return fmt.Sprintf("%s's comment", authorName(c.Author))
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	AuthorID uint      `json:"author_id" validate:"required"`
	PostID   uuid.UUID `json:"post_id" validate:"required"`
	Text     string    `json:"text" validate:"required,max=50"`
}
