package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is identified by a random UUID
type Post struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	Author   *User     `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	Photo    string    `json:"photo" gorm:"size:255;not null" validate:"required,max=255"`
	Picture  string    `json:"picture" gorm:"size:255;not null" validate:"required,max=255"`
	Text     string    `json:"text" gorm:"type:text" validate:"max=500"`
	Location string    `json:"location" gorm:"size:30" validate:"max=30"`
	PostedOn time.Time `json:"posted_on" gorm:"autoCreateTime;<-:create;index"`

	Likes    []*User   `json:"-" gorm:"many2many:post_likes;joinForeignKey:PostID;joinReferences:UserID"`
	Comments []Comment `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Post) String() string {
	return fmt.Sprintf("%s's post", authorName(p.Author))
}

// CreatePostRequest defines the fields accepted for a new post.
// Photo and Picture are storage paths, see package uploads.
type CreatePostRequest struct {
	AuthorID uint   `json:"author_id" validate:"required"`
	Photo    string `json:"photo" validate:"required,max=255"`
	Picture  string `json:"picture" validate:"required,max=255"`
	Text     string `json:"text" validate:"max=500"`
	Location string `json:"location" validate:"max=30"`
}

func authorName(u *User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
