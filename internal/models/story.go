package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultStoryImage is used when a story is created without an upload
const DefaultStoryImage = "story.png"

// Story is short-lived media with its own viewer and tag edge sets
type Story struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AuthorID   uint      `json:"author_id" gorm:"not null;index"`
	Author     *User     `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	PostedOn   time.Time `json:"posted_on" gorm:"autoCreateTime;<-:create;index"`
	StoryImage string    `json:"story_image" gorm:"size:255;default:story.png"`

	Views  []*User `json:"-" gorm:"many2many:story_views;joinForeignKey:StoryID;joinReferences:UserID"`
	Tagged []*User `json:"-" gorm:"many2many:story_tagged;joinForeignKey:StoryID;joinReferences:UserID"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.StoryImage == "" {
		s.StoryImage = DefaultStoryImage
	}
	return nil
}

func (s *Story) String() string {
	return fmt.Sprintf("%s's story", authorName(s.Author))
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	AuthorID   uint   `json:"author_id" validate:"required"`
	StoryImage string `json:"story_image" validate:"max=255"`
}
