package repositories

import (
	"context"

	"github.com/anonto42/snapgram/backend/internal/metrics"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoryRepository defines the interface for story operations
type StoryRepository interface {
	CreateStory(ctx context.Context, req models.CreateStoryRequest) (*models.Story, error)
	GetStoryByID(ctx context.Context, id uuid.UUID) (*models.Story, error)
	ListStoriesByAuthor(ctx context.Context, authorID uint) ([]models.Story, error)
	DeleteStory(ctx context.Context, id uuid.UUID) error
	AddView(ctx context.Context, storyID uuid.UUID, userID uint) error
	AddTag(ctx context.Context, storyID uuid.UUID, userID uint) error
	RemoveTag(ctx context.Context, storyID uuid.UUID, userID uint) error
	ListViewers(ctx context.Context, storyID uuid.UUID) ([]models.User, error)
	ListTagged(ctx context.Context, storyID uuid.UUID) ([]models.User, error)
	NumberOfViews(ctx context.Context, storyID uuid.UUID) (int64, error)
	NumberOfTags(ctx context.Context, storyID uuid.UUID) (int64, error)
}

type storyRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) CreateStory(ctx context.Context, req models.CreateStoryRequest) (*models.Story, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	story := &models.Story{
		AuthorID:   req.AuthorID,
		StoryImage: req.StoryImage,
	}

	defer metrics.TrackQuery("create", "stories")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, req.AuthorID); err != nil {
			return err
		}
		if err := tx.Omit("Author", "Views", "Tagged").Create(story).Error; err != nil {
			return translateError(err, "story", story.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordsCreated.WithLabelValues("story").Inc()
	return story, nil
}

func (r *storyRepository) GetStoryByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	var story models.Story
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&story).Error; err != nil {
		return nil, translateError(err, "story", id)
	}
	return &story, nil
}

func (r *storyRepository) ListStoriesByAuthor(ctx context.Context, authorID uint) ([]models.Story, error) {
	stories := []models.Story{}
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("posted_on DESC").
		Find(&stories).Error
	if err != nil {
		return nil, translateError(err, "story", authorID)
	}
	return stories, nil
}

func (r *storyRepository) DeleteStory(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireFound(tx, &models.Story{}, "story", id); err != nil {
			return err
		}
		return deleteStories(tx, []uuid.UUID{id})
	})
	if err != nil {
		return err
	}
	metrics.RecordsDeleted.WithLabelValues("story").Inc()
	return nil
}

// deleteStories removes stories with their view and tag rows.
func deleteStories(tx *gorm.DB, ids []uuid.UUID) error {
	if err := viewsEdge.purgeOwners(tx, ids); err != nil {
		return err
	}
	if err := taggedEdge.purgeOwners(tx, ids); err != nil {
		return err
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Story{}).Error; err != nil {
		return translateError(err, "story", ids)
	}
	return nil
}

func (r *storyRepository) addStoryEdge(ctx context.Context, e edgeSet, storyID uuid.UUID, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Story{}, "story", storyID); err != nil {
			return err
		}
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		return e.add(tx, storyID, userID)
	})
}

// AddView marks the story as seen by userID; repeated views count once
func (r *storyRepository) AddView(ctx context.Context, storyID uuid.UUID, userID uint) error {
	return r.addStoryEdge(ctx, viewsEdge, storyID, userID)
}

func (r *storyRepository) AddTag(ctx context.Context, storyID uuid.UUID, userID uint) error {
	return r.addStoryEdge(ctx, taggedEdge, storyID, userID)
}

func (r *storyRepository) RemoveTag(ctx context.Context, storyID uuid.UUID, userID uint) error {
	_, err := taggedEdge.remove(r.db.WithContext(ctx), storyID, userID)
	return err
}

func (r *storyRepository) ListViewers(ctx context.Context, storyID uuid.UUID) ([]models.User, error) {
	return viewsEdge.peers(r.db.WithContext(ctx), storyID)
}

func (r *storyRepository) ListTagged(ctx context.Context, storyID uuid.UUID) ([]models.User, error) {
	return taggedEdge.peers(r.db.WithContext(ctx), storyID)
}

func (r *storyRepository) NumberOfViews(ctx context.Context, storyID uuid.UUID) (int64, error) {
	return viewsEdge.count(r.db.WithContext(ctx), storyID)
}

func (r *storyRepository) NumberOfTags(ctx context.Context, storyID uuid.UUID) (int64, error) {
	return taggedEdge.count(r.db.WithContext(ctx), storyID)
}
