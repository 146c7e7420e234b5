package repositories

import (
	"context"

	"github.com/anonto42/snapgram/backend/internal/metrics"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error)
	GetCommentByID(ctx context.Context, id uint) (*models.Comment, error)
	ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
	ListCommentsByAuthor(ctx context.Context, authorID uint) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment attaches a comment to an existing post
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID: req.AuthorID,
		PostID:   req.PostID,
		Text:     req.Text,
	}

	defer metrics.TrackQuery("create", "comments")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, req.AuthorID); err != nil {
			return err
		}
		if err := requireRow(tx, &models.Post{}, "post", req.PostID); err != nil {
			return err
		}
		if err := tx.Omit("Author").Create(comment).Error; err != nil {
			return translateError(err, "comment", comment.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordsCreated.WithLabelValues("comment").Inc()
	return comment, nil
}

func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, translateError(err, "comment", id)
	}
	return &comment, nil
}

// ListCommentsByPost returns the post's comments, newest first
func (r *PostgresCommentRepository) ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("posted_on DESC").
		Find(&comments).Error
	if err != nil {
		return nil, translateError(err, "comment", postID)
	}
	return comments, nil
}

// ListCommentsByAuthor returns the author's comments, newest first
func (r *PostgresCommentRepository) ListCommentsByAuthor(ctx context.Context, authorID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("posted_on DESC").
		Find(&comments).Error
	if err != nil {
		return nil, translateError(err, "comment", authorID)
	}
	return comments, nil
}

func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return translateError(res.Error, "comment", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("comment", id)
	}
	metrics.RecordsDeleted.WithLabelValues("comment").Inc()
	return nil
}
