package repositories

import (
	"context"

	"github.com/anonto42/snapgram/backend/internal/metrics"
	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post and like operations
type PostRepository interface {
	CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID uint, skip, limit int) ([]models.Post, error)
	ListPosts(ctx context.Context, skip, limit int) ([]models.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	LikePost(ctx context.Context, postID uuid.UUID, userID uint) error
	UnlikePost(ctx context.Context, postID uuid.UUID, userID uint) error
	HasLiked(ctx context.Context, postID uuid.UUID, userID uint) (bool, error)
	ListLikers(ctx context.Context, postID uuid.UUID) ([]models.User, error)
	NumberOfLikes(ctx context.Context, postID uuid.UUID) (int64, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a post for an existing author
func (r *PostgresPostRepository) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: req.AuthorID,
		Photo:    req.Photo,
		Picture:  req.Picture,
		Text:     req.Text,
		Location: req.Location,
	}

	defer metrics.TrackQuery("create", "posts")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, req.AuthorID); err != nil {
			return err
		}
		if err := tx.Omit("Author", "Likes", "Comments").Create(post).Error; err != nil {
			return translateError(err, "post", post.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordsCreated.WithLabelValues("post").Inc()
	return post, nil
}

// GetPostByID retrieves a post with its author
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translateError(err, "post", id)
	}
	return &post, nil
}

// ListPostsByAuthor returns the author's posts, newest first
func (r *PostgresPostRepository) ListPostsByAuthor(ctx context.Context, authorID uint, skip, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	err := paginate(r.db.WithContext(ctx), skip, limit).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("posted_on DESC").
		Find(&posts).Error
	if err != nil {
		return nil, translateError(err, "post", authorID)
	}
	return posts, nil
}

// ListPosts returns every post, newest first
func (r *PostgresPostRepository) ListPosts(ctx context.Context, skip, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	err := paginate(r.db.WithContext(ctx), skip, limit).
		Preload("Author").
		Order("posted_on DESC").
		Find(&posts).Error
	if err != nil {
		return nil, translateError(err, "post", nil)
	}
	return posts, nil
}

// DeletePost deletes a post together with its comments and likes
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireFound(tx, &models.Post{}, "post", id); err != nil {
			return err
		}
		return deletePosts(tx, []uuid.UUID{id})
	})
	if err != nil {
		return err
	}
	metrics.RecordsDeleted.WithLabelValues("post").Inc()
	return nil
}

// deletePosts removes posts and everything hanging off them.
func deletePosts(tx *gorm.DB, ids []uuid.UUID) error {
	if err := likesEdge.purgeOwners(tx, ids); err != nil {
		return err
	}
	if err := tx.Where("post_id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return translateError(err, "comment", ids)
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Post{}).Error; err != nil {
		return translateError(err, "post", ids)
	}
	return nil
}

// LikePost adds userID to the post's likes; liking twice changes nothing
func (r *PostgresPostRepository) LikePost(ctx context.Context, postID uuid.UUID, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Post{}, "post", postID); err != nil {
			return err
		}
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		return likesEdge.add(tx, postID, userID)
	})
}

func (r *PostgresPostRepository) UnlikePost(ctx context.Context, postID uuid.UUID, userID uint) error {
	_, err := likesEdge.remove(r.db.WithContext(ctx), postID, userID)
	return err
}

// HasLiked checks if a user has liked a specific post
func (r *PostgresPostRepository) HasLiked(ctx context.Context, postID uuid.UUID, userID uint) (bool, error) {
	return likesEdge.has(r.db.WithContext(ctx), postID, userID)
}

func (r *PostgresPostRepository) ListLikers(ctx context.Context, postID uuid.UUID) ([]models.User, error) {
	return likesEdge.peers(r.db.WithContext(ctx), postID)
}

// NumberOfLikes is the size of the post's likes set
func (r *PostgresPostRepository) NumberOfLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	return likesEdge.count(r.db.WithContext(ctx), postID)
}

// paginate applies skip/limit; a non-positive limit means no limit.
func paginate(db *gorm.DB, skip, limit int) *gorm.DB {
	if skip > 0 {
		db = db.Offset(skip)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}
