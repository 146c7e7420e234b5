package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/snapgram/backend/internal/metrics"
	"github.com/anonto42/snapgram/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UploadRepository defines the manifest of generated storage paths
type UploadRepository interface {
	EnsureIndexes(ctx context.Context) error
	Record(ctx context.Context, upload *models.Upload) error
	GetByPath(ctx context.Context, path string) (*models.Upload, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Upload, error)
	DeleteByOwner(ctx context.Context, ownerID uint) (int64, error)
}

// MongoUploadRepository implements UploadRepository for MongoDB
type MongoUploadRepository struct {
	collection *mongo.Collection
}

// NewMongoUploadRepository creates a new MongoUploadRepository
func NewMongoUploadRepository(db *mongo.Database) *MongoUploadRepository {
	return &MongoUploadRepository{collection: db.Collection("uploads")}
}

// EnsureIndexes makes path unique and owner lookups indexed
func (r *MongoUploadRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "path", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

// Record inserts the upload; a path that is already recorded is an integrity error
func (r *MongoUploadRepository) Record(ctx context.Context, upload *models.Upload) error {
	upload.ID = primitive.NewObjectID()
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, upload); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewIntegrityError("upload path already recorded", err)
		}
		return models.NewInternalError(err)
	}
	metrics.RecordsCreated.WithLabelValues("upload").Inc()
	return nil
}

// GetByPath retrieves the manifest entry for a storage path
func (r *MongoUploadRepository) GetByPath(ctx context.Context, path string) (*models.Upload, error) {
	var upload models.Upload
	err := r.collection.FindOne(ctx, bson.M{"path": path}).Decode(&upload)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("upload", path)
		}
		return nil, models.NewInternalError(err)
	}
	return &upload, nil
}

// ListByOwner returns the owner's uploads, newest first
func (r *MongoUploadRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Upload, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	uploads := []models.Upload{}
	if err = cursor.All(ctx, &uploads); err != nil {
		return nil, models.NewInternalError(err)
	}
	return uploads, nil
}

// DeleteByOwner drops the owner's manifest entries, e.g. after the account is deleted
func (r *MongoUploadRepository) DeleteByOwner(ctx context.Context, ownerID uint) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, models.NewInternalError(fmt.Errorf("delete uploads of owner %d: %w", ownerID, err))
	}
	return res.DeletedCount, nil
}
