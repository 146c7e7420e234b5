package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/anonto42/snapgram/backend/pkg/config"
	"github.com/anonto42/snapgram/backend/pkg/logger"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated in-memory sqlite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig())
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newUserRepo(db *gorm.DB) *PostgresUserRepository {
	return NewPostgresUserRepository(db, bcrypt.MinCost, logger.Discard())
}

// createUser creates a user named name with generated profile data.
func createUser(t *testing.T, repo *PostgresUserRepository, name string) *models.User {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), models.CreateUserRequest{
		Email:    name + "@example.com",
		Username: name,
		Password: "secret-" + name,
		FullName: gofakeit.FirstName() + " " + gofakeit.LastName(),
		Bio:      gofakeit.Sentence(6),
	})
	require.NoError(t, err)
	return user
}

func createPost(t *testing.T, repo *PostgresPostRepository, authorID uint) *models.Post {
	t.Helper()
	post, err := repo.CreatePost(context.Background(), models.CreatePostRequest{
		AuthorID: authorID,
		Photo:    "uploads/photo.jpg",
		Picture:  "images/picture.jpg",
		Text:     gofakeit.Sentence(8),
		Location: "Dhaka",
	})
	require.NoError(t, err)
	return post
}

// setPostedOn rewrites posted_on, which the models only allow on create.
func setPostedOn(t *testing.T, db *gorm.DB, table string, id interface{}, ts time.Time) {
	t.Helper()
	err := db.Exec(fmt.Sprintf("UPDATE %s SET posted_on = ? WHERE id = ?", table), ts, id).Error
	require.NoError(t, err)
}

func countRows(t *testing.T, db *gorm.DB, table, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
