package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, models.ErrNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), models.ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, models.ErrIntegrity},
		{"foreign key", gorm.ErrForeignKeyViolated, models.ErrIntegrity},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, models.ErrIntegrity},
		{"pg foreign key violation", &pgconn.PgError{Code: "23503"}, models.ErrIntegrity},
		{"pg other", &pgconn.PgError{Code: "42P01"}, models.ErrInternal},
		{"sqlite unique", errors.New("UNIQUE constraint failed: users.username"), models.ErrIntegrity},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), models.ErrIntegrity},
		{"anything else", errors.New("connection reset by peer"), models.ErrInternal},
		{"app error passes through", models.NewValidationError("bad"), models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err, "user", 1)
			assert.ErrorIs(t, got, tt.want)
		})
	}

	assert.NoError(t, translateError(nil, "user", 1))
	assert.Equal(t, "user with ID 7 not found", translateError(gorm.ErrRecordNotFound, "user", 7).Error())
}

func TestValidateStruct(t *testing.T) {
	err := validateStruct(models.CreatePostRequest{AuthorID: 1, Photo: "p", Picture: "q", Location: "this location is far too long for the column"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "Location failed on the 'max=30' rule", err.Error())

	err = validateStruct(models.CreateCommentRequest{AuthorID: 1})
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.NoError(t, validateStruct(models.CreateStoryRequest{AuthorID: 1}))
}

func TestNormalizeEmail(t *testing.T) {
	tests := map[string]string{
		"Bob@Example.COM":       "Bob@example.com",
		"  carol@MAIL.org ":     "carol@mail.org",
		"odd@name@Host.IO":      "odd@name@host.io",
		"no-at-sign":            "no-at-sign",
		"already@lower.example": "already@lower.example",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeEmail(in), in)
	}
}
