package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	db := setupTestDB(t)
	users := newUserRepo(db)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	author := createUser(t, users, "nina")

	post := createPost(t, repo, author.ID)
	assert.NotEqual(t, uuid.Nil, post.ID)
	assert.False(t, post.PostedOn.IsZero())

	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dhaka", got.Location)
	require.NotNil(t, got.Author)
	assert.Equal(t, "nina's post", got.String())

	second := createPost(t, repo, author.ID)
	assert.NotEqual(t, post.ID, second.ID)
}

func TestCreatePostErrors(t *testing.T) {
	db := setupTestDB(t)
	users := newUserRepo(db)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	author := createUser(t, users, "omar")

	tests := []struct {
		name    string
		req     models.CreatePostRequest
		wantErr error
	}{
		{
			name:    "unknown author",
			req:     models.CreatePostRequest{AuthorID: 9999, Photo: "uploads/a.jpg", Picture: "images/a.jpg"},
			wantErr: models.ErrIntegrity,
		},
		{
			name:    "missing photo",
			req:     models.CreatePostRequest{AuthorID: author.ID, Picture: "images/a.jpg"},
			wantErr: models.ErrValidation,
		},
		{
			name:    "location too long",
			req:     models.CreatePostRequest{AuthorID: author.ID, Photo: "uploads/a.jpg", Picture: "images/a.jpg", Location: "a place whose name is longer than thirty"},
			wantErr: models.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.CreatePost(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, int64(0), countRows(t, db, "posts", ""))
}

func TestListPostsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	users := newUserRepo(db)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	author := createUser(t, users, "pia")
	other := createUser(t, users, "quinn")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older := createPost(t, repo, author.ID)
	newest := createPost(t, repo, author.ID)
	middle := createPost(t, repo, other.ID)
	setPostedOn(t, db, "posts", older.ID, base)
	setPostedOn(t, db, "posts", newest.ID, base.Add(2*time.Hour))
	setPostedOn(t, db, "posts", middle.ID, base.Add(time.Hour))

	all, err := repo.ListPosts(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, older.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	page, err := repo.ListPosts(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, middle.ID, page[0].ID)

	mine, err := repo.ListPostsByAuthor(ctx, author.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newest.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)

	none, err := repo.ListPostsByAuthor(ctx, 4242, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLikes(t *testing.T) {
	db := setupTestDB(t)
	users := newUserRepo(db)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()
	author := createUser(t, users, "rex")
	fan := createUser(t, users, "sam")
	post := createPost(t, repo, author.ID)

	n, err := repo.NumberOfLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	require.NoError(t, repo.LikePost(ctx, post.ID, fan.ID))
	require.NoError(t, repo.LikePost(ctx, post.ID, fan.ID))
	n, err = repo.NumberOfLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.LikePost(ctx, post.ID, author.ID))
	n, err = repo.NumberOfLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	liked, err := repo.HasLiked(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	likers, err := repo.ListLikers(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, likers, 2)

	require.NoError(t, repo.UnlikePost(ctx, post.ID, fan.ID))
	liked, err = repo.HasLiked(ctx, post.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	n, err = repo.NumberOfLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// unliking a post that was never liked is a no-op
	require.NoError(t, repo.UnlikePost(ctx, post.ID, fan.ID))

	assert.ErrorIs(t, repo.LikePost(ctx, uuid.New(), fan.ID), models.ErrIntegrity)
	assert.ErrorIs(t, repo.LikePost(ctx, post.ID, 31337), models.ErrIntegrity)
}

func TestDeletePostCascades(t *testing.T) {
	db := setupTestDB(t)
	users := newUserRepo(db)
	repo := NewPostgresPostRepository(db)
	comments := NewPostgresCommentRepository(db)
	ctx := context.Background()
	author := createUser(t, users, "tom")
	fan := createUser(t, users, "uma")
	doomed := createPost(t, repo, author.ID)
	kept := createPost(t, repo, author.ID)

	for _, p := range []*models.Post{doomed, kept} {
		_, err := comments.CreateComment(ctx, models.CreateCommentRequest{AuthorID: fan.ID, PostID: p.ID, Text: "wow"})
		require.NoError(t, err)
		require.NoError(t, repo.LikePost(ctx, p.ID, fan.ID))
	}

	require.NoError(t, repo.DeletePost(ctx, doomed.ID))

	_, err := repo.GetPostByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, int64(0), countRows(t, db, "comments", "post_id = ?", doomed.ID))
	assert.Equal(t, int64(0), countRows(t, db, "post_likes", "post_id = ?", doomed.ID))

	assert.Equal(t, int64(1), countRows(t, db, "comments", "post_id = ?", kept.ID))
	n, err := repo.NumberOfLikes(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// the liker and the author survive
	_, err = users.GetUserByID(ctx, fan.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, repo.DeletePost(ctx, doomed.ID), models.ErrNotFound)
}
