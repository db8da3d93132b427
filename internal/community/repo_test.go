package community

import (
	"context"
	"testing"
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	dbtypes "github.com/bernardo0921/AgriGuide-Backend/pkg/db/types"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCommunityTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  phone_number TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  user_type TEXT NOT NULL DEFAULT 'farmer',
  profile_picture_key TEXT,
  is_verified INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	posts := `
CREATE TABLE IF NOT EXISTS community_posts (
  id TEXT PRIMARY KEY,
  author_id TEXT NOT NULL,
  content TEXT NOT NULL,
  image_key TEXT,
  tags TEXT NOT NULL DEFAULT '[]',
  created_at DATETIME,
  updated_at DATETIME
);`
	likes := `
CREATE TABLE IF NOT EXISTS post_likes (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  post_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, post_id)
);`
	comments := `
CREATE TABLE IF NOT EXISTS post_comments (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  post_id TEXT NOT NULL,
  content TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(posts).Error)
	require.NoError(t, db.Exec(likes).Error)
	require.NoError(t, db.Exec(comments).Error)
	return db
}

func newCommunityUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PhoneNumber:  "+233" + uuid.NewString()[:9],
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		UserType:     enums.UserTypeFarmer,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newPost(t *testing.T, db *gorm.DB, author *models.User, content string, created time.Time, tags ...string) *models.CommunityPost {
	t.Helper()

	post := &models.CommunityPost{
		ID:        uuid.New(),
		AuthorID:  author.ID,
		Content:   content,
		Tags:      dbtypes.StringArray(tags),
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestInsertLikeIsIdempotent(t *testing.T) {
	db := setupCommunityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := newCommunityUser(t, db, "likes-author")
	liker := newCommunityUser(t, db, "likes-liker")
	post := newPost(t, db, author, "first harvest in", time.Now().UTC())

	inserted, err := repo.InsertLike(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertLike(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, inserted, "duplicate like must be a no-op")

	count, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.DeleteLike(ctx, liker.ID, post.ID))
	count, err = repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestLikeAndCommentCountsPerPost(t *testing.T) {
	db := setupCommunityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := newCommunityUser(t, db, "counts-author")
	post := newPost(t, db, author, "counting demo", time.Now().UTC())
	other := newPost(t, db, author, "quiet post", time.Now().UTC())

	likerIDs := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		liker := newCommunityUser(t, db, "counts-liker-"+uuid.NewString()[:8])
		inserted, err := repo.InsertLike(ctx, liker.ID, post.ID)
		require.NoError(t, err)
		require.True(t, inserted)
		likerIDs = append(likerIDs, liker.ID)
	}
	_, err := repo.CreateComment(ctx, &models.PostComment{
		ID:      uuid.New(),
		UserID:  likerIDs[0],
		PostID:  post.ID,
		Content: "congrats",
	})
	require.NoError(t, err)

	likes, err := repo.LikeCounts(ctx, []uuid.UUID{post.ID, other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), likes[post.ID])
	assert.Equal(t, int64(0), likes[other.ID])

	comments, err := repo.CommentCounts(ctx, []uuid.UUID{post.ID, other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), comments[post.ID])

	liked, err := repo.LikedPostIDs(ctx, likerIDs[0], []uuid.UUID{post.ID, other.ID})
	require.NoError(t, err)
	assert.True(t, liked[post.ID])
	assert.False(t, liked[other.ID])
}

func TestListPostsPaginatesNewestFirst(t *testing.T) {
	db := setupCommunityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := newCommunityUser(t, db, "page-author")
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	oldest := newPost(t, db, author, "page oldest", base)
	middle := newPost(t, db, author, "page middle", base.Add(time.Hour))
	newest := newPost(t, db, author, "page newest", base.Add(2*time.Hour))

	rows, err := repo.ListPosts(ctx, listQuery{authorID: &author.ID, limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)
	require.NotNil(t, rows[0].Author)
	assert.Equal(t, author.Username, rows[0].Author.Username)

	_ = oldest
}

func TestListPostsSearchesContentTagsAndAuthor(t *testing.T) {
	db := setupCommunityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	kofi := newCommunityUser(t, db, "search-kofi")
	kofi.FirstName = "Kofi"
	kofi.LastName = "Asante"
	require.NoError(t, db.Save(kofi).Error)
	ama := newCommunityUser(t, db, "search-ama")

	when := time.Now().UTC()
	maizePost := newPost(t, db, kofi, "Maize is doing well this season", when)
	tagPost := newPost(t, db, ama, "see photos", when.Add(time.Second), "irrigation")
	newPost(t, db, ama, "unrelated", when.Add(2*time.Second))

	rows, err := repo.ListPosts(ctx, listQuery{search: "maize", limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, maizePost.ID, rows[0].ID)

	rows, err = repo.ListPosts(ctx, listQuery{search: "IRRIGATION", limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tagPost.ID, rows[0].ID)

	rows, err = repo.ListPosts(ctx, listQuery{search: "asante", limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, maizePost.ID, rows[0].ID)
}

func TestListCommentsOldestFirst(t *testing.T) {
	db := setupCommunityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := newCommunityUser(t, db, "comments-author")
	post := newPost(t, db, author, "ask me anything", time.Now().UTC())

	base := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		comment := &models.PostComment{
			ID:        uuid.New(),
			UserID:    author.ID,
			PostID:    post.ID,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(comment).Error)
	}

	rows, err := repo.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[0].Content)
	assert.Equal(t, "third", rows[2].Content)
	require.NotNil(t, rows[0].User)
	assert.Equal(t, author.ID, rows[0].User.ID)
}

func TestDeletePostRemovesRow(t *testing.T) {
	db := setupCommunityTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	author := newCommunityUser(t, db, "delete-author")
	post := newPost(t, db, author, "short lived", time.Now().UTC())

	require.NoError(t, repo.DeletePost(ctx, post.ID))
	_, err := repo.FindPost(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
