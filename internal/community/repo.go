package community

import (
	"context"
	"strings"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes community post, like, and comment persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a community repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreatePost inserts a post row.
func (r *Repository) CreatePost(ctx context.Context, post *models.CommunityPost) (*models.CommunityPost, error) {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// FindPost loads a single post with its author preloaded.
func (r *Repository) FindPost(ctx context.Context, id uuid.UUID) (*models.CommunityPost, error) {
	var post models.CommunityPost
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns feed posts using cursor pagination, newest first. A search
// term matches post content, tags, and author names.
func (r *Repository) ListPosts(ctx context.Context, opts listQuery) ([]models.CommunityPost, error) {
	query := r.db.WithContext(ctx).Model(&models.CommunityPost{}).Preload("Author")

	if opts.authorID != nil {
		query = query.Where("author_id = ?", *opts.authorID)
	}
	if search := strings.TrimSpace(opts.search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.
			Joins("JOIN users ON users.id = community_posts.author_id").
			Where(
				"(LOWER(community_posts.content) LIKE ? OR LOWER(CAST(community_posts.tags AS TEXT)) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR LOWER(users.username) LIKE ?)",
				pattern, pattern, pattern, pattern, pattern,
			)
	}
	if opts.cursor != nil {
		query = query.Where(
			"(community_posts.created_at < ?) OR (community_posts.created_at = ? AND community_posts.id < ?)",
			opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID,
		)
	}

	query = query.Order("community_posts.created_at DESC").Order("community_posts.id DESC").Limit(opts.limit)

	var rows []models.CommunityPost
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdatePost applies partial column updates to a post.
func (r *Repository) UpdatePost(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.CommunityPost{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// DeletePost removes a post. Likes and comments go with it via FK cascade.
func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CommunityPost{}, "id = ?", id).Error
}

// InsertLike attempts to add a like. The unique (user, post) constraint plus
// DO NOTHING turns a duplicate insert into a zero-row no-op, which the
// caller reads as "already liked".
func (r *Repository) InsertLike(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	like := models.PostLike{ID: uuid.New(), UserID: userID, PostID: postID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteLike removes a user's like from a post.
func (r *Repository) DeleteLike(ctx context.Context, userID, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.PostLike{}).Error
}

// CountLikes returns the live like count for a post.
func (r *Repository) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

type postCounts struct {
	PostID uuid.UUID
	Total  int64
}

// LikeCounts returns like totals for a page of posts in one query.
func (r *Repository) LikeCounts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countsByPost(ctx, &models.PostLike{}, postIDs)
}

// CommentCounts returns comment totals for a page of posts in one query.
func (r *Repository) CommentCounts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countsByPost(ctx, &models.PostComment{}, postIDs)
}

func (r *Repository) countsByPost(ctx context.Context, model any, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []postCounts
	err := r.db.WithContext(ctx).
		Model(model).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

// LikedPostIDs returns which of the given posts the user has liked.
func (r *Repository) LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// CreateComment inserts a comment row.
func (r *Repository) CreateComment(ctx context.Context, comment *models.PostComment) (*models.PostComment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// FindComment loads a single comment.
func (r *Repository) FindComment(ctx context.Context, id uuid.UUID) (*models.PostComment, error) {
	var comment models.PostComment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns a post's comments oldest first with authors preloaded.
func (r *Repository) ListComments(ctx context.Context, postID uuid.UUID) ([]models.PostComment, error) {
	var rows []models.PostComment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteComment removes a comment row.
func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PostComment{}, "id = ?", id).Error
}
