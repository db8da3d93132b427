package community

import (
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	pkgpagination "github.com/bernardo0921/AgriGuide-Backend/pkg/pagination"
	"github.com/google/uuid"
)

// AuthorDTO is the compact user shape embedded in feed payloads.
type AuthorDTO struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	FullName          string    `json:"full_name"`
	UserType          string    `json:"user_type"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
}

// PostDTO is a feed post with its derived counts.
type PostDTO struct {
	ID            uuid.UUID  `json:"id"`
	Author        *AuthorDTO `json:"author"`
	Content       string     `json:"content"`
	ImageURL      *string    `json:"image_url"`
	Tags          []string   `json:"tags"`
	LikesCount    int64      `json:"likes_count"`
	CommentsCount int64      `json:"comments_count"`
	LikedByMe     bool       `json:"liked_by_me"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CommentDTO is a single comment on a post.
type CommentDTO struct {
	ID        uuid.UUID  `json:"id"`
	PostID    uuid.UUID  `json:"post_id"`
	Author    *AuthorDTO `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LikeResultDTO reports the post's like state after a toggle.
type LikeResultDTO struct {
	PostID     uuid.UUID `json:"post_id"`
	Liked      bool      `json:"liked"`
	LikesCount int64     `json:"likes_count"`
}

// CreatePostRequest is the payload for creating a feed post.
type CreatePostRequest struct {
	Content  string   `json:"content" validate:"required"`
	ImageKey *string  `json:"image_key,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// UpdatePostRequest carries partial post edits. Nil fields are untouched.
type UpdatePostRequest struct {
	Content  *string   `json:"content,omitempty"`
	ImageKey *string   `json:"image_key,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// CreateCommentRequest is the payload for commenting on a post.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// ListParams filters and paginates the feed.
type ListParams struct {
	Search   string
	AuthorID *uuid.UUID
	pkgpagination.Params
}

// ListResult is one feed page plus the cursor for the next.
type ListResult struct {
	Items  []PostDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

type listQuery struct {
	search   string
	authorID *uuid.UUID
	limit    int
	cursor   *pkgpagination.Cursor
}

func toAuthorDTO(u *models.User, pictureURL *string) *AuthorDTO {
	if u == nil {
		return nil
	}
	return &AuthorDTO{
		ID:                u.ID,
		Username:          u.Username,
		FullName:          u.FullName(),
		UserType:          string(u.UserType),
		ProfilePictureURL: pictureURL,
	}
}
