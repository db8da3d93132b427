package community

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	dbtypes "github.com/bernardo0921/AgriGuide-Backend/pkg/db/types"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	pkgpagination "github.com/bernardo0921/AgriGuide-Backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type communityRepository interface {
	CreatePost(ctx context.Context, post *models.CommunityPost) (*models.CommunityPost, error)
	FindPost(ctx context.Context, id uuid.UUID) (*models.CommunityPost, error)
	ListPosts(ctx context.Context, opts listQuery) ([]models.CommunityPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, fields map[string]any) error
	DeletePost(ctx context.Context, id uuid.UUID) error

	InsertLike(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	DeleteLike(ctx context.Context, userID, postID uuid.UUID) error
	CountLikes(ctx context.Context, postID uuid.UUID) (int64, error)
	LikeCounts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	CommentCounts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	LikedPostIDs(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	CreateComment(ctx context.Context, comment *models.PostComment) (*models.PostComment, error)
	FindComment(ctx context.Context, id uuid.UUID) (*models.PostComment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]models.PostComment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

type pictureResolver interface {
	ResolveURL(key *string) *string
}

// Service exposes the community feed operations.
type Service interface {
	CreatePost(ctx context.Context, userID uuid.UUID, req CreatePostRequest) (*PostDTO, error)
	GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*PostDTO, error)
	ListPosts(ctx context.Context, viewerID uuid.UUID, params ListParams) (*ListResult, error)
	UpdatePost(ctx context.Context, userID, postID uuid.UUID, req UpdatePostRequest) (*PostDTO, error)
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
	ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*LikeResultDTO, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]CommentDTO, error)
	CreateComment(ctx context.Context, userID, postID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error

	PostData(ctx context.Context, postID uuid.UUID) (*PostDTO, error)
	FallbackPage(ctx context.Context, postID uuid.UUID) (*FallbackPageData, error)
	ShareMetadata(ctx context.Context, postID uuid.UUID) (map[string]string, error)
	TrackShare(ctx context.Context, postID uuid.UUID) error
}

type service struct {
	repo     communityRepository
	pictures pictureResolver
}

// NewService builds a community feed service.
func NewService(repo communityRepository, pictures pictureResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("community repository required")
	}
	if pictures == nil {
		return nil, fmt.Errorf("picture resolver required")
	}
	return &service{repo: repo, pictures: pictures}, nil
}

func (s *service) CreatePost(ctx context.Context, userID uuid.UUID, req CreatePostRequest) (*PostDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}

	post := &models.CommunityPost{
		AuthorID: userID,
		Content:  content,
		ImageKey: req.ImageKey,
		Tags:     normalizeTags(req.Tags),
	}
	if _, err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create post")
	}
	return s.GetPost(ctx, userID, post.ID)
}

func (s *service) GetPost(ctx context.Context, viewerID, postID uuid.UUID) (*PostDTO, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.hydrateOne(ctx, viewerID, post)
}

func (s *service) ListPosts(ctx context.Context, viewerID uuid.UUID, params ListParams) (*ListResult, error) {
	cursor, err := pkgpagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pkgpagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListPosts(ctx, listQuery{
		search:   params.Search,
		authorID: params.AuthorID,
		limit:    limit + 1,
		cursor:   cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list posts")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items, err := s.hydrate(ctx, viewerID, rows)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

func (s *service) UpdatePost(ctx context.Context, userID, postID uuid.UUID, req UpdatePostRequest) (*PostDTO, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the author can edit this post")
	}

	fields := map[string]any{}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "content cannot be empty")
		}
		fields["content"] = content
	}
	if req.ImageKey != nil {
		fields["image_key"] = *req.ImageKey
	}
	if req.Tags != nil {
		fields["tags"] = normalizeTags(*req.Tags)
	}
	if err := s.repo.UpdatePost(ctx, postID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update post")
	}
	return s.GetPost(ctx, userID, postID)
}

func (s *service) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the author can delete this post")
	}
	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete post")
	}
	return nil
}

func (s *service) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*LikeResultDTO, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	inserted, err := s.repo.InsertLike(ctx, userID, postID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert like")
	}
	if !inserted {
		if err := s.repo.DeleteLike(ctx, userID, postID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete like")
		}
	}

	count, err := s.repo.CountLikes(ctx, postID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count likes")
	}
	return &LikeResultDTO{PostID: postID, Liked: inserted, LikesCount: count}, nil
}

func (s *service) ListComments(ctx context.Context, postID uuid.UUID) ([]CommentDTO, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list comments")
	}

	items := make([]CommentDTO, 0, len(rows))
	for i := range rows {
		items = append(items, s.toCommentDTO(&rows[i]))
	}
	return items, nil
}

func (s *service) CreateComment(ctx context.Context, userID, postID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.PostComment{UserID: userID, PostID: postID, Content: content}
	if _, err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create comment")
	}
	dto := s.toCommentDTO(comment)
	return &dto, nil
}

func (s *service) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.repo.FindComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find comment")
	}
	if comment.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the author can delete this comment")
	}
	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete comment")
	}
	return nil
}

func (s *service) loadPost(ctx context.Context, postID uuid.UUID) (*models.CommunityPost, error) {
	post, err := s.repo.FindPost(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find post")
	}
	return post, nil
}

func (s *service) hydrateOne(ctx context.Context, viewerID uuid.UUID, post *models.CommunityPost) (*PostDTO, error) {
	items, err := s.hydrate(ctx, viewerID, []models.CommunityPost{*post})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *service) hydrate(ctx context.Context, viewerID uuid.UUID, posts []models.CommunityPost) ([]PostDTO, error) {
	ids := make([]uuid.UUID, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}

	likes, err := s.repo.LikeCounts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count likes")
	}
	comments, err := s.repo.CommentCounts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count comments")
	}
	liked := map[uuid.UUID]bool{}
	if viewerID != uuid.Nil {
		liked, err = s.repo.LikedPostIDs(ctx, viewerID, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load viewer likes")
		}
	}

	items := make([]PostDTO, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		var author *AuthorDTO
		if post.Author != nil {
			author = toAuthorDTO(post.Author, s.pictures.ResolveURL(post.Author.ProfilePictureKey))
		}
		items = append(items, PostDTO{
			ID:            post.ID,
			Author:        author,
			Content:       post.Content,
			ImageURL:      s.pictures.ResolveURL(post.ImageKey),
			Tags:          post.Tags,
			LikesCount:    likes[post.ID],
			CommentsCount: comments[post.ID],
			LikedByMe:     liked[post.ID],
			CreatedAt:     post.CreatedAt,
			UpdatedAt:     post.UpdatedAt,
		})
	}
	return items, nil
}

func (s *service) toCommentDTO(comment *models.PostComment) CommentDTO {
	var author *AuthorDTO
	if comment.User != nil {
		author = toAuthorDTO(comment.User, s.pictures.ResolveURL(comment.User.ProfilePictureKey))
	}
	return CommentDTO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Author:    author,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

func normalizeTags(tags []string) dbtypes.StringArray {
	out := make(dbtypes.StringArray, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.ToLower(tag))
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
