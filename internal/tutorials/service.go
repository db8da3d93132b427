package tutorials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bernardo0921/AgriGuide-Backend/internal/media"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	pkgpagination "github.com/bernardo0921/AgriGuide-Backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tutorialsRepository interface {
	Create(ctx context.Context, tutorial *models.Tutorial) (*models.Tutorial, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tutorial, error)
	List(ctx context.Context, opts listQuery) ([]models.Tutorial, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type mediaService interface {
	Upload(ctx context.Context, kind enums.MediaKind, filename string, size int64, body io.Reader) (*media.UploadResult, error)
	Delete(ctx context.Context, key string) error
	ResolveURL(key *string) *string
}

// Service exposes the tutorial catalog operations.
type Service interface {
	Create(ctx context.Context, uploaderID uuid.UUID, uploaderType enums.UserType, req CreateTutorialRequest) (*TutorialDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TutorialDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateTutorialRequest) (*TutorialDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) (*TutorialDTO, error)
	Categories() []CategoryDTO
}

type service struct {
	repo  tutorialsRepository
	media mediaService
}

// NewService builds a tutorial service backed by the repository and media store.
func NewService(repo tutorialsRepository, mediaSvc mediaService) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tutorials repository required")
	}
	if mediaSvc == nil {
		return nil, fmt.Errorf("media service required")
	}
	return &service{repo: repo, media: mediaSvc}, nil
}

func (s *service) Create(ctx context.Context, uploaderID uuid.UUID, uploaderType enums.UserType, req CreateTutorialRequest) (*TutorialDTO, error) {
	if uploaderType != enums.UserTypeExtensionWorker {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only extension workers can upload tutorials")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	category, err := enums.ParseTutorialCategory(req.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tutorial category")
	}
	if req.Video == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video file is required")
	}

	videoResult, err := s.media.Upload(ctx, enums.MediaKindTutorialVideo, req.Video.Filename, req.Video.Size, req.Video.Body)
	if err != nil {
		return nil, err
	}
	var thumbnailKey *string
	if req.Thumbnail != nil {
		thumbResult, err := s.media.Upload(ctx, enums.MediaKindTutorialThumbnail, req.Thumbnail.Filename, req.Thumbnail.Size, req.Thumbnail.Body)
		if err != nil {
			return nil, err
		}
		thumbnailKey = &thumbResult.Key
	}

	tutorial := &models.Tutorial{
		UploaderID:   uploaderID,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		Category:     category,
		VideoKey:     videoResult.Key,
		ThumbnailKey: thumbnailKey,
	}
	if _, err := s.repo.Create(ctx, tutorial); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create tutorial")
	}
	return s.Get(ctx, tutorial.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TutorialDTO, error) {
	tutorial, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(tutorial)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	category, err := CategoryFilter(params.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tutorial category")
	}
	cursor, err := pkgpagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pkgpagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, listQuery{
		search:     params.Search,
		category:   category,
		uploaderID: params.UploaderID,
		limit:      limit + 1,
		cursor:     cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tutorials")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items := make([]TutorialDTO, 0, len(rows))
	for i := range rows {
		items = append(items, s.toDTO(&rows[i]))
	}
	return &ListResult{Items: items, Cursor: nextCursor}, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateTutorialRequest) (*TutorialDTO, error) {
	tutorial, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if tutorial.UploaderID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the uploader can edit this tutorial")
	}

	fields := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		category, err := enums.ParseTutorialCategory(*req.Category)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tutorial category")
		}
		fields["category"] = category
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update tutorial")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tutorial, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if tutorial.UploaderID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the uploader can delete this tutorial")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete tutorial")
	}

	// Best effort. Orphaned objects are cheaper than a failed delete.
	_ = s.media.Delete(ctx, tutorial.VideoKey)
	if tutorial.ThumbnailKey != nil {
		_ = s.media.Delete(ctx, *tutorial.ThumbnailKey)
	}
	return nil
}

func (s *service) IncrementViews(ctx context.Context, id uuid.UUID) (*TutorialDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment views")
	}
	return s.Get(ctx, id)
}

func (s *service) Categories() []CategoryDTO {
	categories := enums.TutorialCategories()
	out := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		out = append(out, CategoryDTO{Value: category.String(), Label: category.Label()})
	}
	return out
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Tutorial, error) {
	tutorial, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tutorial not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find tutorial")
	}
	return tutorial, nil
}

func (s *service) toDTO(tutorial *models.Tutorial) TutorialDTO {
	videoKey := tutorial.VideoKey
	return TutorialDTO{
		ID:            tutorial.ID,
		Uploader:      toUploaderDTO(tutorial.Uploader),
		Title:         tutorial.Title,
		Description:   tutorial.Description,
		Category:      tutorial.Category.String(),
		CategoryLabel: tutorial.Category.Label(),
		VideoURL:      s.media.ResolveURL(&videoKey),
		ThumbnailURL:  s.media.ResolveURL(tutorial.ThumbnailKey),
		ViewCount:     tutorial.ViewCount,
		CreatedAt:     tutorial.CreatedAt,
		UpdatedAt:     tutorial.UpdatedAt,
	}
}
