package tutorials

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/bernardo0921/AgriGuide-Backend/internal/media"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubTutorialsRepo struct {
	tutorials map[uuid.UUID]*models.Tutorial

	createCalls int
	deleteCalls int
}

func newStubTutorialsRepo() *stubTutorialsRepo {
	return &stubTutorialsRepo{tutorials: make(map[uuid.UUID]*models.Tutorial)}
}

func (s *stubTutorialsRepo) Create(ctx context.Context, tutorial *models.Tutorial) (*models.Tutorial, error) {
	s.createCalls++
	if tutorial.ID == uuid.Nil {
		tutorial.ID = uuid.New()
	}
	s.tutorials[tutorial.ID] = tutorial
	return tutorial, nil
}

func (s *stubTutorialsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Tutorial, error) {
	tutorial, ok := s.tutorials[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tutorial, nil
}

func (s *stubTutorialsRepo) List(ctx context.Context, opts listQuery) ([]models.Tutorial, error) {
	var rows []models.Tutorial
	for _, tutorial := range s.tutorials {
		rows = append(rows, *tutorial)
	}
	return rows, nil
}

func (s *stubTutorialsRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if tutorial, ok := s.tutorials[id]; ok {
		if title, ok := fields["title"].(string); ok {
			tutorial.Title = title
		}
		if category, ok := fields["category"].(enums.TutorialCategory); ok {
			tutorial.Category = category
		}
	}
	return nil
}

func (s *stubTutorialsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleteCalls++
	delete(s.tutorials, id)
	return nil
}

func (s *stubTutorialsRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if tutorial, ok := s.tutorials[id]; ok {
		tutorial.ViewCount++
	}
	return nil
}

type stubMediaService struct {
	uploads []enums.MediaKind
	deleted []string
	failOn  enums.MediaKind
}

func (s *stubMediaService) Upload(ctx context.Context, kind enums.MediaKind, filename string, size int64, body io.Reader) (*media.UploadResult, error) {
	if s.failOn == kind {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the limit")
	}
	s.uploads = append(s.uploads, kind)
	key := media.KeyPrefix(kind) + "/" + uuid.NewString()
	url := "https://storage.googleapis.com/agriguide/" + key
	return &media.UploadResult{Key: key, URL: &url}, nil
}

func (s *stubMediaService) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubMediaService) ResolveURL(key *string) *string {
	if key == nil {
		return nil
	}
	url := "https://storage.googleapis.com/agriguide/" + *key
	return &url
}

func buildTutorialsService(t *testing.T) (Service, *stubTutorialsRepo, *stubMediaService) {
	t.Helper()
	repo := newStubTutorialsRepo()
	mediaSvc := &stubMediaService{}
	svc, err := NewService(repo, mediaSvc)
	require.NoError(t, err)
	return svc, repo, mediaSvc
}

func createRequest() CreateTutorialRequest {
	return CreateTutorialRequest{
		Title:       "Composting basics",
		Description: "Layering greens and browns",
		Category:    "Soil_Management",
		Video:       &FileInput{Filename: "compost.mp4", Size: 1 << 20, Body: strings.NewReader("v")},
		Thumbnail:   &FileInput{Filename: "compost.jpg", Size: 1 << 18, Body: strings.NewReader("t")},
	}
}

func TestCreateRestrictedToExtensionWorkers(t *testing.T) {
	svc, repo, mediaSvc := buildTutorialsService(t)

	for _, userType := range []enums.UserType{enums.UserTypeFarmer, enums.UserType("admin")} {
		_, err := svc.Create(context.Background(), uuid.New(), userType, createRequest())
		assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code(), "user type %q", userType)
	}
	assert.Zero(t, repo.createCalls, "no row may be created for rejected callers")
	assert.Empty(t, mediaSvc.uploads, "no file may be stored for rejected callers")
}

func TestCreateUploadsVideoAndThumbnail(t *testing.T) {
	svc, repo, mediaSvc := buildTutorialsService(t)

	dto, err := svc.Create(context.Background(), uuid.New(), enums.UserTypeExtensionWorker, createRequest())
	require.NoError(t, err)

	assert.Equal(t, []enums.MediaKind{enums.MediaKindTutorialVideo, enums.MediaKindTutorialThumbnail}, mediaSvc.uploads)
	assert.Equal(t, 1, repo.createCalls)
	assert.Equal(t, "soil_management", dto.Category)
	assert.Equal(t, "Soil Management", dto.CategoryLabel)
	require.NotNil(t, dto.VideoURL)
	require.NotNil(t, dto.ThumbnailURL)
}

func TestCreateValidationFailureCreatesNoRow(t *testing.T) {
	svc, repo, mediaSvc := buildTutorialsService(t)
	mediaSvc.failOn = enums.MediaKindTutorialVideo

	_, err := svc.Create(context.Background(), uuid.New(), enums.UserTypeExtensionWorker, createRequest())
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Zero(t, repo.createCalls)
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc, _, mediaSvc := buildTutorialsService(t)

	req := createRequest()
	req.Category = "astrology"
	_, err := svc.Create(context.Background(), uuid.New(), enums.UserTypeExtensionWorker, req)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, mediaSvc.uploads)
}

func TestUpdateOnlyByUploader(t *testing.T) {
	svc, repo, _ := buildTutorialsService(t)
	uploaderID := uuid.New()
	tutorial := &models.Tutorial{
		ID:         uuid.New(),
		UploaderID: uploaderID,
		Title:      "original",
		Category:   enums.TutorialCategoryCrops,
		VideoKey:   "media/tutorials/videos/a.mp4",
	}
	repo.tutorials[tutorial.ID] = tutorial

	title := "edited"
	_, err := svc.Update(context.Background(), uuid.New(), tutorial.ID, UpdateTutorialRequest{Title: &title})
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
	assert.Equal(t, "original", repo.tutorials[tutorial.ID].Title)

	updated, err := svc.Update(context.Background(), uploaderID, tutorial.ID, UpdateTutorialRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
}

func TestDeleteOnlyByUploaderAndCleansObjects(t *testing.T) {
	svc, repo, mediaSvc := buildTutorialsService(t)
	uploaderID := uuid.New()
	thumb := "media/tutorials/thumbnails/b.jpg"
	tutorial := &models.Tutorial{
		ID:           uuid.New(),
		UploaderID:   uploaderID,
		Title:        "short lived",
		Category:     enums.TutorialCategoryOther,
		VideoKey:     "media/tutorials/videos/b.mp4",
		ThumbnailKey: &thumb,
	}
	repo.tutorials[tutorial.ID] = tutorial

	err := svc.Delete(context.Background(), uuid.New(), tutorial.ID)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
	assert.Zero(t, repo.deleteCalls)

	require.NoError(t, svc.Delete(context.Background(), uploaderID, tutorial.ID))
	assert.Equal(t, []string{"media/tutorials/videos/b.mp4", thumb}, mediaSvc.deleted)
}

func TestIncrementViews(t *testing.T) {
	svc, repo, _ := buildTutorialsService(t)
	tutorial := &models.Tutorial{
		ID:         uuid.New(),
		UploaderID: uuid.New(),
		Title:      "watch me",
		Category:   enums.TutorialCategoryMarketing,
		VideoKey:   "media/tutorials/videos/c.mp4",
	}
	repo.tutorials[tutorial.ID] = tutorial

	dto, err := svc.IncrementViews(context.Background(), tutorial.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dto.ViewCount)

	_, err = svc.IncrementViews(context.Background(), uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCategoriesListing(t *testing.T) {
	svc, _, _ := buildTutorialsService(t)

	categories := svc.Categories()
	require.Len(t, categories, 10)
	assert.Equal(t, CategoryDTO{Value: "crops", Label: "Crops"}, categories[0])
	assert.Equal(t, CategoryDTO{Value: "post_harvest", Label: "Post-Harvest"}, categories[6])
}
