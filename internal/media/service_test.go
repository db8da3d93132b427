package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/config"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubObjectStore struct {
	uploaded    map[string]string
	deleted     []string
	signErr     error
	uploadErr   error
	signedCalls int
}

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{uploaded: make(map[string]string)}
}

func (s *stubObjectStore) UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploaded[object] = contentType
	return nil
}

func (s *stubObjectStore) DeleteObject(ctx context.Context, bucket, object string) error {
	s.deleted = append(s.deleted, object)
	return nil
}

func (s *stubObjectStore) ObjectURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

func (s *stubObjectStore) SignedReadURL(bucket, object string, ttl time.Duration) (string, error) {
	s.signedCalls++
	if s.signErr != nil {
		return "", s.signErr
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s?Signature=abc", bucket, object), nil
}

func testRules() *Rules {
	return NewRules(config.MediaConfig{
		VideoMaxMB:     100,
		ThumbnailMaxMB: 5,
		ImageMaxMB:     10,
		DocumentMaxMB:  10,
	})
}

func buildMediaService(t *testing.T, store *stubObjectStore, accessMode string) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store:       store,
		Rules:       testRules(),
		Bucket:      "agriguide-media",
		AccessMode:  accessMode,
		DownloadTTL: time.Hour,
		Logger:      logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func TestUploadStoresUnderKindPrefix(t *testing.T) {
	store := newStubObjectStore()
	svc := buildMediaService(t, store, AccessModePublic)

	result, err := svc.Upload(context.Background(), enums.MediaKindTutorialVideo, "planting.mp4", 5*bytesPerMB, bytes.NewBufferString("data"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "media/tutorials/videos/"))
	assert.True(t, strings.HasSuffix(result.Key, ".mp4"))
	assert.Equal(t, "video/mp4", store.uploaded[result.Key])
	require.NotNil(t, result.URL)
	assert.Equal(t, "https://storage.googleapis.com/agriguide-media/"+result.Key, *result.URL)
}

func TestUploadRejectsBeforeStorageWrite(t *testing.T) {
	cases := []struct {
		name     string
		kind     enums.MediaKind
		filename string
		size     int64
	}{
		{"video too large", enums.MediaKindTutorialVideo, "big.mp4", 101 * bytesPerMB},
		{"video bad extension", enums.MediaKindTutorialVideo, "clip.gif", bytesPerMB},
		{"thumbnail too large", enums.MediaKindTutorialThumbnail, "thumb.png", 6 * bytesPerMB},
		{"thumbnail bad extension", enums.MediaKindTutorialThumbnail, "thumb.bmp", bytesPerMB},
		{"empty file", enums.MediaKindPostImage, "photo.jpg", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStubObjectStore()
			svc := buildMediaService(t, store, AccessModePublic)

			_, err := svc.Upload(context.Background(), tc.kind, tc.filename, tc.size, bytes.NewBuffer(nil))
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
			assert.Empty(t, store.uploaded, "nothing may reach storage on validation failure")
		})
	}
}

func TestUploadAtSizeLimitAccepted(t *testing.T) {
	store := newStubObjectStore()
	svc := buildMediaService(t, store, AccessModePublic)

	_, err := svc.Upload(context.Background(), enums.MediaKindTutorialVideo, "edge.webm", 100*bytesPerMB, bytes.NewBuffer(nil))
	require.NoError(t, err)
}

func TestUploadWrapsStorageFailure(t *testing.T) {
	store := newStubObjectStore()
	store.uploadErr = fmt.Errorf("gcs unavailable")
	svc := buildMediaService(t, store, AccessModePublic)

	_, err := svc.Upload(context.Background(), enums.MediaKindPostImage, "photo.jpg", bytesPerMB, bytes.NewBuffer(nil))
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestResolveURLSignedMode(t *testing.T) {
	store := newStubObjectStore()
	svc := buildMediaService(t, store, AccessModeSigned)

	key := "media/profile_pics/abc.jpg"
	url := svc.ResolveURL(&key)
	require.NotNil(t, url)
	assert.Contains(t, *url, "Signature=")
	assert.Equal(t, 1, store.signedCalls)
}

func TestResolveURLSignFailureDegradesToNil(t *testing.T) {
	store := newStubObjectStore()
	store.signErr = fmt.Errorf("no signer")
	svc := buildMediaService(t, store, AccessModeSigned)

	key := "media/profile_pics/abc.jpg"
	assert.Nil(t, svc.ResolveURL(&key))
}

func TestResolveURLNilKey(t *testing.T) {
	svc := buildMediaService(t, newStubObjectStore(), AccessModePublic)
	assert.Nil(t, svc.ResolveURL(nil))

	empty := ""
	assert.Nil(t, svc.ResolveURL(&empty))
}

func TestDeleteRequiresKey(t *testing.T) {
	store := newStubObjectStore()
	svc := buildMediaService(t, store, AccessModePublic)

	err := svc.Delete(context.Background(), "  ")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	require.NoError(t, svc.Delete(context.Background(), "media/community_posts/x.jpg"))
	assert.Equal(t, []string{"media/community_posts/x.jpg"}, store.deleted)
}
