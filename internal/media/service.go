package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
	"github.com/google/uuid"
)

// AccessModePublic serves stored objects through their public URLs.
// AccessModeSigned issues V2-signed GET URLs instead.
const (
	AccessModePublic = "public"
	AccessModeSigned = "signed"
)

type objectStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) error
	DeleteObject(ctx context.Context, bucket, object string) error
	ObjectURL(bucket, object string) string
	SignedReadURL(bucket, object string, ttl time.Duration) (string, error)
}

// UploadResult reports where an accepted file landed.
type UploadResult struct {
	Key string  `json:"key"`
	URL *string `json:"url"`
}

// Service validates and stores uploaded files, and resolves stored keys back
// to client-facing URLs.
type Service interface {
	Upload(ctx context.Context, kind enums.MediaKind, filename string, size int64, body io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	ResolveURL(key *string) *string
}

type service struct {
	store       objectStore
	rules       *Rules
	bucket      string
	accessMode  string
	downloadTTL time.Duration
	logg        *logger.Logger
}

// ServiceParams packages the dependencies for the media service.
type ServiceParams struct {
	Store       objectStore
	Rules       *Rules
	Bucket      string
	AccessMode  string
	DownloadTTL time.Duration
	Logger      *logger.Logger
}

// NewService builds a media service backed by the provided object store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if params.Rules == nil {
		return nil, fmt.Errorf("media rules required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	if params.AccessMode != AccessModePublic && params.AccessMode != AccessModeSigned {
		return nil, fmt.Errorf("unknown access mode %q", params.AccessMode)
	}
	if params.AccessMode == AccessModeSigned && params.DownloadTTL <= 0 {
		return nil, fmt.Errorf("download ttl must be positive for signed access")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:       params.Store,
		rules:       params.Rules,
		bucket:      params.Bucket,
		accessMode:  params.AccessMode,
		downloadTTL: params.DownloadTTL,
		logg:        params.Logger,
	}, nil
}

func (s *service) Upload(ctx context.Context, kind enums.MediaKind, filename string, size int64, body io.Reader) (*UploadResult, error) {
	if err := s.rules.Validate(kind, filename, size); err != nil {
		return nil, err
	}

	key := newObjectKey(kind, filename)
	if err := s.store.UploadObject(ctx, s.bucket, key, ContentType(filename), body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"kind": string(kind),
		"key":  key,
		"size": size,
	}), "media uploaded")

	return &UploadResult{Key: key, URL: s.ResolveURL(&key)}, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object key required")
	}
	if err := s.store.DeleteObject(ctx, s.bucket, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	return nil
}

// ResolveURL turns a stored key into a URL per the configured access mode.
// Signing failures degrade to nil rather than failing the whole payload.
func (s *service) ResolveURL(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	if s.accessMode == AccessModeSigned {
		url, err := s.store.SignedReadURL(s.bucket, *key, s.downloadTTL)
		if err != nil {
			ctx := s.logg.WithField(context.Background(), "key", *key)
			s.logg.Error(ctx, "sign read url failed", err)
			return nil
		}
		return &url
	}
	url := s.store.ObjectURL(s.bucket, *key)
	return &url
}

func newObjectKey(kind enums.MediaKind, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", KeyPrefix(kind), uuid.NewString(), ext)
}
