package media

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/config"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
)

const bytesPerMB = 1 << 20

// keyPrefixesByKind mirrors the bucket layout the mobile clients already
// depend on. Changing a prefix orphans every object stored under the old one.
var keyPrefixesByKind = map[enums.MediaKind]string{
	enums.MediaKindProfilePicture:       "media/profile_pics",
	enums.MediaKindTutorialVideo:        "media/tutorials/videos",
	enums.MediaKindTutorialThumbnail:    "media/tutorials/thumbnails",
	enums.MediaKindPostImage:            "media/community_posts",
	enums.MediaKindVerificationDocument: "media/verification_docs",
}

var allowedExtensionsByKind = map[enums.MediaKind]map[string]bool{
	enums.MediaKindProfilePicture:       {".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
	enums.MediaKindTutorialVideo:        {".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true},
	enums.MediaKindTutorialThumbnail:    {".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
	enums.MediaKindPostImage:            {".jpg": true, ".jpeg": true, ".png": true, ".webp": true},
	enums.MediaKindVerificationDocument: {".pdf": true, ".jpg": true, ".jpeg": true, ".png": true},
}

var contentTypesByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".pdf":  "application/pdf",
}

// Rules validates upload candidates per media kind before any storage write.
type Rules struct {
	cfg config.MediaConfig
}

// NewRules builds the validator from the configured size limits.
func NewRules(cfg config.MediaConfig) *Rules {
	return &Rules{cfg: cfg}
}

// MaxBytes returns the size ceiling for the given kind.
func (r *Rules) MaxBytes(kind enums.MediaKind) int64 {
	switch kind {
	case enums.MediaKindTutorialVideo:
		return int64(r.cfg.VideoMaxMB) * bytesPerMB
	case enums.MediaKindTutorialThumbnail:
		return int64(r.cfg.ThumbnailMaxMB) * bytesPerMB
	case enums.MediaKindVerificationDocument:
		return int64(r.cfg.DocumentMaxMB) * bytesPerMB
	default:
		return int64(r.cfg.ImageMaxMB) * bytesPerMB
	}
}

// Validate rejects files whose extension or size is out of bounds for the
// kind. It never touches storage.
func (r *Rules) Validate(kind enums.MediaKind, filename string, size int64) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	allowed := allowedExtensionsByKind[kind]
	if !allowed[ext] {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unsupported file type %q, allowed: %s", ext, allowedExtensionList(kind)))
	}
	if size <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if max := r.MaxBytes(kind); size > max {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %dMB limit", max/bytesPerMB))
	}
	return nil
}

// ContentType maps the file extension to the MIME type sent to storage.
func ContentType(filename string) string {
	if ct, ok := contentTypesByExtension[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// KeyPrefix returns the bucket namespace for the kind.
func KeyPrefix(kind enums.MediaKind) string {
	return keyPrefixesByKind[kind]
}

func allowedExtensionList(kind enums.MediaKind) string {
	exts := make([]string, 0, len(allowedExtensionsByKind[kind]))
	for ext := range allowedExtensionsByKind[kind] {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
