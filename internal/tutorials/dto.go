package tutorials

import (
	"io"
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgpagination "github.com/bernardo0921/AgriGuide-Backend/pkg/pagination"
	"github.com/google/uuid"
)

// UploaderDTO is the compact user shape embedded in tutorial payloads.
type UploaderDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
}

// TutorialDTO is a catalog entry with resolved media URLs.
type TutorialDTO struct {
	ID            uuid.UUID    `json:"id"`
	Uploader      *UploaderDTO `json:"uploader"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Category      string       `json:"category"`
	CategoryLabel string       `json:"category_label"`
	VideoURL      *string      `json:"video_url"`
	ThumbnailURL  *string      `json:"thumbnail_url"`
	ViewCount     int64        `json:"view_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CategoryDTO is one entry of the categories listing.
type CategoryDTO struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FileInput carries one multipart file into the service.
type FileInput struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// CreateTutorialRequest is the payload for uploading a tutorial.
type CreateTutorialRequest struct {
	Title       string
	Description string
	Category    string
	Video       *FileInput
	Thumbnail   *FileInput
}

// UpdateTutorialRequest carries partial tutorial edits. Nil fields are untouched.
type UpdateTutorialRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// ListParams filters and paginates the catalog.
type ListParams struct {
	Search     string
	Category   string
	UploaderID *uuid.UUID
	pkgpagination.Params
}

// ListResult is one catalog page plus the cursor for the next.
type ListResult struct {
	Items  []TutorialDTO `json:"items"`
	Cursor string        `json:"cursor"`
}

type listQuery struct {
	search     string
	category   *enums.TutorialCategory
	uploaderID *uuid.UUID
	limit      int
	cursor     *pkgpagination.Cursor
}

func toUploaderDTO(u *models.User) *UploaderDTO {
	if u == nil {
		return nil
	}
	return &UploaderDTO{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName(),
	}
}
