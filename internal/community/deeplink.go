package community

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const (
	shareBaseURL          = "https://agriguide.app/post"
	shareSiteName         = "AgriGuide Community"
	descriptionPreviewLen = 200
	fallbackPreviewLen    = 150

	AndroidStoreLink = "https://play.google.com/store/apps/details?id=com.yourcompany.agriguide"
	IOSStoreLink     = "https://apps.apple.com/app/agriguide/id123456789"
)

// FallbackPageData carries what the web fallback page renders when the app
// is not installed.
type FallbackPageData struct {
	PostID           uuid.UUID
	AuthorName       string
	ContentPreview   string
	AndroidStoreLink string
	IOSStoreLink     string
}

// truncateRunes cuts on rune boundaries so multi-byte content never yields
// invalid UTF-8 in the preview.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// PostData returns the public post payload used by app deep links. No viewer
// identity is applied, so liked_by_me is always false here.
func (s *service) PostData(ctx context.Context, postID uuid.UUID) (*PostDTO, error) {
	return s.GetPost(ctx, uuid.Nil, postID)
}

// FallbackPage returns the data behind the web page shown when a shared post
// is opened on a device without the app.
func (s *service) FallbackPage(ctx context.Context, postID uuid.UUID) (*FallbackPageData, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorName := "an AgriGuide farmer"
	if post.Author != nil {
		authorName = post.Author.FullName()
	}

	return &FallbackPageData{
		PostID:           post.ID,
		AuthorName:       authorName,
		ContentPreview:   truncateRunes(post.Content, fallbackPreviewLen),
		AndroidStoreLink: AndroidStoreLink,
		IOSStoreLink:     IOSStoreLink,
	}, nil
}

// ShareMetadata builds the Open Graph map used for rich link previews.
func (s *service) ShareMetadata(ctx context.Context, postID uuid.UUID) (map[string]string, error) {
	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authorName := "an AgriGuide farmer"
	if post.Author != nil {
		authorName = post.Author.FullName()
	}
	preview := truncateRunes(post.Content, descriptionPreviewLen)

	metadata := map[string]string{
		"og:title":       fmt.Sprintf("Post by %s on AgriGuide", authorName),
		"og:description": preview,
		"og:type":        "article",
		"og:url":         fmt.Sprintf("%s/%s", shareBaseURL, post.ID),
		"og:site_name":   shareSiteName,
	}
	if url := s.pictures.ResolveURL(post.ImageKey); url != nil {
		metadata["og:image"] = *url
	}
	return metadata, nil
}

// TrackShare acknowledges a successful share from the app. The post must
// still exist; nothing is persisted yet.
func (s *service) TrackShare(ctx context.Context, postID uuid.UUID) error {
	_, err := s.loadPost(ctx, postID)
	return err
}
