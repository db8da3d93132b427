package controllers

import (
	"context"
	"html/template"
	"net/http"

	"github.com/bernardo0921/AgriGuide-Backend/api/responses"
	"github.com/bernardo0921/AgriGuide-Backend/internal/community"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
)

var postFallbackPage = template.Must(template.New("post_fallback").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Post by {{.AuthorName}} on AgriGuide</title>
</head>
<body>
<h1>AgriGuide Community</h1>
<p><strong>{{.AuthorName}}</strong> shared a post:</p>
<blockquote>{{.ContentPreview}}</blockquote>
<p>Get the AgriGuide app to see the full post and join the conversation.</p>
<p><a href="{{.AndroidStoreLink}}">Download on Google Play</a></p>
<p><a href="{{.IOSStoreLink}}">Download on the App Store</a></p>
</body>
</html>
`))

var postNotFoundPage = template.Must(template.New("post_not_found").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Post not found</title>
</head>
<body>
<h1>Post not found</h1>
<p>The post you are looking for does not exist or has been deleted.</p>
<p><a href="{{.AndroidStoreLink}}">Get the AgriGuide app</a></p>
</body>
</html>
`))

// DeepLinkPostData serves a post payload for app deep links. No auth, so the
// response never carries viewer-specific state.
func DeepLinkPostData(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		post, err := svc.PostData(r.Context(), postID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, post)
	}
}

// DeepLinkPostFallback renders the web page shown when a shared post link is
// opened on a device without the app installed.
func DeepLinkPostFallback(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		postID, err := pathUUID(r, "postID")
		if err != nil {
			renderPostNotFound(r.Context(), w, logg)
			return
		}

		page, err := svc.FallbackPage(r.Context(), postID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				renderPostNotFound(r.Context(), w, logg)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := postFallbackPage.Execute(w, page); err != nil && logg != nil {
			logg.Error(r.Context(), "render post fallback page", err)
		}
	}
}

func renderPostNotFound(ctx context.Context, w http.ResponseWriter, logg *logger.Logger) {
	w.WriteHeader(http.StatusNotFound)
	data := struct{ AndroidStoreLink string }{AndroidStoreLink: community.AndroidStoreLink}
	if err := postNotFoundPage.Execute(w, data); err != nil && logg != nil {
		logg.Error(ctx, "render post not found page", err)
	}
}

// DeepLinkPostMetadata serves Open Graph key-value pairs for link previews.
func DeepLinkPostMetadata(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		metadata, err := svc.ShareMetadata(r.Context(), postID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, metadata)
	}
}

// DeepLinkTrackShare acknowledges a share event for an existing post.
func DeepLinkTrackShare(svc community.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "community service unavailable"))
			return
		}

		postID, err := pathUUID(r, "postID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.TrackShare(r.Context(), postID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Share tracked"})
	}
}
