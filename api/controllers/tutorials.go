package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/bernardo0921/AgriGuide-Backend/api/middleware"
	"github.com/bernardo0921/AgriGuide-Backend/api/responses"
	"github.com/bernardo0921/AgriGuide-Backend/api/validators"
	"github.com/bernardo0921/AgriGuide-Backend/internal/tutorials"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
)

const tutorialUploadMemoryLimit = 32 << 20

// TutorialCreate accepts a multipart upload with the video, an optional
// thumbnail, and the catalog fields. Extension workers only.
func TutorialCreate(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorial service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(tutorialUploadMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		req := tutorials.CreateTutorialRequest{
			Title:       strings.TrimSpace(r.FormValue("title")),
			Description: strings.TrimSpace(r.FormValue("description")),
			Category:    r.FormValue("category"),
		}

		video, videoCloser := formFileInput(r, "video")
		if videoCloser != nil {
			defer videoCloser.Close()
		}
		req.Video = video

		thumbnail, thumbCloser := formFileInput(r, "thumbnail")
		if thumbCloser != nil {
			defer thumbCloser.Close()
		}
		req.Thumbnail = thumbnail

		userType := enums.UserType(middleware.UserTypeFromContext(r.Context()))
		tutorial, err := svc.Create(r.Context(), userID, userType, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, tutorial)
	}
}

func formFileInput(r *http.Request, field string) (*tutorials.FileInput, multipart.File) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return &tutorials.FileInput{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	}, file
}

// TutorialList returns one catalog page with search and category filters.
func TutorialList(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorial service unavailable"))
			return
		}

		page, err := feedParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), tutorials.ListParams{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Category: r.URL.Query().Get("category"),
			Params:   page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// MyTutorials lists the caller's uploads. Extension workers only (enforced by
// route middleware).
func MyTutorials(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorial service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := feedParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), tutorials.ListParams{
			UploaderID: &userID,
			Params:     page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// TutorialGet returns a single tutorial.
func TutorialGet(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorial service unavailable"))
			return
		}

		id, err := pathUUID(r, "tutorialID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tutorial, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tutorial)
	}
}

// TutorialUpdate edits catalog fields. Only the uploader may edit.
func TutorialUpdate(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorial service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "tutorialID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body tutorials.UpdateTutorialRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tutorial, err := svc.Update(r.Context(), userID, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tutorial)
	}
}

// TutorialDelete removes a tutorial and its stored media. Only the uploader.
func TutorialDelete(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorial service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathUUID(r, "tutorialID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Tutorial deleted"})
	}
}

// TutorialIncrementViews bumps the view counter and returns the fresh count.
func TutorialIncrementViews(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorial service unavailable"))
			return
		}

		id, err := pathUUID(r, "tutorialID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tutorial, err := svc.IncrementViews(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tutorial)
	}
}

// TutorialCategories lists the closed category set with display labels.
func TutorialCategories(svc tutorials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tutorial service unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": svc.Categories()})
	}
}
