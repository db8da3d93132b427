package controllers

import (
	"net/http"
	"strings"

	"github.com/bernardo0921/AgriGuide-Backend/api/responses"
	"github.com/bernardo0921/AgriGuide-Backend/internal/media"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/logger"
)

const mediaUploadMemoryLimit = 32 << 20

// MediaUpload accepts a multipart file plus a media_kind form field, validates
// it against the kind's size and extension rules, and stores it.
func MediaUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		if _, err := callerID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(mediaUploadMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}

		kind, err := enums.ParseMediaKind(strings.TrimSpace(r.FormValue("media_kind")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid media_kind"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file is required"))
			return
		}
		defer file.Close()

		result, err := svc.Upload(r.Context(), kind, header.Filename, header.Size, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
