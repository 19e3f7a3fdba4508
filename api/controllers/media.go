package controllers

import (
	"io"
	"net/http"

	"github.com/campuscart/campuscart-backend/api/middleware"
	"github.com/campuscart/campuscart-backend/api/responses"
	mediasvc "github.com/campuscart/campuscart-backend/internal/media"
	"github.com/campuscart/campuscart-backend/pkg/config"
	"github.com/campuscart/campuscart-backend/pkg/enums"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/logger"
)

// MediaUpload accepts a multipart file and stores it, returning its public URL.
// The form carries the file under "file" and the media kind under "kind".
func MediaUpload(svc mediasvc.Service, cfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		// Leave headroom for the multipart framing around the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes()+1<<20)
		if err := r.ParseMultipartForm(cfg.MaxUploadBytes()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading upload"))
			return
		}

		out, err := svc.Upload(r.Context(), middleware.UserIDFromContext(r.Context()), mediasvc.UploadInput{
			Kind:     enums.MediaKind(r.FormValue("kind")),
			MimeType: header.Header.Get("Content-Type"),
			FileName: header.Filename,
			Data:     data,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, out)
	}
}
