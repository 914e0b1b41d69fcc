package controllers

import (
	"errors"
	"net/http"

	"github.com/tabegoro/tabegoro-backend/api/responses"
	"github.com/tabegoro/tabegoro-backend/internal/uploads"
	pkgerrors "github.com/tabegoro/tabegoro-backend/pkg/errors"
	"github.com/tabegoro/tabegoro-backend/pkg/logger"
)

const uploadFormField = "image"

// UploadImage accepts one multipart image and stores it under an opaque name.
func UploadImage(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "uploads service unavailable"))
			return
		}

		if _, err := currentUserID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		maxBytes := svc.MaxUploadBytes()
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the upload limit"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile(uploadFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image field is required"))
			return
		}
		defer file.Close()

		out, err := svc.UploadImage(r.Context(), uploads.UploadInput{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			SizeBytes:   header.Size,
			Body:        file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, out)
	}
}
