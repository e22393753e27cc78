package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/bremray/bremray-backend/api/middleware"
	"github.com/bremray/bremray-backend/api/responses"
	"github.com/bremray/bremray-backend/internal/photos"
	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/bremray/bremray-backend/pkg/logger"
)

// multipartMemory caps how much of an upload is buffered in memory before
// spilling to disk.
const multipartMemory = 8 << 20

// PhotosIndex lists a job's photos, newest first.
func PhotosIndex(svc photos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := urlUUID(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), jobID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// PhotosCreate accepts multipart uploads under the "photos" field.
func PhotosCreate(svc photos.Service, logg *logger.Logger, maxUploadMB int) http.HandlerFunc {
	maxBytes := int64(maxUploadMB) * 1024 * 1024
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := urlUUID(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		files, err := readUploadFiles(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		uploadedBy := middleware.UserIDFromContext(r.Context())
		created, err := svc.Upload(r.Context(), jobID, uploadedBy, files)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// PhotosDestroy deletes a photo's metadata and best-effort deletes its
// object.
func PhotosDestroy(svc photos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := urlUUID(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		photoID, err := urlUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), jobID, photoID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PhotosDownload redirects to the photo's public URL.
func PhotosDownload(svc photos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := urlUUID(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		photoID, err := urlUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.DownloadURL(r.Context(), jobID, photoID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
	}
}

func readUploadFiles(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]photos.UploadFile, error) {
	// One limit across the whole request; the service re-checks per file.
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes*4)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload too large")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "malformed multipart body")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["photos"]
	files := make([]photos.UploadFile, 0, len(headers))
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open upload part")
		}
		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload part")
		}
		files = append(files, photos.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
