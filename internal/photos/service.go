package photos

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/bremray/bremray-backend/pkg/db/models"
	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/bremray/bremray-backend/pkg/logger"
	"github.com/bremray/bremray-backend/pkg/storage/r2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type photoRepository interface {
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Photo, error)
	FindByID(ctx context.Context, jobID, id uuid.UUID) (*models.Photo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type jobRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// Service manages job photo attachments: bytes in object storage, metadata
// in the database.
type Service interface {
	Upload(ctx context.Context, jobID uuid.UUID, uploadedBy string, files []UploadFile) ([]PhotoDTO, error)
	List(ctx context.Context, jobID uuid.UUID) ([]PhotoDTO, error)
	Delete(ctx context.Context, jobID, photoID uuid.UUID) error
	DownloadURL(ctx context.Context, jobID, photoID uuid.UUID) (string, error)
}

type service struct {
	repo       photoRepository
	jobs       jobRepository
	store      r2.ObjectStore
	logg       *logger.Logger
	maxBytes   int64
	now        func() time.Time
	randSuffix func() string
}

// ServiceParams bundles the dependencies required to build a photos service.
type ServiceParams struct {
	Repo        photoRepository
	JobRepo     jobRepository
	Store       r2.ObjectStore
	Logger      *logger.Logger
	MaxUploadMB int
}

// NewService constructs a photos service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("photo repository is required")
	}
	if params.JobRepo == nil {
		return nil, fmt.Errorf("job repository is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		repo:       params.Repo,
		jobs:       params.JobRepo,
		store:      params.Store,
		logg:       params.Logger,
		maxBytes:   int64(params.MaxUploadMB) * 1024 * 1024,
		now:        time.Now,
		randSuffix: randomSuffix,
	}, nil
}

// UploadFile is one decoded multipart part.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// PhotoDTO is the transport shape of a photo.
type PhotoDTO struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload stores each file in object storage and records its metadata. Every
// part is validated before the first byte leaves the process; a mid-batch
// storage failure stops the batch but keeps the photos already saved.
func (s *service) Upload(ctx context.Context, jobID uuid.UUID, uploadedBy string, files []UploadFile) ([]PhotoDTO, error) {
	if len(files) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files provided")
	}

	job, err := s.findJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if _, ok := allowedContentTypes[file.ContentType]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").
				WithDetails(map[string]string{"content_type": fmt.Sprintf("%s is not an accepted image type", file.ContentType)})
		}
		if int64(len(file.Data)) > s.maxBytes {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "file too large").
				WithDetails(map[string]string{"size": fmt.Sprintf("exceeds %d bytes", s.maxBytes)})
		}
		if len(file.Data) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty file")
		}
	}

	out := make([]PhotoDTO, 0, len(files))
	for _, file := range files {
		key := s.objectKey(job.ID, file.ContentType)
		// Storage failures surface as a plain 422 to the uploader, not a
		// dependency outage.
		if err := s.store.PutObject(ctx, key, file.ContentType, file.Data); err != nil {
			return out, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload failed")
		}

		photo := &models.Photo{
			JobID:       job.ID,
			URL:         s.store.PublicObjectURL(key),
			Key:         key,
			Size:        int64(len(file.Data)),
			ContentType: file.ContentType,
			UploadedBy:  uploadedBy,
		}
		created, err := s.repo.Create(ctx, photo)
		if err != nil {
			return out, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist photo")
		}
		out = append(out, present(created))
	}
	return out, nil
}

// List returns a job's photos newest first.
func (s *service) List(ctx context.Context, jobID uuid.UUID) ([]PhotoDTO, error) {
	if _, err := s.findJob(ctx, jobID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list photos")
	}
	out := make([]PhotoDTO, 0, len(rows))
	for i := range rows {
		out = append(out, present(&rows[i]))
	}
	return out, nil
}

// Delete removes the metadata row and best-effort removes the stored object.
// A storage failure is logged and swallowed so the photo never lingers in
// the API after the row is gone.
func (s *service) Delete(ctx context.Context, jobID, photoID uuid.UUID) error {
	photo, err := s.findPhoto(ctx, jobID, photoID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteObject(ctx, photo.Key); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "photo_key", photo.Key), "photo object delete failed", err)
	}

	if err := s.repo.Delete(ctx, photo.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete photo")
	}
	return nil
}

// DownloadURL resolves the public URL for one photo.
func (s *service) DownloadURL(ctx context.Context, jobID, photoID uuid.UUID) (string, error) {
	photo, err := s.findPhoto(ctx, jobID, photoID)
	if err != nil {
		return "", err
	}
	return photo.URL, nil
}

func (s *service) findJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup job")
	}
	return job, nil
}

func (s *service) findPhoto(ctx context.Context, jobID, photoID uuid.UUID) (*models.Photo, error) {
	photo, err := s.repo.FindByID(ctx, jobID, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "photo not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup photo")
	}
	return photo, nil
}

func (s *service) objectKey(jobID uuid.UUID, contentType string) string {
	stamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("jobs/%s/%s_%s%s", jobID, stamp, s.randSuffix(), allowedContentTypes[contentType])
}

func present(photo *models.Photo) PhotoDTO {
	return PhotoDTO{
		ID:          photo.ID,
		JobID:       photo.JobID,
		URL:         photo.URL,
		ContentType: photo.ContentType,
		Size:        photo.Size,
		UploadedBy:  photo.UploadedBy,
		CreatedAt:   photo.CreatedAt,
	}
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()[:8]
	}
	return hex.EncodeToString(buf)
}
