package photos

import (
	"context"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes photo metadata persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a photos repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a photo row.
func (r *Repository) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	if err := r.db.WithContext(ctx).Create(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

// ListByJob returns a job's photos newest first.
func (r *Repository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Photo, error) {
	var out []models.Photo
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID loads one photo scoped to its job.
func (r *Repository) FindByID(ctx context.Context, jobID, id uuid.UUID) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).
		First(&photo, "id = ? AND job_id = ?", id, jobID).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// Delete removes a photo row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Photo{}, "id = ?", id).Error
}
