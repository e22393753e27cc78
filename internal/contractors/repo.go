package contractors

import (
	"context"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes contractor persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contractors repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a contractor row.
func (r *Repository) Create(ctx context.Context, contractor *models.Contractor) (*models.Contractor, error) {
	if err := r.db.WithContext(ctx).Create(contractor).Error; err != nil {
		return nil, err
	}
	return contractor, nil
}

// List returns all contractors, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Contractor, error) {
	var rows []models.Contractor
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a contractor by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Contractor, error) {
	var c models.Contractor
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
