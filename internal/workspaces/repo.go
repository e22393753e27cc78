package workspaces

import (
	"context"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes workspace lookups.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a workspaces repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindBySlug retrieves the workspace with the given slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&ws).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// FindByID loads a workspace by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	var ws models.Workspace
	if err := r.db.WithContext(ctx).First(&ws, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}
