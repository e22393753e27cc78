package catalog

import (
	"context"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes catalog reference-data lookups.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveMasterItems returns the active catalog ordered by category then code.
func (r *Repository) ListActiveMasterItems(ctx context.Context) ([]models.MasterItem, error) {
	var items []models.MasterItem
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("category ASC").
		Order("code ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListTemplates returns active templates with their items, ordered by name.
func (r *Repository) ListTemplates(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Preload("Items.MasterItem").
		Order("name ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// FindTemplateByID loads a template with its items.
func (r *Repository) FindTemplateByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var tpl models.Template
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&tpl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}
