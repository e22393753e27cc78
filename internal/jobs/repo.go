package jobs

import (
	"context"

	"github.com/bremray/bremray-backend/pkg/db"
	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes job persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a jobs repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithCard persists a job and, when withCard is set, its job card and
// one zero-quantity item per template line, as a single transaction.
func (r *Repository) CreateWithCard(ctx context.Context, job *models.Job, withCard bool, templateItems []models.TemplateItem) (*models.Job, error) {
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return err
		}
		if !withCard {
			return nil
		}

		card := &models.JobCard{ID: uuid.New(), JobID: job.ID}
		if err := tx.Create(card).Error; err != nil {
			return err
		}

		// Template defaults are planning numbers; starting counts are zero.
		for _, line := range templateItems {
			item := &models.JobItem{
				ID:           uuid.New(),
				JobCardID:    card.ID,
				MasterItemID: line.MasterItemID,
				Quantity:     0,
			}
			if err := tx.Create(item).Error; err != nil {
				return err
			}
		}

		job.JobCard = card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// FindByID loads a job by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}
