package jobcards

import (
	"context"
	"errors"
	"time"

	"github.com/bremray/bremray-backend/pkg/db"
	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lifecycle guard failures surfaced by the repository. The service layer
// maps these onto API error codes.
var (
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrAlreadyClosed    = errors.New("already closed")
	ErrNotClosed        = errors.New("not closed")
	ErrJobInvoiced      = errors.New("cannot reopen invoiced job")
)

// Repository exposes job-card persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a job-cards repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListOpenPrimary returns cards of open jobs in the primary workspace,
// newest first, with the parent job and items loaded.
func (r *Repository) ListOpenPrimary(ctx context.Context, workspaceSlug string) ([]models.JobCard, error) {
	var cards []models.JobCard
	err := r.db.WithContext(ctx).
		Joins("JOIN jobs ON jobs.id = job_cards.job_id").
		Joins("JOIN workspaces ON workspaces.id = jobs.workspace_id").
		Where("jobs.status = ?", enums.JobStatusOpen).
		Where("workspaces.slug = ?", workspaceSlug).
		Preload("Job").
		Preload("JobItems").
		Order("job_cards.created_at DESC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// FindByID loads a card with its job, items (catalog rows included), and
// custom entries.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.JobCard, error) {
	var card models.JobCard
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("JobItems.MasterItem").
		Preload("CustomEntries").
		First(&card, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// IncrementItemQuantity applies delta to one item's quantity as a single
// guarded UPDATE: the row only changes when the result stays non-negative,
// so concurrent deltas can never lose an update or drive the count below
// zero. Returns the new quantity.
func (r *Repository) IncrementItemQuantity(ctx context.Context, cardID, itemID uuid.UUID, delta int) (int, error) {
	res := r.db.WithContext(ctx).
		Model(&models.JobItem{}).
		Where("id = ? AND job_card_id = ? AND quantity + ? >= 0", itemID, cardID, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		// Distinguish a missing item from a guard rejection.
		var existing models.JobItem
		err := r.db.WithContext(ctx).
			First(&existing, "id = ? AND job_card_id = ?", itemID, cardID).Error
		if err != nil {
			return 0, err
		}
		return existing.Quantity, ErrNegativeQuantity
	}

	var updated models.JobItem
	if err := r.db.WithContext(ctx).First(&updated, "id = ?", itemID).Error; err != nil {
		return 0, err
	}
	return updated.Quantity, nil
}

// AddCustomEntry persists a custom entry row.
func (r *Repository) AddCustomEntry(ctx context.Context, entry *models.CustomEntry) (*models.CustomEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Close sets the card's closed timestamp and flips the parent job to
// `closed` in one transaction.
func (r *Repository) Close(ctx context.Context, id uuid.UUID, now time.Time) (*models.JobCard, error) {
	var card models.JobCard
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Preload("Job").First(&card, "id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Model(&models.JobCard{}).
			Where("id = ? AND closed_at IS NULL", id).
			UpdateColumn("closed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyClosed
		}

		if err := tx.Model(&models.Job{}).
			Where("id = ?", card.JobID).
			UpdateColumn("status", enums.JobStatusClosed).Error; err != nil {
			return err
		}

		card.ClosedAt = &now
		card.Job.Status = enums.JobStatusClosed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Reopen clears the card's closed timestamp and flips the parent job back
// to `open` in one transaction. The not-closed check runs before the
// invoiced check.
func (r *Repository) Reopen(ctx context.Context, id uuid.UUID) (*models.JobCard, error) {
	var card models.JobCard
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Preload("Job").First(&card, "id = ?", id).Error; err != nil {
			return err
		}
		if card.ClosedAt == nil {
			return ErrNotClosed
		}
		if card.Job != nil && card.Job.Invoiced() {
			return ErrJobInvoiced
		}

		res := tx.Model(&models.JobCard{}).
			Where("id = ? AND closed_at IS NOT NULL", id).
			UpdateColumn("closed_at", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotClosed
		}

		if err := tx.Model(&models.Job{}).
			Where("id = ?", card.JobID).
			UpdateColumn("status", enums.JobStatusOpen).Error; err != nil {
			return err
		}

		card.ClosedAt = nil
		card.Job.Status = enums.JobStatusOpen
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}
