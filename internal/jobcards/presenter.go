package jobcards

import (
	"time"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/google/uuid"
)

// The presenter shapes job-card state for the API. Price fields exist only
// in admin payloads; tech payloads omit the key entirely rather than
// sending null or zero.

// JobSummary is the nested job block on card payloads.
type JobSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CustomerName *string   `json:"customer_name,omitempty"`
	Address      string    `json:"address"`
}

// SummaryDTO is the list-endpoint shape. It never includes prices.
type SummaryDTO struct {
	ID         uuid.UUID  `json:"id"`
	Job        JobSummary `json:"job"`
	TotalItems int        `json:"total_items"`
	CreatedAt  time.Time  `json:"created_at"`
}

// MasterItemRef is the nested catalog block on an item line.
type MasterItemRef struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
}

// ItemDTO is one catalog line on the detail payload.
type ItemDTO struct {
	ID         uuid.UUID     `json:"id"`
	MasterItem MasterItemRef `json:"master_item"`
	Quantity   int           `json:"quantity"`
	Price      *string       `json:"price,omitempty"`
}

// CustomEntryDTO is one free-form line on the detail payload.
type CustomEntryDTO struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	UnitPrice   *string   `json:"unit_price,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DetailDTO is the single-card shape.
type DetailDTO struct {
	ID            uuid.UUID        `json:"id"`
	Job           JobSummary       `json:"job"`
	Permitted     bool             `json:"permitted"`
	TotalItems    int              `json:"total_items"`
	Items         []ItemDTO        `json:"items"`
	CustomEntries []CustomEntryDTO `json:"custom_entries"`
	ClosedAt      *time.Time       `json:"closed_at"`
	CreatedAt     time.Time        `json:"created_at"`
}

// TransitionDTO is the close/reopen response shape.
type TransitionDTO struct {
	ID        uuid.UUID       `json:"id"`
	ClosedAt  *time.Time      `json:"closed_at"`
	JobStatus enums.JobStatus `json:"job_status"`
}

// IncrementResultDTO is the increment-item response shape.
type IncrementResultDTO struct {
	ID       uuid.UUID `json:"id"`
	Quantity int       `json:"quantity"`
}

func presentSummary(card *models.JobCard) SummaryDTO {
	return SummaryDTO{
		ID:         card.ID,
		Job:        presentJob(card.Job),
		TotalItems: totalItems(card),
		CreatedAt:  card.CreatedAt,
	}
}

func presentDetail(card *models.JobCard, isAdmin bool) DetailDTO {
	detail := DetailDTO{
		ID:            card.ID,
		Job:           presentJob(card.Job),
		TotalItems:    totalItems(card),
		Items:         make([]ItemDTO, 0, len(card.JobItems)),
		CustomEntries: make([]CustomEntryDTO, 0, len(card.CustomEntries)),
		ClosedAt:      card.ClosedAt,
		CreatedAt:     card.CreatedAt,
	}
	if card.Job != nil {
		detail.Permitted = card.Job.Permitted
	}
	for i := range card.JobItems {
		detail.Items = append(detail.Items, presentItem(&card.JobItems[i], isAdmin))
	}
	for i := range card.CustomEntries {
		detail.CustomEntries = append(detail.CustomEntries, presentCustomEntry(&card.CustomEntries[i], isAdmin))
	}
	return detail
}

func presentItem(item *models.JobItem, isAdmin bool) ItemDTO {
	dto := ItemDTO{
		ID:       item.ID,
		Quantity: item.Quantity,
	}
	if item.MasterItem != nil {
		dto.MasterItem = MasterItemRef{
			ID:          item.MasterItem.ID,
			Code:        item.MasterItem.Code,
			Description: item.MasterItem.Description,
		}
		if isAdmin {
			price := item.MasterItem.BasePrice.StringFixed(2)
			dto.Price = &price
		}
	}
	return dto
}

func presentCustomEntry(entry *models.CustomEntry, isAdmin bool) CustomEntryDTO {
	dto := CustomEntryDTO{
		ID:          entry.ID,
		Description: entry.Description,
		Quantity:    entry.Quantity,
		CreatedAt:   entry.CreatedAt,
	}
	if isAdmin && entry.UnitPrice != nil {
		price := entry.UnitPrice.StringFixed(2)
		dto.UnitPrice = &price
	}
	return dto
}

func presentJob(job *models.Job) JobSummary {
	if job == nil {
		return JobSummary{}
	}
	return JobSummary{
		ID:           job.ID,
		Name:         job.Name,
		CustomerName: job.CustomerName,
		Address:      job.Address,
	}
}

func totalItems(card *models.JobCard) int {
	total := 0
	for i := range card.JobItems {
		total += card.JobItems[i].Quantity
	}
	return total
}
