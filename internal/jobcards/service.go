package jobcards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bremray/bremray-backend/pkg/db/models"
	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository interface {
	ListOpenPrimary(ctx context.Context, workspaceSlug string) ([]models.JobCard, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.JobCard, error)
	IncrementItemQuantity(ctx context.Context, cardID, itemID uuid.UUID, delta int) (int, error)
	AddCustomEntry(ctx context.Context, entry *models.CustomEntry) (*models.CustomEntry, error)
	Close(ctx context.Context, id uuid.UUID, now time.Time) (*models.JobCard, error)
	Reopen(ctx context.Context, id uuid.UUID) (*models.JobCard, error)
}

// Service drives the job-card lifecycle.
type Service interface {
	List(ctx context.Context) ([]SummaryDTO, error)
	Detail(ctx context.Context, id uuid.UUID, isAdmin bool) (*DetailDTO, error)
	IncrementItem(ctx context.Context, cardID uuid.UUID, input IncrementItemInput) (*IncrementResultDTO, error)
	AddCustomEntry(ctx context.Context, cardID uuid.UUID, input AddCustomEntryInput) (*CustomEntryDTO, error)
	Close(ctx context.Context, cardID uuid.UUID) (*TransitionDTO, error)
	Reopen(ctx context.Context, cardID uuid.UUID) (*TransitionDTO, error)
}

type service struct {
	repo repository
	now  func() time.Time
}

// NewService constructs a job-card service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("job card repository is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// IncrementItemInput is the increment-item payload. Delta may be negative.
type IncrementItemInput struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
	Delta  int       `json:"delta" validate:"required"`
}

// AddCustomEntryInput is the custom-entry payload. A caller-supplied
// unit_price is accepted on the wire but never applied; entries always
// start unpriced.
type AddCustomEntryInput struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   json.RawMessage `json:"unit_price"`
}

func (s *service) List(ctx context.Context) ([]SummaryDTO, error) {
	cards, err := s.repo.ListOpenPrimary(ctx, models.WorkspaceSlugSkyview)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list job cards")
	}
	out := make([]SummaryDTO, 0, len(cards))
	for i := range cards {
		out = append(out, presentSummary(&cards[i]))
	}
	return out, nil
}

func (s *service) Detail(ctx context.Context, id uuid.UUID, isAdmin bool) (*DetailDTO, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := presentDetail(card, isAdmin)
	return &detail, nil
}

func (s *service) IncrementItem(ctx context.Context, cardID uuid.UUID, input IncrementItemInput) (*IncrementResultDTO, error) {
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"delta": "must be non-zero"})
	}
	if _, err := s.findCard(ctx, cardID); err != nil {
		return nil, err
	}

	quantity, err := s.repo.IncrementItemQuantity(ctx, cardID, input.ItemID, input.Delta)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		case errors.Is(err, ErrNegativeQuantity):
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment item")
		}
	}
	return &IncrementResultDTO{ID: input.ItemID, Quantity: quantity}, nil
}

func (s *service) AddCustomEntry(ctx context.Context, cardID uuid.UUID, input AddCustomEntryInput) (*CustomEntryDTO, error) {
	details := map[string]string{}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		details["description"] = "is required"
	}
	if input.Quantity <= 0 {
		details["quantity"] = "must be greater than 0"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}

	if _, err := s.findCard(ctx, cardID); err != nil {
		return nil, err
	}

	// input.UnitPrice is intentionally dropped here; pricing custom work
	// is an admin step that happens later.
	entry := &models.CustomEntry{
		JobCardID:   cardID,
		Description: description,
		Quantity:    input.Quantity,
	}
	created, err := s.repo.AddCustomEntry(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist custom entry")
	}

	dto := presentCustomEntry(created, false)
	return &dto, nil
}

func (s *service) Close(ctx context.Context, cardID uuid.UUID) (*TransitionDTO, error) {
	card, err := s.repo.Close(ctx, cardID, s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job card not found")
		case errors.Is(err, ErrAlreadyClosed):
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "already closed")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close job card")
		}
	}
	return transition(card), nil
}

func (s *service) Reopen(ctx context.Context, cardID uuid.UUID) (*TransitionDTO, error) {
	card, err := s.repo.Reopen(ctx, cardID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job card not found")
		case errors.Is(err, ErrNotClosed):
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "not closed")
		case errors.Is(err, ErrJobInvoiced):
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot reopen invoiced job")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reopen job card")
		}
	}
	return transition(card), nil
}

func (s *service) findCard(ctx context.Context, id uuid.UUID) (*models.JobCard, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "job card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job card")
	}
	return card, nil
}

func transition(card *models.JobCard) *TransitionDTO {
	dto := &TransitionDTO{
		ID:       card.ID,
		ClosedAt: card.ClosedAt,
	}
	if card.Job != nil {
		dto.JobStatus = card.Job.Status
	}
	return dto
}
