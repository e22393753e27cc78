package contractors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bremray/bremray-backend/pkg/db"
	"github.com/bremray/bremray-backend/pkg/db/models"
	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/bremray/bremray-backend/pkg/security"
	"github.com/google/uuid"
)

type repository interface {
	Create(ctx context.Context, contractor *models.Contractor) (*models.Contractor, error)
	List(ctx context.Context) ([]models.Contractor, error)
}

// Service manages contractor records.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ContractorDTO, error)
	List(ctx context.Context) ([]ContractorDTO, error)
}

type service struct {
	repo          repository
	generateToken func() (string, error)
}

// NewService constructs a contractor service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contractor repository is required")
	}
	return &service{
		repo:          repo,
		generateToken: security.GenerateAccessToken,
	}, nil
}

// CreateInput is the payload for registering a contractor.
type CreateInput struct {
	CompanyName string `json:"company_name" validate:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// ContractorDTO is the transport shape. The access token is returned once,
// on creation, and never listed afterwards.
type ContractorDTO struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	ContactName *string   `json:"contact_name,omitempty"`
	Phone       string    `json:"phone"`
	Email       *string   `json:"email,omitempty"`
	Active      bool      `json:"active"`
	AccessToken string    `json:"access_token,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ContractorDTO, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"phone": "is required"})
	}

	token, err := s.generateToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate access token")
	}

	row := &models.Contractor{
		CompanyName: strings.TrimSpace(input.CompanyName),
		Phone:       phone,
		Active:      true,
		AccessToken: token,
	}
	if v := strings.TrimSpace(input.ContactName); v != "" {
		row.ContactName = &v
	}
	if v := strings.TrimSpace(input.Email); v != "" {
		row.Email = &v
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist contractor")
	}

	dto := fromModel(created)
	dto.AccessToken = created.AccessToken
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]ContractorDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contractors")
	}
	out := make([]ContractorDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func fromModel(c *models.Contractor) ContractorDTO {
	return ContractorDTO{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Email:       c.Email,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}
