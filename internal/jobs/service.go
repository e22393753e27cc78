package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var defaultPermitFee = decimal.New(25000, -2) // 250.00

type jobRepository interface {
	CreateWithCard(ctx context.Context, job *models.Job, withCard bool, templateItems []models.TemplateItem) (*models.Job, error)
}

type workspaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
}

type templateRepository interface {
	FindTemplateByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

// Service creates jobs and applies the job-card auto-creation rules.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*JobDTO, error)
}

type service struct {
	jobs       jobRepository
	workspaces workspaceRepository
	templates  templateRepository
}

// ServiceParams bundles the dependencies required to build a jobs service.
type ServiceParams struct {
	JobRepo       jobRepository
	WorkspaceRepo workspaceRepository
	TemplateRepo  templateRepository
}

// NewService constructs a jobs service.
func NewService(params ServiceParams) (Service, error) {
	if params.JobRepo == nil {
		return nil, fmt.Errorf("job repository is required")
	}
	if params.WorkspaceRepo == nil {
		return nil, fmt.Errorf("workspace repository is required")
	}
	if params.TemplateRepo == nil {
		return nil, fmt.Errorf("template repository is required")
	}
	return &service{
		jobs:       params.JobRepo,
		workspaces: params.WorkspaceRepo,
		templates:  params.TemplateRepo,
	}, nil
}

// CreateInput is the payload for creating a job.
type CreateInput struct {
	WorkspaceID    uuid.UUID  `json:"workspace_id" validate:"required"`
	Name           string     `json:"name" validate:"required"`
	CustomerName   string     `json:"customer_name"`
	Address        string     `json:"address" validate:"required"`
	TemplateID     *uuid.UUID `json:"template_id"`
	ContractorID   *uuid.UUID `json:"contractor_id"`
	Permitted      bool       `json:"permitted"`
	PermitFee      *string    `json:"permit_fee"`
	ScheduledStart *time.Time `json:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduled_end"`
}

// JobDTO is the transport shape of a created job.
type JobDTO struct {
	ID           uuid.UUID       `json:"id"`
	WorkspaceID  uuid.UUID       `json:"workspace_id"`
	Name         string          `json:"name"`
	CustomerName *string         `json:"customer_name,omitempty"`
	Address      string          `json:"address"`
	Status       enums.JobStatus `json:"status"`
	Permitted    bool            `json:"permitted"`
	PermitFee    string          `json:"permit_fee"`
	TemplateID   *uuid.UUID      `json:"template_id,omitempty"`
	ContractorID *uuid.UUID      `json:"contractor_id,omitempty"`
	JobCardID    *uuid.UUID      `json:"job_card_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (s *service) Create(ctx context.Context, input CreateInput) (*JobDTO, error) {
	ws, err := s.workspaces.FindByID(ctx, input.WorkspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "workspace not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup workspace")
	}

	customerName := strings.TrimSpace(input.CustomerName)
	if ws.Slug == models.WorkspaceSlugSkyview && customerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"customer_name": "is required"})
	}

	var templateItems []models.TemplateItem
	if input.TemplateID != nil {
		tpl, err := s.templates.FindTemplateByID(ctx, *input.TemplateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup template")
		}
		if tpl.WorkspaceID != ws.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"template_id": "belongs to another workspace"})
		}
		templateItems = tpl.Items
	}

	permitFee := defaultPermitFee
	if input.PermitFee != nil {
		parsed, err := decimal.NewFromString(strings.TrimSpace(*input.PermitFee))
		if err != nil || parsed.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"permit_fee": "must be a non-negative decimal"})
		}
		permitFee = parsed
	}

	job := &models.Job{
		WorkspaceID:    ws.ID,
		Name:           strings.TrimSpace(input.Name),
		Address:        strings.TrimSpace(input.Address),
		TemplateID:     input.TemplateID,
		ContractorID:   input.ContractorID,
		Permitted:      input.Permitted,
		PermitFee:      permitFee,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		Status:         enums.JobStatusOpen,
	}
	if customerName != "" {
		job.CustomerName = &customerName
	}

	withCard := cardRequired(ws.Slug, input.TemplateID)
	created, err := s.jobs.CreateWithCard(ctx, job, withCard, templateItems)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist job")
	}

	dto := &JobDTO{
		ID:           created.ID,
		WorkspaceID:  created.WorkspaceID,
		Name:         created.Name,
		CustomerName: created.CustomerName,
		Address:      created.Address,
		Status:       created.Status,
		Permitted:    created.Permitted,
		PermitFee:    created.PermitFee.StringFixed(2),
		TemplateID:   created.TemplateID,
		ContractorID: created.ContractorID,
		CreatedAt:    created.CreatedAt,
	}
	if created.JobCard != nil {
		id := created.JobCard.ID
		dto.JobCardID = &id
	}
	return dto, nil
}

// cardRequired implements the auto-creation rule: skyview jobs always get a
// card; rayno jobs only when created from a template.
func cardRequired(slug string, templateID *uuid.UUID) bool {
	switch slug {
	case models.WorkspaceSlugSkyview:
		return true
	case models.WorkspaceSlugRayno:
		return templateID != nil
	default:
		return false
	}
}
