package catalog

import (
	"context"
	"fmt"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/google/uuid"
)

type repository interface {
	ListActiveMasterItems(ctx context.Context) ([]models.MasterItem, error)
	ListTemplates(ctx context.Context) ([]models.Template, error)
}

// Service exposes catalog reads shaped for the API.
type Service interface {
	MasterItemsByCategory(ctx context.Context, isAdmin bool) ([]CategoryGroup, error)
	Templates(ctx context.Context, isAdmin bool) ([]TemplateDTO, error)
}

type service struct {
	repo repository
}

// NewService constructs a catalog service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{repo: repo}, nil
}

// MasterItemDTO is the transport shape of a catalog entry. Price is present
// only for admin callers.
type MasterItemDTO struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Unit        string    `json:"unit"`
	Price       *string   `json:"price,omitempty"`
}

// CategoryGroup bundles the catalog entries of one category.
type CategoryGroup struct {
	Category enums.ItemCategory `json:"category"`
	Items    []MasterItemDTO    `json:"items"`
}

// TemplateItemDTO is one line of a template.
type TemplateItemDTO struct {
	ID              uuid.UUID     `json:"id"`
	MasterItem      MasterItemDTO `json:"master_item"`
	DefaultQuantity int           `json:"default_quantity"`
}

// TemplateDTO is the transport shape of a template with its items.
type TemplateDTO struct {
	ID           uuid.UUID         `json:"id"`
	WorkspaceID  uuid.UUID         `json:"workspace_id"`
	Name         string            `json:"name"`
	MinimumPrice *string           `json:"minimum_price,omitempty"`
	Items        []TemplateItemDTO `json:"items"`
}

func (s *service) MasterItemsByCategory(ctx context.Context, isAdmin bool) ([]CategoryGroup, error) {
	items, err := s.repo.ListActiveMasterItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list master items")
	}

	groups := make([]CategoryGroup, 0)
	for _, item := range items {
		dto := masterItemDTO(item, isAdmin)
		if n := len(groups); n > 0 && groups[n-1].Category == item.Category {
			groups[n-1].Items = append(groups[n-1].Items, dto)
			continue
		}
		groups = append(groups, CategoryGroup{
			Category: item.Category,
			Items:    []MasterItemDTO{dto},
		})
	}
	return groups, nil
}

func (s *service) Templates(ctx context.Context, isAdmin bool) ([]TemplateDTO, error) {
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list templates")
	}

	out := make([]TemplateDTO, 0, len(templates))
	for _, tpl := range templates {
		dto := TemplateDTO{
			ID:          tpl.ID,
			WorkspaceID: tpl.WorkspaceID,
			Name:        tpl.Name,
			Items:       make([]TemplateItemDTO, 0, len(tpl.Items)),
		}
		if isAdmin && tpl.MinimumPrice != nil {
			price := tpl.MinimumPrice.StringFixed(2)
			dto.MinimumPrice = &price
		}
		for _, line := range tpl.Items {
			itemDTO := TemplateItemDTO{
				ID:              line.ID,
				DefaultQuantity: line.DefaultQuantity,
			}
			if line.MasterItem != nil {
				itemDTO.MasterItem = masterItemDTO(*line.MasterItem, isAdmin)
			}
			dto.Items = append(dto.Items, itemDTO)
		}
		out = append(out, dto)
	}
	return out, nil
}

func masterItemDTO(item models.MasterItem, isAdmin bool) MasterItemDTO {
	dto := MasterItemDTO{
		ID:          item.ID,
		Code:        item.Code,
		Description: item.Description,
		Unit:        item.Unit,
	}
	if isAdmin {
		price := item.BasePrice.StringFixed(2)
		dto.Price = &price
	}
	return dto
}
