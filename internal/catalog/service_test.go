package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubCatalogRepo struct {
	items     []models.MasterItem
	templates []models.Template
}

func (s *stubCatalogRepo) ListActiveMasterItems(context.Context) ([]models.MasterItem, error) {
	return s.items, nil
}

func (s *stubCatalogRepo) ListTemplates(context.Context) ([]models.Template, error) {
	return s.templates, nil
}

func TestMasterItemsGroupedByCategory(t *testing.T) {
	repo := &stubCatalogRepo{items: []models.MasterItem{
		{ID: uuid.New(), Code: "EL-100", Description: "Outlet", Category: enums.ItemCategoryElectrical, BasePrice: decimal.RequireFromString("42.50"), Unit: "each"},
		{ID: uuid.New(), Code: "EL-200", Description: "Switch", Category: enums.ItemCategoryElectrical, BasePrice: decimal.RequireFromString("18.00"), Unit: "each"},
		{ID: uuid.New(), Code: "GN-001", Description: "Service call", Category: enums.ItemCategoryGeneral, BasePrice: decimal.RequireFromString("95.00"), Unit: "each"},
	}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	groups, err := svc.MasterItemsByCategory(context.Background(), true)
	if err != nil {
		t.Fatalf("MasterItemsByCategory: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups got %d", len(groups))
	}
	if groups[0].Category != enums.ItemCategoryElectrical || len(groups[0].Items) != 2 {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
	if got := *groups[0].Items[0].Price; got != "42.50" {
		t.Fatalf("expected price 42.50 got %s", got)
	}
}

func TestMasterItemsOmitPriceForTechs(t *testing.T) {
	repo := &stubCatalogRepo{items: []models.MasterItem{
		{ID: uuid.New(), Code: "EL-100", Description: "Outlet", Category: enums.ItemCategoryElectrical, BasePrice: decimal.RequireFromString("42.50"), Unit: "each"},
	}}
	svc, _ := NewService(repo)

	groups, err := svc.MasterItemsByCategory(context.Background(), false)
	if err != nil {
		t.Fatalf("MasterItemsByCategory: %v", err)
	}

	raw, err := json.Marshal(groups)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "price") {
		t.Fatalf("tech payload must not contain a price key: %s", raw)
	}
}

func TestTemplatesIncludeItemsAndAdminMinimumPrice(t *testing.T) {
	min := decimal.RequireFromString("500.00")
	master := models.MasterItem{ID: uuid.New(), Code: "EL-100", Description: "Outlet", BasePrice: decimal.RequireFromString("42.50"), Unit: "each"}
	repo := &stubCatalogRepo{templates: []models.Template{
		{
			ID:           uuid.New(),
			WorkspaceID:  uuid.New(),
			Name:         "Panel upgrade",
			MinimumPrice: &min,
			Items: []models.TemplateItem{
				{ID: uuid.New(), MasterItem: &master, DefaultQuantity: 4},
			},
		},
	}}
	svc, _ := NewService(repo)

	admin, err := svc.Templates(context.Background(), true)
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	if len(admin) != 1 || len(admin[0].Items) != 1 {
		t.Fatalf("unexpected templates %+v", admin)
	}
	if admin[0].MinimumPrice == nil || *admin[0].MinimumPrice != "500.00" {
		t.Fatalf("expected admin minimum price, got %+v", admin[0].MinimumPrice)
	}
	if admin[0].Items[0].DefaultQuantity != 4 {
		t.Fatalf("expected default quantity 4 got %d", admin[0].Items[0].DefaultQuantity)
	}

	tech, err := svc.Templates(context.Background(), false)
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	if tech[0].MinimumPrice != nil {
		t.Fatalf("tech payload must not include minimum price")
	}
	if tech[0].Items[0].MasterItem.Price != nil {
		t.Fatalf("tech payload must not include item price")
	}
}
