package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bremray/bremray-backend/internal/users"
	"github.com/bremray/bremray-backend/pkg/config"
	"github.com/bremray/bremray-backend/pkg/db"
	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/bremray/bremray-backend/pkg/logger"
	"github.com/bremray/bremray-backend/pkg/security"
)

// Development seed: the three workspaces, a starter catalog, one template,
// and an admin + tech login. Idempotent; safe to re-run.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	password := flag.String("password", "bremray-dev", "password for the seeded users")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(context.Background(), "refusing to seed", fmt.Errorf("environment is %s", cfg.App.Env))
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := seed(ctx, dbClient.DB(), cfg, *password); err != nil {
		logg.Error(ctx, "seed failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seed complete")
}

func seed(ctx context.Context, conn *gorm.DB, cfg *config.Config, password string) error {
	slugs := map[string]string{
		models.WorkspaceSlugSkyview:     "Skyview Electric",
		models.WorkspaceSlugContractors: "Contractors",
		models.WorkspaceSlugRayno:       "Rayno",
	}
	bySlug := map[string]*models.Workspace{}
	for slug, name := range slugs {
		ws := &models.Workspace{}
		err := conn.WithContext(ctx).
			Where(models.Workspace{Slug: slug}).
			Attrs(models.Workspace{Name: name}).
			FirstOrCreate(ws).Error
		if err != nil {
			return fmt.Errorf("workspace %s: %w", slug, err)
		}
		bySlug[slug] = ws
	}

	items := []models.MasterItem{
		{Code: "REC-15", Description: "Duplex receptacle 15A", BasePrice: decimal.New(4250, -2), Category: enums.ItemCategoryElectrical, Unit: "each", Active: true},
		{Code: "SW-1P", Description: "Single-pole switch", BasePrice: decimal.New(3800, -2), Category: enums.ItemCategoryElectrical, Unit: "each", Active: true},
		{Code: "BRK-20", Description: "20A breaker", BasePrice: decimal.New(6500, -2), Category: enums.ItemCategoryElectrical, Unit: "each", Active: true},
		{Code: "TSTAT", Description: "Thermostat rough-in", BasePrice: decimal.New(12000, -2), Category: enums.ItemCategoryHVAC, Unit: "each", Active: true},
		{Code: "MISC-HR", Description: "Miscellaneous labour", BasePrice: decimal.New(9500, -2), Category: enums.ItemCategoryGeneral, Unit: "hour", Active: true},
	}
	byCode := map[string]*models.MasterItem{}
	for i := range items {
		item := &models.MasterItem{}
		err := conn.WithContext(ctx).
			Where(models.MasterItem{Code: items[i].Code}).
			Attrs(items[i]).
			FirstOrCreate(item).Error
		if err != nil {
			return fmt.Errorf("master item %s: %w", items[i].Code, err)
		}
		byCode[item.Code] = item
	}

	tpl := &models.Template{}
	minimum := decimal.New(45000, -2)
	err := conn.WithContext(ctx).
		Where(models.Template{WorkspaceID: bySlug[models.WorkspaceSlugSkyview].ID, Name: "Standard install"}).
		Attrs(models.Template{MinimumPrice: &minimum, Active: true}).
		FirstOrCreate(tpl).Error
	if err != nil {
		return fmt.Errorf("template: %w", err)
	}
	for code, qty := range map[string]int{"REC-15": 6, "SW-1P": 4, "BRK-20": 1} {
		line := &models.TemplateItem{}
		err := conn.WithContext(ctx).
			Where(models.TemplateItem{TemplateID: tpl.ID, MasterItemID: byCode[code].ID}).
			Attrs(models.TemplateItem{DefaultQuantity: qty}).
			FirstOrCreate(line).Error
		if err != nil {
			return fmt.Errorf("template item %s: %w", code, err)
		}
	}

	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	repo := users.NewRepository(conn)
	logins := []users.CreateUserDTO{
		{Name: "Dev Admin", Email: strPtr("admin@bremray.test"), Role: enums.UserRoleAdmin, PasswordHash: hash},
		{Name: "Dev Tech", Phone: strPtr("+15550100001"), Role: enums.UserRoleTech, PasswordHash: hash},
	}
	for _, dto := range logins {
		var existing int64
		q := conn.WithContext(ctx).Model(&models.User{})
		if dto.Email != nil {
			q = q.Where("email = ?", *dto.Email)
		} else {
			q = q.Where("phone = ?", *dto.Phone)
		}
		if err := q.Count(&existing).Error; err != nil {
			return fmt.Errorf("lookup user %s: %w", dto.Name, err)
		}
		if existing > 0 {
			continue
		}
		if _, err := repo.Create(ctx, dto); err != nil {
			return fmt.Errorf("create user %s: %w", dto.Name, err)
		}
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
