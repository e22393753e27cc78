package jobs

import (
	"context"
	"testing"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJobsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	jobsDDL := `
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  workspace_id TEXT NOT NULL,
  name TEXT NOT NULL,
  customer_name TEXT,
  address TEXT NOT NULL,
  template_id TEXT,
  contractor_id TEXT,
  permitted INTEGER NOT NULL DEFAULT 0,
  permit_fee NUMERIC NOT NULL DEFAULT 250.00,
  scheduled_start DATETIME,
  scheduled_end DATETIME,
  status TEXT NOT NULL DEFAULT 'open',
  wave_invoice_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	jobCards := `
CREATE TABLE IF NOT EXISTS job_cards (
  id TEXT PRIMARY KEY,
  job_id TEXT NOT NULL UNIQUE,
  closed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	jobItems := `
CREATE TABLE IF NOT EXISTS job_items (
  id TEXT PRIMARY KEY,
  job_card_id TEXT NOT NULL,
  master_item_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (job_card_id, master_item_id)
);`
	for _, ddl := range []string{jobsDDL, jobCards, jobItems} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	for _, table := range []string{"job_items", "job_cards", "jobs"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func testJob() *models.Job {
	name := "Jordan"
	return &models.Job{
		ID:           uuid.New(),
		WorkspaceID:  uuid.New(),
		Name:         "Panel swap",
		CustomerName: &name,
		Address:      "12 Main St",
		Status:       enums.JobStatusOpen,
		PermitFee:    decimal.New(25000, -2),
	}
}

func TestCreateWithCardPopulatesZeroQuantityItems(t *testing.T) {
	db := setupJobsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	templateItems := []models.TemplateItem{
		{ID: uuid.New(), MasterItemID: uuid.New(), DefaultQuantity: 6},
		{ID: uuid.New(), MasterItemID: uuid.New(), DefaultQuantity: 2},
	}

	created, err := repo.CreateWithCard(ctx, testJob(), true, templateItems)
	require.NoError(t, err)
	require.NotNil(t, created.JobCard)

	var items []models.JobItem
	require.NoError(t, db.Where("job_card_id = ?", created.JobCard.ID).Find(&items).Error)
	require.Len(t, items, 2)
	for _, item := range items {
		// Defaults are planning numbers, never starting counts.
		assert.Equal(t, 0, item.Quantity)
	}
}

func TestCreateWithCardSkipsCardWhenNotRequested(t *testing.T) {
	db := setupJobsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateWithCard(ctx, testJob(), false, nil)
	require.NoError(t, err)
	assert.Nil(t, created.JobCard)

	var count int64
	require.NoError(t, db.Model(&models.JobCard{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestFindByID(t *testing.T) {
	db := setupJobsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateWithCard(ctx, testJob(), false, nil)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, found.Name)

	_, err = repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
