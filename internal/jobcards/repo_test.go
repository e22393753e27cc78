package jobcards

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bremray/bremray-backend/pkg/db/models"
	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJobCardsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	workspaces := `
CREATE TABLE IF NOT EXISTS workspaces (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  settings TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	masterItems := `
CREATE TABLE IF NOT EXISTS master_items (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL,
  base_price NUMERIC NOT NULL,
  category TEXT,
  unit TEXT NOT NULL DEFAULT 'each',
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	jobs := `
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
	customEntries := `
CREATE TABLE IF NOT EXISTS custom_entries (
  id TEXT PRIMARY KEY,
  job_card_id TEXT NOT NULL,
  description TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  unit_price NUMERIC,
  created_at DATETIME,
  updated_at DATETIME
);`
	for _, ddl := range []string{workspaces, masterItems, jobs, jobCards, jobItems, customEntries} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	// The shared-cache DB survives across tests in the package; start clean.
	for _, table := range []string{"custom_entries", "job_items", "job_cards", "jobs", "master_items", "workspaces"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func newWorkspace(t *testing.T, db *gorm.DB, slug string) *models.Workspace {
	t.Helper()

	ws := &models.Workspace{ID: uuid.New(), Name: slug, Slug: slug}
	require.NoError(t, db.Create(ws).Error)
	return ws
}

func newJobWithCard(t *testing.T, db *gorm.DB, ws *models.Workspace, status enums.JobStatus, created time.Time) *models.JobCard {
	t.Helper()

	name := "Customer"
	job := &models.Job{
		ID:           uuid.New(),
		WorkspaceID:  ws.ID,
		Name:         "Job at " + created.Format(time.RFC3339),
		CustomerName: &name,
		Address:      "12 Main St",
		Status:       status,
		PermitFee:    decimal.New(25000, -2),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	require.NoError(t, db.Create(job).Error)

	card := &models.JobCard{
		ID:        uuid.New(),
		JobID:     job.ID,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, db.Create(card).Error)
	card.Job = job
	return card
}

func newJobItem(t *testing.T, db *gorm.DB, cardID uuid.UUID, quantity int) *models.JobItem {
	t.Helper()

	master := &models.MasterItem{
		ID:          uuid.New(),
		Code:        "IT-" + uuid.NewString()[:8],
		Description: "Duplex receptacle",
		BasePrice:   decimal.New(4250, -2),
		Category:    enums.ItemCategoryElectrical,
		Unit:        "each",
		Active:      true,
	}
	require.NoError(t, db.Create(master).Error)

	item := &models.JobItem{
		ID:           uuid.New(),
		JobCardID:    cardID,
		MasterItemID: master.ID,
		Quantity:     quantity,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryListOpenPrimary(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	skyview := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	rayno := newWorkspace(t, db, models.WorkspaceSlugRayno)

	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	older := newJobWithCard(t, db, skyview, enums.JobStatusOpen, base)
	newer := newJobWithCard(t, db, skyview, enums.JobStatusOpen, base.Add(time.Hour))
	newJobWithCard(t, db, skyview, enums.JobStatusClosed, base.Add(2*time.Hour))
	newJobWithCard(t, db, rayno, enums.JobStatusOpen, base.Add(3*time.Hour))

	newJobItem(t, db, newer.ID, 3)
	newJobItem(t, db, newer.ID, 2)

	cards, err := repo.ListOpenPrimary(ctx, models.WorkspaceSlugSkyview)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, newer.ID, cards[0].ID)
	assert.Equal(t, older.ID, cards[1].ID)
	require.NotNil(t, cards[0].Job)
	assert.Equal(t, newer.JobID, cards[0].Job.ID)
	assert.Len(t, cards[0].JobItems, 2)
}

func TestRepositoryIncrementItemQuantity(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ws := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	card := newJobWithCard(t, db, ws, enums.JobStatusOpen, time.Now().UTC())
	item := newJobItem(t, db, card.ID, 0)

	for _, step := range []struct {
		delta int
		want  int
	}{
		{5, 5}, {4, 9}, {-2, 7}, {1, 8},
	} {
		got, err := repo.IncrementItemQuantity(ctx, card.ID, item.ID, step.delta)
		require.NoError(t, err)
		assert.Equal(t, step.want, got)
	}
}

func TestRepositoryIncrementItemQuantityNeverLosesUpdates(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ws := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	card := newJobWithCard(t, db, ws, enums.JobStatusOpen, time.Now().UTC())
	item := newJobItem(t, db, card.ID, 0)

	// Two callers adding one each must land on 2: the delta is applied in
	// SQL, not read-modify-written in Go.
	for i := 0; i < 2; i++ {
		_, err := repo.IncrementItemQuantity(ctx, card.ID, item.ID, 1)
		require.NoError(t, err)
	}

	var stored models.JobItem
	require.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, 2, stored.Quantity)
}

func TestRepositoryIncrementItemQuantityRejectsNegativeResult(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ws := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	card := newJobWithCard(t, db, ws, enums.JobStatusOpen, time.Now().UTC())
	item := newJobItem(t, db, card.ID, 2)

	got, err := repo.IncrementItemQuantity(ctx, card.ID, item.ID, -3)
	require.ErrorIs(t, err, ErrNegativeQuantity)
	assert.Equal(t, 2, got)

	var stored models.JobItem
	require.NoError(t, db.First(&stored, "id = ?", item.ID).Error)
	assert.Equal(t, 2, stored.Quantity, "rejected delta must not mutate the row")
}

func TestRepositoryIncrementItemQuantityUnknownItem(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ws := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	card := newJobWithCard(t, db, ws, enums.JobStatusOpen, time.Now().UTC())

	_, err := repo.IncrementItemQuantity(ctx, card.ID, uuid.New(), 1)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryCloseAndReopen(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ws := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	card := newJobWithCard(t, db, ws, enums.JobStatusOpen, time.Now().UTC())
	closedAt := time.Date(2025, 6, 2, 17, 30, 0, 0, time.UTC)

	closed, err := repo.Close(ctx, card.ID, closedAt)
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, enums.JobStatusClosed, closed.Job.Status)

	var job models.Job
	require.NoError(t, db.First(&job, "id = ?", card.JobID).Error)
	assert.Equal(t, enums.JobStatusClosed, job.Status)

	// Closing twice is a state conflict and leaves the timestamp alone.
	_, err = repo.Close(ctx, card.ID, closedAt.Add(time.Minute))
	require.ErrorIs(t, err, ErrAlreadyClosed)

	var stored models.JobCard
	require.NoError(t, db.First(&stored, "id = ?", card.ID).Error)
	require.NotNil(t, stored.ClosedAt)
	assert.Equal(t, closedAt.Unix(), stored.ClosedAt.UTC().Unix())

	reopened, err := repo.Reopen(ctx, card.ID)
	require.NoError(t, err)
	assert.Nil(t, reopened.ClosedAt)
	assert.Equal(t, enums.JobStatusOpen, reopened.Job.Status)

	require.NoError(t, db.First(&job, "id = ?", card.JobID).Error)
	assert.Equal(t, enums.JobStatusOpen, job.Status)
}

func TestRepositoryReopenRequiresClosedCard(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ws := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	card := newJobWithCard(t, db, ws, enums.JobStatusOpen, time.Now().UTC())

	_, err := repo.Reopen(ctx, card.ID)
	require.ErrorIs(t, err, ErrNotClosed)
}

func TestRepositoryReopenRefusesInvoicedJob(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ws := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	card := newJobWithCard(t, db, ws, enums.JobStatusOpen, time.Now().UTC())

	_, err := repo.Close(ctx, card.ID, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Job{}).
		Where("id = ?", card.JobID).
		UpdateColumn("status", enums.JobStatusInvoiced).Error)

	_, err = repo.Reopen(ctx, card.ID)
	require.ErrorIs(t, err, ErrJobInvoiced)

	// The card must stay closed.
	var stored models.JobCard
	require.NoError(t, db.First(&stored, "id = ?", card.ID).Error)
	assert.NotNil(t, stored.ClosedAt)
}

func TestRepositoryReopenChecksNotClosedBeforeInvoiced(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ws := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	card := newJobWithCard(t, db, ws, enums.JobStatusInvoiced, time.Now().UTC())

	_, err := repo.Reopen(ctx, card.ID)
	require.ErrorIs(t, err, ErrNotClosed)
}

func TestRepositoryAddCustomEntry(t *testing.T) {
	db := setupJobCardsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ws := newWorkspace(t, db, models.WorkspaceSlugSkyview)
	card := newJobWithCard(t, db, ws, enums.JobStatusOpen, time.Now().UTC())

	entry := &models.CustomEntry{
		ID:          uuid.New(),
		JobCardID:   card.ID,
		Description: "Trench for feeder",
		Quantity:    2,
	}
	created, err := repo.AddCustomEntry(ctx, entry)
	require.NoError(t, err)
	assert.Nil(t, created.UnitPrice)

	loaded, err := repo.FindByID(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, loaded.CustomEntries, 1)
	assert.Equal(t, "Trench for feeder", loaded.CustomEntries[0].Description)
}
