package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Well-known workspace slugs with hard-coded business meaning.
const (
	WorkspaceSlugSkyview     = "skyview"
	WorkspaceSlugContractors = "contractors"
	WorkspaceSlugRayno       = "rayno"
)

// Workspace is the tenant partition owning templates and jobs.
type Workspace struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Slug      string          `gorm:"column:slug;not null;uniqueIndex"`
	Settings  json.RawMessage `gorm:"column:settings;type:jsonb;default:'{}'"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
