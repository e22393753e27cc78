package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Template is a named, workspace-scoped bundle of master items.
// (workspace_id, name) is unique.
type Template struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkspaceID  uuid.UUID        `gorm:"column:workspace_id;type:uuid;not null;uniqueIndex:idx_templates_workspace_name"`
	Name         string           `gorm:"column:name;not null;uniqueIndex:idx_templates_workspace_name"`
	MinimumPrice *decimal.Decimal `gorm:"column:minimum_price;type:numeric(10,2)"`
	Active       bool             `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	Workspace *Workspace     `gorm:"foreignKey:WorkspaceID"`
	Items     []TemplateItem `gorm:"foreignKey:TemplateID"`
}
