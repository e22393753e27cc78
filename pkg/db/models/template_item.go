package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateItem joins a template to a master item with a planning default
// quantity. (template_id, master_item_id) is unique.
type TemplateItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TemplateID      uuid.UUID `gorm:"column:template_id;type:uuid;not null;uniqueIndex:idx_template_items_pair"`
	MasterItemID    uuid.UUID `gorm:"column:master_item_id;type:uuid;not null;uniqueIndex:idx_template_items_pair"`
	DefaultQuantity int       `gorm:"column:default_quantity;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`

	MasterItem *MasterItem `gorm:"foreignKey:MasterItemID"`
}
