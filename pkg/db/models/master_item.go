package models

import (
	"time"

	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MasterItem is a reusable priced catalog entry. Shared reference data,
// never owned by a job.
type MasterItem struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string             `gorm:"column:code;not null;uniqueIndex"`
	Description string             `gorm:"column:description;not null"`
	BasePrice   decimal.Decimal    `gorm:"column:base_price;type:numeric(10,2);not null"`
	Category    enums.ItemCategory `gorm:"column:category;type:text"`
	Unit        string             `gorm:"column:unit;not null;default:'each'"`
	Active      bool               `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
