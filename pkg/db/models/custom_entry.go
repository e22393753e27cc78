package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomEntry is an ad-hoc, non-catalog line item on a job card. A nil
// UnitPrice means "not yet priced"; only admins may set it later.
type CustomEntry struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobCardID   uuid.UUID        `gorm:"column:job_card_id;type:uuid;not null;index"`
	Description string           `gorm:"column:description;not null"`
	Quantity    int              `gorm:"column:quantity;not null;default:1"`
	UnitPrice   *decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2)"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
