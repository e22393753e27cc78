package models

import (
	"time"

	"github.com/google/uuid"
)

// JobItem records how many of one catalog item were installed on a job card.
// (job_card_id, master_item_id) is unique; quantity never goes negative.
type JobItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobCardID    uuid.UUID `gorm:"column:job_card_id;type:uuid;not null;uniqueIndex:idx_job_items_pair"`
	MasterItemID uuid.UUID `gorm:"column:master_item_id;type:uuid;not null;uniqueIndex:idx_job_items_pair"`
	Quantity     int       `gorm:"column:quantity;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	MasterItem *MasterItem `gorm:"foreignKey:MasterItemID"`
}
