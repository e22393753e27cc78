package models

import (
	"time"

	"github.com/google/uuid"
)

// JobCard is the technician-facing checklist for a job, one-to-one and
// cascade-deleted with it. A nil ClosedAt means the card is open.
type JobCard struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobID     uuid.UUID  `gorm:"column:job_id;type:uuid;not null;uniqueIndex"`
	ClosedAt  *time.Time `gorm:"column:closed_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Job           *Job          `gorm:"foreignKey:JobID"`
	JobItems      []JobItem     `gorm:"foreignKey:JobCardID"`
	CustomEntries []CustomEntry `gorm:"foreignKey:JobCardID"`
}

// Closed reports whether the card has a closed timestamp set.
func (c *JobCard) Closed() bool {
	return c != nil && c.ClosedAt != nil
}
