package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo is binary attachment metadata for a job; the bytes live in object
// storage under Key.
type Photo struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	JobID       uuid.UUID `gorm:"column:job_id;type:uuid;not null;index:idx_photos_job_created"`
	URL         string    `gorm:"column:url;not null"`
	Key         string    `gorm:"column:key;not null;uniqueIndex"`
	Size        int64     `gorm:"column:size;not null"`
	ContentType string    `gorm:"column:content_type;not null"`
	UploadedBy  string    `gorm:"column:uploaded_by;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index:idx_photos_job_created"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
