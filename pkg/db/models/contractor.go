package models

import (
	"time"

	"github.com/google/uuid"
)

// Contractor is an external party attached to jobs in the contractors
// workspace. The access token is generated once at creation and never
// rotated through this model.
type Contractor struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyName string    `gorm:"column:company_name;not null"`
	ContactName *string   `gorm:"column:contact_name"`
	Phone       string    `gorm:"column:phone;not null;uniqueIndex"`
	Email       *string   `gorm:"column:email"`
	Active      bool      `gorm:"column:active;not null;default:true"`
	AccessToken string    `gorm:"column:access_token;uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
