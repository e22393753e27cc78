package models

import (
	"time"

	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Job is one unit of work at an address for a workspace.
type Job struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkspaceID    uuid.UUID       `gorm:"column:workspace_id;type:uuid;not null;index:idx_jobs_workspace_status"`
	Name           string          `gorm:"column:name;not null"`
	CustomerName   *string         `gorm:"column:customer_name"`
	Address        string          `gorm:"column:address;not null"`
	TemplateID     *uuid.UUID      `gorm:"column:template_id;type:uuid"`
	ContractorID   *uuid.UUID      `gorm:"column:contractor_id;type:uuid"`
	Permitted      bool            `gorm:"column:permitted;not null;default:false"`
	PermitFee      decimal.Decimal `gorm:"column:permit_fee;type:numeric(10,2);default:250.00"`
	ScheduledStart *time.Time      `gorm:"column:scheduled_start"`
	ScheduledEnd   *time.Time      `gorm:"column:scheduled_end"`
	Status         enums.JobStatus `gorm:"column:status;type:text;not null;default:'open';index:idx_jobs_workspace_status"`
	WaveInvoiceID  *string         `gorm:"column:wave_invoice_id"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Workspace  *Workspace  `gorm:"foreignKey:WorkspaceID"`
	Template   *Template   `gorm:"foreignKey:TemplateID"`
	Contractor *Contractor `gorm:"foreignKey:ContractorID"`
	JobCard    *JobCard    `gorm:"foreignKey:JobID"`
}

// Invoiced reports whether the job has been handed to invoicing; invoiced
// jobs cannot be reopened.
func (j *Job) Invoiced() bool {
	return j != nil && j.Status == enums.JobStatusInvoiced
}
