package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// Application is a creator's application to a brand campaign. Approved
// applications are what turn a brand conversation into a project thread.
type Application struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;index" json:"applicant_id"`
	CampaignID  uuid.UUID `gorm:"type:uuid;not null;index" json:"campaign_id"`

	Status    string    `gorm:"column:status;not null;default:'pending';index" json:"status"`
	AppliedAt time.Time `gorm:"column:applied_at;not null;default:now()" json:"applied_at"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Application) TableName() string { return "applications" }
