package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Campaign struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BrandID uuid.UUID `gorm:"type:uuid;not null;index" json:"brand_id"`

	Title   string `gorm:"column:title;not null" json:"title"`
	OrgName string `gorm:"column:org_name;not null;default:''" json:"org_name"`
	Status  string `gorm:"column:status;not null;default:'open';index" json:"status"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Campaign) TableName() string { return "campaigns" }
