package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BrandProfile is the primary display identity for a brand. Its id is the
// brand's user id, so conversations reference a single counterpart id space.
type BrandProfile struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name         string `gorm:"column:name;not null" json:"name"`
	ContactEmail string `gorm:"column:contact_email;not null;default:''" json:"contact_email"`
	AvatarKey    string `gorm:"column:avatar_key;not null;default:''" json:"avatar_key,omitempty"`
	Website      string `gorm:"column:website;not null;default:''" json:"website,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (BrandProfile) TableName() string { return "brand_profiles" }
