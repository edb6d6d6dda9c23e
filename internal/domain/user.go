package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account record for both creators and brand members. Brand
// accounts usually carry a BrandProfile keyed by the same id; when one is
// missing the user row serves as the fallback display identity.
type User struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string `gorm:"column:display_name;not null;default:''" json:"display_name"`
	Role        string `gorm:"column:role;not null;default:'creator';index" json:"role"`
	AvatarKey   string `gorm:"column:avatar_key;not null;default:''" json:"avatar_key,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "users" }
