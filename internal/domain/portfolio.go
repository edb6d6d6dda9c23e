package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PortfolioImage references an object in the media bucket. DisplayOrder is
// the only mutable presentation field and is written in a single batched
// upsert so a partial reorder can never be observed.
type PortfolioImage struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	ObjectKey    string `gorm:"column:object_key;not null" json:"object_key"`
	Caption      string `gorm:"column:caption;not null;default:''" json:"caption,omitempty"`
	DisplayOrder int    `gorm:"column:display_order;not null;default:0;index" json:"display_order"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PortfolioImage) TableName() string { return "portfolio_images" }
