package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Conversation is a raw message thread between the owner (a creator) and a
// brand. Several rows may exist per brand (one per campaign context); the
// inbox collapses them into a single logical thread per brand.
type Conversation struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	BrandID uuid.UUID `gorm:"type:uuid;not null;index" json:"brand_id"`

	CampaignID *uuid.UUID `gorm:"type:uuid;column:campaign_id;index" json:"campaign_id,omitempty"`

	Title string         `gorm:"column:title;not null;default:''" json:"title"`
	Tags  datatypes.JSON `gorm:"type:jsonb;column:tags;not null;default:'[]'" json:"tags,omitempty"`

	LastActivityAt time.Time `gorm:"column:last_activity_at;not null;default:now();index" json:"last_activity_at"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Conversation) TableName() string { return "conversations" }
