package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rating is the single post-project rating for an application. The unique
// index on application_id is the source of truth for "one rating per
// project"; a second insert surfaces as a duplicate-key conflict.
type Rating struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`

	Score    int    `gorm:"column:score;not null" json:"score"`
	Feedback string `gorm:"column:feedback;type:text;not null;default:''" json:"feedback,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Rating) TableName() string { return "ratings" }
