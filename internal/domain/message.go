package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index:idx_message_conversation_created,priority:1" json:"conversation_id"`

	SenderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	SenderKind string    `gorm:"column:sender_kind;not null;default:'user'" json:"sender_kind"`

	Body string `gorm:"column:body;type:text;not null;default:''" json:"body"`
	Read bool   `gorm:"column:read;not null;default:false;index" json:"read"`

	CreatedAt time.Time      `gorm:"not null;default:now();index:idx_message_conversation_created,priority:2" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Message) TableName() string { return "messages" }
