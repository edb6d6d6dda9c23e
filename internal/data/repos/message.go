package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error)
	ListByConversation(dbc dbctx.Context, conversationID uuid.UUID, limit int) ([]*types.Message, error)

	// CountUnreadByConversations tallies unread incoming messages across all
	// given conversations in one grouped query. Conversations with no unread
	// messages are absent from the result.
	CountUnreadByConversations(dbc dbctx.Context, conversationIDs []uuid.UUID, recipientID uuid.UUID) (map[uuid.UUID]int64, error)

	// LatestByConversations fetches the single most recent message per
	// conversation in one query (DISTINCT ON). Conversations with no
	// messages are absent from the result.
	LatestByConversations(dbc dbctx.Context, conversationIDs []uuid.UUID) (map[uuid.UUID]*types.Message, error)

	// MarkConversationRead flips every unread incoming message in the
	// conversation in a single bulk update.
	MarkConversationRead(dbc dbctx.Context, conversationID uuid.UUID, recipientID uuid.UUID) error
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error) {
	if len(rows) == 0 {
		return []*types.Message{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageRepo) ListByConversation(dbc dbctx.Context, conversationID uuid.UUID, limit int) ([]*types.Message, error) {
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("missing conversation_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Message
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type unreadCountRow struct {
	ConversationID uuid.UUID `gorm:"column:conversation_id"`
	Unread         int64     `gorm:"column:unread"`
}

func (r *messageRepo) CountUnreadByConversations(dbc dbctx.Context, conversationIDs []uuid.UUID, recipientID uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return out, nil
	}
	if recipientID == uuid.Nil {
		return nil, fmt.Errorf("missing recipient_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []unreadCountRow
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Select("conversation_id, COUNT(*) AS unread").
		Where("conversation_id IN ?", conversationIDs).
		Where("read = ?", false).
		Where("sender_id <> ?", recipientID).
		Group("conversation_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ConversationID] = row.Unread
	}
	return out, nil
}

func (r *messageRepo) LatestByConversations(dbc dbctx.Context, conversationIDs []uuid.UUID) (map[uuid.UUID]*types.Message, error) {
	out := make(map[uuid.UUID]*types.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return out, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []*types.Message
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Select("DISTINCT ON (conversation_id) *").
		Where("conversation_id IN ?", conversationIDs).
		Order("conversation_id, created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ConversationID] = m
	}
	return out, nil
}

func (r *messageRepo) MarkConversationRead(dbc dbctx.Context, conversationID uuid.UUID, recipientID uuid.UUID) error {
	if conversationID == uuid.Nil {
		return fmt.Errorf("missing conversation_id")
	}
	if recipientID == uuid.Nil {
		return fmt.Errorf("missing recipient_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Message{}).
		Where("conversation_id = ?", conversationID).
		Where("read = ?", false).
		Where("sender_id <> ?", recipientID).
		Update("read", true).Error
}
