package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/creatorlinkhq/creatorlink-backend/internal/domain"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/dbctx"
	"github.com/creatorlinkhq/creatorlink-backend/internal/pkg/logger"
)

type CampaignRepo interface {
	Create(dbc dbctx.Context, rows []*types.Campaign) ([]*types.Campaign, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Campaign, error)
}

type campaignRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampaignRepo(db *gorm.DB, log *logger.Logger) CampaignRepo {
	return &campaignRepo{db: db, log: log.With("repo", "CampaignRepo")}
}

func (r *campaignRepo) Create(dbc dbctx.Context, rows []*types.Campaign) ([]*types.Campaign, error) {
	if len(rows) == 0 {
		return []*types.Campaign{}, nil
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

func (r *campaignRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Campaign, error) {
	if len(ids) == 0 {
		return []*types.Campaign{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Campaign
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Campaign{}).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
